package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp handles the two creation-time formats the backend has been
// observed to emit: RFC 3339 and a naive ISO 8601 datetime without zone.
type Timestamp struct {
	time.Time
}

const naiveISOLayout = "2006-01-02T15:04:05.999999"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(naiveISOLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse timestamp %q: %w", s, err)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// User is the identity record returned by the auth endpoints.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Workout is one logged exercise session. The ID and Timestamp are
// assigned by the remote store; Completed only ever goes false to true.
type Workout struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Duration  int       `json:"duration"`
	Completed bool      `json:"completed"`
	Timestamp Timestamp `json:"timestamp"`
}

// WorkoutDraft is the client-side input for creating a workout.
type WorkoutDraft struct {
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Duration int    `json:"duration"`
}

// Normalize trims the exercise name in place and reports whether the
// draft names an exercise at all.
func (d *WorkoutDraft) Normalize() bool {
	d.Exercise = strings.TrimSpace(d.Exercise)
	return d.Exercise != ""
}

// Suggestion is the next-exercise recommendation returned by the remote
// service. Sets, Reps and Duration are optional; nil means the service
// did not prescribe a value.
type Suggestion struct {
	Exercise string `json:"exercise"`
	Reason   string `json:"reason"`
	Sets     *int   `json:"sets,omitempty"`
	Reps     *int   `json:"reps,omitempty"`
	Duration *int   `json:"duration,omitempty"`
}
