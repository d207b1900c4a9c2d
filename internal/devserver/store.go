package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/alanbouo/fitlog/internal/models"
)

// account is a registered user plus its password hash. The hash never
// leaves the store.
type account struct {
	models.User
	passwordHash []byte
}

// store is the dev server's in-memory state. Everything is lost on
// restart, which is fine: this server exists for development and tests,
// real persistence belongs to the production backend.
type store struct {
	mu sync.Mutex

	users      map[int]*account
	byUsername map[string]int
	byEmail    map[string]int
	tokens     map[string]int // bearer token -> user id
	workouts   map[int]*models.Workout

	nextUserID    int
	nextWorkoutID int
}

func newStore() *store {
	return &store{
		users:      make(map[int]*account),
		byUsername: make(map[string]int),
		byEmail:    make(map[string]int),
		tokens:     make(map[string]int),
		workouts:   make(map[int]*models.Workout),
	}
}

func (s *store) createUser(username, email string, passwordHash []byte) (*models.User, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return nil, true, false
	}
	if _, taken := s.byEmail[email]; taken {
		return nil, false, true
	}

	s.nextUserID++
	acct := &account{
		User:         models.User{ID: s.nextUserID, Username: username, Email: email},
		passwordHash: passwordHash,
	}
	s.users[acct.ID] = acct
	s.byUsername[username] = acct.ID
	s.byEmail[email] = acct.ID

	u := acct.User
	return &u, false, false
}

// findUser looks an account up by username or email.
func (s *store) findUser(usernameOrEmail string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[usernameOrEmail]
	if !ok {
		id, ok = s.byEmail[usernameOrEmail]
	}
	if !ok {
		return nil, false
	}
	return s.users[id], true
}

func (s *store) user(id int) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[id]
	if !ok {
		return nil, false
	}
	u := acct.User
	return &u, true
}

func (s *store) issueToken(token string, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
}

func (s *store) revokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *store) resolveToken(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}

func (s *store) createWorkout(userID int, exercise string, sets, reps, duration int) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextWorkoutID++
	w := models.Workout{
		ID:        s.nextWorkoutID,
		UserID:    userID,
		Exercise:  exercise,
		Sets:      sets,
		Reps:      reps,
		Duration:  duration,
		Timestamp: models.Timestamp{Time: time.Now().UTC()},
	}
	s.workouts[w.ID] = &w
	return w
}

// listWorkouts returns the user's workouts newest first. Ties on the
// timestamp fall back to the id so the order is stable.
func (s *store) listWorkouts(userID int) []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Workout, 0)
	for _, w := range s.workouts {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp.Time) {
			return out[i].Timestamp.After(out[j].Timestamp.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// latestWorkout returns the user's most recent workout.
func (s *store) latestWorkout(userID int) (models.Workout, bool) {
	list := s.listWorkouts(userID)
	if len(list) == 0 {
		return models.Workout{}, false
	}
	return list[0], true
}

func (s *store) completeWorkout(userID, id int) (models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workouts[id]
	if !ok || w.UserID != userID {
		return models.Workout{}, false
	}
	w.Completed = true
	return *w, true
}

func (s *store) deleteWorkout(userID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workouts[id]
	if !ok || w.UserID != userID {
		return false
	}
	delete(s.workouts, id)
	return true
}
