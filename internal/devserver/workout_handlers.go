package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	// Pointer fields distinguish "omitted" from an explicit zero:
	// sets defaults to 1 when absent, reps and duration to 0.
	var req struct {
		Exercise string `json:"exercise"`
		Sets     *int   `json:"sets"`
		Reps     *int   `json:"reps"`
		Duration *int   `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Exercise == "" {
		writeError(w, http.StatusBadRequest, "Exercise name is required")
		return
	}

	sets := 1
	if req.Sets != nil {
		sets = *req.Sets
	}
	reps := 0
	if req.Reps != nil {
		reps = *req.Reps
	}
	duration := 0
	if req.Duration != nil {
		duration = *req.Duration
	}

	userID := userIDFromContext(r)
	workout := s.store.createWorkout(userID, req.Exercise, sets, reps, duration)

	writeJSON(w, http.StatusCreated, map[string]any{
		"workout":    workout,
		"suggestion": nextSuggestion(workout.Exercise),
		"message":    "Workout logged successfully",
	})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts := s.store.listWorkouts(userIDFromContext(r))
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.store.latestWorkout(userIDFromContext(r))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"suggestion": firstSuggestion()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestion": nextSuggestion(latest.Exercise)})
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}

	workout, ok := s.store.completeWorkout(userIDFromContext(r), id)
	if !ok {
		writeError(w, http.StatusNotFound, "Workout not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout": workout,
		"message": "Workout marked as completed",
	})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}

	if !s.store.deleteWorkout(userIDFromContext(r), id) {
		writeError(w, http.StatusNotFound, "Workout not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workout deleted successfully"})
}
