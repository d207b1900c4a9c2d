// Package engine keeps the local workout list and suggestion slot in
// step with the remote store. The local copy is a cache: mutations
// apply their immediate response optimistically, then a refresh pass
// re-fetches the remote truth, and the refresh always wins.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alanbouo/fitlog/internal/api"
	"github.com/alanbouo/fitlog/internal/models"
)

// Gateway is the slice of the API client the engine uses.
type Gateway interface {
	CreateWorkout(ctx context.Context, draft models.WorkoutDraft) (*api.CreateResult, error)
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	CompleteWorkout(ctx context.Context, id int) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id int) error
	LatestSuggestion(ctx context.Context) (*models.Suggestion, error)
}

// Engine owns the in-memory workout sequence (newest first) and the
// current suggestion. All reads and writes of that state go through one
// mutex; network calls happen outside it.
type Engine struct {
	mu         sync.Mutex
	workouts   []models.Workout
	suggestion *models.Suggestion

	// Issue/apply generations guard against a stale ListWorkouts
	// response overwriting the result of a later-issued one. Same
	// scheme for the suggestion fetch.
	listIssued  int
	listApplied int
	sugIssued   int
	sugApplied  int

	gateway Gateway
	log     *slog.Logger

	// locks serializes Complete/Delete per workout id. Entries are
	// never removed; the map is bounded by the ids a session touches.
	locksMu sync.Mutex
	locks   map[int]*sync.Mutex
}

// New creates an Engine over the given gateway.
func New(gw Gateway, log *slog.Logger) *Engine {
	return &Engine{
		gateway: gw,
		log:     log,
		locks:   make(map[int]*sync.Mutex),
	}
}

// Workouts returns a copy of the local workout sequence, newest first.
func (e *Engine) Workouts() []models.Workout {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Workout, len(e.workouts))
	copy(out, e.workouts)
	return out
}

// Suggestion returns a copy of the current suggestion, or nil.
func (e *Engine) Suggestion() *models.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.suggestion == nil {
		return nil
	}
	s := *e.suggestion
	return &s
}

// LoadAll replaces the local workout sequence with the remote list,
// preserving remote ordering. On error the local sequence is left
// unchanged and the error is returned for the caller to surface. A
// response that arrives after a later-issued LoadAll has already
// applied is discarded.
func (e *Engine) LoadAll(ctx context.Context) error {
	e.mu.Lock()
	e.listIssued++
	gen := e.listIssued
	e.mu.Unlock()

	list, err := e.gateway.ListWorkouts(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen <= e.listApplied {
		e.log.Debug("discarding stale workout list", "generation", gen, "applied", e.listApplied)
		return nil
	}
	e.workouts = list
	e.listApplied = gen
	return nil
}

// LoadSuggestion replaces the local suggestion with the remote one,
// clearing it if the remote has none. Same soft-fail and staleness
// policy as LoadAll.
func (e *Engine) LoadSuggestion(ctx context.Context) error {
	e.mu.Lock()
	e.sugIssued++
	gen := e.sugIssued
	e.mu.Unlock()

	sug, err := e.gateway.LatestSuggestion(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen <= e.sugApplied {
		return nil
	}
	e.suggestion = sug
	e.sugApplied = gen
	return nil
}

// Create validates the draft locally, stores it remotely, applies the
// response optimistically (prepend + suggestion replace), then runs the
// refresh pass to reconcile with the remote truth. The optimistic state
// is visible to readers before the refresh resolves; whatever the
// refresh returns is the state of record.
func (e *Engine) Create(ctx context.Context, draft models.WorkoutDraft) (*models.Workout, error) {
	if !draft.Normalize() {
		return nil, &api.ValidationError{Reason: "exercise name is required"}
	}

	res, err := e.gateway.CreateWorkout(ctx, draft)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.workouts = append([]models.Workout{res.Workout}, e.workouts...)
	e.suggestion = res.Suggestion
	e.mu.Unlock()
	e.log.Info("workout logged", "id", res.Workout.ID, "exercise", res.Workout.Exercise)

	e.refresh(ctx)
	return &res.Workout, nil
}

// Complete marks the workout completed remotely, then runs the refresh
// pass: the remote decides both the completed flag and whether the
// active suggestion changes, so the response payload itself is not
// applied locally. A network failure skips the refresh, since nothing
// reached the server.
//
// Concurrent Complete/Delete calls for the same id serialize; issuing
// them concurrently is a caller error this only keeps from racing.
func (e *Engine) Complete(ctx context.Context, id int) error {
	unlock := e.lockID(id)
	defer unlock()

	_, err := e.gateway.CompleteWorkout(ctx, id)
	if api.IsNetwork(err) {
		return err
	}
	e.refresh(ctx)
	return err
}

// Delete removes the workout remotely, then runs the refresh pass. The
// engine receives only post-confirmed intents; user confirmation
// happens upstream.
func (e *Engine) Delete(ctx context.Context, id int) error {
	unlock := e.lockID(id)
	defer unlock()

	err := e.gateway.DeleteWorkout(ctx, id)
	if api.IsNetwork(err) {
		return err
	}
	e.refresh(ctx)
	return err
}

// refresh re-fetches the workout list and the suggestion. The two
// fetches run concurrently, and both settle before refresh returns.
// Failures are soft: the relevant slot keeps its optimistic state and
// the error is only logged.
func (e *Engine) refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return e.LoadAll(ctx) })
	g.Go(func() error { return e.LoadSuggestion(ctx) })
	if err := g.Wait(); err != nil {
		e.log.Warn("refresh pass incomplete", "error", err)
	}
}

// lockID acquires the per-id mutation lock and returns its release.
func (e *Engine) lockID(id int) func() {
	e.locksMu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}
