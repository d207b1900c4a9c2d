package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanbouo/fitlog/internal/models"
)

// TokenSource supplies the current bearer credential. An empty string
// means no credential; the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to the FitLog REST API. Every call result passes through
// a single status check that maps non-2xx responses to the typed error
// kinds and fires the unauthorized hook on 401.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets the source of the bearer credential.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook sets the function invoked once per 401 response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the shape of server error responses.
type errorBody struct {
	Error string `json:"error"`
}

// do issues one request and decodes a 2xx response body into out (out
// may be nil for calls whose body is ignorable). All failure modes come
// back as one of the typed error kinds from errors.go.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if err := c.checkStatus(op, resp.StatusCode, respBody); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// checkStatus maps a response status to an error kind. A 401 fires the
// unauthorized hook before returning; everything else is passive.
func (c *Client) checkStatus(op string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Error

	if status == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if msg == "" {
			msg = "unauthorized"
		}
		return &AuthorizationError{Op: op, Message: msg}
	}
	if msg == "" {
		msg = "request failed"
	}
	return &RemoteError{Op: op, StatusCode: status, Message: msg}
}

// Credentials is the normalized result of login and signup. The server
// has been seen spelling the token field both "token" and
// "access_token"; Credentials always carries it as Token.
type Credentials struct {
	Token string
	User  models.User
}

// authResponse accepts both token field spellings.
type authResponse struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

func (a authResponse) credentials() (*Credentials, error) {
	token := a.Token
	if token == "" {
		token = a.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("auth response carried no token")
	}
	return &Credentials{Token: token, User: a.User}, nil
}

// Signup registers a new account and returns its credentials.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*Credentials, error) {
	req := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}

	var resp authResponse
	if err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	creds, err := resp.credentials()
	if err != nil {
		return nil, &NetworkError{Op: "signup", Err: err}
	}
	return creds, nil
}

// Login authenticates with a username (or email) and password.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var resp authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	creds, err := resp.credentials()
	if err != nil {
		return nil, &NetworkError{Op: "login", Err: err}
	}
	return creds, nil
}

// Logout invalidates the current token server-side. Callers treat the
// result as best-effort; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/api/auth/logout", nil, nil)
}

// CurrentUser fetches the identity behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, "current user", http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreateResult is the combined payload of a workout creation: the
// stored workout plus a fresh suggestion computed from it.
type CreateResult struct {
	Workout    models.Workout     `json:"workout"`
	Suggestion *models.Suggestion `json:"suggestion"`
}

// CreateWorkout stores a new workout and returns it together with the
// next-exercise suggestion.
func (c *Client) CreateWorkout(ctx context.Context, draft models.WorkoutDraft) (*CreateResult, error) {
	var resp CreateResult
	if err := c.do(ctx, "create workout", http.MethodPost, "/api/workouts", draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListWorkouts fetches the full workout list, newest first.
func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var resp struct {
		Workouts []models.Workout `json:"workouts"`
	}
	if err := c.do(ctx, "list workouts", http.MethodGet, "/api/workouts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workouts, nil
}

// CompleteWorkout marks the workout as completed.
func (c *Client) CompleteWorkout(ctx context.Context, id int) (*models.Workout, error) {
	var resp struct {
		Workout models.Workout `json:"workout"`
	}
	path := fmt.Sprintf("/api/workouts/%d/complete", id)
	if err := c.do(ctx, "complete workout", http.MethodPut, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Workout, nil
}

// DeleteWorkout removes the workout.
func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/workouts/%d", id)
	return c.do(ctx, "delete workout", http.MethodDelete, path, nil, nil)
}

// LatestSuggestion fetches the current suggestion. A nil result with a
// nil error means the remote has none.
func (c *Client) LatestSuggestion(ctx context.Context) (*models.Suggestion, error) {
	var resp struct {
		Suggestion *models.Suggestion `json:"suggestion"`
	}
	if err := c.do(ctx, "latest suggestion", http.MethodGet, "/api/workouts/suggestion", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestion, nil
}
