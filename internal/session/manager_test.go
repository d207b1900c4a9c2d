package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanbouo/fitlog/internal/api"
	"github.com/alanbouo/fitlog/internal/credstore"
	"github.com/alanbouo/fitlog/internal/models"
)

// fakeGateway scripts the auth operations and counts calls.
type fakeGateway struct {
	loginErr    error
	signupErr   error
	logoutErr   error
	currentErr  error
	currentUser *models.User
	creds       *api.Credentials

	currentCalls int
	logoutCalls  int
}

func (f *fakeGateway) Login(ctx context.Context, username, password string) (*api.Credentials, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.creds, nil
}

func (f *fakeGateway) Signup(ctx context.Context, username, email, password string) (*api.Credentials, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.creds, nil
}

func (f *fakeGateway) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	f.currentCalls++
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.currentUser, nil
}

func newTestManager(t *testing.T, gw Gateway, opts ...ManagerOption) (*Manager, *credstore.MemoryStore) {
	t.Helper()
	store := credstore.NewMemory()
	m := NewManager(store, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	m.SetGateway(gw)
	return m, store
}

func TestRestoreWithoutStoredToken(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestManager(t, gw)

	m.Restore(context.Background())

	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Zero(t, gw.currentCalls, "no stored token must mean no network call")
}

func TestRestoreSuccess(t *testing.T) {
	gw := &fakeGateway{currentUser: &models.User{ID: 3, Username: "ana", Email: "ana@example.com"}}
	m, store := newTestManager(t, gw)
	require.NoError(t, store.Set("tok-restored"))

	m.Restore(context.Background())

	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.Equal(t, "tok-restored", m.Token())
	require.NotNil(t, m.User())
	assert.Equal(t, "ana", m.User().Username)
}

func TestRestoreRejectedClearsCredential(t *testing.T) {
	gw := &fakeGateway{currentErr: &api.AuthorizationError{Op: "current user", Message: "invalid or expired token"}}
	m, store := newTestManager(t, gw)
	require.NoError(t, store.Set("tok-stale"))

	m.Restore(context.Background())

	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Empty(t, m.Token())
	assert.Nil(t, m.User())
	stored, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, stored, "stale credential must be removed")
}

func TestRestoreNetworkFailureDowngrades(t *testing.T) {
	gw := &fakeGateway{currentErr: &api.NetworkError{Op: "current user", Err: errors.New("dial refused")}}
	m, store := newTestManager(t, gw)
	require.NoError(t, store.Set("tok-unverified"))

	// Must not panic or surface an error; failure only downgrades.
	m.Restore(context.Background())

	assert.Equal(t, StatusAnonymous, m.Status())
	stored, _ := store.Get()
	assert.Empty(t, stored)
}

func TestLoginSuccess(t *testing.T) {
	gw := &fakeGateway{creds: &api.Credentials{
		Token: "tok-1",
		User:  models.User{ID: 1, Username: "ana", Email: "ana@example.com"},
	}}
	m, store := newTestManager(t, gw)

	require.NoError(t, m.Login(context.Background(), "ana", "secret1"))

	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.Equal(t, "tok-1", m.Token())
	stored, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored, "credential must be persisted")
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	gw := &fakeGateway{loginErr: &api.RemoteError{Op: "login", StatusCode: 401, Message: "Invalid username/email or password"}}
	m, store := newTestManager(t, gw)

	err := m.Login(context.Background(), "ana", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username/email or password")

	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Empty(t, m.Token())
	stored, _ := store.Get()
	assert.Empty(t, stored)
}

func TestSignupAdoptsCredentials(t *testing.T) {
	gw := &fakeGateway{creds: &api.Credentials{
		Token: "tok-new",
		User:  models.User{ID: 9, Username: "new", Email: "new@example.com"},
	}}
	m, _ := newTestManager(t, gw)

	require.NoError(t, m.Signup(context.Background(), "new", "new@example.com", "secret1"))
	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.Equal(t, "tok-new", m.Token())
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("secret1", "secret1"))

	err := ValidateSignup("short", "short")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "short password must be a ValidationError")

	err = ValidateSignup("secret1", "secret2")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "mismatch must be a ValidationError")
}

func TestLogoutAlwaysClears(t *testing.T) {
	gw := &fakeGateway{
		creds:     &api.Credentials{Token: "tok-1", User: models.User{ID: 1, Username: "ana"}},
		logoutErr: &api.NetworkError{Op: "logout", Err: errors.New("timeout")},
	}
	m, store := newTestManager(t, gw)
	require.NoError(t, m.Login(context.Background(), "ana", "secret1"))

	m.Logout(context.Background())

	assert.Equal(t, 1, gw.logoutCalls, "remote logout must be attempted")
	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Empty(t, m.Token())
	assert.Nil(t, m.User())
	stored, _ := store.Get()
	assert.Empty(t, stored, "credential cleared even when the remote call fails")
}

func TestHandleUnauthorizedFiresOnce(t *testing.T) {
	gw := &fakeGateway{creds: &api.Credentials{Token: "tok-1", User: models.User{ID: 1, Username: "ana"}}}
	var expired int
	m, store := newTestManager(t, gw, WithExpiredHook(func() { expired++ }))
	require.NoError(t, m.Login(context.Background(), "ana", "secret1"))

	// Two in-flight calls both coming back 401 invoke the hook twice;
	// only the first may clear and notify.
	m.HandleUnauthorized()
	m.HandleUnauthorized()

	assert.Equal(t, 1, expired, "expired hook must fire exactly once")
	assert.Equal(t, StatusAnonymous, m.Status())
	stored, _ := store.Get()
	assert.Empty(t, stored)
}
