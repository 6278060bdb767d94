package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rProsia8/Expense-Tracker/internal/model"
	"github.com/rProsia8/Expense-Tracker/internal/pkg/jwtutil"
)

func TestRootListsCapabilities(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the Expense Tracker API")
	assert.Contains(t, rec.Body.String(), "POST /token - Login")
}

func TestRegisterReturnsUserWithoutPassword(t *testing.T) {
	env := newTestEnv(t)

	user := env.registerUser(t, "alice", "alice@example.com")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotNil(t, user.Expenses)
	assert.Empty(t, user.Expenses)

	rec := env.do(t, http.MethodPost, "/users/", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password", "password hash must never be serialized")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "alice", "shared@example.com")

	rec := env.do(t, http.MethodPost, "/users/", "", map[string]string{
		"username": "bob",
		"email":    "shared@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestRegisterInvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/users/", "", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenFlow(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	token := env.login(t, "alice", "supersecret")
	assert.NotEmpty(t, token)

	claims, err := jwtutil.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestTokenWrongCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "wrongpassword")

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice", "alice@example.com")

	rec := env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestMeTokenForDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice", "alice@example.com")
	token := env.login(t, "alice", "supersecret")

	require.NoError(t, env.db.Delete(&model.User{}, user.ID).Error)

	rec := env.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a token naming a missing user must be rejected")
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice", "alice@example.com")

	expired, err := jwtutil.GenerateToken(testJWTSecret, -time.Minute, user.ID, user.Username)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/users/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
