package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rProsia8/Expense-Tracker/internal/app"
	"github.com/rProsia8/Expense-Tracker/internal/model"
	"github.com/rProsia8/Expense-Tracker/internal/repository"
	"github.com/rProsia8/Expense-Tracker/internal/transport/http/middleware"
)

const testJWTSecret = "handler-test-secret"

// passthroughStatsCache always misses so handler tests exercise the database
// aggregation path.
type passthroughStatsCache struct{}

func (passthroughStatsCache) GetCategoryTotals(context.Context, uint) ([]model.CategoryTotal, bool, error) {
	return nil, false, nil
}

func (passthroughStatsCache) SetCategoryTotals(context.Context, uint, []model.CategoryTotal) error {
	return nil
}

func (passthroughStatsCache) DeleteCategoryTotals(context.Context, uint) error {
	return nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestEnv wires handlers onto a gin engine the same way the server router
// does, backed by an in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Expense{}, &model.ExpenseEvent{}))

	authService := app.NewAuthService(repository.NewUserRepository(db), testJWTSecret, time.Hour)
	expenseService := app.NewExpenseService(
		repository.NewExpenseRepository(db),
		repository.NewEventRepository(db),
		app.NoopEventPublisher{},
		passthroughStatsCache{},
	)

	authHandler := NewAuthHandler(authService)
	expenseHandler := NewExpenseHandler(expenseService)
	authRequired := middleware.AuthJWT(testJWTSecret, authService)

	router := gin.New()
	router.GET("/", Root)
	router.POST("/token", authHandler.Token)

	userGroup := router.Group("/users")
	userGroup.POST("/", authHandler.CreateUser)
	userGroup.GET("/me", authRequired, authHandler.Me)

	expenseGroup := router.Group("/expenses")
	expenseGroup.Use(authRequired)
	expenseGroup.POST("/", expenseHandler.Create)
	expenseGroup.GET("/", expenseHandler.List)
	expenseGroup.GET("/stats/category", expenseHandler.CategoryStats)
	expenseGroup.GET("/stats/time", expenseHandler.TimeStats)
	expenseGroup.GET("/events", expenseHandler.Events)
	expenseGroup.GET("/:id", expenseHandler.Get)
	expenseGroup.PUT("/:id", expenseHandler.Update)
	expenseGroup.DELETE("/:id", expenseHandler.Delete)

	return &testEnv{router: router, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerUser(t *testing.T, username, email string) model.User {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/users/", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, rec.Code, "register failed: %s", rec.Body.String())

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func (e *testEnv) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()
	e.registerUser(t, username, email)
	return e.login(t, username, "supersecret")
}
