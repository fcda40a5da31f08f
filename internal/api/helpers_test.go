package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/taskly/taskly-api/internal/api"
	"github.com/taskly/taskly-api/internal/api/middleware"
	"github.com/taskly/taskly-api/internal/config"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/mocks"
	"github.com/taskly/taskly-api/internal/service"
	"github.com/taskly/taskly-api/internal/service/auth"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

type testEnv struct {
	router     http.Handler
	users      *mocks.MockUserStore
	tasks      *mocks.MockTaskStore
	jwtService auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 20,
		BcryptCost:           4,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()

	authenticator := service.NewAuthenticator(users, jwtService, auth.NewBcryptVerifier(), logger)
	authHandler := api.NewAuthHandler(authenticator, logger)
	taskHandler := api.NewTaskHandler(service.NewTaskService(tasks, logger), logger)
	permissionHandler := api.NewPermissionHandler(service.NewPermissionService(nil, users, logger), logger)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, logger)

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/token", authHandler.Token)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})
		r.Patch("/permission/", permissionHandler.UpdatePermissions)
	})

	return &testEnv{router: r, users: users, tasks: tasks, jwtService: jwtService}
}

// createUser stores a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username string, isAdmin bool) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := domain.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, e.users.Create(ctx, user))
	if isAdmin {
		require.NoError(t, e.users.UpdatePermissions(ctx, user.ID, true, true))
		user.IsAdmin = true
	}

	token, err := e.jwtService.GenerateToken(ctx, auth.Claims{
		Username: user.Username,
		UserID:   user.ID,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
	})
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) doForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), "body: %s", rr.Body.String())
	return v
}
