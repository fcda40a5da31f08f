package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/taskly-api/internal/config"
	"github.com/taskly/taskly-api/internal/mocks"
)

func newTestApplication(t *testing.T, rateLimit int) *application {
	t.Helper()
	app := &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "error", ShutdownTimeoutSeconds: 1},
			Auth: config.AuthConfig{
				JWTSecret:            "router-test-secret-with-enough-bytes!!",
				TokenLifetimeMinutes: 20,
				BcryptCost:           4,
				RateLimitPerMinute:   rateLimit,
			},
		},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		userStore: mocks.NewMockUserStore(),
		taskStore: mocks.NewMockTaskStore(),
	}
	require.NoError(t, app.initServices())
	return app
}

func send(t *testing.T, h http.Handler, method, path, token, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	rr := send(t, h, http.MethodPost, "/auth/token", "", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestRouter_TaskLifecycle(t *testing.T) {
	app := newTestApplication(t, 100)
	h := app.setupRouter()

	rr := send(t, h, http.MethodPost, "/auth/register", "", "application/json",
		`{"username":"alice","email":"alice@example.com","password":"wonderland"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	token := login(t, h, "alice", "wonderland")

	rr = send(t, h, http.MethodPost, "/tasks/", token, "application/json",
		`{"title":"Write report","description":"Q3","status":"todo"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		TaskID int64 `json:"task_id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	taskPath := fmt.Sprintf("/tasks/%d", created.TaskID)

	rr = send(t, h, http.MethodPut, taskPath, token, "application/json",
		`{"title":"Write report","description":"Q3","status":"in_progress"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = send(t, h, http.MethodGet, "/tasks/?todo_status=in_progress", token, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks []map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "in_progress", tasks[0]["status"])
	assert.Contains(t, tasks[0], "create_date")

	rr = send(t, h, http.MethodDelete, taskPath, token, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = send(t, h, http.MethodGet, taskPath, token, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_PermissionRequiresAdmin(t *testing.T) {
	app := newTestApplication(t, 100)
	h := app.setupRouter()

	for _, name := range []string{"root", "bob"} {
		rr := send(t, h, http.MethodPost, "/auth/register", "", "application/json",
			fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"pw-%s"}`, name, name, name))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	bobToken := login(t, h, "bob", "pw-bob")
	rr := send(t, h, http.MethodPatch, "/permission/?user_id=1&is_active=true&is_admin=true", bobToken, "", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Operator bootstrap, as done by "admin grant".
	_, err := app.permissionService.SetPermissionsByUsername(context.Background(), "root", true, true)
	require.NoError(t, err)

	rootToken := login(t, h, "root", "pw-root")
	rr = send(t, h, http.MethodPatch, "/permission/?user_id=2&is_active=true&is_admin=true", rootToken, "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	bob, err := app.userStore.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, bob.IsAdmin)

	// Same endpoint without the trailing slash.
	rr = send(t, h, http.MethodPatch, "/permission?user_id=2&is_active=true&is_admin=false", rootToken, "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	bob, err = app.userStore.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, bob.IsAdmin)
}

func TestRouter_Health(t *testing.T) {
	h := newTestApplication(t, 100).setupRouter()

	rr := send(t, h, http.MethodGet, "/health", "", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouter_AuthRateLimited(t *testing.T) {
	h := newTestApplication(t, 2).setupRouter()

	form := url.Values{"username": {"nobody"}, "password": {"x"}}.Encode()
	var last int
	for i := 0; i < 3; i++ {
		last = send(t, h, http.MethodPost, "/auth/token", "", "application/x-www-form-urlencoded", form).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/health", "", "", "").Code)
}

func TestRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	h := newTestApplication(t, 100).setupRouter()

	rr := send(t, h, http.MethodGet, "/tasks/", "", "", "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}
