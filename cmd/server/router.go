package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskly/taskly-api/internal/api"
	apiMiddleware "github.com/taskly/taskly-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.SecurityHeaders(false))

	authHandler := api.NewAuthHandler(app.authenticator, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	permissionHandler := api.NewPermissionHandler(app.permissionService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Use(apiMiddleware.RateLimitByIP(app.config.Auth.RateLimitPerMinute))
		r.Post("/register", authHandler.Register)
		r.Post("/token", authHandler.Token)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})

		r.Patch("/permission", permissionHandler.UpdatePermissions)
		r.Patch("/permission/", permissionHandler.UpdatePermissions)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
