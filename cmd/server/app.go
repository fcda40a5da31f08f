package main

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/taskly/taskly-api/internal/config"
	"github.com/taskly/taskly-api/internal/platform/postgres"
	"github.com/taskly/taskly-api/internal/service"
	"github.com/taskly/taskly-api/internal/service/auth"
	"github.com/taskly/taskly-api/internal/store"
)

// application holds the shared dependencies of the process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService        auth.JWTService
	authenticator     service.Authenticator
	taskService       service.TaskService
	permissionService service.PermissionService
}

// newApplication builds the Postgres stores on db and the services on top.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		userStore: postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger),
		taskStore: postgres.NewPostgresTaskStore(db, logger),
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	return app, nil
}

// initServices wires the services from the stores already set on app.
func (app *application) initServices() error {
	jwtService, err := auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.jwtService = jwtService

	app.authenticator = service.NewAuthenticator(
		app.userStore,
		app.jwtService,
		auth.NewBcryptVerifier(),
		app.logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, app.logger)
	app.permissionService = service.NewPermissionService(app.db, app.userStore, app.logger)
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		return
	}
	app.logger.Info("database connection closed")
}
