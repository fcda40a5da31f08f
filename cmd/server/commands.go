package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taskly/taskly-api/internal/config"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/platform/postgres"
	"github.com/taskly/taskly-api/internal/service"
)

// loadRuntime loads configuration and installs the process logger.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	return cfg, log, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskly-api",
		Short:         "Task list API with JWT authentication",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newAdminCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db.DB, postgres.MigrateUp, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return err
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db.DB, args[0], log)
		},
	}
}

func newAdminCommand() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Operator commands that bypass the HTTP API",
	}

	var (
		username string
		isAdmin  bool
		isActive bool
	)
	grant := &cobra.Command{
		Use:   "grant",
		Short: "Set the admin and active flags of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			app, err := newApplication(cfg, log, db)
			if err != nil {
				return err
			}
			return runGrant(cmd, app.permissionService, username, isActive, isAdmin)
		},
	}
	grant.Flags().StringVar(&username, "username", "", "username of the account to update")
	grant.Flags().BoolVar(&isAdmin, "admin", true, "value for is_admin")
	grant.Flags().BoolVar(&isActive, "active", true, "value for is_active")
	_ = grant.MarkFlagRequired("username")

	admin.AddCommand(grant)
	return admin
}

func runGrant(
	cmd *cobra.Command,
	permissions service.PermissionService,
	username string,
	isActive, isAdmin bool,
) error {
	user, err := permissions.SetPermissionsByUsername(cmd.Context(), username, isActive, isAdmin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "user %s (id %d): is_active=%t is_admin=%t\n",
		user.Username, user.ID, user.IsActive, user.IsAdmin)
	return err
}
