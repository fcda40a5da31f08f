package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/service/auth"
	"github.com/taskly/taskly-api/internal/store"
)

// Authenticator registers users, verifies credentials and issues access tokens.
type Authenticator interface {
	// Register creates an active, non-admin user. The password is stored
	// only as a hash. Returns store.ErrUsernameExists or store.ErrEmailExists
	// on duplicates and a domain validation error for bad input.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate checks username and password and returns the claims a
	// token for that user would carry. Returns ErrInvalidCredentials when
	// the user does not exist or the password does not match.
	Authenticate(ctx context.Context, username, password string) (*auth.Claims, error)

	// IssueToken signs an access token for claims.
	IssueToken(ctx context.Context, claims auth.Claims) (string, error)
}

type authenticator struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) Authenticator {
	if userStore == nil || jwtService == nil || passwordVerifier == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("authenticator dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authenticator{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "authenticator")),
	}
}

// Register implements Authenticator.Register
func (a *authenticator) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		log.Debug("invalid registration request",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A single INSERT; the store hashes the password before touching the pool.
	if err := a.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("attempted to register existing user",
				slog.String("username", user.Username))
		} else {
			log.Error("failed to save user",
				slog.String("error", err.Error()),
				slog.String("username", user.Username))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate implements Authenticator.Authenticate
func (a *authenticator) Authenticate(ctx context.Context, username, password string) (*auth.Claims, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	// Registration stores the trimmed username, so look up the same form.
	user, err := a.userStore.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login attempt for unknown user")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := a.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	return &auth.Claims{
		Username: user.Username,
		UserID:   user.ID,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
	}, nil
}

// IssueToken implements Authenticator.IssueToken
func (a *authenticator) IssueToken(ctx context.Context, claims auth.Claims) (string, error) {
	token, err := a.jwtService.GenerateToken(ctx, claims)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	logger.FromContextOrDefault(ctx, a.logger).Debug("token issued",
		slog.Int64("user_id", claims.UserID))
	return token, nil
}
