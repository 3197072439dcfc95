package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/password"
)

// Auth registers users and opens and closes their sessions.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	events       model.EventPublisher
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	events model.EventPublisher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		events:       events,
		logger:       logger,
	}
}

// Register validates params and creates an active user.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return model.User{}, err
	}

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if err := validatePassword(params.Password, params.Password2); err != nil {
		return model.User{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Patronymic:   strings.TrimSpace(params.Patronymic),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.User{}, model.ErrEmailTaken
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.events.Publish(ctx, model.Event{Type: model.EventUserRegistered, UserID: user.ID.String()})
	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID.String())

	return user, nil
}

// Login verifies credentials and issues a new token pair. Unknown emails,
// inactive users and wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, plain string, client model.ClientInfo) (model.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return model.TokenPair{}, fmt.Errorf("%w: email and password are required", model.ErrInvalidInput)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.loginFailed(ctx, email, "")
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Verify(user.PasswordHash, plain)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID.String(),
			"error", err.Error())
	}
	if !ok || !user.CanAuthenticate() {
		a.loginFailed(ctx, email, user.ID.String())
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.tokenService.Issue(ctx, user.ID, client)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.events.Publish(ctx, model.Event{
		Type:   model.EventLoginSucceeded,
		UserID: user.ID.String(),
		Fields: map[string]any{"ip": client.IP, "user_agent": client.UserAgent},
	})
	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID.String())

	return pair, nil
}

// Refresh rotates a refresh token. See TokenService.Refresh.
func (a *Auth) Refresh(ctx context.Context, refresh string, client model.ClientInfo) (model.TokenPair, error) {
	return a.tokenService.Refresh(ctx, refresh, client)
}

// Logout revokes every active refresh token of the user.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	n, err := a.tokenService.RevokeAllForUser(ctx, userID)
	if err != nil {
		a.logger.Error("Auth service: failed to revoke sessions",
			"user_id", userID.String(),
			"error", err.Error())
		return err
	}

	a.events.Publish(ctx, model.Event{
		Type:   model.EventLogout,
		UserID: userID.String(),
		Fields: map[string]any{"revoked": n},
	})
	a.logger.Info("Auth service: user logged out",
		"user_id", userID.String(),
		"revoked", n)

	return nil
}

func (a *Auth) loginFailed(ctx context.Context, email, userID string) {
	a.logger.Info("Auth service: invalid credentials",
		"email", email)
	a.events.Publish(ctx, model.Event{
		Type:   model.EventLoginFailed,
		UserID: userID,
		Fields: map[string]any{"email": email},
	})
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: enter a valid email address", model.ErrInvalidInput)
	}
	return email, nil
}

func validatePassword(plain, confirm string) error {
	if plain != confirm {
		return fmt.Errorf("%w: passwords do not match", model.ErrInvalidInput)
	}
	if len(plain) < password.MinLength {
		return fmt.Errorf("%w: password must contain at least %d characters", model.ErrInvalidInput, password.MinLength)
	}
	return nil
}
