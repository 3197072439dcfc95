package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const bearerScheme = "Bearer"

// Authenticator resolves a bearer credential into the calling identity.
type Authenticator struct {
	manager   model.TokenManager
	userStore model.UserStore
	logger    *logger.Logger
}

func NewAuthenticator(manager model.TokenManager, userStore model.UserStore, logger *logger.Logger) *Authenticator {
	return &Authenticator{manager: manager, userStore: userStore, logger: logger}
}

// Authenticate parses an Authorization header value. An empty header yields
// a nil identity and no error, leaving the decision to the caller. Every
// other failure wraps model.ErrAuthenticationFailed.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*model.Identity, error) {
	if header == "" {
		return nil, nil
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return nil, model.ErrInvalidAuthHeader
	}

	payload, err := a.manager.Decode(parts[1], model.TokenTypeAccess)
	if err != nil {
		a.logger.Debug("Authenticator: token rejected",
			"error", err.Error())
		return nil, fmt.Errorf("%w: %w", model.ErrAuthenticationFailed, err)
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrAuthenticationFailed, model.ErrTokenInvalid)
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && !user.CanAuthenticate()) {
		return nil, model.ErrUserInactive
	}
	if err != nil {
		a.logger.Error("Authenticator: failed to get user",
			"user_id", payload.Subject,
			"error", err.Error())
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &model.Identity{User: user, Payload: payload}, nil
}
