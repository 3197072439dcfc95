package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// Users manages the profile of the authenticated user.
type Users struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	events    model.EventPublisher
	logger    *logger.Logger
}

func NewUsers(userStore model.UserStore, hasher model.PasswordHasher, events model.EventPublisher, logger *logger.Logger) *Users {
	return &Users{userStore: userStore, hasher: hasher, events: events, logger: logger}
}

func (u *Users) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := u.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of params to user and persists the result.
func (u *Users) Update(ctx context.Context, user model.User, params model.UpdateProfileParams) (model.User, error) {
	if params.FirstName != nil {
		user.FirstName = strings.TrimSpace(*params.FirstName)
	}
	if params.LastName != nil {
		user.LastName = strings.TrimSpace(*params.LastName)
	}
	if params.Patronymic != nil {
		user.Patronymic = strings.TrimSpace(*params.Patronymic)
	}

	if params.Password != nil || params.Password2 != nil {
		if params.Password == nil || params.Password2 == nil {
			return model.User{}, fmt.Errorf("%w: password and password2 must be given together", model.ErrInvalidInput)
		}
		if err := validatePassword(*params.Password, *params.Password2); err != nil {
			return model.User{}, err
		}
		hash, err := u.hasher.Hash(*params.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()
	updated, err := u.userStore.Update(ctx, user)
	if err != nil {
		u.logger.Error("Users service: failed to update user",
			"user_id", user.ID.String(),
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// Delete soft-deletes the user and revokes all of their refresh tokens.
func (u *Users) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := u.userStore.SoftDelete(ctx, userID); err != nil {
		u.logger.Error("Users service: failed to delete user",
			"user_id", userID.String(),
			"error", err.Error())
		return fmt.Errorf("failed to delete user: %w", err)
	}

	u.events.Publish(ctx, model.Event{Type: model.EventUserDeleted, UserID: userID.String()})
	u.logger.Info("Users service: user deleted",
		"user_id", userID.String())

	return nil
}
