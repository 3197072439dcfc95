package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
// Lookups only return active users that were not soft-deleted.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	// SoftDelete deactivates the user and revokes all of their active
	// refresh tokens in one transaction.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	Patronymic   string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// CanAuthenticate reports whether the user may hold a session.
func (u User) CanAuthenticate() bool {
	return u.IsActive && u.DeletedAt == nil
}

// RegisterParams contains registration input.
type RegisterParams struct {
	Email      string
	FirstName  string
	LastName   string
	Patronymic string
	Password   string
	Password2  string
}

// UpdateProfileParams contains a partial profile update. Nil fields are left untouched.
type UpdateProfileParams struct {
	FirstName  *string
	LastName   *string
	Patronymic *string
	Password   *string
	Password2  *string
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash.
	Verify(hash, plain string) (bool, error)
}
