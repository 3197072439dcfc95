package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists issued refresh tokens. Records are revoked, never deleted.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByUserAndJTI(ctx context.Context, userID uuid.UUID, jti string) (RefreshToken, error)
	// Rotate revokes the record identified by oldID only if it is still active
	// and inserts next in the same transaction. It returns ErrRefreshInactive
	// when the conditional revoke matched no row.
	Rotate(ctx context.Context, oldID uuid.UUID, next RefreshToken) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RefreshToken is one issued refresh credential.
type RefreshToken struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	JTI            string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	UserAgent      string
	IP             string
	RotatedFromJTI *string
}

// IsActive reports whether the token is neither revoked nor expired at now.
func (t RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}

// ClientInfo is the client metadata stored alongside a refresh token.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// TokenPair is the result of login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
