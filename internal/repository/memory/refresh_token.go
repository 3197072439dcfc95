package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

// RefreshTokenRepository is the in-memory model.RefreshTokenStore.
type RefreshTokenRepository struct {
	db *DB
}

func (r *RefreshTokenRepository) Create(_ context.Context, token model.RefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.insertLocked(token)
}

func (r *RefreshTokenRepository) GetByUserAndJTI(_ context.Context, userID uuid.UUID, jti string) (model.RefreshToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, t := range r.db.tokens {
		if t.UserID == userID && t.JTI == jti {
			return t, nil
		}
	}
	return model.RefreshToken{}, model.ErrNotFound
}

func (r *RefreshTokenRepository) Rotate(_ context.Context, oldID uuid.UUID, next model.RefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	old, ok := r.db.tokens[oldID]
	if !ok || !old.IsActive(now) {
		return model.ErrRefreshInactive
	}
	if err := r.insertLocked(next); err != nil {
		return err
	}
	old.RevokedAt = &now
	r.db.tokens[oldID] = old
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.db.revokeAllLocked(userID), nil
}

func (r *RefreshTokenRepository) insertLocked(token model.RefreshToken) error {
	if _, ok := r.db.users[token.UserID]; !ok {
		return model.ErrInvalidInput
	}
	for _, t := range r.db.tokens {
		if t.ID == token.ID || t.JTI == token.JTI {
			return model.ErrConflict
		}
	}
	r.db.tokens[token.ID] = token
	return nil
}
