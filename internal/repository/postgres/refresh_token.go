package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

const (
	insertRefreshTokenQuery = `
        INSERT INTO refresh_tokens (
            id, user_id, jti, created_at, expires_at, revoked_at, user_agent, ip, rotated_from_jti
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	revokeActiveByIDQuery = `
        UPDATE refresh_tokens SET revoked_at = NOW()
        WHERE id = $1 AND revoked_at IS NULL AND expires_at > NOW()
    `
	revokeAllByUserQuery = `
        UPDATE refresh_tokens SET revoked_at = NOW()
        WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
    `
)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func insertArgs(token model.RefreshToken) []any {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return []any{
		token.ID, token.UserID, token.JTI, token.CreatedAt, token.ExpiresAt,
		token.RevokedAt, token.UserAgent, token.IP, token.RotatedFromJTI,
	}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	if _, err := r.db.Exec(ctx, insertRefreshTokenQuery, insertArgs(token)...); err != nil {
		return mapError(err, "create refresh token")
	}
	return nil
}

func (r *RefreshTokenRepository) GetByUserAndJTI(ctx context.Context, userID uuid.UUID, jti string) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, jti, created_at, expires_at, revoked_at, user_agent, ip, rotated_from_jti
        FROM refresh_tokens WHERE user_id = $1 AND jti = $2
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, userID, jti).Scan(
		&rt.ID, &rt.UserID, &rt.JTI, &rt.CreatedAt, &rt.ExpiresAt,
		&rt.RevokedAt, &rt.UserAgent, &rt.IP, &rt.RotatedFromJTI,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by jti: %w", err)
	}
	return rt, nil
}

// Rotate revokes oldID with a compare-and-set update and stores next. Of two
// concurrent rotations of the same token only one sees a matched row.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, next model.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, revokeActiveByIDQuery, oldID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRefreshInactive
	}

	if _, err := tx.Exec(ctx, insertRefreshTokenQuery, insertArgs(next)...); err != nil {
		return mapError(err, "create rotated refresh token")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, revokeAllByUserQuery, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	return tag.RowsAffected(), nil
}
