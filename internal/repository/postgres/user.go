package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, first_name, last_name, patronymic, password_hash, is_active, created_at, updated_at, deleted_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Patronymic, &user.PasswordHash,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	return user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE email = $1 AND is_active AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE id = $1 AND is_active AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, first_name, last_name, patronymic, password_hash, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Patronymic, user.PasswordHash, user.IsActive,
	))
	if err != nil {
		return model.User{}, mapError(err, "create user")
	}

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users
			  SET first_name = $2, last_name = $3, patronymic = $4, password_hash = $5, updated_at = NOW()
			  WHERE id = $1 AND is_active AND deleted_at IS NULL
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Patronymic, user.PasswordHash,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const deactivate = `
        UPDATE users SET is_active = FALSE, deleted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
    `

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, deactivate, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if _, err := tx.Exec(ctx, revokeAllByUserQuery, id); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit soft delete: %w", err)
	}

	return nil
}
