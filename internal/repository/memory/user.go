package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository is the in-memory model.UserStore.
type UserRepository struct {
	db *DB
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) && u.CanAuthenticate() {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok || !u.CanAuthenticate() {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) {
			return model.User{}, model.ErrConflict
		}
	}
	r.db.users[user.ID] = user
	return user, nil
}

func (r *UserRepository) Update(_ context.Context, user model.User) (model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.users[user.ID]
	if !ok || !current.CanAuthenticate() {
		return model.User{}, model.ErrNotFound
	}
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.Patronymic = user.Patronymic
	current.PasswordHash = user.PasswordHash
	current.UpdatedAt = user.UpdatedAt
	r.db.users[user.ID] = current
	return current, nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok || !u.CanAuthenticate() {
		return model.ErrNotFound
	}
	now := r.db.now()
	u.IsActive = false
	u.DeletedAt = &now
	u.UpdatedAt = now
	r.db.users[id] = u
	r.db.revokeAllLocked(id)
	return nil
}
