package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// UserService defines profile operations on the caller's account.
type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (model.User, error)
	Update(ctx context.Context, user model.User, params model.UpdateProfileParams) (model.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type profileResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Patronymic string    `json:"patronymic"`
}

type profileUpdateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Patronymic *string `json:"patronymic"`
	Password   *string `json:"password"`
	Password2  *string `json:"password2"`
}

func newProfileResponse(u model.User) profileResponse {
	return profileResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Patronymic: u.Patronymic,
	}
}

// Users handles /users/me/.
type Users struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUsers creates a new Users handler.
func NewUsers(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *Users {
	return &Users{userService: userService, contextManager: contextManager, logger: logger}
}

func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.contextManager)
	if !ok {
		return
	}

	user, err := h.userService.Profile(r.Context(), id.User.ID)
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, newProfileResponse(user))
}

// Update applies a partial profile update.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.contextManager)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id.User, model.UpdateProfileParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Patronymic: req.Patronymic,
		Password:   req.Password,
		Password2:  req.Password2,
	})
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, newProfileResponse(user))
}

// Delete soft-deletes the caller and revokes their sessions.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.contextManager)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id.User.ID); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
