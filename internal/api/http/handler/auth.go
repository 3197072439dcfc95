package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// AuthService defines registration and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string, client model.ClientInfo) (model.TokenPair, error)
	Refresh(ctx context.Context, refresh string, client model.ClientInfo) (model.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type registerRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Patronymic string `json:"patronymic"`
	Password   string `json:"password"`
	Password2  string `json:"password2"`
}

type registerResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Auth handles registration, login, refresh and logout.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, contextManager: contextManager, logger: logger}
}

// Register creates a user and responds with its id and email.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Email:      req.Email,
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

	respond.JSON(w, http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email})
}

// Login exchanges credentials for a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, pair)
}

// Refresh rotates a refresh token.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.Refresh, clientInfo(r))
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, pair)
}

// Logout revokes every refresh token of the caller.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.contextManager)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), id.User.ID); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
