package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const articlesResource = "articles"

// ArticleService defines the scoped demo article operations.
type ArticleService interface {
	List(ctx context.Context, scope model.Scope, userID uuid.UUID) ([]model.Article, error)
	UpdateTitle(ctx context.Context, scope model.Scope, userID uuid.UUID, id int64, title string) (model.Article, error)
}

// ScopeResolver computes the caller's scope for a resource and action.
type ScopeResolver interface {
	Resolve(ctx context.Context, identity *model.Identity, resource, action string) (model.Scope, error)
}

type articleUpdateRequest struct {
	Title string `json:"title"`
}

type articleUpdateResponse struct {
	Updated model.Article `json:"updated"`
}

// Articles handles the demo resource guarded by "articles" permissions.
type Articles struct {
	articleService ArticleService
	resolver       ScopeResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewArticles creates a new Articles handler.
func NewArticles(articleService ArticleService, resolver ScopeResolver, contextManager model.ContextManager, logger *logger.Logger) *Articles {
	return &Articles{
		articleService: articleService,
		resolver:       resolver,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns every article under ALL and only the caller's under OWN.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	id, scope, ok := h.resolve(w, r, "read")
	if !ok {
		return
	}

	articles, err := h.articleService.List(r.Context(), scope, id.User.ID)
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, articles)
}

// Update changes an article title, enforcing ownership under OWN.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, scope, ok := h.resolve(w, r, "update")
	if !ok {
		return
	}

	articleID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req articleUpdateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	article, err := h.articleService.UpdateTitle(r.Context(), scope, id.User.ID, articleID, req.Title)
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, articleUpdateResponse{Updated: article})
}

func (h *Articles) resolve(w http.ResponseWriter, r *http.Request, action string) (*model.Identity, model.Scope, bool) {
	id, ok := identity(w, r, h.contextManager)
	if !ok {
		return nil, model.ScopeNone, false
	}

	scope, err := h.resolver.Resolve(r.Context(), id, articlesResource, action)
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return nil, model.ScopeNone, false
	}
	if scope == model.ScopeNone {
		respond.FromError(w, r, h.logger, model.ErrForbidden)
		return nil, model.ScopeNone, false
	}

	return id, scope, true
}
