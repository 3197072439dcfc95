package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// ScopeResolver computes the effective scope of a caller for a resource and action.
type ScopeResolver struct {
	store  model.ScopeStore
	logger *logger.Logger
}

func NewScopeResolver(store model.ScopeStore, logger *logger.Logger) *ScopeResolver {
	return &ScopeResolver{store: store, logger: logger}
}

// Resolve returns the widest scope granted to identity through its roles.
// An anonymous caller, or one without a matching grant, gets model.ScopeNone.
func (r *ScopeResolver) Resolve(ctx context.Context, identity *model.Identity, resource, action string) (model.Scope, error) {
	if identity == nil || identity.User.ID == uuid.Nil {
		return model.ScopeNone, nil
	}

	scopes, err := r.store.ScopesFor(ctx, identity.User.ID, resource, action)
	if err != nil {
		r.logger.Error("Scope resolver: failed to load scopes",
			"user_id", identity.User.ID.String(),
			"resource", resource,
			"action", action,
			"error", err.Error())
		return model.ScopeNone, fmt.Errorf("failed to load scopes: %w", err)
	}

	scope := model.WidestScope(scopes...)
	r.logger.Debug("Scope resolver: resolved",
		"user_id", identity.User.ID.String(),
		"resource", resource,
		"action", action,
		"scope", string(scope))

	return scope, nil
}

// Authorize rejects a missing grant.
func Authorize(scope model.Scope) error {
	if scope == model.ScopeNone {
		return model.ErrForbidden
	}
	return nil
}

// AuthorizeOwner additionally requires ownership of the record under ScopeOwn.
func AuthorizeOwner(scope model.Scope, ownerID, userID uuid.UUID) error {
	if err := Authorize(scope); err != nil {
		return err
	}
	if scope == model.ScopeOwn && ownerID != userID {
		return model.ErrForbiddenByOwnScope
	}
	return nil
}
