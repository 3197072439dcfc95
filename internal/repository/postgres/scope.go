package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.ScopeStore = (*ScopeRepository)(nil)

// ScopeRepository walks user -> user_roles -> roles -> role_permissions -> permissions.
type ScopeRepository struct {
	db *Connection
}

func NewScopeRepository(db *Connection) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (r *ScopeRepository) ScopesFor(ctx context.Context, userID uuid.UUID, resource, action string) ([]model.Scope, error) {
	const query = `
        SELECT DISTINCT p.scope
        FROM user_roles ur
        JOIN users u ON u.id = ur.user_id
        JOIN roles r ON r.id = ur.role_id
        JOIN role_permissions rp ON rp.role_id = r.id
        JOIN permissions p ON p.id = rp.permission_id
        WHERE ur.user_id = $1
          AND p.resource = $2
          AND p.action = $3
          AND u.is_active
          AND u.deleted_at IS NULL
    `
	var raw []string
	if err := pgxscan.Select(ctx, r.db, &raw, query, userID, resource, action); err != nil {
		return nil, fmt.Errorf("failed to resolve scopes: %w", err)
	}

	scopes := make([]model.Scope, 0, len(raw))
	for _, s := range raw {
		scopes = append(scopes, model.Scope(s))
	}
	return scopes, nil
}
