package context

import (
	"context"

	"github.com/dtroode/authsys-server/internal/model"
)

type identityKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager represents a request context manager for the authenticated identity.
// It is shared by the HTTP and gRPC transports.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext attaches the identity to the context.
//
// Parameters:
//   - ctx: The request context
//   - identity: The resolved identity; nil leaves ctx unchanged
//
// Returns a new context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity *model.Identity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext retrieves the identity set by SetIdentityToContext.
//
// Parameters:
//   - ctx: The request context
//
// Returns the identity and a boolean indicating if it was found.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*model.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
