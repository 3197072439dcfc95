package model

import "context"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	User    User
	Payload TokenPayload
}

// ContextManager stores and retrieves the request identity.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity *Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (*Identity, bool)
}
