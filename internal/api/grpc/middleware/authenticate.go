package middleware

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// Authenticator resolves an Authorization header value into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from "authorization" metadata and returns
// a context carrying the resolved identity.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	identity, err := m.authenticator.Authenticate(ctx, "Bearer "+token)
	if err != nil {
		if !errors.Is(err, model.ErrAuthenticationFailed) {
			m.logger.Error("gRPC auth: failed to authenticate",
				"error", err.Error())
			return nil, status.Error(codes.Internal, "internal server error")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	if identity == nil {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	return m.contextManager.SetIdentityToContext(ctx, identity), nil
}
