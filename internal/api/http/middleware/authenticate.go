package middleware

import (
	"context"
	"net/http"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// Authenticator resolves an Authorization header value into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*model.Identity, error)
}

// ScopeResolver computes the caller's scope for a resource and action.
type ScopeResolver interface {
	Resolve(ctx context.Context, identity *model.Identity, resource, action string) (model.Scope, error)
}

// Authenticate attaches the bearer identity to the request context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// Handler authenticates every request. Requests without credentials pass
// through anonymously; invalid credentials are rejected with 401.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			m.logger.Debug("HTTP auth: credentials rejected",
				"path", r.URL.Path,
				"error", err.Error())
			respond.FromError(w, r, m.logger, err)
			return
		}
		if identity == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects anonymous requests.
func (m *Authenticate) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.contextManager.GetIdentityFromContext(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, respond.DetailNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireScope rejects anonymous callers with 401 and callers without any
// grant for resource and action with 403.
func (m *Authenticate) RequireScope(resolver ScopeResolver, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := m.contextManager.GetIdentityFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, respond.DetailNotAuthenticated)
				return
			}

			scope, err := resolver.Resolve(r.Context(), identity, resource, action)
			if err != nil {
				respond.FromError(w, r, m.logger, err)
				return
			}
			if scope == model.ScopeNone {
				m.logger.Info("HTTP auth: scope denied",
					"user_id", identity.User.ID.String(),
					"resource", resource,
					"action", action)
				respond.Error(w, http.StatusForbidden, respond.DetailForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
