package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authsys-server/internal/api/grpc/handler"
	"github.com/dtroode/authsys-server/internal/api/grpc/middleware"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/service"
)

// Router represents the internal gRPC router.
// It manages service registration and interceptor configuration.
type Router struct {
	authenticator  *service.Authenticator
	resolver       *service.ScopeResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - authenticator: Resolves bearer tokens from call metadata
//   - resolver: Computes caller scopes
//   - contextManager: Stores the identity on the call context
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	authenticator *service.Authenticator,
	resolver *service.ScopeResolver,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authenticator:  authenticator,
		resolver:       resolver,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth excludes health checks and reflection from authentication.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	method := c.FullMethod()
	return !strings.HasPrefix(method, "/grpc.health.v1.Health/") &&
		!strings.HasPrefix(method, "/grpc.reflection.")
}

// Register registers all gRPC services and interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)
	recoverer := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC handler panicked", "panic", p)
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoverer),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverer),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	s.RegisterService(&handler.IntrospectionServiceDesc, handler.NewIntrospection(r.resolver, r.contextManager, r.logger))
	healthpb.RegisterHealthServer(s, health.NewServer())
	reflection.Register(s)

	return s
}
