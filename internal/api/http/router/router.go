package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dtroode/authsys-server/internal/api/http/handler"
	"github.com/dtroode/authsys-server/internal/api/http/middleware"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/metrics"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/service"
)

const (
	rbacResource   = "rbac"
	rbacManage     = "manage"
	tracingService = "authsys-http"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Auth          *service.Auth
	Users         *service.Users
	RBAC          *service.RBAC
	Articles      *service.Articles
	Authenticator *service.Authenticator
	Scopes        *service.ScopeResolver
}

// Options tunes cross-cutting HTTP behaviour.
type Options struct {
	AllowedOrigins []string
	// RateLimit is the number of requests allowed per client IP per minute.
	RateLimit int
}

// Router represents the public HTTP API router.
type Router struct {
	services       Services
	options        Options
	contextManager model.ContextManager
	metrics        *metrics.HTTP
	db             model.Pinger
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - services: The application services
//   - options: CORS and rate limit settings
//   - contextManager: Stores the authenticated identity on requests
//   - metrics: Prometheus instrumentation; nil disables /metrics
//   - db: Readiness probe target; nil always reports ready
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	services Services,
	options Options,
	contextManager model.ContextManager,
	metrics *metrics.HTTP,
	db model.Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		options:        options,
		contextManager: contextManager,
		metrics:        metrics,
		db:             db,
		logger:         logger,
	}
}

// Register builds the handler tree with its middleware chain.
func (rt *Router) Register() http.Handler {
	logging := middleware.NewLogging(rt.logger)
	authenticate := middleware.NewAuthenticate(rt.services.Authenticator, rt.contextManager, rt.logger)
	health := handler.NewHealth(rt.db, rt.logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Handler)
	r.Use(chimw.Recoverer)
	if rt.metrics != nil {
		r.Use(rt.metrics.Instrument)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"WWW-Authenticate"},
		MaxAge:         300,
	}))

	r.Get("/healthz", health.Live)
	r.Get("/readyz", health.Ready)
	if rt.metrics != nil {
		r.Handle("/metrics", rt.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if rt.options.RateLimit > 0 {
			r.Use(httprate.LimitByIP(rt.options.RateLimit, time.Minute))
		}
		r.Use(authenticate.Handler)

		rt.registerAuthRoutes(r, authenticate)
		rt.registerUserRoutes(r, authenticate)
		rt.registerRBACRoutes(r, authenticate)
		rt.registerArticleRoutes(r, authenticate)
	})

	return otelhttp.NewHandler(r, tracingService)
}

func (rt *Router) registerAuthRoutes(r chi.Router, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(rt.services.Auth, rt.contextManager, rt.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/", h.Register)
		r.Post("/login/", h.Login)
		r.Post("/refresh/", h.Refresh)
		r.With(authenticate.RequireIdentity).Post("/logout/", h.Logout)
	})
}

func (rt *Router) registerUserRoutes(r chi.Router, authenticate *middleware.Authenticate) {
	h := handler.NewUsers(rt.services.Users, rt.contextManager, rt.logger)

	r.Route("/users/me", func(r chi.Router) {
		r.Use(authenticate.RequireIdentity)
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

func (rt *Router) registerRBACRoutes(r chi.Router, authenticate *middleware.Authenticate) {
	h := handler.NewRBAC(rt.services.RBAC, rt.logger)

	r.Route("/rbac", func(r chi.Router) {
		r.Use(authenticate.RequireScope(rt.services.Scopes, rbacResource, rbacManage))

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", h.ListRoles)
			r.Post("/", h.CreateRole)
			r.Get("/{id}/", h.GetRole)
			r.Put("/{id}/", h.UpdateRole)
			r.Patch("/{id}/", h.UpdateRole)
			r.Delete("/{id}/", h.DeleteRole)
		})
		r.Route("/permissions", func(r chi.Router) {
			r.Get("/", h.ListPermissions)
			r.Post("/", h.CreatePermission)
			r.Get("/{id}/", h.GetPermission)
			r.Put("/{id}/", h.UpdatePermission)
			r.Patch("/{id}/", h.UpdatePermission)
			r.Delete("/{id}/", h.DeletePermission)
		})
		r.Route("/role-permissions", func(r chi.Router) {
			r.Get("/", h.ListRolePermissions)
			r.Post("/", h.CreateRolePermission)
			r.Get("/{id}/", h.GetRolePermission)
			r.Delete("/{id}/", h.DeleteRolePermission)
		})
		r.Route("/user-roles", func(r chi.Router) {
			r.Get("/", h.ListUserRoles)
			r.Post("/", h.CreateUserRole)
			r.Get("/{id}/", h.GetUserRole)
			r.Delete("/{id}/", h.DeleteUserRole)
		})
	})
}

func (rt *Router) registerArticleRoutes(r chi.Router, authenticate *middleware.Authenticate) {
	h := handler.NewArticles(rt.services.Articles, rt.services.Scopes, rt.contextManager, rt.logger)

	r.Route("/articles", func(r chi.Router) {
		r.Use(authenticate.RequireIdentity)
		r.Get("/", h.List)
		r.Patch("/{id}/", h.Update)
	})
}
