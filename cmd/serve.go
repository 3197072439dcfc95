package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/authsys-server/database"
	apicontext "github.com/dtroode/authsys-server/internal/api/context"
	grpcrouter "github.com/dtroode/authsys-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/authsys-server/internal/api/grpc/server"
	httprouter "github.com/dtroode/authsys-server/internal/api/http/router"
	httpserver "github.com/dtroode/authsys-server/internal/api/http/server"
	"github.com/dtroode/authsys-server/internal/audit"
	"github.com/dtroode/authsys-server/internal/config"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/metrics"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/password"
	"github.com/dtroode/authsys-server/internal/repository/memory"
	"github.com/dtroode/authsys-server/internal/repository/postgres"
	"github.com/dtroode/authsys-server/internal/server"
	"github.com/dtroode/authsys-server/internal/service"
	"github.com/dtroode/authsys-server/internal/telemetry"
	"github.com/dtroode/authsys-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the internal gRPC introspection service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTEL.ServiceName, cfg.OTEL.Endpoint, buildVersion)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
		return err
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	scopeRepo := postgres.NewScopeRepository(db)
	rbacRepo := postgres.NewRBACRepository(db.SQL())

	if cfg.RBAC.SeedFile != "" {
		if err := applySeed(ctx, cfg.RBAC.SeedFile, rbacRepo, userRepo, logger); err != nil {
			return err
		}
	}

	tokenManager, err := token.NewJWT(tokenConfig(cfg.JWT))
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var sinks []audit.Sink
	if cfg.NATS.URL != "" {
		natsSink, err := audit.NewNATSSink(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return err
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}
	events := audit.NewPublisher(logger, registry, sinks...)

	hasher := password.NewHasher(bcrypt.DefaultCost)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, events, logger)
	authenticator := service.NewAuthenticator(tokenManager, userRepo, logger)
	resolver := service.NewScopeResolver(scopeRepo, logger)
	ctxMgr := apicontext.NewManager()

	services := httprouter.Services{
		Auth:          service.NewAuth(userRepo, hasher, tokenService, events, logger),
		Users:         service.NewUsers(userRepo, hasher, events, logger),
		RBAC:          service.NewRBAC(rbacRepo, logger),
		Articles:      service.NewArticles(memory.NewArticleRepository(memory.DemoArticles(demoOwner(ctx, userRepo, cfg.RBAC.DemoOwnerEmail, logger)))),
		Authenticator: authenticator,
		Scopes:        resolver,
	}
	httpHandler := httprouter.New(
		services,
		httprouter.Options{AllowedOrigins: cfg.HTTP.AllowedOrigins, RateLimit: cfg.HTTP.RateLimit},
		ctxMgr,
		metrics.NewHTTP(registry),
		db,
		logger,
	).Register()

	servers := []struct {
		server model.Server
		layer  model.SecurityLayer
	}{
		{
			server: httpserver.NewHTTPServer(httpHandler, cfg.HTTP.Addr),
			layer:  securityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
		},
		{
			server: grpcserver.NewGRPCServer(
				grpcrouter.New(authenticator, resolver, ctxMgr, logger).Register(),
				fmt.Sprintf(":%s", cfg.GRPC.Port),
			),
			layer: securityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName),
		},
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}(s.server, s.layer)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.server.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}

func securityLayer(enableHTTPS bool, certFile, keyFile string) model.SecurityLayer {
	if enableHTTPS {
		return server.NewTLSListener(certFile, keyFile)
	}
	return server.NewPlainListener()
}

func tokenConfig(cfg config.JWT) token.Config {
	return token.Config{
		Secret:     cfg.Secret,
		Algorithm:  cfg.Algorithm,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
}

// demoOwner finds the user that owns the first demo article. Without one
// the article belongs to nobody and OWN callers never see it.
func demoOwner(ctx context.Context, users model.UserStore, email string, logger *logger.Logger) uuid.UUID {
	if email == "" {
		return uuid.Nil
	}
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("failed to look up demo owner", "email", email, "error", err)
		} else {
			logger.Warn("demo owner is not registered", "email", email)
		}
		return uuid.Nil
	}
	return user.ID
}
