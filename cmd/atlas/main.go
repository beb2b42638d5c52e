package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-lms/atlas-lms/internal/app"
	"github.com/atlas-lms/atlas-lms/internal/auth"
	"github.com/atlas-lms/atlas-lms/internal/observability"
	"github.com/atlas-lms/atlas-lms/internal/platform/cache"
	"github.com/atlas-lms/atlas-lms/internal/platform/db"
	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	"github.com/atlas-lms/atlas-lms/internal/tenants"
	"github.com/atlas-lms/atlas-lms/internal/users"
	"github.com/atlas-lms/atlas-lms/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Tenant lookups fall back to Postgres when the cache is down.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	issuer := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionTouch, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	tenantRepo := tenants.NewRepository(dbpool)
	tenantDirectory := tenants.NewDirectory(tenantRepo, redisClient, cfg.TenantCacheTTL)
	tenantService := tenants.NewService(tenantRepo, tenantDirectory)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	mailClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("asynq client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mailClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tenantDirectory)
	authHandler := auth.NewHandler(logger, authService, issuer, mailClient, metrics)

	rbacMiddleware := rbac.Middleware{Logger: logger}
	tenantsHandler := tenants.NewHandler(logger, tenantService, rbacMiddleware)

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo)
	usersHandler := users.NewHandler(logger, userService, rbacMiddleware)

	permissionsHandler := rbac.NewPermissionsHandler(rbacMiddleware)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	routeTable := rbac.NewRouteTable(rbac.RouteConfig{
		PublicPaths:      cfg.PublicPaths,
		AdminPrefix:      cfg.AdminPrefix,
		InstructorPrefix: cfg.InstructorPrefix,
		LoginPath:        cfg.LoginPath,
		DashboardPath:    cfg.DashboardPath,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Issuer:             issuer,
		CSRFManager:        csrfManager,
		RouteTable:         routeTable,
		AuthHandler:        authHandler,
		TenantsHandler:     tenantsHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
