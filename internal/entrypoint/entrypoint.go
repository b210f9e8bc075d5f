package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	auditRepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/graphql"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so queued jobs can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}

// Run wires every service from cfg and serves until interrupted.
func Run(cfg *config.Config, version string) error {
	log.Info().Str("version", version).Str("environment", cfg.Global.Environment).Msg("Starting catalog")

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Interfaces stay nil when auditing is off so the services fall back
	// to their no-op implementations.
	var (
		auditService *audit.Service
		authEvents   auth.EventLogger
		recorder     catalog.Recorder
		auditReader  http_controllers.AuditReader
	)
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditRepo.NewRepository(db.DB))
		authEvents = auditService
		recorder = auditService
		auditReader = auditService
		defer auditService.Wait()
	} else {
		log.Info().Msg("Audit logging disabled")
	}

	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth, authEvents)
	defer authService.Close()
	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)

	if cfg.Auth.IsDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with the insecure development default")
	}
	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Info().Msg("Authentication mode: local (writes require a signed-in user)")
		hasUsers, err := authService.HasUsers(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to check for existing users")
		} else if !hasUsers {
			log.Warn().Msg("No users found. Run 'catalog create-user --role admin' to create one")
		}
	} else {
		log.Info().Msg("Authentication mode: none (writes are open)")
	}

	catalogService := catalog.NewService(db, recorder)

	schema, err := graphql.NewSchema(graphql.NewResolver(catalogService, authService), cfg.GraphQL.MaxDepth)
	if err != nil {
		return fmt.Errorf("failed to parse graphql schema: %w", err)
	}

	var shutdownTasks []ShutdownFunc
	if cfg.Tasks.Enabled && auditService != nil {
		stop, err := startAuditCleanup(cfg, auditService)
		if err != nil {
			return err
		}
		shutdownTasks = append(shutdownTasks, stop)
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:        catalogService,
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Audit:          auditReader,
		GraphQL:        graphql.NewHandler(schema).Serve,
		EnableHSTS:     cfg.Auth.SecureCookies,
		Version:        version,
	}
	if cfg.Global.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		for _, stop := range shutdownTasks {
			stop(ctx)
		}
	}

	return Serve(router, cfg, onShutdown)
}

// startAuditCleanup starts the task workers and the cron job that feeds
// them. The returned func stops both.
func startAuditCleanup(cfg *config.Config, cleaner tasks.AuditEventCleaner) (ShutdownFunc, error) {
	if err := scheduler.ValidateSchedule(cfg.Audit.CleanupSchedule); err != nil {
		return nil, err
	}

	taskClient, err := tasks.NewClient(tasks.ConfigFrom(cfg.Tasks), tasks.NewCleanupAuditEventsQueue(cleaner))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	taskClient.Start(ctx)

	cleanup := scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
	if err := cleanup.Start(ctx); err != nil {
		cancel()
		if serr := taskClient.Shutdown(context.Background()); serr != nil {
			log.Error().Err(serr).Msg("Error shutting down task queue")
		}
		return nil, err
	}

	return func(shutdownCtx context.Context) {
		cleanup.Stop()
		err := taskClient.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Error shutting down task queue")
		}
	}, nil
}
