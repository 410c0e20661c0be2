package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/cloakboard/molt-auth/internal/auth/http"
	"github.com/cloakboard/molt-auth/internal/auth/service"
	"github.com/cloakboard/molt-auth/internal/auth/store"
	"github.com/cloakboard/molt-auth/internal/auth/store/drivers/memory"
	redisstore "github.com/cloakboard/molt-auth/internal/auth/store/drivers/redis"
	"github.com/cloakboard/molt-auth/internal/auth/store/drivers/sqlite"
	"github.com/cloakboard/molt-auth/pkg/oprf"
	"github.com/cloakboard/molt-auth/pkg/sessionx"
	"github.com/cloakboard/molt-auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	sessions  *sessionx.Codec
	evaluator *oprf.Evaluator

	// Services
	magicLinkService    *service.MagicLinkService
	oprfService         *service.OPRFService
	walletService       *service.WalletService
	accountService      *service.AccountService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "molt-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Session codec first: a missing or weak SESSION_SECRET must abort
	// startup, never degrade to an unsigned token.
	sessions, err := sessionx.New([]byte(cfg.SessionSecret), cfg.Issuer, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}
	app.sessions = sessions

	evaluator, err := oprf.NewEvaluator(cfg.OPRFServerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OPRF evaluator: %w", err)
	}
	app.evaluator = evaluator

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close store connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initStore builds the configured store driver and applies migrations
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.New()
		app.logger.Warn("using in-memory store, all state is lost on restart")
		return nil

	case "sqlite":
		db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply store migrations: %w", err)
		}
		app.db = db
		app.logger.Info("store migrations applied successfully")
		return nil

	case "redis":
		db, err := redisstore.NewStore(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		app.db = db
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.accountService = &service.AccountService{Store: app.db}

	app.magicLinkService = &service.MagicLinkService{
		Store:    app.db,
		Sessions: app.sessions,
		Accounts: app.accountService,
		Mailer:   &service.LogMailer{Logger: app.logger},
		BaseURL:  app.cfg.MagicLinkBaseURL,
		TTL:      app.cfg.MagicLinkTTL,
	}

	app.oprfService = &service.OPRFService{
		Evaluator: app.evaluator,
		Sessions:  app.sessions,
	}

	app.walletService = &service.WalletService{
		Sessions: app.sessions,
		Accounts: app.accountService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessions,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.MagicLinkService = app.magicLinkService
	router.OPRFService = app.oprfService
	router.WalletService = app.walletService
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
