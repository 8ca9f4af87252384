// Package main initializes and starts the VitalsKeeper server,
// setting up configuration, logging, storage, services, handlers and,
// optionally, TLS.
package main

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/VitalsKeeper/internal/config"
	"github.com/atinyakov/VitalsKeeper/internal/db"
	"github.com/atinyakov/VitalsKeeper/internal/logger"
	"github.com/atinyakov/VitalsKeeper/internal/middleware"
	"github.com/atinyakov/VitalsKeeper/internal/repository"
	"github.com/atinyakov/VitalsKeeper/internal/server/handler/http"
	"github.com/atinyakov/VitalsKeeper/internal/service"
	"github.com/atinyakov/VitalsKeeper/internal/token"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// Development account created when SEED_DEFAULT_USER is set.
const (
	defaultUserName     = "Jayanth"
	defaultUserEmail    = "jayanth@example.com"
	defaultUserPassword = "123456"
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot start", zap.Error(err))
	}
	defer app.Close()

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Address),
			zap.Bool("tls", options.TLSEnabled()),
			zap.String("storage", app.Storage),
		)
		if options.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// app is the wired HTTP handler and the resources behind it.
type app struct {
	Handler nethttp.Handler
	// Storage is http.StoragePostgres or http.StorageMemory.
	Storage string
	db      *sql.DB
}

// Close releases the database connection, if any.
func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// newApp wires repositories, services and handlers. A missing or unusable
// database is not fatal: the server then runs on in-memory stores.
func newApp(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (*app, error) {
	a := &app{Storage: http.StorageMemory}

	var (
		userRepo   service.UserRepository
		vitalsRepo service.VitalsRepository
	)
	if options.DatabaseDSN != "" {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		postgresDB, err := db.InitPostgres(initCtx, options.DatabaseDSN)
		cancel()
		if err != nil {
			zapLogger.Warn("database unavailable, falling back to in-memory storage; data will not survive a restart",
				zap.Error(err))
		} else {
			a.db = postgresDB
			a.Storage = http.StoragePostgres
			userRepo = repository.NewPostgresUserRepository(postgresDB)
			vitalsRepo = repository.NewPostgresVitalsRepository(postgresDB)
		}
	} else {
		zapLogger.Warn("DATABASE_DSN not set, using in-memory storage; data will not survive a restart")
	}
	if userRepo == nil {
		userRepo = repository.NewMemoryUserRepository()
		vitalsRepo = repository.NewMemoryVitalsRepository()
	}

	secret := []byte(options.JWTSecret)
	if len(secret) == 0 {
		var err error
		if secret, err = token.RandomSecret(); err != nil {
			return nil, err
		}
		zapLogger.Warn("JWT_SECRET not set, using a random signing key; sessions end on restart")
	}
	issuer := token.NewIssuer(secret, options.TokenTTL)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, issuer)
	vitalsService := service.NewVitalsService(vitalsRepo)

	if options.SeedDefaultUser {
		created, err := authService.SeedDefaultUser(ctx, defaultUserName, defaultUserEmail, defaultUserPassword)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("seed default user: %w", err)
		}
		if created {
			zapLogger.Info("default user created", zap.String("email", defaultUserEmail))
		}
	}

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	vitalsHandler := &http.VitalsHandler{VitalsService: vitalsService, Logger: zapLogger}
	healthHandler := &http.HealthHandler{Logger: zapLogger}
	if a.db != nil {
		healthHandler.DB = a.db
	}

	// Build the router with middleware and routes.
	a.Handler = http.NewRouter(authHandler, vitalsHandler, healthHandler, middleware.BearerAuth(issuer, zapLogger), zapLogger)
	return a, nil
}
