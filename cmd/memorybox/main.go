package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	cloudinaryadapter "github.com/ericfisherdev/memorybox/internal/adapter/driven/cloudinary"
	sqliteadapter "github.com/ericfisherdev/memorybox/internal/adapter/driven/sqlite"
	tokenadapter "github.com/ericfisherdev/memorybox/internal/adapter/driven/token"
	httphandler "github.com/ericfisherdev/memorybox/internal/adapter/driving/http"
	"github.com/ericfisherdev/memorybox/internal/application"
	"github.com/ericfisherdev/memorybox/internal/config"
	"github.com/ericfisherdev/memorybox/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Seed the environment from .env (process env wins), then load
	// configuration (fail fast on a missing signing secret).
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	envPath, err := config.LoadDotEnv(wd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	if envPath != "" {
		logger.Info("loaded .env", "path", envPath)
	}
	logger.Info("config loaded", "config", cfg)

	creds := credentialSet(cfg.Users)
	if creds.Len() == 0 {
		logger.Warn("no user accounts configured, every login will fail")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	schemaVersion, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "schema_version", schemaVersion)

	// 5. Wire driven adapters.
	memoryStore := sqliteadapter.NewMemoryRepo(db)

	codec, err := tokenadapter.NewCodec([]byte(cfg.JWTSecret), tokenadapter.WithTTL(cfg.TokenTTL))
	if err != nil {
		return err
	}

	media, err := cloudinaryadapter.NewClient(mediaHostConfig(cfg.Cloudinary), logger)
	if err != nil {
		return err
	}
	if !media.Configured() {
		logger.Warn("cloudinary not configured, uploads will fail until credentials are set")
	}

	// 6. Create application services.
	authSvc := application.NewAuthService(creds, codec, logger)
	memorySvc := application.NewMemoryService(memoryStore, media, logger)

	// 7. Create HTTP handler with all routes and middleware.
	apiHandler := httphandler.NewHandler(authSvc, memorySvc, httphandler.NewMetrics(), cfg.MaxUploadBytes, logger)
	handler := httphandler.NewServeMux(apiHandler, cfg.CORSOrigins, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 8. Log startup complete.
	logger.Info("memorybox started",
		"listen_addr", cfg.ListenAddr,
		"accounts", creds.Usernames(),
	)

	// 9. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		return err
	}

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	logger.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func mediaHostConfig(c config.Cloudinary) cloudinaryadapter.Config {
	return cloudinaryadapter.Config{
		CloudName: c.CloudName,
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
		Folder:    c.Folder,
	}
}

func credentialSet(users []config.User) model.CredentialSet {
	creds := make([]model.Credential, 0, len(users))
	for _, u := range users {
		creds = append(creds, model.Credential{Username: u.Username, Password: u.Password})
	}
	return model.NewCredentialSet(creds...)
}
