package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/govscan/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/govscan/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/govscan/internal/adapter/driving/web"
	"github.com/ericfisherdev/govscan/internal/application"
	"github.com/ericfisherdev/govscan/internal/bootstrap"
	"github.com/ericfisherdev/govscan/internal/config"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"source", cfg.Source,
		"fetch_readmes", cfg.FetchReadmes,
		"classify", cfg.Classify,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", db.Path())

	// 4. Wire stores. The configured organization list seeds an empty store.
	orgStore := sqliteadapter.NewOrgRepo(db)
	if err := orgStore.SeedIfEmpty(ctx, cfg.Organizations); err != nil {
		return err
	}
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	if !cfg.HasSecretKey() {
		slog.Info("GOVSCAN_SECRET_KEY not set, stored credentials disabled")
	}

	// 5. Resolve tokens: stored credentials take priority over env vars.
	tokens := bootstrap.Tokens{GitHub: cfg.GitHubToken, Classifier: cfg.ClassifierToken}
	if stored := storedToken(ctx, credentialStore, driven.ServiceGitHub); stored != "" {
		tokens.GitHub = stored
	}
	if stored := storedToken(ctx, credentialStore, driven.ServiceClassifier); stored != "" {
		tokens.Classifier = stored
	}

	// 6. Build the pipeline and the session cache.
	pipeline, err := bootstrap.NewPipeline(cfg, orgStore, tokens)
	if err != nil {
		return err
	}
	provider := pipeline.Provider
	if provider == nil {
		provider = application.NewGitHubClientProvider(nil, "")
	}

	cache, err := application.NewDatasetCache(pipeline.Loader, cfg.SessionLimit)
	if err != nil {
		return err
	}
	dashboard := application.NewDashboardService(cache, pipeline.Classified)
	credentialSvc := application.NewCredentialService(credentialStore, provider, bootstrap.GitHubClientFactory(cfg))

	// 7. Register API and GUI routes.
	apiHandler := httphandler.NewHandler(dashboard, orgStore, credentialSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(dashboard, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A first load fetches every organization before the response starts.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("govscan started",
		"listen_addr", cfg.ListenAddr,
		"organizations", len(cfg.Organizations),
		"session_limit", cfg.SessionLimit,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// storedToken returns the stored token for service, or "" when none is stored
// or the store is unavailable.
func storedToken(ctx context.Context, store driven.CredentialStore, service string) string {
	token, err := store.Get(ctx, service)
	if err != nil {
		if !errors.Is(err, driven.ErrEncryptionKeyNotSet) {
			slog.Warn("failed to read stored credential", "service", service, "error", err)
		}
		return ""
	}
	return token
}
