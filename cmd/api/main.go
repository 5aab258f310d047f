// Package main provides the entrypoint for the irondash API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/api"
	"github.com/roaringfork/irondash/internal/config"
	"github.com/roaringfork/irondash/internal/dashboard"
	"github.com/roaringfork/irondash/internal/feedback/github"
	"github.com/roaringfork/irondash/internal/observability"
	"github.com/roaringfork/irondash/internal/pipeline"
	"github.com/roaringfork/irondash/internal/provider/resilience"
	"github.com/roaringfork/irondash/internal/synoptic"
	"github.com/roaringfork/irondash/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "irondash-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting irondash API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics := observability.NewMetrics()

	// Observation API client.
	synClient := synoptic.NewClient(synoptic.ClientConfig{
		Token:   cfg.SynopticToken,
		BaseURL: cfg.SynopticBaseURL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:    synoptic.ProviderName,
			Timeout: cfg.FetchTimeout,
		}),
		Logger: log,
	})

	// Verify the observation token before serving traffic. The fetch path
	// itself never retries, so the retry policy lives here at the caller.
	if err := verifyToken(ctx, synClient, log); err != nil {
		log.Fatal().Err(err).Msg("observation API token rejected")
	}
	log.Info().Msg("observation API token verified")

	// Issue tracker client for feedback.
	ghClient := github.NewClient(github.ClientConfig{
		Token:   cfg.GitHubToken,
		Owner:   cfg.RepoOwner,
		Repo:    cfg.RepoName,
		BaseURL: cfg.GitHubBaseURL,
		Logger:  log,
	})

	registry := dashboard.NewRegistry(dashboard.RegistryConfig{
		Builder:      pipeline.NewBuilder(cfg.SynopticBaseURL, cfg.SynopticToken),
		Fetcher:      synClient,
		IssueCreator: ghClient,
		Logger:       log,
		Metrics:      metrics,
		TTL:          cfg.SessionTTL,
	})

	dashboardService := dashboard.NewService(dashboard.ServiceConfig{
		Registry: registry,
		Logger:   log,
	})
	log.Info().Msg("dashboard service initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		Metrics:          metrics,
		DashboardService: dashboardService,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// verifyToken probes the observation API with exponential backoff so a
// briefly unreachable provider does not fail startup.
func verifyToken(ctx context.Context, client *synoptic.Client, log zerolog.Logger) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = time.Minute

	return backoff.Retry(func() error {
		if err := client.VerifyToken(ctx); err != nil {
			log.Warn().Err(err).Msg("token verification attempt failed")
			return err
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}
