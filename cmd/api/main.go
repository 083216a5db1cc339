// Athlete Readiness API
//
// Daily readiness check-in for a single athlete.
//
//	@title			Athlete Readiness API
//	@version		1.0
//	@description	Onboarding, self-reported daily metrics and a structured readiness report.
//
//	@BasePath	/v1
//
//	@tag.name			session
//	@tag.description	Single-athlete session endpoints
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

	"github.com/blaisecz/athlete-readiness/internal/api"
	"github.com/blaisecz/athlete-readiness/internal/api/handler"
	"github.com/blaisecz/athlete-readiness/internal/config"
	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
	"github.com/blaisecz/athlete-readiness/internal/llm"
	"github.com/blaisecz/athlete-readiness/internal/localstore"
	"github.com/blaisecz/athlete-readiness/internal/logging"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/blaisecz/athlete-readiness/internal/repository"
	"github.com/blaisecz/athlete-readiness/internal/seed"
	"github.com/blaisecz/athlete-readiness/internal/service"
	"github.com/blaisecz/athlete-readiness/internal/session"
	"github.com/blaisecz/athlete-readiness/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, telemetry.ServiceName)
	if err != nil {
		return err
	}

	langfuseClient := langfuse.NewClient(langfuse.Config{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Environment: cfg.LangfuseEnv,
	})

	persona := langfuse.ResolvePersona(ctx, langfuse.PersonaSource{
		BaseURL:   cfg.LangfuseBaseURL,
		PublicKey: cfg.LangfusePublicKey,
		SecretKey: cfg.LangfuseSecretKey,
		Name:      cfg.LangfusePromptName,
		Label:     cfg.LangfusePromptLabel,
		CachePath: cfg.PromptCachePath,
	}, llm.DefaultPersona)

	// Initialize inference client (nil if not configured; every call then
	// fails with a configuration error)
	openaiClient := llm.NewOpenAIClient(llm.Config{
		APIKey:       cfg.InferenceAPIKey,
		Model:        cfg.InferenceModel,
		BaseURL:      cfg.InferenceBaseURL,
		Timeout:      cfg.InferenceTimeout,
		Persona:      persona,
	})
	if openaiClient == nil {
		slog.Warn("inference API key not configured, check-ins will fail until it is set")
	}
	var analyzer llm.Analyzer = openaiClient

	metricsManager := metrics.NewManager(metrics.WithRuntimeCollectors())

	// Remote store is optional
	var (
		profileRepo repository.ProfileRepository
		reportRepo  repository.ReportRepository
	)
	db, err := config.NewDatabase(cfg)
	switch {
	case errors.Is(err, config.ErrNoDatabase):
		slog.Warn("DATABASE_URL not set, remote sync disabled")
	case err != nil:
		slog.Warn("remote store unavailable, remote sync disabled", "error", err)
	default:
		if err := db.AutoMigrate(&domain.Profile{}, &domain.DailyReport{}); err != nil {
			return err
		}
		slog.Info("database migration completed")

		if cfg.Seed {
			slog.Info("seeding database with sample data (SEED=true)")
			if err := seed.Run(ctx, db); err != nil {
				return err
			}
		}

		profileRepo = repository.NewProfileRepository(db)
		reportRepo = repository.NewReportRepository(db)
	}

	// Initialize services
	store := localstore.NewFileStore(cfg.ProfileCachePath)
	syncService := service.NewSyncService(profileRepo, reportRepo, cfg.RemoteWriteTimeout, metricsManager)
	profileService := service.NewProfileService(analyzer, store, syncService, metricsManager)
	analysisService := service.NewAnalysisService(analyzer, langfuseClient, metricsManager)

	orchestrator := session.New(profileService, analysisService, store, syncService)
	orchestrator.Start(ctx)
	slog.Info("session restored", "state", orchestrator.Snapshot().State)

	// Setup router
	sessionHandler := handler.NewSessionHandler(orchestrator, langfuseClient)
	router := api.NewRouter(sessionHandler, metricsManager)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	// Drain background writes before exit
	syncService.Wait()
	langfuseClient.Wait()
	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Warn("tracer shutdown", "error", err)
	}
	return nil
}
