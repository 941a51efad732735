package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nyayasetu-web/backend"
	"nyayasetu-web/config"
	"nyayasetu-web/handlers"
	"nyayasetu-web/logging"
	"nyayasetu-web/service"
	"nyayasetu-web/storage"

	"go.uber.org/zap"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	stagingStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("storage initialized", zap.String("type", cfg.Storage.Type))

	client := backend.NewClient(cfg.LegalBackendURL, cfg.DocBackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger.Named("backend")),
	)

	// Initialize services
	gate := service.NewGate()
	research := service.NewResearchService(
		service.ResearchWithBackend(client),
		service.ResearchWithGate(gate),
		service.ResearchWithStrictParse(cfg.StrictParse),
		service.ResearchWithLogger(logger.Named("research")),
	)
	documents := service.NewDocumentService(
		service.DocumentWithBackend(client),
		service.DocumentWithStorage(stagingStore),
		service.DocumentWithGate(gate),
		service.DocumentWithMaxFileSize(cfg.MaxUploadBytes),
		service.DocumentWithLogger(logger.Named("documents")),
		service.DocumentWithContext(ctx),
	)
	sessions := service.NewSessionService(
		service.SessionWithResearchService(research),
		service.SessionWithDocumentService(documents),
		service.SessionWithGate(gate),
		service.SessionWithTTL(cfg.SessionTTL),
		service.SessionWithLogger(logger.Named("sessions")),
	)

	router, err := handlers.NewRouter(cfg, handlers.Services{
		Sessions:   sessions,
		Research:   research,
		CaseLaw:    service.NewCaseLawService(service.CaseLawWithBackend(client), service.CaseLawWithGate(gate)),
		Comparator: service.NewComparatorService(service.ComparatorWithBackend(client), service.ComparatorWithGate(gate)),
		Documents:  documents,
	}, logger)
	if err != nil {
		return err
	}

	go sessions.RunSweeper(ctx, sweepInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("legal_backend", cfg.LegalBackendURL),
			zap.String("doc_backend", cfg.DocBackendURL))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	documents.Wait()
	return nil
}
