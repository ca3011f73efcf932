package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/repository/sqlite"
	"vocabdetect/internal/route"
	"vocabdetect/internal/service"
	"vocabdetect/internal/service/ai"
	"vocabdetect/internal/service/storage"
	"vocabdetect/internal/service/websocket"
	"vocabdetect/internal/vocab"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config           *config.Config
	logger           *logger.Logger
	detector         ai.Detector
	table            *vocab.Table
	db               *sqlite.DB
	historyService   *storage.HistoryService
	hubService       *websocket.HubService
	detectionService *service.DetectionService
}

// NewApp wires the detector, translation table, scan history and feed hub.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	detector, err := NewDetector(cfg, log)
	if err != nil {
		return nil, err
	}

	table, err := vocab.Open(vocab.NewFileStore(cfg.VocabPath), vocab.NewFileStore(cfg.RomanizationPath), log)
	if err != nil {
		detector.Close()
		return nil, err
	}

	a := &App{
		config:     cfg,
		logger:     log,
		detector:   detector,
		table:      table,
		hubService: websocket.NewHubService(log),
	}

	a.detectionService = service.NewDetectionService(cfg, log, detector, table)
	a.detectionService.SetFeed(a.hubService)

	if cfg.HistoryDBPath != "" {
		db, err := sqlite.New(cfg.HistoryDBPath)
		if err != nil {
			log.Error("Scan history disabled, failed to open %s: %v", cfg.HistoryDBPath, err)
		} else {
			a.db = db
			a.historyService = storage.NewHistoryService(log, sqlite.NewScanRepository(db), sqlite.NewDetectionRepository(db))
			a.detectionService.SetHistory(a.historyService)
		}
	}

	return a, nil
}

// NewDetector builds the backend selected by DETECTOR_BACKEND and probes it.
// A failed probe is only a warning; requests report the error later.
func NewDetector(cfg *config.Config, log *logger.Logger) (ai.Detector, error) {
	var detector ai.Detector
	switch cfg.DetectorBackend {
	case config.BackendGocv:
		labels, err := ai.LoadLabels(cfg.LabelsPath)
		if err != nil {
			return nil, err
		}
		detector = ai.NewGocvDetector(cfg, labels, log)
	case config.BackendRemote:
		detector = ai.NewRemoteDetector(cfg, log)
	default:
		return nil, fmt.Errorf("unknown detector backend %q", cfg.DetectorBackend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := detector.Ping(ctx); err != nil {
		log.Warning("Detector %s is not ready: %v", cfg.DetectorBackend, err)
	}
	return detector, nil
}

// DetectionService exposes the wired service for other front-ends.
func (a *App) DetectionService() *service.DetectionService {
	return a.detectionService
}

// Table exposes the translation table.
func (a *App) Table() *vocab.Table {
	return a.table
}

// Start launches the background services. They stop when ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.hubService.Run(ctx)
	if a.historyService != nil {
		go a.historyService.Run(ctx)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)

	router := route.SetupRoutes(a.config, a.logger, route.Services{
		Detection: a.detectionService,
		Table:     a.table,
		History:   a.historyService,
		Hub:       a.hubService,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	snapshot := a.table.Snapshot()
	fmt.Printf("🚀 Korean Vocabulary Detection Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Detector: %s\n", a.config.DetectorBackend)
	fmt.Printf("📖 Korean vocab mappings: %d\n", snapshot.Len())
	fmt.Printf("🔤 Romanization mappings: %d\n", snapshot.RomanizationLen())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// Close releases the detector, table writer and database.
func (a *App) Close() {
	if a.historyService != nil {
		a.historyService.Flush()
	}
	a.table.Close()
	if err := a.detector.Close(); err != nil {
		a.logger.Error("Failed to close detector: %v", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close history database: %v", err)
		}
	}
}
