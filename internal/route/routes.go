package route

import (
	"net/http"

	"vocabdetect/internal/config"
	"vocabdetect/internal/handler"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/middleware"
	"vocabdetect/internal/service"
	"vocabdetect/internal/service/storage"
	"vocabdetect/internal/service/websocket"
	"vocabdetect/internal/vocab"
)

// Services groups what the HTTP layer depends on. History may be nil.
type Services struct {
	Detection *service.DetectionService
	Table     *vocab.Table
	History   *storage.HistoryService
	Hub       *websocket.HubService
}

// SetupRoutes registers the API endpoints and wraps the mux with logging,
// CORS and body limit middleware.
func SetupRoutes(cfg *config.Config, log *logger.Logger, services Services) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/health", handler.HealthHandler(log))
	mux.HandleFunc("/detect", handler.DetectHandler(services.Detection, log))
	mux.HandleFunc("/vocab/add", handler.AddVocabHandler(services.Table, log))
	mux.HandleFunc("/vocab/list", handler.ListVocabHandler(services.Table, log))

	// History endpoints
	mux.HandleFunc("/history", handler.HistoryHandler(services.History, log))
	mux.HandleFunc("/history/stats", handler.HistoryStatsHandler(services.History, log))

	// WebSocket endpoints
	mux.HandleFunc("/live", handler.LiveWebsocketHandler(services.Detection, cfg.MaxBodyBytes, log))
	mux.HandleFunc("/feed", handler.FeedWebsocketHandler(services.Hub, log))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.LogsHandler(log, logger.InfoFile))
	mux.HandleFunc("/logs/warning", handler.LogsHandler(log, logger.WarningFile))
	mux.HandleFunc("/logs/error", handler.LogsHandler(log, logger.ErrorFile))

	mux.HandleFunc("/logs/info/clear", handler.ClearLogsHandler(log, logger.InfoFile))
	mux.HandleFunc("/logs/warning/clear", handler.ClearLogsHandler(log, logger.WarningFile))
	mux.HandleFunc("/logs/error/clear", handler.ClearLogsHandler(log, logger.ErrorFile))

	// Apply middleware
	var h http.Handler = mux
	h = middleware.BodyLimitMiddleware(cfg.MaxBodyBytes, h)
	h = middleware.CORSMiddleware(cfg.AllowedOrigin, h)
	return middleware.LoggingMiddleware(log, h)
}
