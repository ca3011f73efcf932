package handler

import (
	"net/http"
	"strconv"

	"vocabdetect/internal/logger"
	"vocabdetect/internal/service/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryHandler lists stored scans on GET and clears them on DELETE.
// A nil history answers 503.
func HistoryHandler(history *storage.HistoryService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			respondError(w, logger, http.StatusServiceUnavailable, "Scan history is disabled")
			return
		}

		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			page := atoiDefault(q.Get("page"), 1)
			limit := min(atoiDefault(q.Get("limit"), defaultHistoryLimit), maxHistoryLimit)

			data, err := history.Recent(page, limit)
			if err != nil {
				logger.Error("Error querying scan history: %v", err)
				respondError(w, logger, http.StatusInternalServerError, err.Error())
				return
			}
			respondJSON(w, logger, http.StatusOK, data)

		case http.MethodDelete:
			if err := history.Clear(); err != nil {
				logger.Error("Error clearing scan history: %v", err)
				respondError(w, logger, http.StatusInternalServerError, err.Error())
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", "GET, DELETE")
			respondError(w, logger, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// HistoryStatsHandler returns totals and the most detected objects.
func HistoryStatsHandler(history *storage.HistoryService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}
		if history == nil {
			respondError(w, logger, http.StatusServiceUnavailable, "Scan history is disabled")
			return
		}

		stats, err := history.Stats()
		if err != nil {
			logger.Error("Error reading scan stats: %v", err)
			respondError(w, logger, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, logger, http.StatusOK, stats)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
