package handler

import (
	"net/http"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
)

// HealthHandler reports that the server is up.
func HealthHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}
		respondJSON(w, logger, http.StatusOK, dto.HealthResponse{
			Status:  "ok",
			Message: "AI Backend is running",
		})
	}
}
