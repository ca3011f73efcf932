package handler

import (
	"errors"
	"net/http"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/service"
)

// DetectHandler runs object detection on a base64 image and returns the
// translated objects.
func DetectHandler(detection *service.DetectionService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodPost) {
			return
		}

		var req dto.DetectRequest
		if tooLarge, err := decodeBody(r, &req); err != nil {
			if tooLarge {
				respondError(w, logger, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			respondError(w, logger, http.StatusBadRequest, "No image data provided")
			return
		}

		resp, err := detection.Detect(r.Context(), service.SourceHTTP, req)
		switch {
		case errors.Is(err, service.ErrNoImage):
			respondError(w, logger, http.StatusBadRequest, "No image data provided")
			return
		case errors.Is(err, service.ErrInvalidImage):
			logger.Warning("Rejected image: %v", err)
			respondError(w, logger, http.StatusBadRequest, "Failed to decode image")
			return
		case err != nil:
			logger.Error("Error in detection: %v", err)
			respondError(w, logger, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, logger, http.StatusOK, resp)
	}
}
