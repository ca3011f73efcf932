package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/vocab"
)

// AddVocabHandler inserts or overwrites an English to Korean mapping.
func AddVocabHandler(table *vocab.Table, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodPost) {
			return
		}

		var req dto.VocabAddRequest
		if tooLarge, err := decodeBody(r, &req); err != nil {
			if tooLarge {
				respondError(w, logger, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			respondError(w, logger, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		mapping := vocab.Mapping{
			English:      req.English,
			Korean:       req.Korean,
			Romanization: req.Romanization,
		}
		if err := table.Add(r.Context(), mapping); err != nil {
			if errors.Is(err, vocab.ErrMissingFields) {
				respondError(w, logger, http.StatusBadRequest, "Both english and korean are required")
				return
			}
			logger.Error("Failed to add mapping %s: %v", req.English, err)
			respondError(w, logger, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, logger, http.StatusOK, dto.VocabAddResponse{
			Success: true,
			Message: fmt.Sprintf("Added mapping: %s -> %s", strings.TrimSpace(req.English), strings.TrimSpace(req.Korean)),
		})
	}
}

// ListVocabHandler returns every English to Korean mapping.
func ListVocabHandler(table *vocab.Table, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}

		snapshot := table.Snapshot()
		respondJSON(w, logger, http.StatusOK, dto.VocabListResponse{
			Total:    snapshot.Len(),
			Mappings: snapshot.Mappings(),
		})
	}
}
