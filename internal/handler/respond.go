package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
)

// respondJSON writes v as JSON with the given status code.
func respondJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// respondError writes {"error": message}.
func respondError(w http.ResponseWriter, logger *logger.Logger, status int, message string) {
	respondJSON(w, logger, status, dto.ErrorResponse{Error: message})
}

// allowMethod answers 405 when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, logger *logger.Logger, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	respondError(w, logger, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// decodeBody reads a JSON body into v. It reports whether the body was too large.
func decodeBody(r *http.Request, v interface{}) (tooLarge bool, err error) {
	err = json.NewDecoder(r.Body).Decode(v)
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr), err
}
