package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware("*", okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/detect", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	CORSMiddleware("", okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimitMiddleware(t *testing.T) {
	var readErr error
	h := BodyLimitMiddleware(4, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader("0123456789")))
	var maxErr *http.MaxBytesError
	require.ErrorAs(t, readErr, &maxErr)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader("ok")))
	require.NoError(t, readErr)
}

func TestLoggingMiddleware(t *testing.T) {
	var info strings.Builder
	log := logger.NewWithWriters(&info, io.Discard, io.Discard)

	rec := httptest.NewRecorder()
	LoggingMiddleware(log, okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vocab/list", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Contains(t, info.String(), "GET /vocab/list 418")
}
