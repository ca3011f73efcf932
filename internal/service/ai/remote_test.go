package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
)

func newTestRemote(t *testing.T, handler http.HandlerFunc) (*RemoteDetector, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d := NewRemoteDetector(&config.Config{InferenceURL: srv.URL + "/predict"}, logger.Discard())
	t.Cleanup(func() { _ = d.Close() })
	return d, srv
}

func TestRemoteDetector_Detect(t *testing.T) {
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var req remoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		require.Equal(t, "jpeg-bytes", string(raw))
		require.Equal(t, 0.5, req.Conf)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detections":[
			{"class":"cup","confidence":0.8734,"box":[10.9,20.2,110.5,220.7]},
			{"class":"dog","confidence":0.3,"box":[0,0,1,1]}
		]}`))
	})

	got, err := d.Detect(context.Background(), []byte("jpeg-bytes"), 0.5)
	require.NoError(t, err)
	require.Equal(t, []model.Detection{
		{Class: "cup", Confidence: 0.8734, Box: model.Box{X1: 10.9, Y1: 20.2, X2: 110.5, Y2: 220.7}},
	}, got)
}

func TestRemoteDetector_ServerError(t *testing.T) {
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := d.Detect(context.Background(), []byte("img"), 0.5)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDetectorUnavailable)
	require.Contains(t, err.Error(), "500")
}

func TestRemoteDetector_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < breakerTripAfter; i++ {
		_, err := d.Detect(context.Background(), []byte("img"), 0.5)
		require.Error(t, err)
	}

	_, err := d.Detect(context.Background(), []byte("img"), 0.5)
	require.ErrorIs(t, err, ErrDetectorUnavailable)
	require.Equal(t, int32(breakerTripAfter), hits.Load())
}

func TestRemoteDetector_ClientErrorsDoNotTrip(t *testing.T) {
	var hits atomic.Int32
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad image", http.StatusBadRequest)
	})

	for i := 0; i < breakerTripAfter+2; i++ {
		_, err := d.Detect(context.Background(), []byte("img"), 0.5)
		require.ErrorIs(t, err, errUpstreamRejected)
	}
	require.Equal(t, int32(breakerTripAfter+2), hits.Load())
}

func TestRemoteDetector_CanceledDoesNotTrip(t *testing.T) {
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"detections":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < breakerTripAfter+2; i++ {
		_, err := d.Detect(ctx, []byte("img"), 0.5)
		require.ErrorIs(t, err, context.Canceled)
	}

	got, err := d.Detect(context.Background(), []byte("img"), 0.5)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRemoteDetector_Ping(t *testing.T) {
	d, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	require.NoError(t, d.Ping(context.Background()))

	down, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	require.ErrorIs(t, down.Ping(context.Background()), ErrDetectorUnavailable)
}
