package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
)

const (
	remoteTimeout     = 30 * time.Second
	breakerOpenPeriod = 30 * time.Second
	breakerTripAfter  = 5
)

// errUpstreamRejected marks a 4xx answer; the service is up, the input was bad.
var errUpstreamRejected = errors.New("inference service rejected the request")

// RemoteDetector calls an external inference service over HTTP.
type RemoteDetector struct {
	inferenceURL string
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
	logger       *logger.Logger
}

type remoteRequest struct {
	Image string  `json:"image"`
	Conf  float64 `json:"conf"`
}

type remoteResponse struct {
	Detections []struct {
		Class      string     `json:"class"`
		Confidence float64    `json:"confidence"`
		Box        [4]float64 `json:"box"`
	} `json:"detections"`
}

// NewRemoteDetector creates a client for config.InferenceURL guarded by a circuit breaker.
func NewRemoteDetector(config *config.Config, logger *logger.Logger) *RemoteDetector {
	d := &RemoteDetector{
		inferenceURL: config.InferenceURL,
		httpClient: &http.Client{
			Timeout: remoteTimeout,
		},
		logger: logger,
	}

	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "inference",
		Timeout: breakerOpenPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, errUpstreamRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warning("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return d
}

// Detect sends the image to the inference service.
func (d *RemoteDetector) Detect(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.predict(ctx, imageBytes, threshold)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
		}
		return nil, err
	}

	return result.([]model.Detection), nil
}

func (d *RemoteDetector) predict(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error) {
	payload, err := json.Marshal(remoteRequest{
		Image: base64.StdEncoding.EncodeToString(imageBytes),
		Conf:  threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.inferenceURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", errUpstreamRejected, resp.StatusCode, bytes.TrimSpace(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]model.Detection, 0, len(result.Detections))
	for _, det := range result.Detections {
		if det.Confidence < threshold {
			continue
		}
		detections = append(detections, model.Detection{
			Class:      det.Class,
			Confidence: det.Confidence,
			Box: model.Box{
				X1: det.Box[0],
				Y1: det.Box[1],
				X2: det.Box[2],
				Y2: det.Box[3],
			},
		})
	}
	return detections, nil
}

// Ping checks the /health endpoint on the inference host.
func (d *RemoteDetector) Ping(ctx context.Context) error {
	healthURL, err := d.healthURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: inference service unhealthy: %d", ErrDetectorUnavailable, resp.StatusCode)
	}
	return nil
}

func (d *RemoteDetector) healthURL() (string, error) {
	base, err := url.Parse(d.inferenceURL)
	if err != nil {
		return "", fmt.Errorf("invalid inference url %q: %w", d.inferenceURL, err)
	}
	return base.ResolveReference(&url.URL{Path: "/health"}).String(), nil
}

// Close releases idle connections.
func (d *RemoteDetector) Close() error {
	d.httpClient.CloseIdleConnections()
	return nil
}
