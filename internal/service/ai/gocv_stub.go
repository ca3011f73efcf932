//go:build !gocv
// +build !gocv

package ai

import (
	"context"
	"fmt"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
)

// GocvDetector is a placeholder used when the binary is built without OpenCV.
type GocvDetector struct {
	modelPath string
	labels    []string
	logger    *logger.Logger
}

// NewGocvDetector creates a stub detector (no OpenCV).
func NewGocvDetector(config *config.Config, labels []string, logger *logger.Logger) *GocvDetector {
	logger.Warning("Built without the gocv tag; model %s will not be loaded", config.ModelPath)
	return &GocvDetector{
		modelPath: config.ModelPath,
		labels:    labels,
		logger:    logger,
	}
}

// Ping always fails without the gocv build tag.
func (d *GocvDetector) Ping(ctx context.Context) error {
	return fmt.Errorf("%w: gocv build tag is not enabled", ErrDetectorUnavailable)
}

// Detect returns an error if built without the gocv tag.
func (d *GocvDetector) Detect(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error) {
	return nil, d.Ping(ctx)
}

// Annotate returns an error if built without the gocv tag.
func (d *GocvDetector) Annotate(imageBytes []byte, objects []model.EnrichedDetection) ([]byte, error) {
	return nil, d.Ping(context.Background())
}

// Close is a no-op.
func (d *GocvDetector) Close() error {
	return nil
}
