package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"vocabdetect/internal/model"
	"vocabdetect/internal/vocab"
)

// ErrDetectorUnavailable marks failures where no detection could be attempted:
// model not loaded, backend not compiled in, or remote circuit open.
var ErrDetectorUnavailable = errors.New("detector unavailable")

// Detector runs object detection on an encoded image.
type Detector interface {
	// Detect returns every detection whose confidence is at least threshold,
	// with boxes in absolute pixel coordinates of the input image.
	Detect(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error)

	// Ping reports whether the backend is ready to serve.
	Ping(ctx context.Context) error

	Close() error
}

// Annotator draws detections on an image and returns a JPEG.
type Annotator interface {
	Annotate(imageBytes []byte, objects []model.EnrichedDetection) ([]byte, error)
}

// LoadLabels reads class names (one per line) from path, or returns the
// built-in COCO-80 names when path is empty.
func LoadLabels(path string) ([]string, error) {
	if path == "" {
		return vocab.CocoNames(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	names := vocab.ParseNames(string(data))
	if len(names) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return names, nil
}

// className maps a model class index to its name.
func className(labels []string, classID int) string {
	if classID >= 0 && classID < len(labels) {
		return labels[classID]
	}
	return fmt.Sprintf("class%d", classID)
}

// caption is the ASCII text drawn next to a box; Hershey fonts cannot render Hangul.
func caption(obj model.EnrichedDetection) string {
	label := obj.Name
	if obj.Romanization != "" {
		label = obj.Romanization + "|" + obj.Name
	}
	return fmt.Sprintf("%s %.2f", label, obj.Confidence)
}
