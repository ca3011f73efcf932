// Package aitest provides an in-memory detector for tests.
package aitest

import (
	"context"
	"sync"

	"vocabdetect/internal/model"
)

// FakeDetector returns canned detections and records what it was called with.
type FakeDetector struct {
	Detections []model.Detection
	Err        error
	PingErr    error
	Annotated  []byte
	AnnotErr   error

	mu         sync.Mutex
	calls      int
	thresholds []float64
}

func (f *FakeDetector) Detect(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error) {
	f.mu.Lock()
	f.calls++
	f.thresholds = append(f.thresholds, threshold)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]model.Detection, 0, len(f.Detections))
	for _, d := range f.Detections {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *FakeDetector) Annotate(imageBytes []byte, objects []model.EnrichedDetection) ([]byte, error) {
	if f.AnnotErr != nil {
		return nil, f.AnnotErr
	}
	return f.Annotated, nil
}

func (f *FakeDetector) Ping(ctx context.Context) error {
	return f.PingErr
}

func (f *FakeDetector) Close() error {
	return nil
}

// Calls returns how many times Detect ran.
func (f *FakeDetector) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Thresholds returns the thresholds Detect was called with.
func (f *FakeDetector) Thresholds() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.thresholds...)
}

// CupAndDog is the two-object scene used across tests.
func CupAndDog() []model.Detection {
	return []model.Detection{
		{Class: "dog", Confidence: 0.6512, Box: model.Box{X1: 5.5, Y1: 5.2, X2: 50.9, Y2: 60.1}},
		{Class: "cup", Confidence: 0.8734, Box: model.Box{X1: 10.9, Y1: 20.2, X2: 110.5, Y2: 220.7}},
	}
}
