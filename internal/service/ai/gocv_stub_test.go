//go:build !gocv

package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
)

func TestGocvStub_Unavailable(t *testing.T) {
	d := NewGocvDetector(&config.Config{ModelPath: "models/yolov8n.onnx"}, nil, logger.Discard())

	require.ErrorIs(t, d.Ping(context.Background()), ErrDetectorUnavailable)

	_, err := d.Detect(context.Background(), []byte("img"), 0.5)
	require.ErrorIs(t, err, ErrDetectorUnavailable)

	_, err = d.Annotate([]byte("img"), nil)
	require.ErrorIs(t, err, ErrDetectorUnavailable)

	require.NoError(t, d.Close())
}

var (
	_ Detector  = (*GocvDetector)(nil)
	_ Annotator = (*GocvDetector)(nil)
)
