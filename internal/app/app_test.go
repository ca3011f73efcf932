package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DetectorBackend:     config.BackendRemote,
		InferenceURL:        "http://127.0.0.1:1/predict",
		ConfidenceThreshold: 0.5,
		VocabPath:           filepath.Join(dir, "vocab_mapping.json"),
		RomanizationPath:    filepath.Join(dir, "romanization.json"),
		HistoryDBPath:       filepath.Join(dir, "data", "history.db"),
	}
}

func TestNewApp_WiresHistory(t *testing.T) {
	a, err := NewApp(testConfig(t), logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.historyService)
	require.NotNil(t, a.DetectionService())
	require.Equal(t, 80, a.Table().Snapshot().Len())
}

func TestNewApp_HistoryDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.HistoryDBPath = ""

	a, err := NewApp(cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()
	require.Nil(t, a.historyService)
}

func TestNewDetector_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DetectorBackend = "tflite"

	_, err := NewDetector(cfg, logger.Discard())
	require.Error(t, err)
}
