package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/model"
)

func TestLoadLabels_Default(t *testing.T) {
	labels, err := LoadLabels("")
	require.NoError(t, err)
	require.Len(t, labels, 80)
	require.Equal(t, "person", labels[0])
	require.Equal(t, "cup", labels[41])
}

func TestLoadLabels_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.names")
	require.NoError(t, os.WriteFile(path, []byte("kimchi\nbibimbap\n"), 0644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	require.Equal(t, []string{"kimchi", "bibimbap"}, labels)
}

func TestLoadLabels_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.names")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))

	_, err := LoadLabels(path)
	require.Error(t, err)
}

func TestClassName(t *testing.T) {
	labels := []string{"person", "bicycle"}
	require.Equal(t, "bicycle", className(labels, 1))
	require.Equal(t, "class7", className(labels, 7))
	require.Equal(t, "class-1", className(labels, -1))
}

func TestCaption(t *testing.T) {
	require.Equal(t, "keop|cup 0.92", caption(model.EnrichedDetection{Name: "cup", Romanization: "keop", Confidence: 0.92}))
	require.Equal(t, "dog 0.50", caption(model.EnrichedDetection{Name: "dog", Confidence: 0.5}))
}
