package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
	"vocabdetect/internal/repository/sqlite"
)

func newTestHistory(t *testing.T) *HistoryService {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewHistoryService(logger.Discard(), sqlite.NewScanRepository(db), sqlite.NewDetectionRepository(db))
}

func cupAndDog() []model.EnrichedDetection {
	return []model.EnrichedDetection{
		{Name: "cup", Korean: "컵", Romanization: "keop", Confidence: 0.87, BBox: model.BBox{X1: 10, Y1: 20, X2: 110, Y2: 220}},
		{Name: "dog", Korean: "개", Romanization: "gae", Confidence: 0.65, BBox: model.BBox{X1: 5, Y1: 5, X2: 50, Y2: 60}},
	}
}

func TestHistoryService_RecordAndRecent(t *testing.T) {
	history := newTestHistory(t)

	history.Record("http", cupAndDog(), 2)
	history.Record("telegram", nil, 0)

	data, err := history.Recent(1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, data.Total)
	require.Equal(t, 1, data.Page)
	require.Len(t, data.Scans, 2)

	var httpScan model.Scan
	for _, scan := range data.Scans {
		if scan.Source == "http" {
			httpScan = scan
		}
	}
	require.Equal(t, 2, httpScan.TotalDetected)
	require.Len(t, httpScan.Objects, 2)
	require.Equal(t, "컵", httpScan.Objects[0].Korean)
	require.Equal(t, 110, httpScan.Objects[0].X2)
}

func TestHistoryService_Paging(t *testing.T) {
	history := newTestHistory(t)
	for i := 0; i < 5; i++ {
		history.Record("http", cupAndDog()[:1], 1)
	}

	data, err := history.Recent(3, 2)
	require.NoError(t, err)
	require.Equal(t, 5, data.Total)
	require.Len(t, data.Scans, 1)

	data, err = history.Recent(0, 2)
	require.NoError(t, err)
	require.Equal(t, 1, data.Page)
	require.Len(t, data.Scans, 2)
}

func TestHistoryService_StatsAndClear(t *testing.T) {
	history := newTestHistory(t)
	history.Record("http", cupAndDog(), 2)
	history.Record("http", cupAndDog()[:1], 1)

	stats, err := history.Stats()
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalScans)
	require.Equal(t, 3, stats.TotalObjects)
	require.Equal(t, 2, stats.ObjectCounts["cup"])

	history.Record("http", cupAndDog(), 2)
	require.NoError(t, history.Clear())

	stats, err = history.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.TotalScans)
	require.Zero(t, stats.TotalObjects)
}

func TestHistoryService_BufferLimit(t *testing.T) {
	history := newTestHistory(t)
	for i := 0; i < HistoryBufferLimit+5; i++ {
		history.Record("http", nil, 0)
	}

	data, err := history.Recent(1, 1)
	require.NoError(t, err)
	require.Equal(t, HistoryBufferLimit, data.Total)
}
