package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vocabdetect/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertScan(t *testing.T, scans *ScanRepository, dets *DetectionRepository, at time.Time, objects ...string) int64 {
	t.Helper()
	id, err := scans.Insert(&model.Scan{Source: "http", TotalDetected: len(objects), CreatedAt: at})
	require.NoError(t, err)

	batch := make([]model.ScanDetection, 0, len(objects))
	for i, name := range objects {
		batch = append(batch, model.ScanDetection{
			ObjectName: name,
			Korean:     name + "-ko",
			Confidence: 0.9 - float64(i)*0.1,
			X1:         i,
			Y1:         i,
			X2:         i + 10,
			Y2:         i + 10,
		})
	}
	require.NoError(t, dets.InsertBatch(id, batch))
	return id
}

func TestScanRepository_InsertAndGetRecent(t *testing.T) {
	db := setupTestDB(t)
	scans := NewScanRepository(db)
	dets := NewDetectionRepository(db)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	first := insertScan(t, scans, dets, base, "cup", "dog")
	second := insertScan(t, scans, dets, base.Add(time.Minute), "cup")
	third := insertScan(t, scans, dets, base.Add(2*time.Minute))

	got, err := scans.GetRecent(&model.ScanFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, third, got[0].ID)
	require.Equal(t, second, got[1].ID)
	require.True(t, got[1].CreatedAt.Equal(base.Add(time.Minute)))

	page2, err := scans.GetRecent(&model.ScanFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Equal(t, first, page2[0].ID)
	require.Equal(t, 2, page2[0].TotalDetected)

	total, err := scans.GetTotalCount(&model.ScanFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, total)

	withCup, err := scans.GetTotalCount(&model.ScanFilter{Object: "cup"})
	require.NoError(t, err)
	require.Equal(t, 2, withCup)
}

func TestDetectionRepository_GetByScanID(t *testing.T) {
	db := setupTestDB(t)
	scans := NewScanRepository(db)
	dets := NewDetectionRepository(db)

	id := insertScan(t, scans, dets, time.Now(), "cup", "dog")

	got, err := dets.GetByScanID(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "cup", got[0].ObjectName)
	require.Equal(t, "cup-ko", got[0].Korean)
	require.Equal(t, 10, got[0].X2)
	require.Equal(t, id, got[1].ScanID)

	empty, err := dets.GetByScanID(id + 100)
	require.NoError(t, err)
	require.Empty(t, empty)

	names, err := dets.GetAllObjectNames()
	require.NoError(t, err)
	require.Equal(t, []string{"cup", "dog"}, names)
}

func TestScanRepository_GetStats(t *testing.T) {
	db := setupTestDB(t)
	scans := NewScanRepository(db)
	dets := NewDetectionRepository(db)

	insertScan(t, scans, dets, time.Now(), "cup", "dog")
	insertScan(t, scans, dets, time.Now(), "cup")

	stats, err := scans.GetStats()
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalScans)
	require.Equal(t, 3, stats.TotalObjects)
	require.Equal(t, map[string]int{"cup": 2, "dog": 1}, stats.ObjectCounts)
}

func TestScanRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	scans := NewScanRepository(db)
	dets := NewDetectionRepository(db)

	id := insertScan(t, scans, dets, time.Now(), "cup")
	require.NoError(t, scans.DeleteAll())

	total, err := scans.GetTotalCount(nil)
	require.NoError(t, err)
	require.Zero(t, total)

	left, err := dets.GetByScanID(id)
	require.NoError(t, err)
	require.Empty(t, left)
}
