package sqlite

import (
	"fmt"
	"strings"
	"time"

	"vocabdetect/internal/model"
)

// ScanRepository implements repository.ScanRepository for SQLite.
type ScanRepository struct {
	db *DB
}

// NewScanRepository creates a new SQLite scan repository.
func NewScanRepository(db *DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Insert adds a new scan record. Objects are stored separately by DetectionRepository.
func (r *ScanRepository) Insert(scan *model.Scan) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}

	result, err := r.db.Conn().Exec(`
		INSERT INTO scans (source, total_detected, created_at)
		VALUES (?, ?, ?)
	`, scan.Source, scan.TotalDetected, scan.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	return result.LastInsertId()
}

func (r *ScanRepository) where(filter *model.ScanFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")
	args := []interface{}{}

	if filter != nil && filter.Object != "" {
		sb.WriteString(" AND s.id IN (SELECT scan_id FROM detections WHERE object_name = ?)")
		args = append(args, filter.Object)
	}
	return sb.String(), args
}

// GetRecent retrieves scans newest first, without their objects.
func (r *ScanRepository) GetRecent(filter *model.ScanFilter) ([]model.Scan, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := r.where(filter)
	query := `SELECT s.id, s.source, s.total_detected, s.created_at FROM scans s` + where +
		" ORDER BY s.created_at DESC, s.id DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	scans := []model.Scan{}
	for rows.Next() {
		var scan model.Scan
		if err := rows.Scan(&scan.ID, &scan.Source, &scan.TotalDetected, &scan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

// GetTotalCount returns the number of scans matching the filter.
func (r *ScanRepository) GetTotalCount(filter *model.ScanFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := r.where(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM scans s`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return count, nil
}

// GetStats returns totals and the ten most detected objects.
func (r *ScanRepository) GetStats() (*model.ScanStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.ScanStats{
		ObjectCounts: make(map[string]int),
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&stats.TotalScans); err != nil {
		return nil, err
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&stats.TotalObjects); err != nil {
		return nil, err
	}

	// Most detected objects
	rows, err := r.db.Conn().Query(`
		SELECT object_name, COUNT(*) as cnt
		FROM detections
		GROUP BY object_name
		ORDER BY cnt DESC, object_name ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var obj string
		var count int
		if err := rows.Scan(&obj, &count); err != nil {
			return nil, err
		}
		stats.ObjectCounts[obj] = count
	}

	return stats, rows.Err()
}

// DeleteAll removes every scan; objects go with them through the foreign key.
func (r *ScanRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM scans`); err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	if _, err := r.db.Conn().Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}
	return nil
}
