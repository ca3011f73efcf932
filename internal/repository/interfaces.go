package repository

import (
	"vocabdetect/internal/model"
)

// ScanRepository defines the interface for scan history operations.
type ScanRepository interface {
	// Create operations
	Insert(scan *model.Scan) (int64, error)

	// Read operations
	GetRecent(filter *model.ScanFilter) ([]model.Scan, error)
	GetTotalCount(filter *model.ScanFilter) (int, error)
	GetStats() (*model.ScanStats, error)

	// Delete operations
	DeleteAll() error
}

// DetectionRepository defines the interface for stored object operations.
type DetectionRepository interface {
	// Create operations
	InsertBatch(scanID int64, detections []model.ScanDetection) error

	// Read operations
	GetByScanID(scanID int64) ([]model.ScanDetection, error)
	GetAllObjectNames() ([]string, error)
}
