package model

import "time"

// Scan is one stored /detect call.
type Scan struct {
	ID            int64           `json:"id"`
	Source        string          `json:"source"`
	TotalDetected int             `json:"total_detected"`
	CreatedAt     time.Time       `json:"created_at"`
	Objects       []ScanDetection `json:"objects"`
}

// ScanDetection is a returned object stored with its scan.
type ScanDetection struct {
	ID           int64   `json:"id"`
	ScanID       int64   `json:"scan_id"`
	ObjectName   string  `json:"object_name"`
	Korean       string  `json:"korean"`
	Romanization string  `json:"romanization"`
	Confidence   float64 `json:"confidence"`
	X1           int     `json:"x1"`
	Y1           int     `json:"y1"`
	X2           int     `json:"x2"`
	Y2           int     `json:"y2"`
}

// ScanFilter contains paging options for querying scans.
type ScanFilter struct {
	Object string
	Limit  int
	Offset int
}

// ScanStats contains statistics about stored scans.
type ScanStats struct {
	TotalScans   int            `json:"total_scans"`
	TotalObjects int            `json:"total_objects"`
	ObjectCounts map[string]int `json:"object_counts"`
}
