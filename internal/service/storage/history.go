package storage

import (
	"context"
	"sync"
	"time"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
	"vocabdetect/internal/repository"
)

const (
	// HistoryBufferLimit caps how many scans wait in memory between flushes.
	HistoryBufferLimit = 256
	// HistoryFlushInterval defines how often buffered scans are written to the database.
	HistoryFlushInterval = 5 * time.Second
)

// HistoryService buffers detection results in memory and periodically
// flushes them to the scan history database. Recording never fails the caller.
type HistoryService struct {
	scans         []model.Scan
	mu            sync.Mutex
	logger        *logger.Logger
	scanRepo      repository.ScanRepository
	detectionRepo repository.DetectionRepository
}

// NewHistoryService creates a HistoryService on top of the given repositories.
func NewHistoryService(logger *logger.Logger, scanRepo repository.ScanRepository, detectionRepo repository.DetectionRepository) *HistoryService {
	return &HistoryService{
		scans:         make([]model.Scan, 0),
		logger:        logger,
		scanRepo:      scanRepo,
		detectionRepo: detectionRepo,
	}
}

// Run flushes the buffer on a ticker until ctx is done, then flushes once more.
func (s *HistoryService) Run(ctx context.Context) {
	ticker := time.NewTicker(HistoryFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Flush()
		case <-ctx.Done():
			s.Flush()
			return
		}
	}
}

// Record appends a scan to the in-memory buffer.
func (s *HistoryService) Record(source string, objects []model.EnrichedDetection, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.scans) >= HistoryBufferLimit {
		s.logger.Warning("History buffer full (%d), dropping scan from %s", HistoryBufferLimit, source)
		return
	}

	scan := model.Scan{
		Source:        source,
		TotalDetected: total,
		CreatedAt:     time.Now().UTC(),
		Objects:       make([]model.ScanDetection, 0, len(objects)),
	}
	for _, obj := range objects {
		scan.Objects = append(scan.Objects, model.ScanDetection{
			ObjectName:   obj.Name,
			Korean:       obj.Korean,
			Romanization: obj.Romanization,
			Confidence:   obj.Confidence,
			X1:           obj.BBox.X1,
			Y1:           obj.BBox.Y1,
			X2:           obj.BBox.X2,
			Y2:           obj.BBox.Y2,
		})
	}
	s.scans = append(s.scans, scan)
}

// Flush writes buffered scans to the database and resets the buffer.
func (s *HistoryService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.scans) == 0 {
		return
	}

	savedCount := 0
	for i := range s.scans {
		scan := &s.scans[i]

		scanID, err := s.scanRepo.Insert(scan)
		if err != nil {
			s.logger.Error("Error saving scan to database: %v", err)
			continue
		}

		if err := s.detectionRepo.InsertBatch(scanID, scan.Objects); err != nil {
			s.logger.Error("Error saving detections for scan %d: %v", scanID, err)
		}
		savedCount++
	}

	s.logger.Info("Flushed %d scans to history", savedCount)
	s.scans = s.scans[:0]
}

// Recent returns one page of stored scans with their objects, newest first.
// Pending scans are flushed first so a caller sees its own results.
func (s *HistoryService) Recent(page, limit int) (*dto.HistoryData, error) {
	s.Flush()

	if page < 1 {
		page = 1
	}
	filter := &model.ScanFilter{Limit: limit, Offset: (page - 1) * limit}

	total, err := s.scanRepo.GetTotalCount(filter)
	if err != nil {
		return nil, err
	}

	scans, err := s.scanRepo.GetRecent(filter)
	if err != nil {
		return nil, err
	}

	for i := range scans {
		objects, err := s.detectionRepo.GetByScanID(scans[i].ID)
		if err != nil {
			return nil, err
		}
		scans[i].Objects = objects
	}

	return &dto.HistoryData{
		Scans: scans,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Stats returns aggregate counts over the stored history.
func (s *HistoryService) Stats() (*model.ScanStats, error) {
	s.Flush()
	return s.scanRepo.GetStats()
}

// Clear drops pending scans and deletes the stored history.
func (s *HistoryService) Clear() error {
	s.mu.Lock()
	s.scans = s.scans[:0]
	s.mu.Unlock()

	if err := s.scanRepo.DeleteAll(); err != nil {
		return err
	}
	s.logger.Info("Scan history cleared")
	return nil
}
