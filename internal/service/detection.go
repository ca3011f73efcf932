package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"vocabdetect/internal/config"
	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
	"vocabdetect/internal/service/ai"
	"vocabdetect/internal/vocab"
)

// Sources recorded with each scan.
const (
	SourceHTTP     = "http"
	SourceLive     = "live"
	SourceTelegram = "telegram"
)

// Translations hands out the current translation snapshot.
type Translations interface {
	Snapshot() *vocab.Snapshot
}

// Recorder stores a finished scan. It must not block for long.
type Recorder interface {
	Record(source string, objects []model.EnrichedDetection, total int)
}

// Broadcaster pushes a serialized result to live subscribers.
type Broadcaster interface {
	Broadcast(message []byte)
}

// DetectionService runs an image through the detector and composes the
// translated result.
type DetectionService struct {
	detector  ai.Detector
	annotator ai.Annotator
	table     Translations
	threshold float64
	history   Recorder
	feed      Broadcaster
	logger    *logger.Logger
}

// NewDetectionService creates a DetectionService. The detector doubles as the
// annotator when it implements ai.Annotator.
func NewDetectionService(config *config.Config, logger *logger.Logger, detector ai.Detector, table Translations) *DetectionService {
	s := &DetectionService{
		detector:  detector,
		table:     table,
		threshold: config.ConfidenceThreshold,
		logger:    logger,
	}
	if annotator, ok := detector.(ai.Annotator); ok {
		s.annotator = annotator
	}
	return s
}

// SetHistory enables scan recording.
func (s *DetectionService) SetHistory(history Recorder) {
	s.history = history
}

// SetFeed enables broadcasting of every successful result.
func (s *DetectionService) SetFeed(feed Broadcaster) {
	s.feed = feed
}

// Detect decodes the request image and runs detection on it.
func (s *DetectionService) Detect(ctx context.Context, source string, req dto.DetectRequest) (*dto.DetectResponse, error) {
	raw, _, err := DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}
	return s.DetectBytes(ctx, source, raw, req.Annotate)
}

// DetectBytes runs detection on an already decoded image.
func (s *DetectionService) DetectBytes(ctx context.Context, source string, raw []byte, annotate bool) (*dto.DetectResponse, error) {
	detections, err := s.detector.Detect(ctx, raw, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	objects, total := Compose(detections, s.table.Snapshot())
	resp := &dto.DetectResponse{
		Success:       true,
		Objects:       objects,
		TotalDetected: total,
	}

	if annotate {
		s.annotate(resp, raw)
	}

	if s.history != nil {
		s.history.Record(source, objects, total)
	}

	if s.feed != nil {
		// the feed carries results only, not images
		payload, err := json.Marshal(dto.DetectResponse{Success: true, Objects: objects, TotalDetected: total})
		if err != nil {
			s.logger.Error("Failed to encode feed message: %v", err)
		} else {
			s.feed.Broadcast(payload)
		}
	}

	return resp, nil
}

func (s *DetectionService) annotate(resp *dto.DetectResponse, raw []byte) {
	if s.annotator == nil {
		s.logger.Warning("Annotation requested but the detector cannot draw")
		return
	}

	annotated, err := s.annotator.Annotate(raw, resp.Objects)
	if err != nil {
		s.logger.Error("Failed to annotate image: %v", err)
		return
	}
	resp.AnnotatedImage = base64.StdEncoding.EncodeToString(annotated)
}
