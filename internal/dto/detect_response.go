package dto

import "vocabdetect/internal/model"

// DetectResponse is returned by /detect and streamed over /live and /feed.
type DetectResponse struct {
	Success        bool                      `json:"success"`
	Objects        []model.EnrichedDetection `json:"objects"`
	TotalDetected  int                       `json:"total_detected"`
	AnnotatedImage string                    `json:"annotated_image,omitempty"`
}
