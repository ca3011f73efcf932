// HistoryData is a paginated response payload for stored scans.
package dto

import "vocabdetect/internal/model"

type HistoryData struct {
	Scans []model.Scan `json:"scans"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}
