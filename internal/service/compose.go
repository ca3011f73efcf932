package service

import (
	"sort"
	"strconv"

	"vocabdetect/internal/model"
)

// MaxObjects caps how many enriched detections are returned per image.
const MaxObjects = 10

// Lookup resolves an English class name to its Korean label and romanization.
type Lookup interface {
	Lookup(name string) (korean, romanization string)
}

// Compose enriches raw detections with translations, ranks them by confidence
// and keeps the top MaxObjects. total is the count before truncation.
func Compose(detections []model.Detection, table Lookup) (objects []model.EnrichedDetection, total int) {
	objects = make([]model.EnrichedDetection, 0, len(detections))
	for _, det := range detections {
		korean, romanization := table.Lookup(det.Class)
		objects = append(objects, model.EnrichedDetection{
			Name:         det.Class,
			Korean:       korean,
			Romanization: romanization,
			Confidence:   roundConfidence(det.Confidence),
			BBox: model.BBox{
				X1: int(det.Box.X1),
				Y1: int(det.Box.Y1),
				X2: int(det.Box.X2),
				Y2: int(det.Box.Y2),
			},
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Confidence > objects[j].Confidence
	})

	total = len(objects)
	if total > MaxObjects {
		objects = objects[:MaxObjects]
	}
	return objects, total
}

// roundConfidence rounds to two decimals on the exact decimal value of c
// (half to even), so 0.125 becomes 0.12 and 0.8734 becomes 0.87.
func roundConfidence(c float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(c, 'f', 2, 64), 64)
	if err != nil {
		return c
	}
	return rounded
}
