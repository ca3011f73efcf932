package model

// Box is a bounding box in absolute pixel coordinates, top-left / bottom-right.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Detection is a single raw prediction returned by a detector backend.
type Detection struct {
	Class      string
	Confidence float64
	Box        Box
}

// BBox is a bounding box truncated to integer pixels.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// EnrichedDetection is a detection carrying its Korean label, as returned to API callers.
type EnrichedDetection struct {
	Name         string  `json:"name"`
	Korean       string  `json:"korean"`
	Romanization string  `json:"romanization"`
	Confidence   float64 `json:"confidence"`
	BBox         BBox    `json:"bbox"`
}
