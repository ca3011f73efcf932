//go:build gocv
// +build gocv

package ai

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
)

// GocvDetector runs a YOLO model exported to ONNX through the OpenCV DNN module.
type GocvDetector struct {
	net          gocv.Net
	loaded       bool
	mu           sync.Mutex // gocv.Net is not safe for concurrent Forward calls
	modelPath    string
	labels       []string
	inputSize    int
	nmsThreshold float64
	logger       *logger.Logger
}

// NewGocvDetector creates a detector with the model path and NMS settings from config.
// It attempts to initialize the underlying DNN network; failures are logged and
// reported by Ping and Detect.
func NewGocvDetector(config *config.Config, labels []string, logger *logger.Logger) *GocvDetector {
	d := &GocvDetector{
		modelPath:    config.ModelPath,
		labels:       labels,
		inputSize:    config.ModelInputSize,
		nmsThreshold: config.NMSThreshold,
		logger:       logger,
	}

	if err := d.initializeNet(); err != nil {
		d.logger.Warning("Could not initialize detection network: %v", err)
		return d
	}

	return d
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (d *GocvDetector) initializeNet() error {
	if _, err := os.Stat(d.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", d.modelPath)
	}

	net := gocv.ReadNetFromONNX(d.modelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", d.modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return fmt.Errorf("failed to set preferable backend or target")
	}

	d.net = net
	d.loaded = true
	d.logger.Info("Detection network initialized: %s (%d classes)", d.modelPath, len(d.labels))
	return nil
}

// Ping reports whether the network was loaded.
func (d *GocvDetector) Ping(ctx context.Context) error {
	if !d.loaded {
		return fmt.Errorf("%w: detection network not initialized", ErrDetectorUnavailable)
	}
	return nil
}

// Detect runs the network on the image. The model output is [1, 4+classes, candidates]
// with (cx, cy, w, h) in input-size pixels followed by per-class scores.
func (d *GocvDetector) Detect(ctx context.Context, imageBytes []byte, threshold float64) ([]model.Detection, error) {
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	attrs, candidates := dims[1], dims[2]

	rows := output.Reshape(1, attrs)
	defer rows.Close()

	xScale := float64(mat.Cols()) / float64(d.inputSize)
	yScale := float64(mat.Rows()) / float64(d.inputSize)
	// offset per class so a single NMS pass suppresses only boxes of the same class
	classOffset := max(mat.Cols(), mat.Rows()) + 1

	var (
		raw     []model.Detection
		shifted []image.Rectangle
		scores  []float32
	)
	for i := 0; i < candidates; i++ {
		classID, score := -1, float32(0)
		for c := 4; c < attrs; c++ {
			if s := rows.GetFloatAt(c, i); s > score {
				classID, score = c-4, s
			}
		}
		if classID < 0 || float64(score) < threshold {
			continue
		}

		cx := float64(rows.GetFloatAt(0, i))
		cy := float64(rows.GetFloatAt(1, i))
		w := float64(rows.GetFloatAt(2, i))
		h := float64(rows.GetFloatAt(3, i))

		box := model.Box{
			X1: clamp((cx-w/2)*xScale, float64(mat.Cols())),
			Y1: clamp((cy-h/2)*yScale, float64(mat.Rows())),
			X2: clamp((cx+w/2)*xScale, float64(mat.Cols())),
			Y2: clamp((cy+h/2)*yScale, float64(mat.Rows())),
		}

		offset := classID * classOffset
		shifted = append(shifted, image.Rect(int(box.X1)+offset, int(box.Y1)+offset, int(box.X2)+offset, int(box.Y2)+offset))
		scores = append(scores, score)
		raw = append(raw, model.Detection{
			Class:      className(d.labels, classID),
			Confidence: float64(score),
			Box:        box,
		})
	}

	if len(raw) == 0 {
		return []model.Detection{}, nil
	}

	indices := gocv.NMSBoxes(shifted, scores, float32(threshold), float32(d.nmsThreshold))

	results := make([]model.Detection, 0, len(indices))
	for _, idx := range indices {
		results = append(results, raw[idx])
	}

	d.logger.Info("Detected %d objects (%d candidates above threshold)", len(results), len(raw))
	return results, nil
}

// Annotate draws detection boxes and captions on the image and returns a re-encoded JPEG buffer.
func (d *GocvDetector) Annotate(imageBytes []byte, objects []model.EnrichedDetection) ([]byte, error) {
	green := color.RGBA{R: 0, G: 255, B: 0, A: 0}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	for _, obj := range objects {
		rect := image.Rect(obj.BBox.X1, obj.BBox.Y1, obj.BBox.X2, obj.BBox.Y2)
		if err := gocv.Rectangle(&mat, rect, green, 3); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %v", err)
		}

		pt := image.Pt(obj.BBox.X1, max(obj.BBox.Y1-8, 12))
		if err := gocv.PutText(&mat, caption(obj), pt, gocv.FontHersheySimplex, 0.6, green, 2); err != nil {
			return nil, fmt.Errorf("failed to draw text: %v", err)
		}
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		d.logger.Error("Failed to encode image: %v", err)
		return nil, err
	}
	defer buf.Close()

	annotated := make([]byte, len(buf.GetBytes()))
	copy(annotated, buf.GetBytes())
	return annotated, nil
}

// Close releases the network.
func (d *GocvDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		d.loaded = false
		return d.net.Close()
	}
	return nil
}

func clamp(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
