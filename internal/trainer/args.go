package trainer

import (
	"fmt"
	"strconv"
)

// TrainOptions are the tunable training parameters.
type TrainOptions struct {
	Data   string
	Model  string
	Epochs int
	ImgSz  int
	Batch  int
	Name   string
	Device string // empty lets yolo pick
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Data:   "coco128_split.yaml",
		Model:  "yolo11n.pt",
		Epochs: 30,
		ImgSz:  640,
		Batch:  16,
		Name:   "train",
	}
}

// PredictOptions configures a prediction run.
type PredictOptions struct {
	Weights string
	Source  string
	Conf    float64
}

func DefaultPredictOptions() PredictOptions {
	return PredictOptions{
		Weights: DefaultWeights,
		Source:  "0",
		Conf:    0.35,
	}
}

func kv(key string, value interface{}) string {
	switch v := value.(type) {
	case float64:
		return key + "=" + strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return key + "=True"
		}
		return key + "=False"
	default:
		return fmt.Sprintf("%s=%v", key, v)
	}
}

// TrainArgs builds "yolo detect train ..." with the fixed optimizer and
// augmentation settings.
func TrainArgs(opts TrainOptions) []string {
	args := []string{
		"detect", "train",
		kv("data", opts.Data),
		kv("model", opts.Model),
		kv("epochs", opts.Epochs),
		kv("imgsz", opts.ImgSz),
		kv("batch", opts.Batch),
		kv("name", opts.Name),
		kv("patience", 50),
		kv("save", true),
	}
	if opts.Device != "" {
		args = append(args, kv("device", opts.Device))
	}

	return append(args,
		// Optimization
		kv("optimizer", "auto"),
		kv("lr0", 0.01),
		kv("lrf", 0.01),
		kv("momentum", 0.937),
		kv("weight_decay", 0.0005),
		// Augmentation
		kv("hsv_h", 0.015),
		kv("hsv_s", 0.7),
		kv("hsv_v", 0.4),
		kv("degrees", 0.0),
		kv("translate", 0.1),
		kv("scale", 0.5),
		kv("shear", 0.0),
		kv("perspective", 0.0),
		kv("flipud", 0.0),
		kv("fliplr", 0.5),
		kv("mosaic", 1.0),
		kv("mixup", 0.0),
		kv("copy_paste", 0.0),
		kv("plots", true),
	)
}

func ValArgs(weights string) []string {
	return []string{"detect", "val", kv("model", weights)}
}

func ExportArgs(weights, format string) []string {
	return []string{"export", kv("model", weights), kv("format", format)}
}

func PredictArgs(opts PredictOptions) []string {
	return []string{
		"detect", "predict",
		kv("model", opts.Weights),
		kv("source", opts.Source),
		kv("conf", opts.Conf),
		kv("save", true),
	}
}
