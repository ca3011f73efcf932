package dataset

import (
	"fmt"
	"path/filepath"
)

// SplitOptions configures a train/val split of a single-split dataset.
type SplitOptions struct {
	Src      string  // dataset with images/train2017 and labels/train2017
	Dst      string  // output directory, also names the YAML file
	ValRatio float64 // share of images for validation
	MinVal   int     // lower bound on the validation size
	Seed     uint64
	Names    []string // class names for the data YAML
}

// SplitResult reports where the split went.
type SplitResult struct {
	Train    int
	Val      int
	DataYAML string
}

// DefaultSplitOptions mirrors the usual coco128 layout.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		Src:      "coco128",
		Dst:      "coco128_split",
		ValRatio: 0.2,
		MinVal:   10,
		Seed:     DefaultSeed,
	}
}

// ValSize is max(minVal, floor(ratio*n)) capped at n.
func ValSize(n int, ratio float64, minVal int) int {
	val := max(minVal, int(ratio*float64(n)))
	return min(val, n)
}

// Split shuffles the source images with a fixed seed and copies the first
// ValSize of them to val and the rest to train, labels alongside.
func Split(opts SplitOptions) (*SplitResult, error) {
	imgSrc := filepath.Join(opts.Src, "images", "train2017")
	labSrc := filepath.Join(opts.Src, "labels", "train2017")

	images, err := listImages(imgSrc)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images found in %s", imgSrc)
	}

	shuffle(images, opts.Seed)
	valN := ValSize(len(images), opts.ValRatio, opts.MinVal)
	valSet, trainSet := images[:valN], images[valN:]

	trainImg := filepath.Join(opts.Dst, "images", "train")
	valImg := filepath.Join(opts.Dst, "images", "val")
	trainLab := filepath.Join(opts.Dst, "labels", "train")
	valLab := filepath.Join(opts.Dst, "labels", "val")
	if err := mkdirs(trainImg, valImg, trainLab, valLab); err != nil {
		return nil, err
	}

	for _, name := range trainSet {
		if err := copyPair(name, imgSrc, labSrc, trainImg, trainLab); err != nil {
			return nil, err
		}
	}
	for _, name := range valSet {
		if err := copyPair(name, imgSrc, labSrc, valImg, valLab); err != nil {
			return nil, err
		}
	}

	yamlPath, err := WriteDataConfig(opts.Dst, DataConfig{
		Train: "images/train",
		Val:   "images/val",
	}, opts.Names)
	if err != nil {
		return nil, err
	}

	return &SplitResult{Train: len(trainSet), Val: len(valSet), DataYAML: yamlPath}, nil
}
