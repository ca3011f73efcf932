package dataset

import (
	"fmt"
	"path/filepath"
)

// SubsetOptions configures sampling a smaller training set.
type SubsetOptions struct {
	Src   string
	Split string // source split, e.g. train2017
	N     int
	Dst   string
	Seed  uint64
	Names []string
}

// DefaultSubsetOptions builds coco80 from coco128.
func DefaultSubsetOptions() SubsetOptions {
	return SubsetOptions{
		Src:   "coco128",
		Split: "train2017",
		N:     80,
		Dst:   "coco80",
		Seed:  DefaultSeed,
	}
}

// Subset copies min(N, n) randomly chosen images with their labels into
// Dst/images/train and Dst/labels/train. It returns the copied count and the
// data YAML path.
func Subset(opts SubsetOptions) (int, string, error) {
	imgSrc := filepath.Join(opts.Src, "images", opts.Split)
	labSrc := filepath.Join(opts.Src, "labels", opts.Split)

	images, err := listImages(imgSrc)
	if err != nil {
		return 0, "", err
	}
	if len(images) == 0 {
		return 0, "", fmt.Errorf("no images found in %s", imgSrc)
	}

	shuffle(images, opts.Seed)
	chosen := images[:min(opts.N, len(images))]

	outImg := filepath.Join(opts.Dst, "images", "train")
	outLab := filepath.Join(opts.Dst, "labels", "train")
	if err := mkdirs(outImg, outLab); err != nil {
		return 0, "", err
	}

	for _, name := range chosen {
		if err := copyPair(name, imgSrc, labSrc, outImg, outLab); err != nil {
			return 0, "", err
		}
	}

	// no held-out images, validate on the training set
	yamlPath, err := WriteDataConfig(opts.Dst, DataConfig{
		Train: "images/train",
		Val:   "images/train",
	}, opts.Names)
	if err != nil {
		return 0, "", err
	}

	return len(chosen), yamlPath, nil
}
