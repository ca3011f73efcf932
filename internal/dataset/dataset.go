// Package dataset prepares YOLO datasets: train/val splits, random subsets
// and the data YAML file the trainer reads.
package dataset

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSeed keeps splits and subsets reproducible.
const DefaultSeed = 42

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Counts is the number of images and labels in one split directory.
type Counts struct {
	Images int
	Labels int
}

// listImages returns the image files in dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, entry.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}

func shuffle(names []string, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
}

// copyPair copies an image and its label. A missing label becomes an empty
// file, which YOLO reads as an image without objects.
func copyPair(name, imgSrc, labSrc, imgDst, labDst string) error {
	if err := copyFile(filepath.Join(imgSrc, name), filepath.Join(imgDst, name)); err != nil {
		return fmt.Errorf("failed to copy image %s: %w", name, err)
	}

	label := strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
	src := filepath.Join(labSrc, label)
	dst := filepath.Join(labDst, label)

	if _, err := os.Stat(src); os.IsNotExist(err) {
		return os.WriteFile(dst, nil, 0644)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy label %s: %w", label, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

func mkdirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Verify counts images and labels under dir/images/<split> and dir/labels/<split>
// for every split directory found.
func Verify(dir string) (map[string]Counts, error) {
	splits, err := os.ReadDir(filepath.Join(dir, "images"))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	result := make(map[string]Counts)
	for _, split := range splits {
		if !split.IsDir() {
			continue
		}
		images, err := listImages(filepath.Join(dir, "images", split.Name()))
		if err != nil {
			return nil, err
		}

		labels, err := filepath.Glob(filepath.Join(dir, "labels", split.Name(), "*.txt"))
		if err != nil {
			return nil, err
		}
		result[split.Name()] = Counts{Images: len(images), Labels: len(labels)}
	}
	return result, nil
}
