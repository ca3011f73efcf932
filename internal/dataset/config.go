package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vocabdetect/internal/vocab"
)

// DataConfig is the YOLO data YAML.
type DataConfig struct {
	Path  string         `yaml:"path"`
	Train string         `yaml:"train"`
	Val   string         `yaml:"val"`
	Names map[int]string `yaml:"names"`
}

// WriteDataConfig writes <dir>.yaml next to dir. Empty names fall back to COCO-80.
func WriteDataConfig(dir string, cfg DataConfig, names []string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	cfg.Path = abs

	if len(names) == 0 {
		names = vocab.CocoNames()
	}
	cfg.Names = make(map[int]string, len(names))
	for i, name := range names {
		cfg.Names[i] = name
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode data config: %w", err)
	}

	out := strings.TrimRight(abs, string(filepath.Separator)) + ".yaml"
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write data config: %w", err)
	}
	return out, nil
}

// ReadDataConfig loads a data YAML.
func ReadDataConfig(path string) (*DataConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg DataConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid data config %s: %w", path, err)
	}
	return &cfg, nil
}
