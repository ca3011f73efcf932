// Package cli provides the vocabctl command line: dataset preparation,
// model training through the yolo CLI and offline edits of the
// translation tables. Flags are bound to viper so each one can also come
// from .vocabctl.yaml or a VOCABCTL_* environment variable.
package cli
