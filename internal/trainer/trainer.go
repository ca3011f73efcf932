// Package trainer drives the ultralytics "yolo" command line for training,
// validation, export and prediction.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultWeights is where a run named "train" leaves its best checkpoint.
var DefaultWeights = filepath.Join("runs", "detect", "train", "weights", "best.pt")

// ErrNotFound is returned when a data YAML or weights file is missing.
var ErrNotFound = errors.New("file not found")

// Runner executes one yolo invocation.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs the yolo binary and streams its output.
type ExecRunner struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner for the "yolo" binary on PATH writing to stdout/stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binary: "yolo", Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts the command and waits for it. The child gets
// TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1 so checkpoints saved by older torch
// releases keep loading.
func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v failed: %w", r.Binary, args, err)
	}
	return nil
}

// Trainer validates inputs and hands argument vectors to a Runner.
type Trainer struct {
	runner Runner
	out    io.Writer
}

func New(runner Runner, out io.Writer) *Trainer {
	return &Trainer{runner: runner, out: out}
}

func requireFile(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, what, path)
		}
		return err
	}
	return nil
}

// Train runs a training job.
func (t *Trainer) Train(ctx context.Context, opts TrainOptions) error {
	if err := requireFile(opts.Data, "data config"); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "🚀 Training %s on %s for %d epochs\n", opts.Model, opts.Data, opts.Epochs)
	return t.runner.Run(ctx, TrainArgs(opts))
}

// Val validates trained weights.
func (t *Trainer) Val(ctx context.Context, weights string) error {
	if err := requireFile(weights, "weights"); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "📊 Validating %s\n", weights)
	return t.runner.Run(ctx, ValArgs(weights))
}

// Export converts weights to every format. A failing format is reported and
// the rest still run; the returned error joins all failures.
func (t *Trainer) Export(ctx context.Context, weights string, formats []string) error {
	if err := requireFile(weights, "weights"); err != nil {
		return err
	}
	if len(formats) == 0 {
		formats = []string{"onnx"}
	}

	var errs []error
	for _, format := range formats {
		fmt.Fprintf(t.out, "📤 Exporting to %s...\n", format)
		if err := t.runner.Run(ctx, ExportArgs(weights, format)); err != nil {
			fmt.Fprintf(t.out, "❌ %s export failed: %v\n", format, err)
			errs = append(errs, fmt.Errorf("export %s: %w", format, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		fmt.Fprintf(t.out, "✅ %s export complete\n", format)
	}
	return errors.Join(errs...)
}

// Predict runs the model on a source (camera index, image or video).
func (t *Trainer) Predict(ctx context.Context, opts PredictOptions) error {
	if err := requireFile(opts.Weights, "weights"); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "🎥 Running inference on source: %s\n", opts.Source)
	return t.runner.Run(ctx, PredictArgs(opts))
}
