package cli

import (
	"io"
	"os"

	"vocabdetect/internal/trainer"
)

// Flags holds global command-line flag values
type Flags struct {
	CfgFile string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{}
}

// Options carries the collaborators commands need; tests replace them.
type Options struct {
	Runner trainer.Runner
	Out    io.Writer
}

// NewOptions returns options that run the real yolo binary and print to stdout.
func NewOptions() Options {
	return Options{
		Runner: trainer.NewExecRunner(),
		Out:    os.Stdout,
	}
}
