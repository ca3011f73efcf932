//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

var commands = []string{"server", "bot", "vocabctl"}

// Default target to run when none is specified
var Default = Build

// Build compiles every command with the remote-only detector.
func Build() error {
	return build()
}

// BuildGocv compiles every command with the OpenCV detector (needs OpenCV 4).
func BuildGocv() error {
	return build("-tags", "gocv")
}

func build(extra ...string) error {
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}
	for _, name := range commands {
		fmt.Printf("🔨 Building %s\n", name)
		args := append([]string{"build"}, extra...)
		args = append(args, "-o", filepath.Join(binDir, name), "./cmd/"+name)
		if err := sh.RunV("go", args...); err != nil {
			return err
		}
	}
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
