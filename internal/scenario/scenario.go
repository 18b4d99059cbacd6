// Package scenario loads declarative YAML test scenarios for external
// commands and binds them to effect descriptors.
//
// A scenario names a command under test and the process effects it must
// produce; the harness runs the command in an isolated child and
// compares captured streams, files, and the termination code against
// the expectation. Scenario files are validated twice: strict YAML
// decoding catches typos, then an embedded CUE schema enforces shape
// and value constraints.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Scenario is one declarative test of an external command.
type Scenario struct {
	// Name uniquely identifies the scenario in reports.
	Name string `yaml:"name"`

	// Description explains what the scenario verifies.
	Description string `yaml:"description"`

	// Command is the program under test followed by its arguments.
	Command []string `yaml:"command"`

	// Stdin is fed to the command verbatim.
	Stdin string `yaml:"stdin,omitempty"`

	// Flags: "no-strip", "inline", "no-diff".
	Flags []string `yaml:"flags,omitempty"`

	// Expect declares the observable effects.
	Expect Expectation `yaml:"expect"`

	// Files lists paths re-read after the run.
	Files []FileSpec `yaml:"files,omitempty"`
}

// Expectation is the expected termination code and stream content.
type Expectation struct {
	Code   CodeSpec `yaml:"code"`
	Stdout *string  `yaml:"stdout,omitempty"`
	Stderr *string  `yaml:"stderr,omitempty"`
}

// CodeSpec selects the compared code family.
type CodeSpec struct {
	// Kind is "exit", "signal", or "errno".
	Kind  string `yaml:"kind"`
	Value int    `yaml:"value"`
}

// FileSpec is one declared file expectation.
type FileSpec struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
	Binary  bool   `yaml:"binary,omitempty"`
}

// Load reads, decodes, and validates one scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "expect:" vs "expects:".
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Shape and value constraints live in the CUE schema; decode again
	// generically so CUE sees the raw document.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateAgainstSchema(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &s, nil
}

// Find walks dir for YAML scenario files. A non-empty filter is a
// doublestar glob matched against the file's base name without
// extension, so "cart-**" selects every cart scenario.
func Find(dir, filter string) ([]string, error) {
	if filter != "" && !doublestar.ValidatePattern(filter) {
		return nil, fmt.Errorf("invalid filter pattern %q", filter)
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := doublestar.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})

	return files, err
}
