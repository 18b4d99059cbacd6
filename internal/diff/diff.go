package diff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/witnesslab/witness/internal/effect"
)

// Compare reports whether observed deviates from expected, writing a
// discrepancy report to w unless the descriptor carries SuppressDiff.
//
// All three axes are evaluated unconditionally; the verdict is the OR of
// the per-axis verdicts.
func Compare(w io.Writer, expected, observed *effect.Descriptor) bool {
	if expected.Flags&effect.SuppressDiff != 0 {
		w = io.Discard
	}

	differs := compareCode(w, expected, observed)
	differs = compareStream(w, "stdout", expected.Streams[effect.Stdout], observed.Streams[effect.Stdout]) || differs
	differs = compareStream(w, "stderr", expected.Streams[effect.Stderr], observed.Streams[effect.Stderr]) || differs
	differs = compareFiles(w, expected, observed) || differs

	return differs
}

// compareCode checks the code kind and value. A body that exits with a
// status numerically equal to an expected signal still died the wrong
// way, so kinds must agree before values are compared. The kind-
// specific human name (errno symbol, signal short name, or the
// error/no-error reading of an exit status) rides along in the report.
func compareCode(w io.Writer, expected, observed *effect.Descriptor) bool {
	if expected.Code.Kind != observed.Code.Kind {
		fmt.Fprintf(w, "%s: code mismatch: expected %s %s, got %s %s\n",
			expected.Name, expected.Code.Kind, expected.Code.Describe(),
			observed.Code.Kind, observed.Code.Describe())
		return true
	}
	if expected.Code.Value == observed.Code.Value {
		return false
	}
	fmt.Fprintf(w, "%s: %s mismatch: expected %s, got %s\n",
		expected.Name, expected.Code.Kind, expected.Code.Describe(), observed.Code.Describe())
	return true
}

// compareStream checks one output stream. Stdin is an input and is never
// compared. A nil expectation means the stream is unconstrained.
func compareStream(w io.Writer, label string, exp, got effect.Stream) bool {
	if exp.Data == nil {
		return false
	}
	if bytes.Equal(exp.Data, got.Data) {
		return false
	}
	fmt.Fprintf(w, "%s mismatch:\n", label)
	if exp.Binary {
		hexDiff(w, exp.Data, got.Data)
	} else {
		lineDiff(w, exp.Data, got.Data)
	}
	return true
}

// compareFiles checks every declared file, never stopping early. Files
// with an explicit Binary declaration get a byte comparison with a
// hex-dump style report; text files get the line-level diff.
func compareFiles(w io.Writer, expected, observed *effect.Descriptor) bool {
	differs := false
	expFiles := expected.DeclaredFiles()
	obsFiles := observed.DeclaredFiles()

	for i, exp := range expFiles {
		var got []byte
		if i < len(obsFiles) {
			got = obsFiles[i].Data
		}
		if got == nil {
			fmt.Fprintf(w, "file %s: unreadable or absent\n", exp.Path)
			differs = true
			continue
		}
		if bytes.Equal(exp.Data, got) {
			continue
		}
		fmt.Fprintf(w, "file %s mismatch:\n", exp.Path)
		if exp.Binary {
			hexDiff(w, exp.Data, got)
		} else {
			lineDiff(w, exp.Data, got)
		}
		differs = true
	}
	return differs
}
