package diff

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// hexWindow bounds how much of each side a hex diff prints.
const hexWindow = 256

// lineDiff prints only differing and missing lines, tagged exp/got.
// This is a positional line comparison, not an LCS diff: line i of one
// side is compared with line i of the other.
//
// An empty side contributes exactly one empty line, so "expected empty"
// against one line of output reports that line as unexpected rather
// than silently matching.
func lineDiff(w io.Writer, exp, got []byte) {
	expLines := strings.Split(string(exp), "\n")
	gotLines := strings.Split(string(got), "\n")

	n := len(expLines)
	if len(gotLines) > n {
		n = len(gotLines)
	}

	for i := 0; i < n; i++ {
		switch {
		case i >= len(expLines):
			fmt.Fprintf(w, "  got %4d: %q (unexpected)\n", i+1, gotLines[i])
		case i >= len(gotLines):
			fmt.Fprintf(w, "  exp %4d: %q (missing)\n", i+1, expLines[i])
		case expLines[i] != gotLines[i]:
			fmt.Fprintf(w, "  exp %4d: %q\n", i+1, expLines[i])
			fmt.Fprintf(w, "  got %4d: %q\n", i+1, gotLines[i])
		}
	}
}

// hexDiff prints both sides around the first differing byte in hex-dump
// form, preceded by the lengths when they disagree.
func hexDiff(w io.Writer, exp, got []byte) {
	if len(exp) != len(got) {
		fmt.Fprintf(w, "  length: expected %d bytes, got %d bytes\n", len(exp), len(got))
	}

	offset := firstDifference(exp, got)
	// Align the window start to a 16-byte dump row.
	start := offset &^ 0xf

	fmt.Fprintf(w, "  first difference at byte %d\n", offset)
	fmt.Fprintf(w, "  exp:\n%s", indent(hex.Dump(window(exp, start))))
	fmt.Fprintf(w, "  got:\n%s", indent(hex.Dump(window(got, start))))
}

func firstDifference(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func window(b []byte, start int) []byte {
	if start >= len(b) {
		return nil
	}
	end := start + hexWindow
	if end > len(b) {
		end = len(b)
	}
	return b[start:end]
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(s, "\n")
	return "    " + strings.ReplaceAll(trimmed, "\n", "\n    ") + "\n"
}
