package harness

import (
	"fmt"
	"io"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"

	separator = "----------------------------------------"
)

// Report prints the end-of-run summary: a separator, a colored PASS or
// FAIL tag, the pass percentage, and the passed/total fraction. Called
// once after the queue drains.
func Report(w io.Writer, total, failed int) {
	fmt.Fprintln(w, separator)

	if total == 0 {
		fmt.Fprintln(w, "no tests registered")
		return
	}

	passed := total - failed
	percent := 100 * passed / total

	tag := ansiGreen + "PASS" + ansiReset
	if failed > 0 {
		tag = ansiRed + "FAIL" + ansiReset
	}
	fmt.Fprintf(w, "[%s] %d%% (%d/%d tests passed)\n", tag, percent, passed, total)
}
