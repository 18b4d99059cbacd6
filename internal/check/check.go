// Package check is the fatal-assertion collaborator: it prints a
// formatted message and raises a signal. Test bodies use it to fail
// loudly, and the harness uses it for its own fatal configuration
// errors. The diff engine's failure path never does: a failing test
// reports and continues.
package check

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Fatalf prints the formatted message to stderr and raises sig against
// the current process. Signal 0 means the default, SIGABRT. The raised
// signal becomes the test's observable code; a failing assertion is
// data, not a harness error.
func Fatalf(sig syscall.Signal, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	if sig == 0 {
		sig = unix.SIGABRT
	}
	_ = unix.Kill(os.Getpid(), sig)

	// A blocked or ignored signal must not let the body continue past
	// a fatal assertion.
	os.Exit(128 + int(sig))
}
