package faults

import (
	"os"

	"golang.org/x/sys/unix"
)

// raiseAbort delivers SIGABRT to the current process. The default
// disposition terminates it; the harness observes the terminal signal in
// the parent's wait status.
func raiseAbort() {
	_ = unix.Kill(os.Getpid(), unix.SIGABRT)

	// Kill should not return. If signal delivery is somehow blocked,
	// exit abnormally rather than letting the caller continue past an
	// abort.
	os.Exit(134)
}
