package effect

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrnoName returns the symbolic name of an errno value ("ENOENT"),
// "no error" for zero, and the decimal value for anything unknown.
func ErrnoName(value int) string {
	if value == 0 {
		return "no error"
	}
	if name := unix.ErrnoName(syscall.Errno(value)); name != "" {
		return name
	}
	return fmt.Sprintf("errno %d", value)
}

// SignalName returns the short name of a signal ("ABRT" for SIGABRT),
// falling back to the decimal value for anything unknown.
func SignalName(value int) string {
	if name := unix.SignalName(syscall.Signal(value)); name != "" {
		return strings.TrimPrefix(name, "SIG")
	}
	return fmt.Sprintf("signal %d", value)
}

// Describe renders a code value with its kind-specific human name.
func (c Code) Describe() string {
	switch c.Kind {
	case Errno:
		return fmt.Sprintf("%d (%s)", c.Value, ErrnoName(c.Value))
	case Signal:
		return fmt.Sprintf("%d (%s)", c.Value, SignalName(c.Value))
	default:
		if c.Value == 0 {
			return "0 (no error)"
		}
		return fmt.Sprintf("%d (error)", c.Value)
	}
}

// KindName returns the display name of a code kind.
func (k CodeKind) String() string {
	switch k {
	case Errno:
		return "errno"
	case ExitStatus:
		return "exit status"
	case Signal:
		return "signal"
	default:
		return fmt.Sprintf("code kind %d", int(k))
	}
}

// ErrnoOf extracts the errno carried by a wrapper's returned error.
// A nil error is errno 0; an error with no syscall.Errno in its chain
// maps to EIO so a failure is never silently reported as success.
func ErrnoOf(err error) int {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return int(syscall.EIO)
}
