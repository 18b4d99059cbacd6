package harness

import (
	"fmt"
	"os"

	"github.com/witnesslab/witness/internal/effect"
	"github.com/witnesslab/witness/internal/faults"
	"github.com/witnesslab/witness/internal/runner"
)

// Main is the isolated-attempt entry point. The test program must call
// it after registration and before Run: when the environment marks this
// process as a child attempt, Main looks up the named descriptor, arms
// the process-wide fault registry from the parent's snapshot, feeds the
// wrapper, reports the post-call errno over the inherited pipe, and
// exits. In the parent process it is a no-op returning false.
func (h *Harness) Main() bool {
	name := os.Getenv(runner.EnvTestName)
	if name == "" {
		return false
	}

	desc, ok := h.byName[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "witness: child: unknown test %q\n", name)
		exitFn(2)
		return true
	}

	// Each child is its own process, so arming here can never leak to
	// the parent or to sibling attempts.
	if _, err := faults.DefaultRegistry().ArmFromEnviron(); err != nil {
		fmt.Fprintf(os.Stderr, "witness: child: %v\n", err)
		exitFn(2)
		return true
	}

	errnoPipe := os.NewFile(3, "errno")

	wrapErr := desc.Wrapper()

	// Reached only when the wrapper returns: a body that exits or
	// raises leaves the pipe empty and its own status as the only
	// observable effect.
	if errnoPipe != nil {
		fmt.Fprintf(errnoPipe, "%d", effect.ErrnoOf(wrapErr))
		errnoPipe.Close()
	}
	exitFn(0)
	return true
}
