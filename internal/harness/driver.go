package harness

import (
	"fmt"
	"syscall"

	"github.com/witnesslab/witness/internal/effect"
	"github.com/witnesslab/witness/internal/faults"
	"github.com/witnesslab/witness/internal/runner"
)

// AttemptResult is the verdict of one exhaustive-driver attempt.
type AttemptResult struct {
	Fault faults.Fault
	Code  effect.Code
	// Handled is true when the attempt behaved: SIGABRT under a real
	// fault, clean exit under the no-fault sentinel.
	Handled bool
}

// RunAgainstEveryFault retries the named registered test once per
// catalog fault, plus once with the no-fault sentinel. Every attempt is
// isolated and arms exactly one fault at zero delay, so the first
// matching dependency call fails.
//
// A function that checks the return of every dependency call fails
// loudly through the fatal path and terminates its attempt with SIGABRT;
// the sentinel attempt must exit cleanly. A clean exit under a real
// fault means some dependency check is missing, a detectable
// regression. One call to this driver replaces one hand-written test per
// dependency call.
//
// FaultAbort is not driven: its replacement can only terminate, never
// return a failure value, so it cannot exercise an error path.
func (h *Harness) RunAgainstEveryFault(name string) ([]AttemptResult, error) {
	desc, ok := h.byName[name]
	if !ok {
		return nil, fmt.Errorf("no registered test %q", name)
	}
	if desc.Flags&effect.RunInline != 0 {
		return nil, fmt.Errorf("test %q runs inline; the driver needs isolation", name)
	}

	plan := make([]faults.Fault, 0, len(faults.Catalog))
	for _, f := range faults.Catalog {
		if f == faults.FaultAbort {
			continue
		}
		plan = append(plan, f)
	}
	plan = append(plan, faults.None)

	// The driver judges attempts by wait status, whatever code family
	// the descriptor itself compares.
	probe := desc.Clone()
	probe.Code = effect.Code{Kind: effect.ExitStatus}

	results := make([]AttemptResult, 0, len(plan))
	for _, f := range plan {
		reg := faults.NewRegistry()
		reg.Arm(f, 0)

		observed, err := runner.ExecuteEnv(probe, reg.Environ())
		if err != nil {
			return results, err
		}

		res := AttemptResult{Fault: f, Code: observed.Code}
		if f == faults.None {
			res.Handled = observed.Code == effect.Code{Kind: effect.ExitStatus, Value: 0}
		} else {
			res.Handled = observed.Code == effect.Code{Kind: effect.Signal, Value: int(syscall.SIGABRT)}
		}
		results = append(results, res)
	}

	return results, nil
}

// Unhandled filters a driver run down to the attempts that misbehaved.
func Unhandled(results []AttemptResult) []AttemptResult {
	var bad []AttemptResult
	for _, r := range results {
		if !r.Handled {
			bad = append(bad, r)
		}
	}
	return bad
}
