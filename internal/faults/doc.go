// Package faults provides deterministic fault injection for low-level
// dependency calls.
//
// The package replaces link-time symbol interception with an explicit
// interface: every interceptable call is a method on [Calls], with a real
// implementation that always delegates to the operating system and an
// injecting implementation that consults a [Registry] before delegating.
// Which faults are injectable, and the "first d calls succeed, call d+1
// fails" delay semantics, are the contract; the selection mechanism is
// ordinary interface dispatch at test setup.
//
// A test body arms a fault and calls through the injected implementation:
//
//	reg := faults.NewRegistry()
//	calls := faults.Injected(reg)
//	reg.Arm(faults.FaultOpen, 0)
//	if _, err := calls.Open("data.txt"); err != nil {
//	    // the library's own error path runs here
//	}
//
// The registry is the only mutable shared state in the harness and is
// deliberately unsynchronized: execution is single-threaded, one test at
// a time, and process isolation gives each child attempt its own copy, so
// faults armed in a child never leak to the parent. The default registry
// must be flushed explicitly; it is never scoped to a test.
package faults
