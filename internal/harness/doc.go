// Package harness ties the effect, runner, diff, and faults packages
// into the test run loop.
//
// A test is an effect descriptor registered into a harness:
//
//	h := harness.New()
//	h.Register(&effect.Descriptor{
//	    Name:    "greets",
//	    Wrapper: func() error { fmt.Println("hello"); return nil },
//	    Code:    effect.Code{Kind: effect.ExitStatus, Value: 0},
//	    Streams: [3]effect.Stream{effect.Stdout: {Data: []byte("hello")}},
//	})
//	os.Exit(h.Run(os.Stdout))
//
// Run pops one descriptor at a time, asks the runner for an observed
// descriptor, hands both to the diff engine, prints on failure, tallies,
// and prints the summary once the queue drains. The failed count is the
// return value, suitable as a process exit code.
//
// Because isolation works by re-executing the current binary, the test
// program must call Main before Run, in its main function or TestMain,
// so a child attempt can find its descriptor and run it instead of the
// whole suite.
//
// Scheduling is single-threaded and cooperative at one-test-at-a-time
// granularity: exactly one child is outstanding per test, the parent
// blocks on its wait, and there are no timeouts: a hung test hangs the
// run. Pop order is not a cross-test ordering guarantee.
package harness
