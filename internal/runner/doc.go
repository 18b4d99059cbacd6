// Package runner executes one effect descriptor and turns the wrapper's
// side effects into an observed descriptor.
//
// # Isolated mode
//
// The default mode spawns a fresh copy of the current binary re-entering
// a known test-name entry point (see the harness package's Main). The
// child receives the expected stdin content on its stdin pipe, a private
// pipe on fd 3 for the post-call errno, and an environment snapshot of
// any armed faults. Only the test body's own exit or signal becomes the
// observable status; the parent derives the code from the wait status,
// or drains the errno pipe when the descriptor asks for errno.
//
// # Inline mode
//
// RunInline swaps the process's stdout and stderr for pipes, calls the
// wrapper directly, and restores them. Isolation is traded for
// visibility into caller-process state mutation: if the body terminates
// the process, the whole run terminates with it.
//
// # Failure semantics
//
// Any OS-call failure in the harness plumbing (pipe, spawn, close) is
// reported as a *PlumbingError carrying the operation and test name.
// Such a failure signals a broken harness, not a broken test, and the
// run loop treats it as fatal.
package runner
