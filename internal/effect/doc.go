// Package effect defines the EffectDescriptor: the declarative contract of
// one test's expected process effects, and the observed counterpart the
// runner produces.
//
// A descriptor names a wrapper under test and everything the harness is
// allowed to observe about it: the termination code family (errno, exit
// status, or signal; exactly one is meaningful per run), the content of
// the three standard streams, and the final content of any declared files.
//
// # Lifecycle
//
// A descriptor is authored by the user, then prepared at registration:
//
//	prepared, err := desc.Prepare()
//
// Prepare returns an independent deep copy with path-sourced stream and
// file contents loaded and expected output streams whitespace-stripped
// (unless SuppressStrip). The prepared copy is owned exclusively by the
// registration queue. When the harness pops it, the runner produces a
// second independent observed copy. Because every copy is a deep copy,
// the observed descriptor never aliases the expected descriptor's buffers.
package effect
