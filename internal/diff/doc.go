// Package diff compares an expected effect descriptor against the
// observed one and renders a discrepancy report.
//
// Compare evaluates all three axes unconditionally (termination code,
// output streams, declared files) so a single failing test reports
// every discrepancy at once instead of stopping at the first. It never
// mutates its inputs and holds no state: repeated calls on the same pair
// produce the identical verdict and identical printed output.
package diff
