// Package history records harness runs in a SQLite database.
//
// A run groups the results of one drain of the registration queue under
// a UUIDv7 run ID. Each result row carries the test's verdict, the
// observed code kind and value, BLAKE3 fingerprints of the captured
// output streams, and a logical sequence number so listings are
// reproducible regardless of wall-clock resolution.
//
// The store is append-only from the harness's point of view: the CLI
// reads it back with ListRuns and RunResults.
package history
