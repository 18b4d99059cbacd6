package history

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Result is one finished test inside a run. Stdout and Stderr hold the
// captured bytes; only their fingerprints are stored.
type Result struct {
	TestName   string
	Pass       bool
	CodeKind   string
	CodeValue  int
	Stdout     []byte
	Stderr     []byte
	DurationMS int64
	Seq        int64
}

// BeginRun inserts the run header row. Idempotent on the run ID so a
// harness and a CLI wrapper can both announce the same run.
func (s *Store) BeginRun(runID, label string) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, label) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, label)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteResult appends one result row to a run. The row's sequence comes
// from the store's SeqSource, so a deterministic source yields
// byte-identical histories across repeated runs.
func (s *Store) WriteResult(runID string, res Result) error {
	seq := res.Seq
	if seq == 0 && s.seq != nil {
		seq = s.seq.Next()
	}

	_, err := s.db.Exec(`
		INSERT INTO results
		(run_id, seq, test_name, pass, code_kind, code_value, stdout_b3, stderr_b3, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		res.TestName,
		boolToInt(res.Pass),
		res.CodeKind,
		res.CodeValue,
		Fingerprint(res.Stdout),
		Fingerprint(res.Stderr),
		res.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Fingerprint returns the hex BLAKE3-256 digest of b. Empty input has a
// well-known digest, so "no output" is still comparable across runs.
func Fingerprint(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
