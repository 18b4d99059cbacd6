package history

import (
	"fmt"
)

// Run is a stored run header.
type Run struct {
	ID        string
	Label     string
	CreatedAt string
	Total     int
	Failed    int
}

// StoredResult is one result row as read back from the database.
type StoredResult struct {
	Seq        int64
	TestName   string
	Pass       bool
	CodeKind   string
	CodeValue  int
	StdoutB3   string
	StderrB3   string
	DurationMS int64
}

// ListRuns returns run headers with their pass/fail tallies, newest
// first. UUIDv7 run IDs sort by creation time, so the ID is the order.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.label, r.created_at,
		       COUNT(res.run_id),
		       COALESCE(SUM(1 - res.pass), 0)
		FROM runs r
		LEFT JOIN results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.CreatedAt, &r.Total, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// RunResults returns a run's result rows in sequence order.
func (s *Store) RunResults(runID string) ([]StoredResult, error) {
	rows, err := s.db.Query(`
		SELECT seq, test_name, pass, code_kind, code_value, stdout_b3, stderr_b3, duration_ms
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		var r StoredResult
		var pass int
		if err := rows.Scan(&r.Seq, &r.TestName, &pass, &r.CodeKind, &r.CodeValue, &r.StdoutB3, &r.StderrB3, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Pass = pass != 0
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	if results == nil {
		results = []StoredResult{}
	}
	return results, nil
}
