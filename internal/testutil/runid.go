package testutil

// FixedRunID always returns the same run identifier.
//
// Production code uses history.NewRunID (UUIDv7); tests use a fixed ID
// so stored histories and golden snapshots are byte-identical across
// runs.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for the given ID. An empty ID
// defaults to "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunID) Generate() string {
	return g.id
}
