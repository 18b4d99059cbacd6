package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/witnesslab/witness/internal/canonical"
	"github.com/witnesslab/witness/internal/effect"
	"github.com/witnesslab/witness/internal/history"
)

// Snapshot flattens an observed descriptor into a canonical-JSON-ready
// map. Stream and file contents are recorded as BLAKE3 fingerprints so
// snapshots stay small and binary-safe.
func Snapshot(observed *effect.Descriptor) map[string]any {
	files := []any{}
	for _, f := range observed.DeclaredFiles() {
		files = append(files, map[string]any{
			"path": f.Path,
			"b3":   history.Fingerprint(f.Data),
		})
	}
	return map[string]any{
		"name":       observed.Name,
		"code_kind":  observed.Code.Kind.String(),
		"code_value": observed.Code.Value,
		"stdout_b3":  history.Fingerprint(observed.Streams[effect.Stdout].Data),
		"stderr_b3":  history.Fingerprint(observed.Streams[effect.Stderr].Data),
		"files":      files,
	}
}

// AssertGolden compares the canonical snapshot of an observed
// descriptor against testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, observed *effect.Descriptor) error {
	t.Helper()

	data, err := canonical.Marshal(Snapshot(observed))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
