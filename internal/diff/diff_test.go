package diff

import (
	"bytes"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witnesslab/witness/internal/effect"
)

func matched(name string) (*effect.Descriptor, *effect.Descriptor) {
	exp := &effect.Descriptor{
		Name: name,
		Code: effect.Code{Kind: effect.ExitStatus, Value: 0},
	}
	exp.Streams[effect.Stdout] = effect.Stream{Data: []byte("hello")}
	exp.Streams[effect.Stderr] = effect.Stream{Data: []byte("warn")}

	obs := exp.Clone()
	return exp, obs
}

func TestCompare_IdenticalPasses(t *testing.T) {
	exp, obs := matched("pass")
	var buf bytes.Buffer

	differs := Compare(&buf, exp, obs)
	assert.False(t, differs)
	assert.Empty(t, buf.String())
}

func TestCompare_CodeMismatch(t *testing.T) {
	exp, obs := matched("code")
	obs.Code.Value = 1
	var buf bytes.Buffer

	differs := Compare(&buf, exp, obs)
	assert.True(t, differs)
	assert.Contains(t, buf.String(), "exit status mismatch")
	assert.Contains(t, buf.String(), "0 (no error)")
	assert.Contains(t, buf.String(), "1 (error)")
}

func TestCompare_ErrnoMismatchNamesSymbol(t *testing.T) {
	exp := &effect.Descriptor{
		Name: "errno",
		Code: effect.Code{Kind: effect.Errno, Value: int(syscall.ENOENT)},
	}
	obs := exp.Clone()
	obs.Code.Value = int(syscall.EACCES)
	var buf bytes.Buffer

	differs := Compare(&buf, exp, obs)
	assert.True(t, differs)
	assert.Contains(t, buf.String(), "ENOENT")
	assert.Contains(t, buf.String(), "EACCES")
}

func TestCompare_SignalMismatchNamesSignal(t *testing.T) {
	exp := &effect.Descriptor{
		Name: "signal",
		Code: effect.Code{Kind: effect.Signal, Value: int(syscall.SIGABRT)},
	}
	obs := exp.Clone()
	obs.Code.Value = int(syscall.SIGTERM)
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), "ABRT")
	assert.Contains(t, buf.String(), "TERM")
}

// A body that exits with a status numerically equal to the expected
// signal did not die by that signal; equal values must not mask a kind
// mismatch.
func TestCompare_KindMismatchWithEqualValues(t *testing.T) {
	exp := &effect.Descriptor{
		Name: "kind",
		Code: effect.Code{Kind: effect.Signal, Value: int(syscall.SIGABRT)},
	}
	obs := exp.Clone()
	obs.Code = effect.Code{Kind: effect.ExitStatus, Value: int(syscall.SIGABRT)}
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), "code mismatch")
	assert.Contains(t, buf.String(), "signal")
	assert.Contains(t, buf.String(), "exit status")
}

func TestCompare_StreamMismatchTaggedLines(t *testing.T) {
	exp, obs := matched("stream")
	obs.Streams[effect.Stdout].Data = []byte("goodbye")
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	out := buf.String()
	assert.Contains(t, out, "stdout mismatch")
	assert.Contains(t, out, `exp    1: "hello"`)
	assert.Contains(t, out, `got    1: "goodbye"`)
}

func TestCompare_NilExpectationUnconstrained(t *testing.T) {
	exp := &effect.Descriptor{Name: "unconstrained"}
	obs := exp.Clone()
	obs.Streams[effect.Stdout].Data = []byte("anything at all")
	var buf bytes.Buffer

	assert.False(t, Compare(&buf, exp, obs))
}

// An empty expectation is one empty line, not "unconstrained": output
// against it must be reported.
func TestCompare_EmptyExpectationConstrains(t *testing.T) {
	exp := &effect.Descriptor{Name: "empty"}
	exp.Streams[effect.Stdout] = effect.Stream{Data: []byte{}}
	obs := exp.Clone()
	obs.Streams[effect.Stdout].Data = []byte("surprise")
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), `"surprise"`)
}

// All axes are evaluated even when the first already failed.
func TestCompare_NeverShortCircuits(t *testing.T) {
	exp, obs := matched("all-axes")
	obs.Code.Value = 1
	obs.Streams[effect.Stdout].Data = []byte("wrong out")
	obs.Streams[effect.Stderr].Data = []byte("wrong err")
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	out := buf.String()
	assert.Contains(t, out, "exit status mismatch")
	assert.Contains(t, out, "stdout mismatch")
	assert.Contains(t, out, "stderr mismatch")
}

func TestCompare_SuppressDiffSilencesReport(t *testing.T) {
	exp, obs := matched("silent")
	exp.Flags = effect.SuppressDiff
	obs.Flags = effect.SuppressDiff
	obs.Code.Value = 1
	var buf bytes.Buffer

	// The verdict survives; only the report is suppressed.
	assert.True(t, Compare(&buf, exp, obs))
	assert.Empty(t, buf.String())
}

// Compare holds no state: the same pair yields the same verdict and the
// same report, run after run.
func TestCompare_Idempotent(t *testing.T) {
	exp, obs := matched("idempotent")
	obs.Streams[effect.Stderr].Data = []byte("other")

	var first, second bytes.Buffer
	v1 := Compare(&first, exp, obs)
	v2 := Compare(&second, exp, obs)

	assert.Equal(t, v1, v2)
	assert.Equal(t, first.String(), second.String())
}

func TestCompare_MissingAndUnexpectedLines(t *testing.T) {
	exp := &effect.Descriptor{Name: "lines"}
	exp.Streams[effect.Stdout] = effect.Stream{Data: []byte("one\ntwo\nthree")}
	obs := exp.Clone()
	obs.Streams[effect.Stdout].Data = []byte("one")
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	out := buf.String()
	assert.Contains(t, out, `exp    2: "two" (missing)`)
	assert.Contains(t, out, `exp    3: "three" (missing)`)

	var buf2 bytes.Buffer
	require.True(t, Compare(&buf2, obs, exp))
	assert.Contains(t, buf2.String(), `got    2: "two" (unexpected)`)
}

func TestCompare_BinaryStreamHexReport(t *testing.T) {
	exp := &effect.Descriptor{Name: "binary"}
	exp.Streams[effect.Stdout] = effect.Stream{Data: []byte{0x00, 0x01, 0x02}, Binary: true}
	obs := exp.Clone()
	obs.Streams[effect.Stdout].Data = []byte{0x00, 0xff, 0x02}
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	out := buf.String()
	assert.Contains(t, out, "first difference at byte 1")
	assert.Contains(t, out, "exp:")
	assert.Contains(t, out, "got:")
}

func TestCompare_BinaryLengthMismatch(t *testing.T) {
	exp := &effect.Descriptor{Name: "binary-len"}
	exp.Streams[effect.Stdout] = effect.Stream{Data: []byte{1, 2, 3, 4}, Binary: true}
	obs := exp.Clone()
	obs.Streams[effect.Stdout].Data = []byte{1, 2}
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), "expected 4 bytes, got 2 bytes")
}

func TestCompare_FileAbsent(t *testing.T) {
	exp := &effect.Descriptor{
		Name:  "file-absent",
		Files: []effect.FileExpectation{{Path: "/tmp/w", Data: []byte("x")}},
	}
	obs := exp.Clone()
	obs.Files[0].Data = nil
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), "file /tmp/w: unreadable or absent")
}

// File checking reports every mismatching file, not just the first.
func TestCompare_AllFilesChecked(t *testing.T) {
	exp := &effect.Descriptor{
		Name: "multi-file",
		Files: []effect.FileExpectation{
			{Path: "/tmp/a", Data: []byte("a")},
			{Path: "/tmp/b", Data: []byte("b")},
		},
	}
	obs := exp.Clone()
	obs.Files[0].Data = []byte("wrong")
	obs.Files[1].Data = []byte("also wrong")
	var buf bytes.Buffer

	require.True(t, Compare(&buf, exp, obs))
	assert.Contains(t, buf.String(), "file /tmp/a mismatch")
	assert.Contains(t, buf.String(), "file /tmp/b mismatch")
}
