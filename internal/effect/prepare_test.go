package effect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_StripsExpectedOutput(t *testing.T) {
	d := &Descriptor{Name: "strip"}
	d.Streams[Stdout] = Stream{Data: []byte("  hello  \n")}
	d.Streams[Stderr] = Stream{Data: []byte("\twarn\n\n")}

	p, err := d.Prepare()
	require.NoError(t, err)

	assert.Equal(t, []byte("hello"), p.Streams[Stdout].Data)
	assert.Equal(t, []byte("warn"), p.Streams[Stderr].Data)

	// The registered descriptor is untouched.
	assert.Equal(t, []byte("  hello  \n"), d.Streams[Stdout].Data)
}

func TestPrepare_SuppressStrip(t *testing.T) {
	d := &Descriptor{Name: "no-strip", Flags: SuppressStrip}
	d.Streams[Stdout] = Stream{Data: []byte("  raw  \n")}

	p, err := d.Prepare()
	require.NoError(t, err)
	assert.Equal(t, []byte("  raw  \n"), p.Streams[Stdout].Data)
}

func TestPrepare_StdinNeverStripped(t *testing.T) {
	d := &Descriptor{Name: "stdin"}
	d.Streams[Stdin] = Stream{Data: []byte("  input  \n")}

	p, err := d.Prepare()
	require.NoError(t, err)
	assert.Equal(t, []byte("  input  \n"), p.Streams[Stdin].Data)
}

func TestPrepare_BinaryNeverStripped(t *testing.T) {
	d := &Descriptor{Name: "binary"}
	d.Streams[Stdout] = Stream{Data: []byte(" \x00\x01 "), Binary: true}

	p, err := d.Prepare()
	require.NoError(t, err)
	assert.Equal(t, []byte(" \x00\x01 "), p.Streams[Stdout].Data)
}

func TestPrepare_LoadsPathSourcedStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdout.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file\n"), 0o644))

	d := &Descriptor{Name: "path-sourced"}
	d.Streams[Stdout] = Stream{Path: path}

	p, err := d.Prepare()
	require.NoError(t, err)
	assert.Equal(t, []byte("from file"), p.Streams[Stdout].Data)
}

func TestPrepare_UnreadablePathFails(t *testing.T) {
	d := &Descriptor{Name: "bad-path"}
	d.Streams[Stdout] = Stream{Path: filepath.Join(t.TempDir(), "missing")}

	_, err := d.Prepare()
	assert.Error(t, err)
}

func TestPrepare_MissingNameFails(t *testing.T) {
	d := &Descriptor{}
	_, err := d.Prepare()
	assert.Error(t, err)
}

func TestStrip_NilStaysNil(t *testing.T) {
	assert.Nil(t, Strip(nil))
	assert.NotNil(t, Strip([]byte("  \n\t ")))
	assert.Equal(t, []byte{}, Strip([]byte("  \n\t ")))
	assert.Equal(t, []byte("x"), Strip([]byte(" x ")))
}

// Stripping follows unicode.IsSpace, so non-ASCII whitespace like
// NO-BREAK SPACE and IDEOGRAPHIC SPACE is trimmed too.
func TestStrip_UnicodeWhitespace(t *testing.T) {
	assert.Equal(t, []byte("x"), Strip([]byte(" x ")))
	assert.Equal(t, []byte("x"), Strip([]byte("　x　")))
}

// Stripping is idempotent: strip(strip(b)) == strip(b).
func TestStrip_Idempotent(t *testing.T) {
	inputs := [][]byte{
		[]byte("  hello  "),
		[]byte("\n\nmulti\nline\n\n"),
		[]byte(""),
		[]byte("   "),
	}
	for _, in := range inputs {
		once := Strip(in)
		assert.Equal(t, once, Strip(once))
	}
}
