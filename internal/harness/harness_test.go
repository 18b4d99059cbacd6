package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/witnesslab/witness/internal/check"
	"github.com/witnesslab/witness/internal/effect"
	"github.com/witnesslab/witness/internal/faults"
)

// testHarness holds every isolated descriptor these tests execute. The
// child side of an isolated attempt re-enters TestMain, rebuilds the
// same registrations, and dispatches through Main.
var testHarness *Harness

func guardedScratch() string {
	return filepath.Join(os.TempDir(), "witness-guarded-scratch")
}

// guardedWrapper exercises every cataloged call and fails loudly on the
// first error, the discipline the exhaustive driver verifies.
func guardedWrapper() error {
	calls := faults.Default()
	must := func(err error, op string) {
		if err != nil {
			check.Fatalf(0, "%s: %v", op, err)
		}
	}

	buf, err := calls.Alloc(32)
	must(err, "alloc")

	path := guardedScratch()
	f, err := calls.Create(path)
	must(err, "create")
	_, err = calls.Write(f, buf)
	must(err, "write")
	_, err = calls.Seek(f, 0, 0)
	must(err, "seek")
	_, err = calls.Read(f, buf)
	must(err, "read")
	must(calls.Close(f), "close")

	g, err := calls.Open(path)
	must(err, "open")
	g.Close()

	_, err = calls.Stat(path)
	must(err, "stat")

	r, w, err := calls.Pipe()
	must(err, "pipe")
	r.Close()
	w.Close()

	fd, err := calls.Dup(1)
	must(err, "dup")
	syscall.Close(fd)

	proc, err := calls.Fork("/bin/true", []string{"true"}, &os.ProcAttr{})
	must(err, "fork")
	proc.Wait()

	must(calls.Remove(path), "remove")
	return nil
}

// isolatedDescriptors is the fixed attempt set; parent and child build
// the identical list.
func isolatedDescriptors() []*effect.Descriptor {
	good := &effect.Descriptor{
		Name: "good-effects",
		Code: effect.Code{Kind: effect.ExitStatus, Value: 1},
		Wrapper: func() error {
			fmt.Fprint(os.Stdout, "stdout!\n")
			fmt.Fprint(os.Stderr, "stderr...\n")
			os.Exit(1)
			return nil
		},
	}
	good.Streams[effect.Stdout] = effect.Stream{Data: []byte("stdout!")}
	good.Streams[effect.Stderr] = effect.Stream{Data: []byte("stderr...")}

	return []*effect.Descriptor{
		good,
		{
			Name: "bad-exit",
			Code: effect.Code{Kind: effect.ExitStatus, Value: 0},
			Wrapper: func() error {
				os.Exit(5)
				return nil
			},
		},
		{
			Name: "fatal-assert",
			Code: effect.Code{Kind: effect.Signal, Value: int(syscall.SIGABRT)},
			Wrapper: func() error {
				check.Fatalf(0, "invariant broken")
				return nil
			},
		},
		{
			Name:    "guarded",
			Code:    effect.Code{Kind: effect.ExitStatus, Value: 0},
			Wrapper: guardedWrapper,
		},
		{
			Name: "unguarded",
			Code: effect.Code{Kind: effect.ExitStatus, Value: 0},
			Wrapper: func() error {
				// Deliberately ignores the result.
				faults.Default().Alloc(8)
				return nil
			},
		},
	}
}

func newTestHarness() *Harness {
	h := New()
	for _, d := range isolatedDescriptors() {
		h.Register(d)
	}
	return h
}

func TestMain(m *testing.M) {
	testHarness = newTestHarness()
	testHarness.Main()
	os.Exit(m.Run())
}

func TestRegister_QueuesPrepared(t *testing.T) {
	h := New()
	d := &effect.Descriptor{Name: "queued", Flags: effect.RunInline}
	d.Streams[effect.Stdout] = effect.Stream{Data: []byte("  x  ")}

	h.Register(d)
	assert.Equal(t, 1, h.Len())

	// Registration prepared a copy; the caller's descriptor is intact.
	assert.Equal(t, []byte("  x  "), d.Streams[effect.Stdout].Data)
}

func TestRegister_DuplicateNameFatal(t *testing.T) {
	saved := exitFn
	var code int
	exitFn = func(c int) { code = c }
	defer func() { exitFn = saved }()

	h := New()
	d := &effect.Descriptor{Name: "dup", Flags: effect.RunInline, Wrapper: func() error { return nil }}
	h.Register(d)
	h.Register(d)
	assert.Equal(t, 2, code)
}

func TestRun_AllPass(t *testing.T) {
	h := New()
	h.Register(descriptorByName(t, "good-effects"))

	var buf bytes.Buffer
	failed := h.Run(&buf)

	assert.Zero(t, failed)
	assert.Contains(t, buf.String(), "PASS")
	assert.Contains(t, buf.String(), "100% (1/1 tests passed)")
	assert.Zero(t, h.Len())
}

func TestRun_TalliesFailure(t *testing.T) {
	h := New()
	h.Register(descriptorByName(t, "bad-exit"))

	var buf bytes.Buffer
	failed := h.Run(&buf)

	assert.Equal(t, 1, failed)
	out := buf.String()
	assert.Contains(t, out, "✗ bad-exit")
	assert.Contains(t, out, "exit status mismatch")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "0% (0/1 tests passed)")
}

func TestRun_FatalAssertionIsData(t *testing.T) {
	h := New()
	h.Register(descriptorByName(t, "fatal-assert"))

	var buf bytes.Buffer
	failed := h.Run(&buf)

	// The raised SIGABRT matches the expectation; the assertion failed
	// the test body, not the harness.
	assert.Zero(t, failed)
}

// Later registrations run first; documented as incidental, but the
// queue must at least be self-consistent.
func TestRun_HeadInsertionOrder(t *testing.T) {
	var order []string
	h := New()
	for _, name := range []string{"first", "second", "third"} {
		name := name
		h.Register(&effect.Descriptor{
			Name:  name,
			Flags: effect.RunInline,
			Code:  effect.Code{Kind: effect.Errno},
			Wrapper: func() error {
				order = append(order, name)
				return nil
			},
		})
	}

	failed := h.Run(bytes.NewBuffer(nil))
	assert.Zero(t, failed)
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func descriptorByName(t *testing.T, name string) *effect.Descriptor {
	t.Helper()
	for _, d := range isolatedDescriptors() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no test descriptor %q", name)
	return nil
}
