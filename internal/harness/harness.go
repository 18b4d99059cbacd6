package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/witnesslab/witness/internal/diff"
	"github.com/witnesslab/witness/internal/effect"
	"github.com/witnesslab/witness/internal/history"
	"github.com/witnesslab/witness/internal/runner"
)

// exitFn terminates the process on harness-fatal errors. A variable so
// tests can intercept it.
var exitFn = os.Exit

// Recorder receives one row per finished test. *history.Store implements
// it; the zero harness records nothing.
type Recorder interface {
	WriteResult(runID string, res history.Result) error
}

// Harness owns the registration queue and the run loop.
type Harness struct {
	queue  descQueue
	byName map[string]*effect.Descriptor
	logger *slog.Logger

	recorder Recorder
	runID    string
}

// Option configures a harness.
type Option func(*Harness)

// WithLogger routes harness diagnostics to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithRecorder appends one history row per finished test under runID.
func WithRecorder(r Recorder, runID string) Option {
	return func(h *Harness) {
		h.recorder = r
		h.runID = runID
	}
}

// New creates an empty harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		byName: make(map[string]*effect.Descriptor),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register prepares the descriptor and pushes the prepared copy at the
// head of the queue. The caller's descriptor is left untouched and may
// be reused. A preparation failure (unreadable source path, missing
// name, duplicate name) is a harness configuration error and is fatal.
func (h *Harness) Register(desc *effect.Descriptor) {
	prepared, err := desc.Prepare()
	if err != nil {
		fatalf("register: %v", err)
		return
	}
	if _, dup := h.byName[prepared.Name]; dup {
		fatalf("register: duplicate test name %q", prepared.Name)
		return
	}
	h.byName[prepared.Name] = prepared
	h.queue.PushFront(prepared)
	h.logger.Debug("test registered", "name", prepared.Name, "queued", h.queue.Len())
}

// Len returns the number of queued tests.
func (h *Harness) Len() int {
	return h.queue.Len()
}

// Run drains the queue: each popped descriptor is executed, the observed
// copy diffed against it, failures printed to w and tallied, and the
// summary printed once the queue is empty. Returns the failed count,
// 0 meaning all passed, so the result is usable as a process exit code.
func (h *Harness) Run(w io.Writer) int {
	total := h.queue.Len()
	failed := 0

	for {
		desc, ok := h.queue.PopFront()
		if !ok {
			break
		}

		start := time.Now()
		observed, err := runner.Execute(desc)
		if err != nil {
			// Plumbing failures signal a broken harness, not a broken
			// test; the run cannot be trusted past this point.
			fatalf("%v", err)
			return failed + 1
		}

		differs := diff.Compare(w, desc, observed)
		if differs {
			failed++
			fmt.Fprintf(w, "✗ %s\n", desc.Name)
		}
		h.logger.Debug("test finished",
			"name", desc.Name,
			"pass", !differs,
			"code", observed.Code.Describe(),
		)

		h.record(desc, observed, !differs, time.Since(start))

		// Drop both copies before the next pop; nothing may alias them.
		h.release(desc)
	}

	Report(w, total, failed)
	return failed
}

func (h *Harness) record(desc, observed *effect.Descriptor, pass bool, d time.Duration) {
	if h.recorder == nil {
		return
	}
	res := history.Result{
		TestName:   desc.Name,
		Pass:       pass,
		CodeKind:   observed.Code.Kind.String(),
		CodeValue:  observed.Code.Value,
		Stdout:     observed.Streams[effect.Stdout].Data,
		Stderr:     observed.Streams[effect.Stderr].Data,
		DurationMS: d.Milliseconds(),
	}
	if err := h.recorder.WriteResult(h.runID, res); err != nil {
		h.logger.Warn("history write failed", "test", desc.Name, "err", err)
	}
}

// release unregisters the finished descriptor so its buffers can be
// collected.
func (h *Harness) release(desc *effect.Descriptor) {
	delete(h.byName, desc.Name)
}

// fatalf reports a harness-fatal error and terminates. Deliberately
// unrecoverable: these are harness or environment bugs, never test
// failures.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "witness: fatal: "+format+"\n", args...)
	exitFn(2)
}
