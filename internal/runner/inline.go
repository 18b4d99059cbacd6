package runner

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/witnesslab/witness/internal/effect"
)

// executeInline runs the wrapper in the harness's own process with
// stdout and stderr temporarily redirected into pipes.
//
// Documented limitation: if the body itself terminates the process, the
// whole run terminates with it. There is no wait status, so a Signal or
// ExitStatus expectation observes 0; only errno capture is exact.
func executeInline(desc *effect.Descriptor) (*effect.Descriptor, error) {
	capOut, err := newInlineCapture(&os.Stdout, desc.Name)
	if err != nil {
		return nil, err
	}
	capErr, err := newInlineCapture(&os.Stderr, desc.Name)
	if err != nil {
		capOut.abandon()
		return nil, err
	}

	wrapErr := desc.Wrapper()

	stderrData, err := capErr.finish()
	if err != nil {
		capOut.abandon()
		return nil, err
	}
	stdoutData, err := capOut.finish()
	if err != nil {
		return nil, err
	}

	observed := desc.Clone()
	observed.Wrapper = nil

	switch desc.Code.Kind {
	case effect.Errno:
		observed.Code = effect.Code{Kind: effect.Errno, Value: effect.ErrnoOf(wrapErr)}
	case effect.Signal:
		observed.Code = effect.Code{Kind: effect.Signal, Value: 0}
	default:
		observed.Code = effect.Code{Kind: effect.ExitStatus, Value: 0}
	}

	captureStreams(observed, stdoutData, stderrData)
	captureFiles(observed)

	return observed, nil
}

// inlineCapture redirects one of the process's standard output files
// into a pipe and drains it concurrently, so a chatty wrapper cannot
// fill the pipe buffer and block.
type inlineCapture struct {
	target **os.File
	saved  *os.File
	w      *os.File
	buf    bytes.Buffer
	done   sync.WaitGroup
	test   string
}

func newInlineCapture(target **os.File, test string) (*inlineCapture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, plumbing("pipe", test, err)
	}

	c := &inlineCapture{target: target, saved: *target, w: w, test: test}
	*target = w

	c.done.Add(1)
	go func() {
		defer c.done.Done()
		io.Copy(&c.buf, r)
		r.Close()
	}()

	return c, nil
}

// finish restores the saved file, closes the pipe's write end so the
// drain goroutine sees EOF, and returns everything captured.
func (c *inlineCapture) finish() ([]byte, error) {
	c.restore()
	if err := c.w.Close(); err != nil {
		return nil, plumbing("close", c.test, err)
	}
	c.done.Wait()
	return c.buf.Bytes(), nil
}

func (c *inlineCapture) restore() {
	*c.target = c.saved
}

// abandon tears a capture down on an error path: the saved file is
// restored and the write end closed so the drain goroutine terminates
// rather than leaking for the process lifetime. Captured bytes are
// discarded.
func (c *inlineCapture) abandon() {
	c.restore()
	c.w.Close()
	c.done.Wait()
}
