package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/witnesslab/witness/internal/effect"
)

// EnvTestName marks a process as an isolated child attempt and names the
// descriptor it must run. The harness's Main dispatches on it.
const EnvTestName = "WITNESS_ISOLATED_TEST"

// errnoFD is the child-side descriptor of the private errno pipe.
const errnoFD = 3

// PlumbingError reports a harness-plumbing OS-call failure. It is always
// a harness or environment bug, never attributable to the test author,
// and the run loop treats it as fatal.
type PlumbingError struct {
	Op   string
	Test string
	Err  error
}

func (e *PlumbingError) Error() string {
	return fmt.Sprintf("harness plumbing: %s failed for test %q: %v", e.Op, e.Test, e.Err)
}

func (e *PlumbingError) Unwrap() error {
	return e.Err
}

func plumbing(op, test string, err error) *PlumbingError {
	return &PlumbingError{Op: op, Test: test, Err: err}
}

// Execute runs the descriptor's wrapper and returns an observed
// descriptor, leaving desc untouched. Mode is selected by RunInline.
// A non-nil error is always a *PlumbingError.
func Execute(desc *effect.Descriptor) (*effect.Descriptor, error) {
	return ExecuteEnv(desc, nil)
}

// ExecuteEnv is Execute with extra environment entries passed to the
// isolated child. The exhaustive driver uses it to deliver armed-fault
// snapshots; extraEnv is ignored in inline mode.
func ExecuteEnv(desc *effect.Descriptor, extraEnv []string) (*effect.Descriptor, error) {
	if desc.Flags&effect.RunInline != 0 {
		return executeInline(desc)
	}
	return executeIsolated(desc, extraEnv)
}

func executeIsolated(desc *effect.Descriptor, extraEnv []string) (*effect.Descriptor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, plumbing("executable lookup", desc.Name, err)
	}

	errnoR, errnoW, err := os.Pipe()
	if err != nil {
		return nil, plumbing("pipe", desc.Name, err)
	}
	defer errnoR.Close()

	var stdout, stderr bytes.Buffer

	// The child re-enters the same command line; registration replays
	// identically up to harness.Main, which dispatches to the one named
	// wrapper instead of the run loop.
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin = bytes.NewReader(desc.Streams[effect.Stdin].Data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.ExtraFiles = []*os.File{errnoW}
	cmd.Env = append(os.Environ(), EnvTestName+"="+desc.Name)
	cmd.Env = append(cmd.Env, extraEnv...)

	if err := cmd.Start(); err != nil {
		errnoW.Close()
		return nil, plumbing("spawn", desc.Name, err)
	}

	// Close the parent's copy of the write end before reading, else the
	// errno read below never sees EOF.
	if err := errnoW.Close(); err != nil {
		return nil, plumbing("close", desc.Name, err)
	}

	waitErr := cmd.Wait()

	observed := desc.Clone()
	observed.Wrapper = nil

	code, err := codeFromWait(desc, cmd, waitErr, errnoR)
	if err != nil {
		return nil, err
	}
	observed.Code = code

	captureStreams(observed, stdout.Bytes(), stderr.Bytes())
	captureFiles(observed)

	return observed, nil
}

// codeFromWait derives the observed code: signaled termination yields
// {Signal, n}, any other termination {ExitStatus, n}; when the
// descriptor requests errno the private pipe is drained instead.
func codeFromWait(desc *effect.Descriptor, cmd *exec.Cmd, waitErr error, errnoR *os.File) (effect.Code, error) {
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return effect.Code{}, plumbing("wait", desc.Name, waitErr)
		}
	}

	if desc.Code.Kind == effect.Errno {
		raw, err := io.ReadAll(errnoR)
		if err != nil {
			return effect.Code{}, plumbing("errno pipe read", desc.Name, err)
		}
		value := 0
		if s := strings.TrimSpace(string(raw)); s != "" {
			value, err = strconv.Atoi(s)
			if err != nil {
				return effect.Code{}, plumbing("errno decode", desc.Name, err)
			}
		}
		return effect.Code{Kind: effect.Errno, Value: value}, nil
	}

	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return effect.Code{}, plumbing("wait status", desc.Name, fmt.Errorf("unsupported wait status %T", cmd.ProcessState.Sys()))
	}
	if ws.Signaled() {
		return effect.Code{Kind: effect.Signal, Value: int(ws.Signal())}, nil
	}
	return effect.Code{Kind: effect.ExitStatus, Value: ws.ExitStatus()}, nil
}

// captureStreams stores the drained output pipes on the observed
// descriptor, stripped per flags.
func captureStreams(observed *effect.Descriptor, stdout, stderr []byte) {
	strip := observed.Flags&effect.SuppressStrip == 0
	store := func(i int, data []byte) {
		if data == nil {
			data = []byte{}
		}
		if strip && !observed.Streams[i].Binary {
			data = effect.Strip(data)
		}
		observed.Streams[i].Data = data
	}
	store(effect.Stdout, stdout)
	store(effect.Stderr, stderr)
}

// captureFiles re-reads every declared file into the observed
// descriptor, bounded by effect.MaxFileBytes. A file that cannot be read
// is recorded as absent; the diff engine reports the discrepancy.
func captureFiles(observed *effect.Descriptor) {
	for i := range observed.Files {
		f := &observed.Files[i]
		if f.Path == "" {
			break
		}
		data, err := readBounded(f.Path)
		if err != nil {
			f.Data = nil
			continue
		}
		f.Data = data
	}
}

func readBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, effect.MaxFileBytes))
}
