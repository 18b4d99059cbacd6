package scenario

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/witnesslab/witness/internal/effect"
)

// Bind converts a validated scenario into an effect descriptor. The
// wrapper runs the scenario's command with the child's own standard
// streams, then reproduces the command's termination as the child's
// own: the command's exit status and signals become the observable
// status the harness compares.
func (s *Scenario) Bind() (*effect.Descriptor, error) {
	kind, err := codeKind(s.Expect.Code.Kind)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	flags, err := parseFlags(s.Flags)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	if len(s.Command) == 0 {
		return nil, fmt.Errorf("scenario %s: empty command", s.Name)
	}
	argv := append([]string(nil), s.Command...)

	desc := &effect.Descriptor{
		Name:  s.Name,
		Flags: flags,
		Code:  effect.Code{Kind: kind, Value: s.Expect.Code.Value},
		Wrapper: func() error {
			return runCommand(argv)
		},
	}

	desc.Streams[effect.Stdin] = effect.Stream{Data: []byte(s.Stdin)}
	if s.Expect.Stdout != nil {
		desc.Streams[effect.Stdout] = effect.Stream{Data: []byte(*s.Expect.Stdout)}
	}
	if s.Expect.Stderr != nil {
		desc.Streams[effect.Stderr] = effect.Stream{Data: []byte(*s.Expect.Stderr)}
	}

	for _, f := range s.Files {
		desc.Files = append(desc.Files, effect.FileExpectation{
			Path:   f.Path,
			Data:   []byte(f.Content),
			Binary: f.Binary,
		})
	}

	return desc, nil
}

// runCommand executes argv with inherited standard streams and mirrors
// its termination: an exit status is re-exited, a fatal signal is
// re-raised against this process. A spawn failure is returned so the
// errno path can observe it.
func runCommand(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		os.Exit(0)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		_ = unix.Kill(os.Getpid(), sig)
		os.Exit(128 + int(sig))
	}
	os.Exit(exitErr.ExitCode())
	return nil
}

func codeKind(kind string) (effect.CodeKind, error) {
	switch kind {
	case "exit":
		return effect.ExitStatus, nil
	case "signal":
		return effect.Signal, nil
	case "errno":
		return effect.Errno, nil
	default:
		return 0, fmt.Errorf("unknown code kind %q", kind)
	}
}

func parseFlags(flags []string) (effect.Flag, error) {
	var out effect.Flag
	for _, f := range flags {
		switch f {
		case "no-strip":
			out |= effect.SuppressStrip
		case "inline":
			out |= effect.RunInline
		case "no-diff":
			out |= effect.SuppressDiff
		default:
			return 0, fmt.Errorf("unknown flag %q", f)
		}
	}
	return out, nil
}
