package effect

// Flag is a bitset of per-descriptor behavior switches.
type Flag uint8

const (
	// SuppressStrip disables leading/trailing whitespace stripping on
	// expected and captured output streams.
	SuppressStrip Flag = 1 << iota

	// RunInline runs the wrapper in the harness's own process instead of
	// an isolated child. Trades isolation for visibility into caller
	// process state; a wrapper that terminates the process terminates
	// the whole run.
	RunInline

	// SuppressDiff silences the discrepancy report; the verdict is still
	// computed and counted.
	SuppressDiff
)

// CodeKind selects which termination code family a descriptor compares.
// A signaled or exited process cannot also report a post-call errno, so
// exactly one kind is meaningful per run.
type CodeKind int

const (
	// Errno compares the wrapper's post-call errno, transported from the
	// child over a private pipe.
	Errno CodeKind = iota

	// ExitStatus compares the child's exit status.
	ExitStatus

	// Signal compares the signal that terminated the child.
	Signal
)

// Code is the tagged termination-code expectation.
type Code struct {
	Kind  CodeKind
	Value int
}

// Standard stream indexes into Descriptor.Streams.
const (
	Stdin  = 0
	Stdout = 1
	Stderr = 2
)

// Stream describes one standard stream: inline content, or a source/sink
// file path loaded at Prepare time. Binary marks fixed-length blob content
// that is compared byte-for-byte instead of as stripped text.
type Stream struct {
	Data   []byte
	Path   string
	Binary bool
}

// FileExpectation is one (path, expected content) pair. The harness
// re-reads Path after the wrapper runs and compares against Data.
type FileExpectation struct {
	Path   string
	Data   []byte
	Binary bool
}

// Descriptor is the unit of work and of expectation.
type Descriptor struct {
	// Name is the display string for reports.
	Name string

	// Wrapper is the zero-argument body under test. A returned
	// syscall.Errno (possibly wrapped) becomes the observed errno;
	// nil means errno 0.
	Wrapper func() error

	Flags Flag

	Code Code

	// Streams holds stdin content (input) and stdout/stderr expectations.
	Streams [3]Stream

	// Files is an open list of file expectations. Scanning stops at the
	// first entry with an empty path.
	Files []FileExpectation
}

// DeclaredFiles returns the prefix of Files up to the first empty path.
func (d *Descriptor) DeclaredFiles() []FileExpectation {
	for i, f := range d.Files {
		if f.Path == "" {
			return d.Files[:i]
		}
	}
	return d.Files
}

// Clone returns an independent deep copy of the descriptor. The wrapper
// function value is shared; every byte slice is duplicated so mutating
// one copy can never be visible through another.
func (d *Descriptor) Clone() *Descriptor {
	c := &Descriptor{
		Name:    d.Name,
		Wrapper: d.Wrapper,
		Flags:   d.Flags,
		Code:    d.Code,
	}
	for i := range d.Streams {
		c.Streams[i] = d.Streams[i]
		c.Streams[i].Data = cloneBytes(d.Streams[i].Data)
	}
	if d.Files != nil {
		c.Files = make([]FileExpectation, len(d.Files))
		for i, f := range d.Files {
			c.Files[i] = f
			c.Files[i].Data = cloneBytes(f.Data)
		}
	}
	return c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
