package faults

import (
	"os"
	"syscall"
)

// Calls is the explicit interface over every cataloged dependency call.
//
// Libraries written against Calls instead of the os package directly get
// fault injection for free: the harness hands them either the real
// implementation or an injecting one, selected at test setup.
type Calls interface {
	// Alloc returns a zeroed buffer of n bytes.
	Alloc(n int) ([]byte, error)

	// Fork spawns a new process. The name mirrors the original process
	// control call it replaces; the mechanism is os.StartProcess.
	Fork(name string, argv []string, attr *os.ProcAttr) (*os.Process, error)

	// Pipe returns a connected pair of files.
	Pipe() (r, w *os.File, err error)

	// Dup duplicates an open descriptor.
	Dup(oldfd int) (int, error)

	// Close closes f.
	Close(f *os.File) error

	// Read reads from f into p.
	Read(f *os.File, p []byte) (int, error)

	// Write writes p to f.
	Write(f *os.File, p []byte) (int, error)

	// Open opens an existing file for reading.
	Open(name string) (*os.File, error)

	// Create truncates or creates a file for writing.
	Create(name string) (*os.File, error)

	// Seek repositions f.
	Seek(f *os.File, offset int64, whence int) (int64, error)

	// Stat describes the named file.
	Stat(name string) (os.FileInfo, error)

	// Remove deletes the named file.
	Remove(name string) error

	// Abort terminates the process with SIGABRT. Injected
	// implementations may record the call first but must still
	// terminate; tests observe the terminal signal.
	Abort()
}

// Real returns the implementation that delegates unconditionally.
func Real() Calls {
	return realCalls{}
}

// Injected returns an implementation that consults reg before every
// call, returning the documented failure values for armed faults.
func Injected(reg *Registry) Calls {
	return &injectedCalls{reg: reg, real: realCalls{}}
}

type realCalls struct{}

func (realCalls) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, syscall.EINVAL
	}
	return make([]byte, n), nil
}

func (realCalls) Fork(name string, argv []string, attr *os.ProcAttr) (*os.Process, error) {
	return os.StartProcess(name, argv, attr)
}

func (realCalls) Pipe() (*os.File, *os.File, error) {
	return os.Pipe()
}

func (realCalls) Dup(oldfd int) (int, error) {
	return syscall.Dup(oldfd)
}

func (realCalls) Close(f *os.File) error {
	return f.Close()
}

func (realCalls) Read(f *os.File, p []byte) (int, error) {
	return f.Read(p)
}

func (realCalls) Write(f *os.File, p []byte) (int, error) {
	return f.Write(p)
}

func (realCalls) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (realCalls) Create(name string) (*os.File, error) {
	return os.Create(name)
}

func (realCalls) Seek(f *os.File, offset int64, whence int) (int64, error) {
	return f.Seek(offset, whence)
}

func (realCalls) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (realCalls) Remove(name string) error {
	return os.Remove(name)
}

func (realCalls) Abort() {
	raiseAbort()
}

type injectedCalls struct {
	reg  *Registry
	real realCalls
}

func (c *injectedCalls) Alloc(n int) ([]byte, error) {
	if c.reg.shouldFail(FaultAlloc) {
		return nil, FailureErrno(FaultAlloc)
	}
	return c.real.Alloc(n)
}

func (c *injectedCalls) Fork(name string, argv []string, attr *os.ProcAttr) (*os.Process, error) {
	if c.reg.shouldFail(FaultFork) {
		return nil, FailureErrno(FaultFork)
	}
	return c.real.Fork(name, argv, attr)
}

func (c *injectedCalls) Pipe() (*os.File, *os.File, error) {
	if c.reg.shouldFail(FaultPipe) {
		return nil, nil, FailureErrno(FaultPipe)
	}
	return c.real.Pipe()
}

func (c *injectedCalls) Dup(oldfd int) (int, error) {
	if c.reg.shouldFail(FaultDup) {
		return -1, FailureErrno(FaultDup)
	}
	return c.real.Dup(oldfd)
}

func (c *injectedCalls) Close(f *os.File) error {
	if c.reg.shouldFail(FaultClose) {
		return FailureErrno(FaultClose)
	}
	return c.real.Close(f)
}

func (c *injectedCalls) Read(f *os.File, p []byte) (int, error) {
	if c.reg.shouldFail(FaultRead) {
		return 0, FailureErrno(FaultRead)
	}
	return c.real.Read(f, p)
}

func (c *injectedCalls) Write(f *os.File, p []byte) (int, error) {
	if c.reg.shouldFail(FaultWrite) {
		return 0, FailureErrno(FaultWrite)
	}
	return c.real.Write(f, p)
}

func (c *injectedCalls) Open(name string) (*os.File, error) {
	if c.reg.shouldFail(FaultOpen) {
		return nil, FailureErrno(FaultOpen)
	}
	return c.real.Open(name)
}

func (c *injectedCalls) Create(name string) (*os.File, error) {
	if c.reg.shouldFail(FaultCreate) {
		return nil, FailureErrno(FaultCreate)
	}
	return c.real.Create(name)
}

func (c *injectedCalls) Seek(f *os.File, offset int64, whence int) (int64, error) {
	if c.reg.shouldFail(FaultSeek) {
		return 0, FailureErrno(FaultSeek)
	}
	return c.real.Seek(f, offset, whence)
}

func (c *injectedCalls) Stat(name string) (os.FileInfo, error) {
	if c.reg.shouldFail(FaultStat) {
		return nil, FailureErrno(FaultStat)
	}
	return c.real.Stat(name)
}

func (c *injectedCalls) Remove(name string) error {
	if c.reg.shouldFail(FaultRemove) {
		return FailureErrno(FaultRemove)
	}
	return c.real.Remove(name)
}

// Abort records the hit when armed, then terminates regardless.
func (c *injectedCalls) Abort() {
	c.reg.shouldFail(FaultAbort)
	raiseAbort()
}
