package faults

import (
	"strings"
	"syscall"
)

// Fault is a bitmask selecting one or more cataloged calls.
type Fault uint32

// The predefined fault catalog. Each entry is one interceptable call on
// [Calls] together with a documented failure value returned when the
// fault fires.
const (
	// FaultAlloc fails buffer allocation with ENOMEM.
	FaultAlloc Fault = 1 << iota
	// FaultFork fails process spawning with EAGAIN.
	FaultFork
	// FaultPipe fails pipe creation with EMFILE.
	FaultPipe
	// FaultDup fails descriptor duplication with EMFILE.
	FaultDup
	// FaultClose fails descriptor close with EBADF.
	FaultClose
	// FaultRead fails reads with EIO.
	FaultRead
	// FaultWrite fails writes with EIO.
	FaultWrite
	// FaultOpen fails opening existing files with EMFILE.
	FaultOpen
	// FaultCreate fails file creation with EMFILE.
	FaultCreate
	// FaultSeek fails seeking with ESPIPE.
	FaultSeek
	// FaultStat fails stat with EACCES.
	FaultStat
	// FaultRemove fails removal with EPERM.
	FaultRemove
	// FaultAbort intercepts abort for bookkeeping. The replacement still
	// terminates the process with SIGABRT: tests observe that terminal
	// signal.
	FaultAbort
)

// None is the no-fault sentinel used by the exhaustive driver.
const None Fault = 0

// Catalog lists every single-bit fault in a fixed order.
var Catalog = []Fault{
	FaultAlloc,
	FaultFork,
	FaultPipe,
	FaultDup,
	FaultClose,
	FaultRead,
	FaultWrite,
	FaultOpen,
	FaultCreate,
	FaultSeek,
	FaultStat,
	FaultRemove,
	FaultAbort,
}

var faultNames = map[Fault]string{
	FaultAlloc:  "alloc",
	FaultFork:   "fork",
	FaultPipe:   "pipe",
	FaultDup:    "dup",
	FaultClose:  "close",
	FaultRead:   "read",
	FaultWrite:  "write",
	FaultOpen:   "open",
	FaultCreate: "create",
	FaultSeek:   "seek",
	FaultStat:   "stat",
	FaultRemove: "remove",
	FaultAbort:  "abort",
}

// faultErrnos holds the documented failure value per catalog entry.
var faultErrnos = map[Fault]syscall.Errno{
	FaultAlloc:  syscall.ENOMEM,
	FaultFork:   syscall.EAGAIN,
	FaultPipe:   syscall.EMFILE,
	FaultDup:    syscall.EMFILE,
	FaultClose:  syscall.EBADF,
	FaultRead:   syscall.EIO,
	FaultWrite:  syscall.EIO,
	FaultOpen:   syscall.EMFILE,
	FaultCreate: syscall.EMFILE,
	FaultSeek:   syscall.ESPIPE,
	FaultStat:   syscall.EACCES,
	FaultRemove: syscall.EPERM,
}

// FailureErrno returns the documented errno a fired fault reports.
func FailureErrno(f Fault) syscall.Errno {
	return faultErrnos[f]
}

// String renders a mask as "+"-joined catalog names.
func (f Fault) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	for _, c := range Catalog {
		if f&c != 0 {
			parts = append(parts, faultNames[c])
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "+")
}
