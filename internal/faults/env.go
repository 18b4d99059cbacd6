package faults

import (
	"fmt"
	"os"
	"strconv"
)

// Environment keys carrying the armed-fault snapshot into an isolated
// child attempt. The child reconstructs its own registry from these, so
// the parent's state is copied, never shared.
const (
	EnvMask  = "WITNESS_FAULT_MASK"
	EnvDelay = "WITNESS_FAULT_DELAY"
)

// Environ serializes the registry's armed state as environment entries
// for a spawned attempt. A disarmed registry yields no entries.
func (r *Registry) Environ() []string {
	if r.armed == None {
		return nil
	}
	return []string{
		fmt.Sprintf("%s=%d", EnvMask, uint32(r.armed)),
		fmt.Sprintf("%s=%d", EnvDelay, r.delay),
	}
}

// ArmFromEnviron arms the registry from the process environment written
// by a parent's Environ. Returns false when no snapshot is present.
func (r *Registry) ArmFromEnviron() (bool, error) {
	raw, ok := os.LookupEnv(EnvMask)
	if !ok {
		return false, nil
	}
	mask, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return false, fmt.Errorf("bad %s value %q: %w", EnvMask, raw, err)
	}
	delay := 0
	if rawDelay, ok := os.LookupEnv(EnvDelay); ok {
		delay, err = strconv.Atoi(rawDelay)
		if err != nil || delay < 0 {
			return false, fmt.Errorf("bad %s value %q", EnvDelay, rawDelay)
		}
	}
	r.Arm(Fault(mask), delay)
	return true, nil
}
