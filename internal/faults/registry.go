package faults

// Registry holds the armed-fault state consulted by every injected call.
//
// A registry is deliberately unsynchronized: the harness is single
// threaded at one-test-at-a-time granularity, and each isolated child
// attempt reconstructs its own instance from an environment snapshot, so
// concurrent mutation cannot arise. See the package documentation.
type Registry struct {
	armed Fault
	delay int
	calls int
}

// NewRegistry returns an empty, disarmed registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Arm schedules every fault in mask to fire after delay successful
// delegations. Delay 0 means the very next matching call fails. Arming
// resets the call counter.
func (r *Registry) Arm(mask Fault, delay int) {
	r.armed = mask
	r.delay = delay
	r.calls = 0
}

// Flush disarms all faults and clears the counters. The registry is not
// test-scoped; callers flush it explicitly.
func (r *Registry) Flush() {
	r.armed = None
	r.delay = 0
	r.calls = 0
}

// Armed reports the currently armed mask.
func (r *Registry) Armed() Fault {
	return r.armed
}

// CallsSinceArm reports how many intercepted calls have fired (returned
// their documented failure) since the last Arm.
func (r *Registry) CallsSinceArm() int {
	return r.calls
}

// shouldFail is the per-call decision point. If f is armed and the delay
// is exhausted the fault fires: the hit is counted and the caller must
// return the documented failure without delegating. If armed with delay
// remaining, the delay is decremented and the call delegates, which
// simulates "the Nth call fails".
func (r *Registry) shouldFail(f Fault) bool {
	if r.armed&f == 0 {
		return false
	}
	if r.delay > 0 {
		r.delay--
		return false
	}
	r.calls++
	return true
}
