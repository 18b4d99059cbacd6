package harness

import "github.com/witnesslab/witness/internal/effect"

// descQueue is the registration queue: an ordered container of prepared
// descriptors with insert-at-head and remove-from-head. Registration
// pushes at the head and the run loop pops from the head, so ordering
// between independently registered tests is an implementation detail,
// not a guarantee.
//
// The queue is intentionally not synchronized; the harness is single
// threaded.
type descQueue struct {
	items []*effect.Descriptor
}

// PushFront inserts d at the head.
func (q *descQueue) PushFront(d *effect.Descriptor) {
	q.items = append(q.items, nil)
	copy(q.items[1:], q.items)
	q.items[0] = d
}

// PopFront removes and returns the head, or (nil, false) when empty.
func (q *descQueue) PopFront() (*effect.Descriptor, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	d := q.items[0]

	// Nil out the slot so the popped descriptor's buffers can be
	// collected once the verdict releases them.
	q.items[0] = nil
	q.items = q.items[1:]
	return d, true
}

// Len sizes the report's total.
func (q *descQueue) Len() int {
	return len(q.items)
}
