package sim

import "sync"

// BodyID uniquely identifies a Body for the lifetime of a World. Ids are
// allocated monotonically and never reused, even once the body they name is
// absorbed and removed.
//
// Grounded on gekko/ecs.go's nextEntityId: a mutex-guarded counter, not a
// UUID — §3 calls for a non-negative integer id, which is what the teacher's
// own entity-id allocator produces (google/uuid is used elsewhere in the
// teacher only for string asset identifiers and does not fit here).
type BodyID uint64

// IDAllocator hands out monotonically increasing BodyIDs.
type IDAllocator struct {
	mu      sync.Mutex
	counter BodyID
}

// NewIDAllocator returns an allocator starting at id 0.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns the next unused id.
func (a *IDAllocator) Next() BodyID {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.counter
	a.counter++
	return id
}
