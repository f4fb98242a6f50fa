// Package arena implements a fixed-capacity slot table keyed by small
// integer ids, the building block the routing Tree uses to store its
// leaves without heap allocation on the hot path.
package arena

import "golang.org/x/xerrors"

// SlotId addresses one slot in an Arena. Ids are recycled: once a slot is
// removed, a later alloc may hand out the same id again for a different
// value.
type SlotId uint16

// Arena holds up to N values of type T in addressable slots. The zero
// value is not usable; construct one with New.
type Arena[T any] struct {
	slots []*T
	free  []SlotId
}

// New returns an Arena with room for exactly capacity values.
func New[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots: make([]*T, capacity),
		free:  make([]SlotId, capacity),
	}
	for i := 0; i < capacity; i++ {
		// reverse order so alloc() pop()ing from the back hands out id 0 first,
		// which keeps slot ids predictable in tests.
		a.free[i] = SlotId(capacity - 1 - i)
	}
	return a
}

// Cap returns the arena's total capacity.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

// Len returns the number of currently occupied slots.
func (a *Arena[T]) Len() int {
	return len(a.slots) - len(a.free)
}

// Alloc stores v in a free slot and returns its id, or false if the arena
// is full.
func (a *Arena[T]) Alloc(v T) (SlotId, bool) {
	if len(a.free) == 0 {
		return 0, false
	}
	id := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	a.slots[id] = &v
	return id, true
}

// Remove frees the slot at id and returns the value it held. Removing an
// out-of-range id is a programmer error and panics; removing an
// already-empty in-range slot returns ErrInvalidIndex.
func (a *Arena[T]) Remove(id SlotId) (T, error) {
	a.checkRange(id)
	p := a.slots[id]
	if p == nil {
		var zero T
		return zero, xerrors.Errorf("arena: remove slot %d: %w", id, ErrInvalidIndex)
	}
	a.slots[id] = nil
	a.free = append(a.free, id)
	return *p, nil
}

// Get returns a pointer to the live value at id for interior-mutable
// access. An out-of-range id panics; a freed-but-in-range id returns
// ErrSlotEmpty.
func (a *Arena[T]) Get(id SlotId) (*T, error) {
	a.checkRange(id)
	p := a.slots[id]
	if p == nil {
		return nil, xerrors.Errorf("arena: get slot %d: %w", id, ErrSlotEmpty)
	}
	return p, nil
}

func (a *Arena[T]) checkRange(id SlotId) {
	if int(id) >= len(a.slots) {
		panic(xerrors.Errorf("arena: slot id %d out of range (capacity %d)", id, len(a.slots)))
	}
}
