// Package engine models the legacy array-based simulation engine: per-kind arrays
// of native records kept sorted by user number, a single staging slot per kind and
// an active-instance counter. The state is an explicit value shared by everyone
// driving one engine; callers serialize access with Lock/Unlock.
package engine

import (
	"sort"
	"sync"
)

// record is satisfied by every native struct through its embedded Header.
type record interface {
	ID() int
}

// Table is one kind's array. Lookups binary search by id and assume the array is
// sorted; Insert maintains that order, Append does not.
type Table[T record] struct {
	items  []T
	slot   T
	staged bool
	count  int
}

// Insert places item in id order, replacing an element with the same id.
func (t *Table[T]) Insert(item T) {
	id := item.ID()
	i := sort.Search(len(t.items), func(i int) bool { return t.items[i].ID() >= id })
	if i < len(t.items) && t.items[i].ID() == id {
		t.items[i] = item
		return
	}
	var zero T
	t.items = append(t.items, zero)
	copy(t.items[i+1:], t.items[i:])
	t.items[i] = item
}

// Append adds item at the end without sorting. Lookups are undefined until the
// caller restores ascending order.
func (t *Table[T]) Append(item T) {
	t.items = append(t.items, item)
}

// Search returns the index of id, or -1.
func (t *Table[T]) Search(id int) int {
	i := sort.Search(len(t.items), func(i int) bool { return t.items[i].ID() >= id })
	if i < len(t.items) && t.items[i].ID() == id {
		return i
	}
	return -1
}

// Find returns the element with id.
func (t *Table[T]) Find(id int) (T, bool) {
	if i := t.Search(id); i >= 0 {
		return t.items[i], true
	}
	var zero T
	return zero, false
}

// Items returns the array in its current order. The slice is shared.
func (t *Table[T]) Items() []T { return t.items }

// Len returns the number of elements in the array.
func (t *Table[T]) Len() int { return len(t.items) }

// Stage writes item into the staging slot and increments the instance counter.
func (t *Table[T]) Stage(item T) {
	t.slot = item
	t.staged = true
	t.count++
}

// Staged returns the staging slot and whether anything was staged since Reset.
func (t *Table[T]) Staged() (T, bool) { return t.slot, t.staged }

// Count returns the active-instance counter.
func (t *Table[T]) Count() int { return t.count }

// Reset clears the array, staging slot and counter.
func (t *Table[T]) Reset() {
	var zero T
	t.items = nil
	t.slot = zero
	t.staged = false
	t.count = 0
}

// State is the complete engine state.
type State struct {
	mu sync.Mutex

	Solutions     Table[Solution]
	Exchangers    Table[Exchange]
	GasPhases     Table[GasPhase]
	Kinetics      Table[Kinetics]
	PPAssemblages Table[PPAssemblage]
	SSAssemblages Table[SSAssemblage]
	Surfaces      Table[Surface]
	Mixes         Table[Mix]
	Reactions     Table[Reaction]
	Temperatures  Table[Temperature]
}

// NewState returns an empty engine state.
func NewState() *State { return &State{} }

// Lock acquires exclusive use of the state.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the state.
func (s *State) Unlock() { s.mu.Unlock() }

// Reset empties every table. The caller must hold the lock.
func (s *State) Reset() {
	s.Solutions.Reset()
	s.Exchangers.Reset()
	s.GasPhases.Reset()
	s.Kinetics.Reset()
	s.PPAssemblages.Reset()
	s.SSAssemblages.Reset()
	s.Surfaces.Reset()
	s.Mixes.Reset()
	s.Reactions.Reset()
	s.Temperatures.Reset()
}
