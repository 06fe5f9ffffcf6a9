package core

import (
	"fmt"
	"sort"

	"chemstate/pkg/domain"
	"chemstate/pkg/rawcodec"
)

// collection is one kind's records ordered by ascending id. Records are cloned on
// the way in and on the way out.
type collection[P domain.Entity] struct {
	kind    domain.Kind
	clone   func(P) P
	entries []P
}

func newCollection[P domain.Entity](kind domain.Kind, clone func(P) P) *collection[P] {
	return &collection[P]{kind: kind, clone: clone}
}

func (c *collection[P]) search(id int) (int, bool) {
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].UserID() >= id })
	return i, i < len(c.entries) && c.entries[i].UserID() == id
}

func (c *collection[P]) put(rec P) {
	rec = c.clone(rec)
	i, found := c.search(rec.UserID())
	if found {
		c.entries[i] = rec
		return
	}
	c.entries = append(c.entries, rec)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = rec
}

func (c *collection[P]) get(id int) (P, bool) {
	if i, ok := c.search(id); ok {
		return c.clone(c.entries[i]), true
	}
	var zero P
	return zero, false
}

func (c *collection[P]) lookup(id int) (P, error) {
	rec, ok := c.get(id)
	if !ok {
		return rec, ErrNotFound{Kind: c.kind, ID: id}
	}
	return rec, nil
}

func (c *collection[P]) has(id int) bool {
	_, ok := c.search(id)
	return ok
}

func (c *collection[P]) remove(id int) bool {
	i, ok := c.search(id)
	if !ok {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

func (c *collection[P]) ids() []int {
	out := make([]int, len(c.entries))
	for i, rec := range c.entries {
		out[i] = rec.UserID()
	}
	return out
}

func (c *collection[P]) len() int { return len(c.entries) }

func (c *collection[P]) reset() { c.entries = nil }

func (c *collection[P]) copyFrom(o *collection[P]) {
	c.entries = make([]P, len(o.entries))
	for i, rec := range o.entries {
		c.entries[i] = c.clone(rec)
	}
}

// kindStore is the kind-agnostic view StorageBin dispatches through.
type kindStore interface {
	putEntity(e domain.Entity) error
	entity(id int) (domain.Entity, bool)
	entities() []domain.Entity
	has(id int) bool
	remove(id int) bool
	ids() []int
	len() int
	reset()
	dump(w *rawcodec.Writer, indent int)
}

func (c *collection[P]) putEntity(e domain.Entity) error {
	rec, ok := e.(P)
	if !ok {
		return fmt.Errorf("%s collection cannot hold %T", c.kind, e)
	}
	c.put(rec)
	return nil
}

func (c *collection[P]) entity(id int) (domain.Entity, bool) {
	rec, ok := c.get(id)
	if !ok {
		return nil, false
	}
	return rec, true
}

func (c *collection[P]) entities() []domain.Entity {
	out := make([]domain.Entity, len(c.entries))
	for i, rec := range c.entries {
		out[i] = c.clone(rec)
	}
	return out
}

func (c *collection[P]) dump(w *rawcodec.Writer, indent int) {
	for _, rec := range c.entries {
		rec.DumpRaw(w, indent)
	}
}
