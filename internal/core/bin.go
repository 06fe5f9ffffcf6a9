package core

import (
	"fmt"

	"chemstate/pkg/domain"
	"chemstate/pkg/rawcodec"
)

// Engine is the legacy calculation engine as seen by a StorageBin. Implementations
// convert at the boundary: returned records are never shared with engine memory.
// Lock serializes bin operations against one engine state across bins.
type Engine interface {
	Lock()
	Unlock()
	// Entities returns every record of kind in the engine's active array.
	Entities(kind domain.Kind) []domain.Entity
	// Find binary searches the array of kind for id.
	Find(kind domain.Kind, id int) (domain.Entity, bool)
	// Stage places e in its kind's staging slot and increments the instance counter.
	Stage(e domain.Entity) error
}

// StorageBin owns one id-keyed collection per reactant kind. Records are deep
// copied on every put and get. A bin is not safe for concurrent use.
type StorageBin struct {
	solutions     *collection[*domain.Solution]
	exchangers    *collection[*domain.Exchange]
	gasPhases     *collection[*domain.GasPhase]
	kinetics      *collection[*domain.Kinetics]
	ppAssemblages *collection[*domain.PPAssemblage]
	ssAssemblages *collection[*domain.SSAssemblage]
	surfaces      *collection[*domain.Surface]
	mixes         *collection[*domain.Mix]
	reactions     *collection[*domain.Reaction]
	temperatures  *collection[*domain.Temperature]

	byKind map[domain.Kind]kindStore
}

// NewStorageBin returns an empty bin.
func NewStorageBin() *StorageBin {
	b := &StorageBin{
		solutions:     newCollection(domain.KindSolution, (*domain.Solution).Clone),
		exchangers:    newCollection(domain.KindExchange, (*domain.Exchange).Clone),
		gasPhases:     newCollection(domain.KindGasPhase, (*domain.GasPhase).Clone),
		kinetics:      newCollection(domain.KindKinetics, (*domain.Kinetics).Clone),
		ppAssemblages: newCollection(domain.KindPPAssemblage, (*domain.PPAssemblage).Clone),
		ssAssemblages: newCollection(domain.KindSSAssemblage, (*domain.SSAssemblage).Clone),
		surfaces:      newCollection(domain.KindSurface, (*domain.Surface).Clone),
		mixes:         newCollection(domain.KindMix, (*domain.Mix).Clone),
		reactions:     newCollection(domain.KindReaction, (*domain.Reaction).Clone),
		temperatures:  newCollection(domain.KindTemperature, (*domain.Temperature).Clone),
	}
	b.byKind = map[domain.Kind]kindStore{
		domain.KindSolution:     b.solutions,
		domain.KindExchange:     b.exchangers,
		domain.KindGasPhase:     b.gasPhases,
		domain.KindKinetics:     b.kinetics,
		domain.KindPPAssemblage: b.ppAssemblages,
		domain.KindSSAssemblage: b.ssAssemblages,
		domain.KindSurface:      b.surfaces,
		domain.KindMix:          b.mixes,
		domain.KindReaction:     b.reactions,
		domain.KindTemperature:  b.temperatures,
	}
	return b
}

func (b *StorageBin) store(kind domain.Kind) (kindStore, error) {
	s, ok := b.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return s, nil
}

// pointerEntity turns value records into pointers so every collection sees one type.
func pointerEntity(e domain.Entity) (domain.Entity, error) {
	switch v := e.(type) {
	case domain.Solution:
		return &v, nil
	case domain.Exchange:
		return &v, nil
	case domain.GasPhase:
		return &v, nil
	case domain.Kinetics:
		return &v, nil
	case domain.PPAssemblage:
		return &v, nil
	case domain.SSAssemblage:
		return &v, nil
	case domain.Surface:
		return &v, nil
	case domain.Mix:
		return &v, nil
	case domain.Reaction:
		return &v, nil
	case domain.Temperature:
		return &v, nil
	}
	if nilRecord(e) {
		return nil, ErrNilEntity
	}
	return e, nil
}

func nilRecord(e domain.Entity) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *domain.Solution:
		return v == nil
	case *domain.Exchange:
		return v == nil
	case *domain.GasPhase:
		return v == nil
	case *domain.Kinetics:
		return v == nil
	case *domain.PPAssemblage:
		return v == nil
	case *domain.SSAssemblage:
		return v == nil
	case *domain.Surface:
		return v == nil
	case *domain.Mix:
		return v == nil
	case *domain.Reaction:
		return v == nil
	case *domain.Temperature:
		return v == nil
	}
	return false
}

// Put stores a copy of e under its id, replacing any record of the same kind and id.
func (b *StorageBin) Put(e domain.Entity) error {
	e, err := pointerEntity(e)
	if err != nil {
		return err
	}
	s, err := b.store(e.Kind())
	if err != nil {
		return err
	}
	return s.putEntity(e)
}

// Get returns a copy of the record of kind with id, or ErrNotFound.
func (b *StorageBin) Get(kind domain.Kind, id int) (domain.Entity, error) {
	s, err := b.store(kind)
	if err != nil {
		return nil, err
	}
	e, ok := s.entity(id)
	if !ok {
		return nil, ErrNotFound{Kind: kind, ID: id}
	}
	return e, nil
}

// Has reports whether kind holds id.
func (b *StorageBin) Has(kind domain.Kind, id int) bool {
	s, err := b.store(kind)
	return err == nil && s.has(id)
}

// Remove deletes id from kind and reports whether it was present.
func (b *StorageBin) Remove(kind domain.Kind, id int) bool {
	s, err := b.store(kind)
	return err == nil && s.remove(id)
}

// Len returns the number of records of kind.
func (b *StorageBin) Len(kind domain.Kind) int {
	s, err := b.store(kind)
	if err != nil {
		return 0
	}
	return s.len()
}

// IDs returns the ids of kind in ascending order.
func (b *StorageBin) IDs(kind domain.Kind) []int {
	s, err := b.store(kind)
	if err != nil {
		return nil
	}
	return s.ids()
}

// Entities returns copies of every record of kind in ascending id order.
func (b *StorageBin) Entities(kind domain.Kind) []domain.Entity {
	s, err := b.store(kind)
	if err != nil {
		return nil
	}
	return s.entities()
}

// Empty reports whether every collection is empty.
func (b *StorageBin) Empty() bool {
	for _, kind := range domain.Kinds {
		if b.byKind[kind].len() > 0 {
			return false
		}
	}
	return true
}

// Clear drops every record.
func (b *StorageBin) Clear() {
	for _, s := range b.byKind {
		s.reset()
	}
}

// Clone returns an independent copy of the bin.
func (b *StorageBin) Clone() *StorageBin {
	out := NewStorageBin()
	out.solutions.copyFrom(b.solutions)
	out.exchangers.copyFrom(b.exchangers)
	out.gasPhases.copyFrom(b.gasPhases)
	out.kinetics.copyFrom(b.kinetics)
	out.ppAssemblages.copyFrom(b.ppAssemblages)
	out.ssAssemblages.copyFrom(b.ssAssemblages)
	out.surfaces.copyFrom(b.surfaces)
	out.mixes.copyFrom(b.mixes)
	out.reactions.copyFrom(b.reactions)
	out.temperatures.copyFrom(b.temperatures)
	return out
}

// PutSolution stores a copy of s.
func (b *StorageBin) PutSolution(s domain.Solution) { b.solutions.put(&s) }

// Solution returns a copy of solution id.
func (b *StorageBin) Solution(id int) (*domain.Solution, error) { return b.solutions.lookup(id) }

// PutExchange stores a copy of x.
func (b *StorageBin) PutExchange(x domain.Exchange) { b.exchangers.put(&x) }

// Exchange returns a copy of exchanger id.
func (b *StorageBin) Exchange(id int) (*domain.Exchange, error) { return b.exchangers.lookup(id) }

// PutGasPhase stores a copy of g.
func (b *StorageBin) PutGasPhase(g domain.GasPhase) { b.gasPhases.put(&g) }

// GasPhase returns a copy of gas phase id.
func (b *StorageBin) GasPhase(id int) (*domain.GasPhase, error) { return b.gasPhases.lookup(id) }

// PutKinetics stores a copy of k.
func (b *StorageBin) PutKinetics(k domain.Kinetics) { b.kinetics.put(&k) }

// Kinetics returns a copy of kinetics id.
func (b *StorageBin) Kinetics(id int) (*domain.Kinetics, error) { return b.kinetics.lookup(id) }

// PutPPAssemblage stores a copy of a.
func (b *StorageBin) PutPPAssemblage(a domain.PPAssemblage) { b.ppAssemblages.put(&a) }

// PPAssemblage returns a copy of phase assemblage id.
func (b *StorageBin) PPAssemblage(id int) (*domain.PPAssemblage, error) {
	return b.ppAssemblages.lookup(id)
}

// PutSSAssemblage stores a copy of a.
func (b *StorageBin) PutSSAssemblage(a domain.SSAssemblage) { b.ssAssemblages.put(&a) }

// SSAssemblage returns a copy of solid solution assemblage id.
func (b *StorageBin) SSAssemblage(id int) (*domain.SSAssemblage, error) {
	return b.ssAssemblages.lookup(id)
}

// PutSurface stores a copy of s.
func (b *StorageBin) PutSurface(s domain.Surface) { b.surfaces.put(&s) }

// Surface returns a copy of surface id.
func (b *StorageBin) Surface(id int) (*domain.Surface, error) { return b.surfaces.lookup(id) }

// PutMix stores a copy of m.
func (b *StorageBin) PutMix(m domain.Mix) { b.mixes.put(&m) }

// Mix returns a copy of mix id.
func (b *StorageBin) Mix(id int) (*domain.Mix, error) { return b.mixes.lookup(id) }

// PutReaction stores a copy of r.
func (b *StorageBin) PutReaction(r domain.Reaction) { b.reactions.put(&r) }

// Reaction returns a copy of reaction id.
func (b *StorageBin) Reaction(id int) (*domain.Reaction, error) { return b.reactions.lookup(id) }

// PutTemperature stores a copy of t.
func (b *StorageBin) PutTemperature(t domain.Temperature) { b.temperatures.put(&t) }

// Temperature returns a copy of temperature schedule id.
func (b *StorageBin) Temperature(id int) (*domain.Temperature, error) {
	return b.temperatures.lookup(id)
}

// ImportAll copies every record of every kind out of the engine, replacing records
// with the same ids. It returns the number of records imported.
func (b *StorageBin) ImportAll(eng Engine) (int, error) {
	eng.Lock()
	defer eng.Unlock()
	n := 0
	for _, kind := range domain.Kinds {
		for _, e := range eng.Entities(kind) {
			if err := b.Put(e); err != nil {
				return n, fmt.Errorf("import %s: %w", kind, err)
			}
			n++
		}
	}
	return n, nil
}

// ExportOne stages every record with id into the engine, in kind order. A missing
// solution is fatal and nothing is staged; other missing kinds are skipped and
// their slots left untouched. It returns the kinds that were staged.
func (b *StorageBin) ExportOne(eng Engine, id int) ([]domain.Kind, error) {
	if !b.solutions.has(id) {
		return nil, &FatalError{Op: "export", ID: id, Err: ErrSolutionRequired}
	}
	eng.Lock()
	defer eng.Unlock()
	var staged []domain.Kind
	for _, kind := range domain.Kinds {
		e, ok := b.byKind[kind].entity(id)
		if !ok {
			continue
		}
		if err := eng.Stage(e); err != nil {
			return staged, fmt.Errorf("export %s %d: %w", kind, id, err)
		}
		staged = append(staged, kind)
	}
	return staged, nil
}

// SyncOneFromEngine looks up id in each of the engine's arrays and stores the
// records found. It returns the kinds that were updated.
func (b *StorageBin) SyncOneFromEngine(eng Engine, id int) ([]domain.Kind, error) {
	eng.Lock()
	defer eng.Unlock()
	var synced []domain.Kind
	for _, kind := range domain.Kinds {
		e, ok := eng.Find(kind, id)
		if !ok {
			continue
		}
		if err := b.Put(e); err != nil {
			return synced, fmt.Errorf("sync %s %d: %w", kind, id, err)
		}
		synced = append(synced, kind)
	}
	return synced, nil
}

// MergePartial stores the records present in sys. Absent fields change nothing.
func (b *StorageBin) MergePartial(sys domain.System) (int, error) {
	n := 0
	for _, e := range sys.Entities() {
		if err := b.Put(e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// DumpRaw writes every record, kind by kind in fixed order and ascending id within
// a kind.
func (b *StorageBin) DumpRaw(w *rawcodec.Writer, indent int) error {
	for _, kind := range domain.Kinds {
		b.byKind[kind].dump(w, indent)
	}
	return w.Err()
}

type readState int

const (
	stateScan readState = iota
	stateDispatch
	stateDone
)

// ReadRaw reads raw blocks from p into the bin until END, end of input or a keyword
// without a raw reader. Each block replaces the record with the same kind and id.
// Anomalies inside blocks are recorded as parser warnings; only read errors are
// returned. It returns the number of blocks read.
func (b *StorageBin) ReadRaw(p *rawcodec.Parser) (int, error) {
	n := 0
	state := stateScan
	for state != stateDone {
		switch state {
		case stateScan:
			switch p.CheckLine() {
			case rawcodec.LineKeyword, rawcodec.LineEnd:
				state = stateDispatch
			case rawcodec.LineEOF:
				state = stateDone
			}
		case stateDispatch:
			e, ok := domain.ReadEntityRaw(p.NextKeyword(), p)
			if !ok {
				state = stateDone
				continue
			}
			if err := b.Put(e); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, p.Err()
}

// Snapshot returns a copy of every record keyed by id.
func (b *StorageBin) Snapshot() domain.Snapshot {
	snap := domain.NewSnapshot()
	for _, s := range b.solutions.entries {
		snap.Solutions[s.NUser] = *s.Clone()
	}
	for _, x := range b.exchangers.entries {
		snap.Exchangers[x.NUser] = *x.Clone()
	}
	for _, g := range b.gasPhases.entries {
		snap.GasPhases[g.NUser] = *g.Clone()
	}
	for _, k := range b.kinetics.entries {
		snap.Kinetics[k.NUser] = *k.Clone()
	}
	for _, a := range b.ppAssemblages.entries {
		snap.PPAssemblages[a.NUser] = *a.Clone()
	}
	for _, a := range b.ssAssemblages.entries {
		snap.SSAssemblages[a.NUser] = *a.Clone()
	}
	for _, s := range b.surfaces.entries {
		snap.Surfaces[s.NUser] = *s.Clone()
	}
	for _, m := range b.mixes.entries {
		snap.Mixes[m.NUser] = *m.Clone()
	}
	for _, r := range b.reactions.entries {
		snap.Reactions[r.NUser] = *r.Clone()
	}
	for _, t := range b.temperatures.entries {
		snap.Temperatures[t.NUser] = *t.Clone()
	}
	return snap
}

// Restore replaces the bin's contents with snap. Map keys are authoritative for ids.
func (b *StorageBin) Restore(snap domain.Snapshot) {
	b.Clear()
	for id, s := range snap.Solutions {
		s.NUser = id
		b.solutions.put(&s)
	}
	for id, x := range snap.Exchangers {
		x.NUser = id
		b.exchangers.put(&x)
	}
	for id, g := range snap.GasPhases {
		g.NUser = id
		b.gasPhases.put(&g)
	}
	for id, k := range snap.Kinetics {
		k.NUser = id
		b.kinetics.put(&k)
	}
	for id, a := range snap.PPAssemblages {
		a.NUser = id
		b.ppAssemblages.put(&a)
	}
	for id, a := range snap.SSAssemblages {
		a.NUser = id
		b.ssAssemblages.put(&a)
	}
	for id, s := range snap.Surfaces {
		s.NUser = id
		b.surfaces.put(&s)
	}
	for id, m := range snap.Mixes {
		m.NUser = id
		b.mixes.put(&m)
	}
	for id, r := range snap.Reactions {
		r.NUser = id
		b.reactions.put(&r)
	}
	for id, t := range snap.Temperatures {
		t.NUser = id
		b.temperatures.put(&t)
	}
}
