package core

import (
	"errors"
	"reflect"
	"testing"

	"chemstate/internal/engine"
	"chemstate/pkg/domain"
)

var numKeywordType = reflect.TypeOf(domain.NumKeyword{})

// sameRecord compares two records field by field, ignoring the parsed header line
// and the difference between nil and empty maps or slices.
func sameRecord(a, b domain.Entity) bool {
	if ma, ok := a.(*domain.Mix); ok {
		mb, ok := b.(*domain.Mix)
		if !ok {
			return false
		}
		ka, kb := ma.NumKeyword, mb.NumKeyword
		ka.Line, kb.Line = 0, 0
		return ka == kb && reflect.DeepEqual(ma.Fractions(), mb.Fractions())
	}
	canonicalValue(reflect.ValueOf(a).Elem())
	canonicalValue(reflect.ValueOf(b).Elem())
	return reflect.DeepEqual(a, b)
}

func canonicalValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if v.Type() == numKeywordType {
			v.FieldByName("Line").SetInt(0)
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				canonicalValue(f)
			}
		}
	case reflect.Map, reflect.Slice:
		if v.Len() == 0 {
			v.Set(reflect.Zero(v.Type()))
			return
		}
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				canonicalValue(v.Index(i))
			}
		}
	}
}

func TestStorageBinReadRawRestoresEveryField(t *testing.T) {
	src := fullBin(3)

	// records left at their zero values, including empty text fields
	r := &domain.Reaction{}
	r.SetUserID(1)
	g := &domain.GasPhase{}
	g.SetUserID(1)
	sf := &domain.Surface{}
	sf.SetUserID(1)
	for _, e := range []domain.Entity{r, g, sf} {
		if err := src.Put(e); err != nil {
			t.Fatalf("put %s: %v", e.Kind(), err)
		}
	}

	// records arriving from the engine carry whatever the engine holds
	state := engine.NewState()
	state.Reactions.Insert(engine.Reaction{Header: engine.Header{NUser: 2}, Steps: []float64{0.5}})
	state.Surfaces.Insert(engine.Surface{Header: engine.Header{NUser: 2, Description: "bare"}, Thickness: 1e-8})
	state.GasPhases.Insert(engine.GasPhase{Header: engine.Header{NUser: 2}, TotalP: 2, Comps: []engine.NameValue{{Name: "N2(g)", Value: 0.75}}})
	state.Mixes.Insert(engine.Mix{Header: engine.Header{NUser: 2}, Comps: []engine.MixComp{{N: 3, Fraction: 1}}})
	if _, err := src.ImportAll(engine.NewAdapter(state)); err != nil {
		t.Fatalf("import: %v", err)
	}

	dst, _ := readBin(t, dumpBin(t, src))
	for _, kind := range domain.Kinds {
		ids := src.IDs(kind)
		if got := dst.IDs(kind); !reflect.DeepEqual(got, ids) {
			t.Fatalf("%s: expected ids %v, got %v", kind, ids, got)
		}
		for _, id := range ids {
			want, _ := src.Get(kind, id)
			got, err := dst.Get(kind, id)
			if err != nil {
				t.Fatalf("%s %d: %v", kind, id, err)
			}
			if !sameRecord(want, got) {
				t.Fatalf("%s %d: read back differs\nwant %+v\ngot  %+v", kind, id, want, got)
			}
		}
	}

	back, _ := dst.Get(domain.KindReaction, 1)
	if units := back.(*domain.Reaction).Units; units != "" {
		t.Fatalf("empty units came back as %q", units)
	}
}

func TestStorageBinPutRejectsTypedNil(t *testing.T) {
	b := NewStorageBin()
	for _, e := range []domain.Entity{
		nil,
		(*domain.Solution)(nil),
		(*domain.Exchange)(nil),
		(*domain.GasPhase)(nil),
		(*domain.Kinetics)(nil),
		(*domain.PPAssemblage)(nil),
		(*domain.SSAssemblage)(nil),
		(*domain.Surface)(nil),
		(*domain.Mix)(nil),
		(*domain.Reaction)(nil),
		(*domain.Temperature)(nil),
	} {
		if err := b.Put(e); !errors.Is(err, ErrNilEntity) {
			t.Fatalf("put %T: expected ErrNilEntity, got %v", e, err)
		}
	}
	if !b.Empty() {
		t.Fatalf("nil records must not be stored")
	}
}
