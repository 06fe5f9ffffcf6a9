package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"chemstate/internal/engine"
	"chemstate/pkg/domain"
	"chemstate/pkg/rawcodec"
)

func sampleSolution(id int) domain.Solution {
	s := domain.NewSolution(id)
	s.PH = 7
	s.SetTotal("Ca", 1e-3)
	s.SetMasterActivity("Ca+2", -3.2)
	return *s
}

func fullBin(id int) *StorageBin {
	b := NewStorageBin()
	b.PutSolution(sampleSolution(id))
	x := domain.NewExchange(id)
	x.Comps = []domain.ExchComp{{Formula: "CaX2", Moles: 0.02, Totals: domain.NameDouble{"Ca": 0.02, "X": 0.04}}}
	b.PutExchange(*x)
	g := domain.NewGasPhase(id)
	g.SetMoles("CO2(g)", 0.1)
	b.PutGasPhase(*g)
	k := domain.NewKinetics(id)
	k.Steps = []float64{60}
	b.PutKinetics(*k)
	pp := domain.NewPPAssemblage(id)
	pp.Comps = []domain.PureComp{{Name: "Calcite", Moles: 1}}
	b.PutPPAssemblage(*pp)
	ss := domain.NewSSAssemblage(id)
	ss.SolidSolutions = []domain.SolidSolution{{Name: "CaSrCO3", Comps: domain.NameDouble{"Calcite": 0.1}}}
	b.PutSSAssemblage(*ss)
	sf := domain.NewSurface(id)
	sf.Comps = []domain.SurfaceComp{{Formula: "Hfo_wOH", Moles: 2e-4, ChargeName: "Hfo"}}
	b.PutSurface(*sf)
	m := domain.NewMix(id)
	m.SetFraction(id, 1)
	b.PutMix(*m)
	r := domain.NewReaction(id)
	r.Reactants = domain.NameDouble{"NaCl": 1}
	b.PutReaction(*r)
	tp := domain.NewTemperature(id)
	tp.Temps = []float64{25, 50}
	b.PutTemperature(*tp)
	return b
}

func dumpBin(t *testing.T, b *StorageBin) string {
	t.Helper()
	var buf bytes.Buffer
	w := rawcodec.NewWriter(&buf)
	if err := b.DumpRaw(w, 0); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return buf.String()
}

func readBin(t *testing.T, text string) (*StorageBin, int) {
	t.Helper()
	b := NewStorageBin()
	n, err := b.ReadRaw(rawcodec.NewParser(strings.NewReader(text)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return b, n
}

func TestStorageBinPutGetCopies(t *testing.T) {
	b := NewStorageBin()
	s := sampleSolution(1)
	b.PutSolution(s)
	s.SetTotal("Ca", 5)

	got, err := b.Solution(1)
	if err != nil {
		t.Fatalf("solution: %v", err)
	}
	if got.Total("Ca") != 1e-3 {
		t.Fatalf("stored record shares memory with caller: %v", got.Total("Ca"))
	}
	got.SetTotal("Ca", 9)
	again, _ := b.Solution(1)
	if again.Total("Ca") != 1e-3 {
		t.Fatalf("returned record shares memory with bin")
	}

	_, err = b.Exchange(1)
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.Kind != domain.KindExchange || nf.ID != 1 {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorageBinIDsUniqueAndSorted(t *testing.T) {
	b := NewStorageBin()
	for _, id := range []int{7, 2, 5, 2} {
		s := sampleSolution(id)
		s.Description = "first"
		b.PutSolution(s)
	}
	replacement := sampleSolution(5)
	replacement.Description = "second"
	if err := b.Put(replacement); err != nil {
		t.Fatalf("put: %v", err)
	}

	ids := b.IDs(domain.KindSolution)
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 7 {
		t.Fatalf("unexpected ids %v", ids)
	}
	got, _ := b.Solution(5)
	if got.Description != "second" {
		t.Fatalf("expected replacement, got %q", got.Description)
	}
	if !b.Remove(domain.KindSolution, 2) || b.Remove(domain.KindSolution, 2) {
		t.Fatalf("remove should succeed exactly once")
	}
	if b.Len(domain.KindSolution) != 2 {
		t.Fatalf("expected 2 solutions, got %d", b.Len(domain.KindSolution))
	}
}

func TestStorageBinGenericAccess(t *testing.T) {
	b := fullBin(3)
	for _, kind := range domain.Kinds {
		if !b.Has(kind, 3) {
			t.Fatalf("missing %s", kind)
		}
		e, err := b.Get(kind, 3)
		if err != nil || e.Kind() != kind || e.UserID() != 3 {
			t.Fatalf("get %s: %v %v", kind, e, err)
		}
	}
	if _, err := b.Get(domain.Kind("bogus"), 1); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if err := b.Put(nil); err == nil {
		t.Fatalf("expected error for nil entity")
	}

	clone := b.Clone()
	b.Clear()
	if !b.Empty() {
		t.Fatalf("expected empty bin after clear")
	}
	if clone.Empty() || clone.Len(domain.KindTemperature) != 1 {
		t.Fatalf("clone should be independent")
	}
}

func TestStorageBinRawRoundTrip(t *testing.T) {
	src := NewStorageBin()
	src.PutSolution(sampleSolution(1))

	text := dumpBin(t, src)
	if !strings.HasPrefix(text, "SOLUTION_RAW 1") {
		t.Fatalf("unexpected dump:\n%s", text)
	}
	dst, n := readBin(t, text)
	if n != 1 {
		t.Fatalf("expected 1 block, got %d", n)
	}
	got, err := dst.Solution(1)
	if err != nil {
		t.Fatalf("solution: %v", err)
	}
	if got.PH != 7 || got.Total("Ca") != 1e-3 {
		t.Fatalf("round trip lost state: pH=%v Ca=%v", got.PH, got.Total("Ca"))
	}
	if dumpBin(t, dst) != text {
		t.Fatalf("second dump differs")
	}
}

func TestStorageBinRawRoundTripAllKinds(t *testing.T) {
	src := fullBin(4)
	src.PutSolution(sampleSolution(2))
	text := dumpBin(t, src)

	dst, n := readBin(t, text+"END\n")
	if n != 11 {
		t.Fatalf("expected 11 blocks, got %d", n)
	}
	for _, kind := range domain.Kinds {
		if dst.Len(kind) != src.Len(kind) {
			t.Fatalf("%s: expected %d records, got %d", kind, src.Len(kind), dst.Len(kind))
		}
	}
	if dumpBin(t, dst) != text {
		t.Fatalf("dump after read differs")
	}

	// kind order, then ascending id within a kind
	first := strings.Index(text, "SOLUTION_RAW 2")
	second := strings.Index(text, "SOLUTION_RAW 4")
	exch := strings.Index(text, "EXCHANGE_RAW 4")
	if first < 0 || second < first || exch < second {
		t.Fatalf("unexpected block order:\n%s", text)
	}
}

func TestStorageBinEmptyRoundTrip(t *testing.T) {
	text := dumpBin(t, NewStorageBin())
	if text != "" {
		t.Fatalf("expected empty dump, got %q", text)
	}
	dst, n := readBin(t, text)
	if n != 0 || !dst.Empty() {
		t.Fatalf("expected nothing read")
	}
}

func TestStorageBinReadStopsAtEnd(t *testing.T) {
	src := NewStorageBin()
	src.PutSolution(sampleSolution(1))
	tail := NewStorageBin()
	tail.PutSolution(sampleSolution(2))

	dst, n := readBin(t, dumpBin(t, src)+"END\n"+dumpBin(t, tail))
	if n != 1 || dst.Has(domain.KindSolution, 2) {
		t.Fatalf("expected read to stop at END, read %d", n)
	}
}

func TestStorageBinImportExportSync(t *testing.T) {
	state := engine.NewState()
	eng := engine.NewAdapter(state)
	for _, id := range []int{1, 2} {
		s := sampleSolution(id)
		if err := eng.Load(&s); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	x := domain.NewExchange(1)
	if err := eng.Load(x); err != nil {
		t.Fatalf("load exchange: %v", err)
	}

	b := NewStorageBin()
	n, err := b.ImportAll(eng)
	if err != nil || n != 3 {
		t.Fatalf("import: %d %v", n, err)
	}

	staged, err := b.ExportOne(eng, 1)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(staged) != 2 || staged[0] != domain.KindSolution || staged[1] != domain.KindExchange {
		t.Fatalf("unexpected staged kinds %v", staged)
	}
	slot, ok := state.Solutions.Staged()
	if !ok || slot.NUser != 1 || state.Solutions.Count() != 1 {
		t.Fatalf("unexpected staging slot %+v count=%d", slot, state.Solutions.Count())
	}

	state.Solutions.Insert(engine.SolutionToNative(func() domain.Solution {
		s := sampleSolution(2)
		s.PH = 8.5
		return s
	}()))
	synced, err := b.SyncOneFromEngine(eng, 2)
	if err != nil || len(synced) != 1 {
		t.Fatalf("sync: %v %v", synced, err)
	}
	got, _ := b.Solution(2)
	if got.PH != 8.5 {
		t.Fatalf("expected synced pH 8.5, got %v", got.PH)
	}
}

func TestStorageBinExportWithoutSolutionIsFatal(t *testing.T) {
	state := engine.NewState()
	eng := engine.NewAdapter(state)
	b := NewStorageBin()
	b.PutExchange(*domain.NewExchange(4))

	staged, err := b.ExportOne(eng, 4)
	if !IsFatal(err) || !errors.Is(err, ErrSolutionRequired) {
		t.Fatalf("expected fatal solution error, got %v", err)
	}
	if len(staged) != 0 || state.Exchangers.Count() != 0 {
		t.Fatalf("nothing should be staged")
	}
}

func TestStorageBinExportSkipsMissingKinds(t *testing.T) {
	state := engine.NewState()
	eng := engine.NewAdapter(state)
	b := NewStorageBin()
	b.PutSolution(sampleSolution(5))

	staged, err := b.ExportOne(eng, 5)
	if err != nil || len(staged) != 1 {
		t.Fatalf("export: %v %v", staged, err)
	}
	if _, ok := state.Exchangers.Staged(); ok {
		t.Fatalf("exchange slot should be untouched")
	}
}

func TestStorageBinMergePartial(t *testing.T) {
	b := NewStorageBin()
	s := sampleSolution(1)
	x := domain.NewExchange(1)
	n, err := b.MergePartial(domain.System{Solution: &s, Exchange: x})
	if err != nil || n != 2 {
		t.Fatalf("merge: %d %v", n, err)
	}
	if b.Len(domain.KindGasPhase) != 0 {
		t.Fatalf("absent fields must not create records")
	}
}

func TestStorageBinSnapshotRestore(t *testing.T) {
	src := fullBin(6)
	snap := src.Snapshot()
	if snap.Len(domain.KindSurface) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap.Info("x"))
	}

	moved := snap.Solutions[6]
	delete(snap.Solutions, 6)
	snap.Solutions[9] = moved

	dst := NewStorageBin()
	dst.PutSolution(sampleSolution(1))
	dst.Restore(snap)
	if dst.Has(domain.KindSolution, 1) || dst.Has(domain.KindSolution, 6) {
		t.Fatalf("restore should replace contents keyed by map id")
	}
	got, err := dst.Solution(9)
	if err != nil || got.NUser != 9 {
		t.Fatalf("expected solution 9, got %+v %v", got, err)
	}
}
