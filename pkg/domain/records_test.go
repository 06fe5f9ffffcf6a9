package domain

import (
	"strings"
	"testing"

	"chemstate/pkg/rawcodec"
)

func sampleRecords() []Entity {
	x := NewExchange(2)
	x.Description = "clay"
	x.Comps = []ExchComp{{
		Formula:       "X",
		Moles:         0.1,
		LA:            -1.25,
		PhaseName:     "Kaolinite",
		FormulaZ:      -1,
		FormulaTotals: NameDouble{"X": 1},
		Totals:        NameDouble{"Ca": 0.05},
	}}

	g := NewGasPhase(3)
	g.Type = GasPhaseVolume
	g.TotalMoles = 0.5
	g.SetMoles("CO2(g)", 0.25)

	k := NewKinetics(4)
	k.Steps = []float64{100, 200}
	k.UseCVODE = true
	k.Totals = NameDouble{"Ca": 0.001}
	k.Comps = []KineticsComp{{RateName: "Calcite", Tol: 1e-8, M: 1, M0: 1.5, Parms: []float64{1, 2}, NameCoef: NameDouble{"CaCO3": 1}}}

	pp := NewPPAssemblage(5)
	pp.EltList = NameDouble{"Ca": 1, "C": 1}
	pp.Comps = []PureComp{{Name: "Calcite", SI: 0.5, Moles: 10, DissolveOnly: true}, {Name: "Gypsum", AddFormula: "CaSO4"}}

	ss := NewSSAssemblage(6)
	ss.SolidSolutions = []SolidSolution{{Name: "CaSrCO3", A0: 2, Miscibility: true, XB1: 0.25, Comps: NameDouble{"Calcite": 0.1, "Strontianite": 0.2}}}

	sf := NewSurface(7)
	sf.OnlyCounterIons = true
	sf.Comps = []SurfaceComp{{Formula: "Hfo_sOH", Moles: 5e-6, ChargeName: "Hfo", Totals: NameDouble{"H": 5e-6}}}
	sf.Charges = []SurfaceCharge{{Name: "Hfo", SpecificArea: 600, Grams: 0.09, LAPsi: 0.5}}

	m := NewMix(8)
	m.SetFraction(1, 0.5)
	m.SetFraction(2, 0.25)

	r := NewReaction(9)
	r.Reactants = NameDouble{"NaCl": 1}
	r.Elements = NameDouble{"Na": 1, "Cl": 1}
	r.Steps = []float64{0.1}
	r.CountSteps = 5
	r.EqualIncrements = true

	tp := NewTemperature(10)
	tp.Temps = []float64{15, 35}
	tp.CountTemps = 3

	s := NewSolution(1)
	s.SetTotal("Ca", 1e-3)
	s.SetMasterActivity("Ca+2", -3.2)
	s.SetSpeciesGamma("Ca+2", 0.6)
	s.SetIsotope(SolutionIsotope{IsotopeName: "13C", IsotopeNumber: 13, ElementName: "C", Total: 1e-4, Ratio: -12.5, RatioUncertainty: 0.1})

	return []Entity{s, x, g, k, pp, ss, sf, m, r, tp}
}

func TestRecordsRoundTripThroughRawFormat(t *testing.T) {
	for _, e := range sampleRecords() {
		first := dumpString(t, e)
		back, p := readString(t, first)
		if back.Kind() != e.Kind() || back.UserID() != e.UserID() {
			t.Fatalf("%s: identity lost: %s %d", e.Kind(), back.Kind(), back.UserID())
		}
		if second := dumpString(t, back); second != first {
			t.Fatalf("%s: round trip mismatch\nfirst:\n%s\nsecond:\n%s", e.Kind(), first, second)
		}
		if w := p.Warnings(); len(w) != 0 {
			t.Fatalf("%s: unexpected warnings %v", e.Kind(), w)
		}
	}
}

func TestRecordReadersPreserveFields(t *testing.T) {
	recs := sampleRecords()
	x, _ := readString(t, dumpString(t, recs[1]))
	comp, ok := x.(*Exchange).Comp("X")
	if !ok || comp.LA != -1.25 || comp.Totals.Get("Ca") != 0.05 || comp.PhaseName != "Kaolinite" {
		t.Fatalf("unexpected exchange comp %+v", comp)
	}
	if x.(*Exchange).Description != "clay" {
		t.Fatalf("description lost")
	}

	g, _ := readString(t, dumpString(t, recs[2]))
	if gp := g.(*GasPhase); gp.Type != GasPhaseVolume || gp.Moles("CO2(g)") != 0.25 {
		t.Fatalf("unexpected gas phase %+v", gp)
	}

	k, _ := readString(t, dumpString(t, recs[3]))
	kc, ok := k.(*Kinetics).Comp("Calcite")
	if !ok || kc.M0 != 1.5 || len(kc.Parms) != 2 || kc.NameCoef.Get("CaCO3") != 1 || !k.(*Kinetics).UseCVODE {
		t.Fatalf("unexpected kinetics comp %+v", kc)
	}

	pp, _ := readString(t, dumpString(t, recs[4]))
	if c, ok := pp.(*PPAssemblage).Comp("Gypsum"); !ok || c.AddFormula != "CaSO4" {
		t.Fatalf("unexpected gypsum %+v", c)
	}

	sf, _ := readString(t, dumpString(t, recs[6]))
	if ch, ok := sf.(*Surface).Charge("Hfo"); !ok || ch.SpecificArea != 600 || ch.LAPsi != 0.5 {
		t.Fatalf("unexpected charge %+v", ch)
	}

	m, _ := readString(t, dumpString(t, recs[7]))
	if fr := m.(*Mix).Fractions(); len(fr) != 2 || fr[0].ID != 1 || fr[1].Fraction != 0.25 {
		t.Fatalf("unexpected fractions %+v", fr)
	}
}

func TestExchangeAddMatchesComponents(t *testing.T) {
	x := NewExchange(1)
	x.Comps = []ExchComp{{Formula: "X", Moles: 1, LA: -1, Totals: NameDouble{"Na": 1}}}
	other := NewExchange(2)
	other.Comps = []ExchComp{
		{Formula: "X", Moles: 3, LA: -3, Totals: NameDouble{"Na": 2}},
		{Formula: "Y", Moles: 2, Totals: NameDouble{"K": 4}},
	}
	x.Add(*other, 1)
	c, _ := x.Comp("X")
	if c.Moles != 4 || c.LA != -2.5 || c.Totals.Get("Na") != 3 {
		t.Fatalf("unexpected X %+v", c)
	}
	y, ok := x.Comp("Y")
	if !ok || y.Moles != 2 || y.Totals.Get("K") != 4 {
		t.Fatalf("unexpected Y %+v", y)
	}
	y.Totals["K"] = 0
	if other.Comps[1].Totals.Get("K") != 4 {
		t.Fatalf("Add aliased the added record")
	}
}

func TestOtherKindsAddExtensive(t *testing.T) {
	g := NewGasPhase(1)
	g.TotalMoles = 1
	g.SetMoles("CO2(g)", 1)
	og := NewGasPhase(2)
	og.TotalMoles = 2
	og.SetMoles("CO2(g)", 2)
	g.Add(*og, 0.5)
	if g.TotalMoles != 2 || g.Moles("CO2(g)") != 2 {
		t.Fatalf("unexpected gas phase %+v", g)
	}

	pp := NewPPAssemblage(1)
	pp.Comps = []PureComp{{Name: "Calcite", Moles: 1}}
	opp := NewPPAssemblage(2)
	opp.Comps = []PureComp{{Name: "Calcite", Moles: 4}, {Name: "Dolomite", Moles: 2}}
	pp.Add(*opp, 0.5)
	if c, _ := pp.Comp("Calcite"); c.Moles != 3 {
		t.Fatalf("unexpected calcite %+v", c)
	}
	if c, _ := pp.Comp("Dolomite"); c.Moles != 1 {
		t.Fatalf("unexpected dolomite %+v", c)
	}

	ss := NewSSAssemblage(1)
	oss := NewSSAssemblage(2)
	oss.SolidSolutions = []SolidSolution{{Name: "ss", Comps: NameDouble{"a": 2}}}
	ss.Add(*oss, 0.5)
	ss.Add(*oss, 0.5)
	if got, _ := ss.SolidSolution("ss"); got.Comps.Get("a") != 2 {
		t.Fatalf("unexpected solid solution %+v", got)
	}
	if oss.SolidSolutions[0].Comps.Get("a") != 2 {
		t.Fatalf("Add mutated the added record")
	}

	k := NewKinetics(1)
	ok2 := NewKinetics(2)
	ok2.Comps = []KineticsComp{{RateName: "Pyrite", M: 2}}
	k.Add(*ok2, 0.25)
	if c, _ := k.Comp("Pyrite"); c.M != 0.5 {
		t.Fatalf("unexpected kinetics %+v", c)
	}

	sf := NewSurface(1)
	osf := NewSurface(2)
	osf.Comps = []SurfaceComp{{Formula: "Hfo_wOH", Moles: 2}}
	osf.Charges = []SurfaceCharge{{Name: "Hfo", Grams: 4}}
	sf.Add(*osf, 0.5)
	sf.Add(*osf, 0.5)
	if c, _ := sf.Comp("Hfo_wOH"); c.Moles != 2 {
		t.Fatalf("unexpected surface comp %+v", c)
	}
	if c, _ := sf.Charge("Hfo"); c.Grams != 4 {
		t.Fatalf("unexpected surface charge %+v", c)
	}
}

func TestMixSetFractionOverwrites(t *testing.T) {
	var m Mix
	m.SetFraction(2, 0.1)
	m.SetFraction(1, 0.3)
	m.SetFraction(2, 0.7)
	fr := m.Fractions()
	if len(fr) != 2 || fr[0] != (MixFraction{ID: 1, Fraction: 0.3}) || fr[1] != (MixFraction{ID: 2, Fraction: 0.7}) {
		t.Fatalf("unexpected fractions %+v", fr)
	}
	fr[0].Fraction = 9
	if m.Fraction(1) != 0.3 {
		t.Fatalf("Fractions exposed internal table")
	}
}

func TestTemperatureSchedule(t *testing.T) {
	tp := Temperature{Temps: []float64{10, 40}, CountTemps: 4}
	for step, want := range map[int]float64{1: 10, 2: 20, 4: 40, 9: 40} {
		if got := tp.At(step); got != want {
			t.Fatalf("step %d: expected %v, got %v", step, want, got)
		}
	}
	list := Temperature{Temps: []float64{5, 6}}
	if list.At(2) != 6 || list.At(3) != 6 {
		t.Fatalf("unexpected list schedule")
	}
	if (Temperature{}).At(1) != DefaultTemperature {
		t.Fatalf("expected default temperature")
	}
}

func TestReactionStep(t *testing.T) {
	r := Reaction{Steps: []float64{1}, CountSteps: 4, EqualIncrements: true}
	if r.Step(2) != 0.25 || r.Step(5) != 0 {
		t.Fatalf("unexpected equal increments")
	}
	r = Reaction{Steps: []float64{0.1, 0.2}}
	if r.Step(2) != 0.2 || r.Step(3) != 0 {
		t.Fatalf("unexpected listed steps")
	}
}

func TestReadEntityRawRejectsNonRawKeywords(t *testing.T) {
	p := rawcodec.NewParser(strings.NewReader("SOLUTION 1\n"))
	p.CheckLine()
	if _, ok := ReadEntityRaw(p.NextKeyword(), p); ok {
		t.Fatalf("input keyword should have no raw reader")
	}
}

func TestKindKeywordMapping(t *testing.T) {
	for _, k := range Kinds {
		back, ok := KindForKeyword(k.Keyword())
		if !ok || back != k {
			t.Fatalf("kind %s does not map back", k)
		}
	}
}
