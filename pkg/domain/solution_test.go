package domain

import (
	"bytes"
	"strings"
	"testing"

	"chemstate/pkg/rawcodec"
)

func dumpString(t *testing.T, e Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w := rawcodec.NewWriter(&buf)
	e.DumpRaw(w, 0)
	if err := w.Err(); err != nil {
		t.Fatalf("dump %s: %v", e.Kind(), err)
	}
	return buf.String()
}

func readString(t *testing.T, text string) (Entity, *rawcodec.Parser) {
	t.Helper()
	p := rawcodec.NewParser(strings.NewReader(text))
	if p.CheckLine() != rawcodec.LineKeyword {
		t.Fatalf("expected keyword line, got %q", p.Line())
	}
	e, ok := ReadEntityRaw(p.NextKeyword(), p)
	if !ok {
		t.Fatalf("no reader for %q", p.Line())
	}
	return e, p
}

func TestSolutionZeroSentinel(t *testing.T) {
	var s Solution
	if got := s.Total("Ca"); got != 0 {
		t.Fatalf("expected zero for unset total, got %v", got)
	}
	if got := s.MasterActivityOf("Ca+2"); got != 0 {
		t.Fatalf("expected zero for unset activity, got %v", got)
	}
	s.SetTotal("Ca", 1e-3)
	if s.Total("Ca") != 1e-3 {
		t.Fatalf("SetTotal not stored")
	}
	if _, ok := s.Isotope("13C"); ok {
		t.Fatalf("unexpected isotope")
	}
}

func TestSolutionAddSumsExtensiveExactly(t *testing.T) {
	s1 := NewSolution(1)
	s1.SetTotal("Ca", 1e-3)
	s1.SetTotal("Cl", 2e-3)
	s1.TotalH = 100
	s2 := NewSolution(2)
	s2.SetTotal("Ca", 3e-3)
	s2.TotalH = 200
	s2.MassWater = 2

	f1, f2 := 0.25, 0.75
	acc := ZeroSolution()
	acc.Add(*s1, f1, f1, nil)
	acc.Add(*s2, f2, f2, nil)

	if want := f1*1e-3 + f2*3e-3; acc.Total("Ca") != want {
		t.Fatalf("Ca: expected %v, got %v", want, acc.Total("Ca"))
	}
	if want := f1 * 2e-3; acc.Total("Cl") != want {
		t.Fatalf("Cl: expected %v, got %v", want, acc.Total("Cl"))
	}
	if want := f1*100 + f2*200; acc.TotalH != want {
		t.Fatalf("total_h: expected %v, got %v", want, acc.TotalH)
	}
	if want := f1*1 + f2*2; acc.MassWater != want {
		t.Fatalf("mass_water: expected %v, got %v", want, acc.MassWater)
	}
	if acc.PH != 7 {
		t.Fatalf("weighted pH of equal inputs should stay 7, got %v", acc.PH)
	}
}

func TestSolutionAddPolicies(t *testing.T) {
	s1 := NewSolution(1)
	s1.PH = 6
	s1.MassWater = 1
	s2 := NewSolution(2)
	s2.PH = 8
	s2.MassWater = 3

	def := ZeroSolution()
	def.Add(*s1, 0.5, 0.5, DefaultCombinePolicy())
	def.Add(*s2, 0.5, 0.5, DefaultCombinePolicy())
	if def.PH != 7 {
		t.Fatalf("weighted pH: expected 7, got %v", def.PH)
	}

	mw := ZeroSolution()
	mw.Add(*s1, 0.5, 0.5, MassWeightedPolicy())
	mw.Add(*s2, 0.5, 0.5, MassWeightedPolicy())
	if mw.PH != 7.5 {
		t.Fatalf("mass weighted pH: expected 7.5, got %v", mw.PH)
	}

	keep := DefaultCombinePolicy().With(FieldRule{Field: FieldTemperature, Rule: RuleKeep})
	kept := ZeroSolution()
	kept.Add(*s1, 1, 1, keep)
	if kept.Tc != 0 {
		t.Fatalf("keep rule changed temperature: %v", kept.Tc)
	}
	if keep.Rule(FieldPH) != RuleWeighted || CombinePolicy(nil).Rule(FieldTotals) != RuleExtensive {
		t.Fatalf("unexpected fallback rules")
	}
}

func TestSolutionIsotopesCombine(t *testing.T) {
	s1 := NewSolution(1)
	s1.SetIsotope(SolutionIsotope{IsotopeName: "13C", IsotopeNumber: 13, ElementName: "C", Total: 1, Ratio: -2})
	s2 := NewSolution(2)
	s2.SetIsotope(SolutionIsotope{IsotopeName: "13C", IsotopeNumber: 13, ElementName: "C", Total: 3, Ratio: -4})
	s2.SetIsotope(SolutionIsotope{IsotopeName: "18O", IsotopeNumber: 18, ElementName: "O", Total: 2, Ratio: 1})

	acc := ZeroSolution()
	acc.Add(*s1, 0.5, 0.5, nil)
	acc.Add(*s2, 0.5, 0.5, nil)
	c, ok := acc.Isotope("13C")
	if !ok || c.Total != 2 || c.Ratio != -3 {
		t.Fatalf("unexpected 13C %+v", c)
	}
	o, ok := acc.Isotope("18O")
	if !ok || o.Total != 1 || o.ElementName != "O" {
		t.Fatalf("unexpected 18O %+v", o)
	}
}

func TestBlendedAndScaledSolutions(t *testing.T) {
	a := NewSolution(4)
	a.SetTotal("Na", 1)
	a.PH = 6
	b := NewSolution(5)
	b.SetTotal("Na", 2)
	b.PH = 8

	blend := NewBlendedSolution(*a, *b, 0.5, 0.5, nil)
	if blend.UserID() != 4 {
		t.Fatalf("blend should keep first id, got %d", blend.UserID())
	}
	if blend.Total("Na") != 2 {
		t.Fatalf("expected Na 1 + 0.5*2, got %v", blend.Total("Na"))
	}
	if blend.PH != 7 {
		t.Fatalf("expected pH 7, got %v", blend.PH)
	}

	scaled := ScaledSolution(*a, 1, 0.5, nil)
	if scaled.Total("Na") != 0.5 || scaled.PH != 6 || scaled.UserID() != 4 {
		t.Fatalf("unexpected scaled solution %+v", scaled)
	}
}

func TestSolutionCloneIsIndependent(t *testing.T) {
	s := NewSolution(1)
	s.SetTotal("Ca", 1)
	s.SetIsotope(SolutionIsotope{IsotopeName: "13C", Total: 1})
	c := s.Clone()
	c.SetTotal("Ca", 2)
	c.Isotopes[0].Total = 5
	if s.Total("Ca") != 1 || s.Isotopes[0].Total != 1 {
		t.Fatalf("clone aliases original")
	}
}

func TestSolutionRawScenario(t *testing.T) {
	s := NewSolution(1)
	s.PH = 7.0
	s.SetTotal("Ca", 1.0e-3)
	text := dumpString(t, s)
	if !strings.HasPrefix(text, "SOLUTION_RAW 1\n") {
		t.Fatalf("unexpected header:\n%s", text)
	}
	e, _ := readString(t, text)
	got := e.(*Solution)
	if got.UserID() != 1 || got.PH != 7.0 || got.Total("Ca") != 1.0e-3 {
		t.Fatalf("unexpected round trip %+v", got)
	}
	if got.Line != 1 {
		t.Fatalf("expected header line 1, got %d", got.Line)
	}
}

func TestSolutionRawToleratesUnknownOptions(t *testing.T) {
	text := `SOLUTION_RAW 3 tolerant
  -pH 6.5
  -future_option 1
    nested 2
  -totals
    Na 0.01
    broken
  -pe abc
`
	e, p := readString(t, text)
	s := e.(*Solution)
	if s.PH != 6.5 || s.Total("Na") != 0.01 || s.PE != 4 {
		t.Fatalf("unexpected values %+v", s)
	}
	if s.Description != "tolerant" {
		t.Fatalf("unexpected description %q", s.Description)
	}
	if n := len(p.Warnings()); n != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", n, p.Warnings())
	}
	if p.CheckLine() != rawcodec.LineEOF {
		t.Fatalf("reader did not consume the block")
	}
}
