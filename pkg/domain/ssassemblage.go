package domain

import "chemstate/pkg/rawcodec"

// SolidSolution is one solid solution with its Guggenheim parameters and end-member
// moles.
type SolidSolution struct {
	Name        string     `json:"name"`
	A0          float64    `json:"a0"`
	A1          float64    `json:"a1"`
	AG0         float64    `json:"ag0"`
	AG1         float64    `json:"ag1"`
	Miscibility bool       `json:"miscibility"`
	XB1         float64    `json:"xb1"`
	XB2         float64    `json:"xb2"`
	Comps       NameDouble `json:"comps,omitempty"`
}

// SSAssemblage is a set of solid solutions.
type SSAssemblage struct {
	NumKeyword
	SolidSolutions []SolidSolution `json:"solid_solutions,omitempty"`
}

// NewSSAssemblage returns an empty assemblage for id.
func NewSSAssemblage(id int) *SSAssemblage {
	a := &SSAssemblage{}
	a.SetUserID(id)
	return a
}

// Kind implements Entity.
func (SSAssemblage) Kind() Kind { return KindSSAssemblage }

// SolidSolution returns the solid solution with the given name.
func (a SSAssemblage) SolidSolution(name string) (SolidSolution, bool) {
	for _, ss := range a.SolidSolutions {
		if ss.Name == name {
			return ss, true
		}
	}
	return SolidSolution{}, false
}

// Clone returns a deep copy.
func (a SSAssemblage) Clone() *SSAssemblage {
	out := a
	out.SolidSolutions = nil
	for _, ss := range a.SolidSolutions {
		ss.Comps = ss.Comps.Clone()
		out.SolidSolutions = append(out.SolidSolutions, ss)
	}
	return &out
}

// Add folds extensive*other into a. Solid solutions are matched by name and their
// end-member moles summed.
func (a *SSAssemblage) Add(other SSAssemblage, extensive float64) {
	for _, add := range other.SolidSolutions {
		idx := -1
		for i := range a.SolidSolutions {
			if a.SolidSolutions[i].Name == add.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			add.Comps = add.Comps.Clone()
			add.Comps.Scale(extensive)
			a.SolidSolutions = append(a.SolidSolutions, add)
			continue
		}
		ss := &a.SolidSolutions[idx]
		ss.Comps = ensure(ss.Comps)
		ss.Comps.AddScaled(add.Comps, extensive)
	}
}

// DumpRaw writes a as a SOLID_SOLUTIONS_RAW block.
func (a SSAssemblage) DumpRaw(w *rawcodec.Writer, indent int) {
	a.writeHeader(w, indent, KindSSAssemblage)
	in := indent + 1
	for _, ss := range a.SolidSolutions {
		w.Line(in, "-solid_solution", ss.Name)
		w.Float(in+1, "a0", ss.A0)
		w.Float(in+1, "a1", ss.A1)
		w.Float(in+1, "ag0", ss.AG0)
		w.Float(in+1, "ag1", ss.AG1)
		w.Bool(in+1, "miscibility", ss.Miscibility)
		w.Float(in+1, "xb1", ss.XB1)
		w.Float(in+1, "xb2", ss.XB2)
		w.Pairs(in+1, "components", ss.Comps)
	}
}

// ReadSSAssemblageRaw reads the SOLID_SOLUTIONS_RAW block whose keyword line is
// current.
func ReadSSAssemblageRaw(p *rawcodec.Parser) *SSAssemblage {
	a := NewSSAssemblage(1)
	a.readHeader(p)
	var cur *SolidSolution
	list := ""
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			switch {
			case list == rawcodec.SkipList:
			case list == "components" && cur != nil:
				p.Pair(cur.Comps)
			default:
				p.UnexpectedData(rawcodec.KeywordSSAssemblage)
			}
			continue
		}
		list = ""
		if opt == "solid_solution" {
			a.SolidSolutions = append(a.SolidSolutions, SolidSolution{Name: p.Text(1), Comps: NameDouble{}})
			cur = &a.SolidSolutions[len(a.SolidSolutions)-1]
			continue
		}
		if cur == nil {
			p.UnknownOption(rawcodec.KeywordSSAssemblage, opt)
			list = rawcodec.SkipList
			continue
		}
		switch opt {
		case "a0":
			p.SetFloat(1, &cur.A0)
		case "a1":
			p.SetFloat(1, &cur.A1)
		case "ag0":
			p.SetFloat(1, &cur.AG0)
		case "ag1":
			p.SetFloat(1, &cur.AG1)
		case "miscibility":
			p.SetBool(1, &cur.Miscibility)
		case "xb1":
			p.SetFloat(1, &cur.XB1)
		case "xb2":
			p.SetFloat(1, &cur.XB2)
		case "components", "component":
			list = "components"
		default:
			p.UnknownOption(rawcodec.KeywordSSAssemblage, opt)
			list = rawcodec.SkipList
		}
	}
	return a
}
