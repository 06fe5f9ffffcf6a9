package domain

import "chemstate/pkg/rawcodec"

// PureComp is one pure phase held at a target saturation index.
type PureComp struct {
	Name         string  `json:"name"`
	AddFormula   string  `json:"add_formula,omitempty"`
	SI           float64 `json:"si"`
	Moles        float64 `json:"moles"`
	Delta        float64 `json:"delta"`
	InitialMoles float64 `json:"initial_moles"`
	DissolveOnly bool    `json:"dissolve_only"`
}

// PPAssemblage is an equilibrium phase assemblage.
type PPAssemblage struct {
	NumKeyword
	EltList NameDouble `json:"elt_list,omitempty"`
	Comps   []PureComp `json:"comps,omitempty"`
}

// NewPPAssemblage returns an empty assemblage for id.
func NewPPAssemblage(id int) *PPAssemblage {
	a := &PPAssemblage{EltList: NameDouble{}}
	a.SetUserID(id)
	return a
}

// Kind implements Entity.
func (PPAssemblage) Kind() Kind { return KindPPAssemblage }

// Comp returns the phase with the given name.
func (a PPAssemblage) Comp(name string) (PureComp, bool) {
	for _, c := range a.Comps {
		if c.Name == name {
			return c, true
		}
	}
	return PureComp{}, false
}

// Clone returns a deep copy.
func (a PPAssemblage) Clone() *PPAssemblage {
	out := a
	out.EltList = a.EltList.Clone()
	if a.Comps != nil {
		out.Comps = append([]PureComp(nil), a.Comps...)
	}
	return &out
}

// Add folds extensive*other into a, matching phases by name.
func (a *PPAssemblage) Add(other PPAssemblage, extensive float64) {
	a.EltList = ensure(a.EltList)
	a.EltList.AddScaled(other.EltList, extensive)
	for _, add := range other.Comps {
		idx := -1
		for i := range a.Comps {
			if a.Comps[i].Name == add.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			add.Moles *= extensive
			add.Delta *= extensive
			add.InitialMoles *= extensive
			a.Comps = append(a.Comps, add)
			continue
		}
		c := &a.Comps[idx]
		c.Moles += add.Moles * extensive
		c.Delta += add.Delta * extensive
		c.InitialMoles += add.InitialMoles * extensive
	}
}

// DumpRaw writes a as an EQUILIBRIUM_PHASES_RAW block.
func (a PPAssemblage) DumpRaw(w *rawcodec.Writer, indent int) {
	a.writeHeader(w, indent, KindPPAssemblage)
	in := indent + 1
	w.Pairs(in, "eltList", a.EltList)
	for _, c := range a.Comps {
		w.Line(in, "-component", c.Name)
		w.Text(in+1, "add_formula", c.AddFormula)
		w.Float(in+1, "si", c.SI)
		w.Float(in+1, "moles", c.Moles)
		w.Float(in+1, "delta", c.Delta)
		w.Float(in+1, "initial_moles", c.InitialMoles)
		w.Bool(in+1, "dissolve_only", c.DissolveOnly)
	}
}

// ReadPPAssemblageRaw reads the EQUILIBRIUM_PHASES_RAW block whose keyword line is
// current.
func ReadPPAssemblageRaw(p *rawcodec.Parser) *PPAssemblage {
	a := NewPPAssemblage(1)
	a.readHeader(p)
	var cur *PureComp
	list := ""
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			switch list {
			case rawcodec.SkipList:
			case "eltlist":
				p.Pair(a.EltList)
			default:
				p.UnexpectedData(rawcodec.KeywordPPAssemblage)
			}
			continue
		}
		list = ""
		switch opt {
		case "eltlist":
			list = opt
			continue
		case "component":
			a.Comps = append(a.Comps, PureComp{Name: p.Text(1)})
			cur = &a.Comps[len(a.Comps)-1]
			continue
		}
		if cur == nil {
			p.UnknownOption(rawcodec.KeywordPPAssemblage, opt)
			list = rawcodec.SkipList
			continue
		}
		switch opt {
		case "add_formula":
			cur.AddFormula = p.Text(1)
		case "si":
			p.SetFloat(1, &cur.SI)
		case "moles":
			p.SetFloat(1, &cur.Moles)
		case "delta":
			p.SetFloat(1, &cur.Delta)
		case "initial_moles":
			p.SetFloat(1, &cur.InitialMoles)
		case "dissolve_only":
			p.SetBool(1, &cur.DissolveOnly)
		default:
			p.UnknownOption(rawcodec.KeywordPPAssemblage, opt)
			list = rawcodec.SkipList
		}
	}
	return a
}
