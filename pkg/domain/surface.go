package domain

import "chemstate/pkg/rawcodec"

// SurfaceComp is one surface site type.
type SurfaceComp struct {
	Formula         string     `json:"formula"`
	Moles           float64    `json:"moles"`
	LA              float64    `json:"la"`
	ChargeBalance   float64    `json:"charge_balance"`
	ChargeName      string     `json:"charge_name,omitempty"`
	PhaseName       string     `json:"phase_name,omitempty"`
	PhaseProportion float64    `json:"phase_proportion"`
	RateName        string     `json:"rate_name,omitempty"`
	FormulaZ        float64    `json:"formula_z"`
	Totals          NameDouble `json:"totals,omitempty"`
}

// SurfaceCharge is the electrostatic state of one surface.
type SurfaceCharge struct {
	Name          string  `json:"name"`
	SpecificArea  float64 `json:"specific_area"`
	Grams         float64 `json:"grams"`
	ChargeBalance float64 `json:"charge_balance"`
	MassWater     float64 `json:"mass_water"`
	LAPsi         float64 `json:"la_psi"`
}

// Surface is a sorbing surface assemblage.
type Surface struct {
	NumKeyword
	Type            string          `json:"type,omitempty"`
	DLType          string          `json:"dl_type,omitempty"`
	OnlyCounterIons bool            `json:"only_counter_ions"`
	Thickness       float64         `json:"thickness"`
	Comps           []SurfaceComp   `json:"comps,omitempty"`
	Charges         []SurfaceCharge `json:"charges,omitempty"`
}

// NewSurface returns an empty diffuse-layer surface for id.
func NewSurface(id int) *Surface {
	s := &Surface{Type: "ddl", DLType: "no_dl", Thickness: 1e-8}
	s.SetUserID(id)
	return s
}

// Kind implements Entity.
func (Surface) Kind() Kind { return KindSurface }

// Comp returns the site with the given formula.
func (s Surface) Comp(formula string) (SurfaceComp, bool) {
	for _, c := range s.Comps {
		if c.Formula == formula {
			return c, true
		}
	}
	return SurfaceComp{}, false
}

// Charge returns the charge record with the given name.
func (s Surface) Charge(name string) (SurfaceCharge, bool) {
	for _, c := range s.Charges {
		if c.Name == name {
			return c, true
		}
	}
	return SurfaceCharge{}, false
}

// Clone returns a deep copy.
func (s Surface) Clone() *Surface {
	out := s
	out.Comps = nil
	for _, c := range s.Comps {
		c.Totals = c.Totals.Clone()
		out.Comps = append(out.Comps, c)
	}
	if s.Charges != nil {
		out.Charges = append([]SurfaceCharge(nil), s.Charges...)
	}
	return &out
}

// Add folds extensive*other into s. Sites match by formula and charges by name.
func (s *Surface) Add(other Surface, extensive float64) {
	for _, add := range other.Comps {
		idx := -1
		for i := range s.Comps {
			if s.Comps[i].Formula == add.Formula {
				idx = i
				break
			}
		}
		if idx < 0 {
			add.Totals = add.Totals.Clone()
			add.Totals.Scale(extensive)
			add.Moles *= extensive
			add.ChargeBalance *= extensive
			s.Comps = append(s.Comps, add)
			continue
		}
		c := &s.Comps[idx]
		c.LA = moleWeighted(c.LA, c.Moles, add.LA, add.Moles*extensive)
		c.Moles += add.Moles * extensive
		c.ChargeBalance += add.ChargeBalance * extensive
		c.Totals = ensure(c.Totals)
		c.Totals.AddScaled(add.Totals, extensive)
	}
	for _, add := range other.Charges {
		idx := -1
		for i := range s.Charges {
			if s.Charges[i].Name == add.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			add.Grams *= extensive
			add.ChargeBalance *= extensive
			add.MassWater *= extensive
			s.Charges = append(s.Charges, add)
			continue
		}
		c := &s.Charges[idx]
		c.LAPsi = moleWeighted(c.LAPsi, c.Grams, add.LAPsi, add.Grams*extensive)
		c.Grams += add.Grams * extensive
		c.ChargeBalance += add.ChargeBalance * extensive
		c.MassWater += add.MassWater * extensive
	}
}

// DumpRaw writes s as a SURFACE_RAW block.
func (s Surface) DumpRaw(w *rawcodec.Writer, indent int) {
	s.writeHeader(w, indent, KindSurface)
	in := indent + 1
	w.Text(in, "type", s.Type)
	w.Text(in, "dl_type", s.DLType)
	w.Bool(in, "only_counter_ions", s.OnlyCounterIons)
	w.Float(in, "thickness", s.Thickness)
	for _, c := range s.Comps {
		w.Line(in, "-component", c.Formula)
		w.Float(in+1, "moles", c.Moles)
		w.Float(in+1, "la", c.LA)
		w.Float(in+1, "charge_balance", c.ChargeBalance)
		w.Text(in+1, "charge_name", c.ChargeName)
		w.Text(in+1, "phase_name", c.PhaseName)
		w.Float(in+1, "phase_proportion", c.PhaseProportion)
		w.Text(in+1, "rate_name", c.RateName)
		w.Float(in+1, "formula_z", c.FormulaZ)
		w.Pairs(in+1, "totals", c.Totals)
	}
	for _, c := range s.Charges {
		w.Line(in, "-charge", c.Name)
		w.Float(in+1, "specific_area", c.SpecificArea)
		w.Float(in+1, "grams", c.Grams)
		w.Float(in+1, "charge_balance", c.ChargeBalance)
		w.Float(in+1, "mass_water", c.MassWater)
		w.Float(in+1, "la_psi", c.LAPsi)
	}
}

// ReadSurfaceRaw reads the SURFACE_RAW block whose keyword line is current.
// Options missing from the block leave their fields zero.
func ReadSurfaceRaw(p *rawcodec.Parser) *Surface {
	s := &Surface{}
	s.readHeader(p)
	var (
		comp   *SurfaceComp
		charge *SurfaceCharge
		list   string
	)
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			switch {
			case list == rawcodec.SkipList:
			case list == "totals" && comp != nil:
				p.Pair(comp.Totals)
			default:
				p.UnexpectedData(rawcodec.KeywordSurface)
			}
			continue
		}
		list = ""
		switch opt {
		case "type":
			s.Type = p.Arg(1)
			continue
		case "dl_type":
			s.DLType = p.Arg(1)
			continue
		case "only_counter_ions":
			p.SetBool(1, &s.OnlyCounterIons)
			continue
		case "thickness":
			p.SetFloat(1, &s.Thickness)
			continue
		case "component":
			s.Comps = append(s.Comps, SurfaceComp{Formula: p.Text(1), Totals: NameDouble{}})
			comp, charge = &s.Comps[len(s.Comps)-1], nil
			continue
		case "charge":
			s.Charges = append(s.Charges, SurfaceCharge{Name: p.Text(1)})
			comp, charge = nil, &s.Charges[len(s.Charges)-1]
			continue
		}
		switch {
		case comp != nil:
			list = readSurfaceCompOption(p, comp, opt)
		case charge != nil:
			list = readSurfaceChargeOption(p, charge, opt)
		default:
			p.UnknownOption(rawcodec.KeywordSurface, opt)
			list = rawcodec.SkipList
		}
	}
	return s
}

func readSurfaceCompOption(p *rawcodec.Parser, c *SurfaceComp, opt string) string {
	switch opt {
	case "moles":
		p.SetFloat(1, &c.Moles)
	case "la":
		p.SetFloat(1, &c.LA)
	case "charge_balance":
		p.SetFloat(1, &c.ChargeBalance)
	case "charge_name":
		c.ChargeName = p.Text(1)
	case "phase_name":
		c.PhaseName = p.Text(1)
	case "phase_proportion":
		p.SetFloat(1, &c.PhaseProportion)
	case "rate_name":
		c.RateName = p.Text(1)
	case "formula_z":
		p.SetFloat(1, &c.FormulaZ)
	case "totals":
		return "totals"
	default:
		p.UnknownOption(rawcodec.KeywordSurface, opt)
		return rawcodec.SkipList
	}
	return ""
}

func readSurfaceChargeOption(p *rawcodec.Parser, c *SurfaceCharge, opt string) string {
	switch opt {
	case "specific_area":
		p.SetFloat(1, &c.SpecificArea)
	case "grams":
		p.SetFloat(1, &c.Grams)
	case "charge_balance":
		p.SetFloat(1, &c.ChargeBalance)
	case "mass_water":
		p.SetFloat(1, &c.MassWater)
	case "la_psi":
		p.SetFloat(1, &c.LAPsi)
	default:
		p.UnknownOption(rawcodec.KeywordSurface, opt)
		return rawcodec.SkipList
	}
	return ""
}
