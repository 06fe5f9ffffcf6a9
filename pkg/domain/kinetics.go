package domain

import "chemstate/pkg/rawcodec"

// KineticsComp is one rate-controlled reactant.
type KineticsComp struct {
	RateName string     `json:"rate_name"`
	Tol      float64    `json:"tol"`
	M        float64    `json:"m"`
	M0       float64    `json:"m0"`
	Moles    float64    `json:"moles"`
	Parms    []float64  `json:"parms,omitempty"`
	NameCoef NameDouble `json:"namecoef,omitempty"`
}

func (c KineticsComp) clone() KineticsComp {
	c.NameCoef = c.NameCoef.Clone()
	if c.Parms != nil {
		c.Parms = append([]float64(nil), c.Parms...)
	}
	return c
}

// Kinetics is a set of kinetic reactants with their integration settings.
type Kinetics struct {
	NumKeyword
	Steps      []float64      `json:"steps,omitempty"`
	StepDivide float64        `json:"step_divide"`
	RK         int            `json:"rk"`
	BadStepMax int            `json:"bad_step_max"`
	UseCVODE   bool           `json:"use_cvode"`
	Totals     NameDouble     `json:"totals,omitempty"`
	Comps      []KineticsComp `json:"comps,omitempty"`
}

// NewKinetics returns kinetics with the default integrator settings for id.
func NewKinetics(id int) *Kinetics {
	k := &Kinetics{StepDivide: 1, RK: 3, BadStepMax: 500, Totals: NameDouble{}}
	k.SetUserID(id)
	return k
}

// Kind implements Entity.
func (Kinetics) Kind() Kind { return KindKinetics }

// Comp returns the component with the given rate name.
func (k Kinetics) Comp(rateName string) (KineticsComp, bool) {
	for _, c := range k.Comps {
		if c.RateName == rateName {
			return c, true
		}
	}
	return KineticsComp{}, false
}

// Clone returns a deep copy.
func (k Kinetics) Clone() *Kinetics {
	out := k
	out.Totals = k.Totals.Clone()
	if k.Steps != nil {
		out.Steps = append([]float64(nil), k.Steps...)
	}
	out.Comps = nil
	for _, c := range k.Comps {
		out.Comps = append(out.Comps, c.clone())
	}
	return &out
}

// Add folds extensive*other into k, matching components by rate name.
func (k *Kinetics) Add(other Kinetics, extensive float64) {
	k.Totals = ensure(k.Totals)
	k.Totals.AddScaled(other.Totals, extensive)
	for _, add := range other.Comps {
		idx := -1
		for i := range k.Comps {
			if k.Comps[i].RateName == add.RateName {
				idx = i
				break
			}
		}
		if idx < 0 {
			c := add.clone()
			c.M *= extensive
			c.M0 *= extensive
			c.Moles *= extensive
			k.Comps = append(k.Comps, c)
			continue
		}
		c := &k.Comps[idx]
		c.M += add.M * extensive
		c.M0 += add.M0 * extensive
		c.Moles += add.Moles * extensive
	}
}

// DumpRaw writes k as a KINETICS_RAW block.
func (k Kinetics) DumpRaw(w *rawcodec.Writer, indent int) {
	k.writeHeader(w, indent, KindKinetics)
	in := indent + 1
	w.Float(in, "step_divide", k.StepDivide)
	w.Int(in, "rk", k.RK)
	w.Int(in, "bad_step_max", k.BadStepMax)
	w.Bool(in, "use_cvode", k.UseCVODE)
	w.Floats(in, "steps", k.Steps)
	w.Pairs(in, "totals", k.Totals)
	for _, c := range k.Comps {
		w.Line(in, "-component", c.RateName)
		w.Float(in+1, "tol", c.Tol)
		w.Float(in+1, "m", c.M)
		w.Float(in+1, "m0", c.M0)
		w.Float(in+1, "moles", c.Moles)
		w.Floats(in+1, "parms", c.Parms)
		w.Pairs(in+1, "namecoef", c.NameCoef)
	}
}

// ReadKineticsRaw reads the KINETICS_RAW block whose keyword line is current.
func ReadKineticsRaw(p *rawcodec.Parser) *Kinetics {
	k := NewKinetics(1)
	k.readHeader(p)
	var cur *KineticsComp
	list := ""
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			switch {
			case list == rawcodec.SkipList:
			case list == "totals":
				p.Pair(k.Totals)
			case list == "namecoef" && cur != nil:
				p.Pair(cur.NameCoef)
			default:
				p.UnexpectedData(rawcodec.KeywordKinetics)
			}
			continue
		}
		list = ""
		switch opt {
		case "step_divide":
			p.SetFloat(1, &k.StepDivide)
			continue
		case "rk":
			p.SetInt(1, &k.RK)
			continue
		case "bad_step_max":
			p.SetInt(1, &k.BadStepMax)
			continue
		case "use_cvode", "cvode":
			p.SetBool(1, &k.UseCVODE)
			continue
		case "steps":
			k.Steps = p.Floats(1)
			continue
		case "totals":
			list = opt
			continue
		case "component":
			k.Comps = append(k.Comps, KineticsComp{RateName: p.Text(1), NameCoef: NameDouble{}})
			cur = &k.Comps[len(k.Comps)-1]
			continue
		}
		if cur == nil {
			p.UnknownOption(rawcodec.KeywordKinetics, opt)
			list = rawcodec.SkipList
			continue
		}
		switch opt {
		case "tol":
			p.SetFloat(1, &cur.Tol)
		case "m":
			p.SetFloat(1, &cur.M)
		case "m0":
			p.SetFloat(1, &cur.M0)
		case "moles":
			p.SetFloat(1, &cur.Moles)
		case "parms":
			cur.Parms = p.Floats(1)
		case "namecoef":
			list = opt
		default:
			p.UnknownOption(rawcodec.KeywordKinetics, opt)
			list = rawcodec.SkipList
		}
	}
	return k
}
