package domain

import "chemstate/pkg/rawcodec"

// ExchComp is one exchange site of an Exchange.
type ExchComp struct {
	Formula         string     `json:"formula"`
	Moles           float64    `json:"moles"`
	LA              float64    `json:"la"`
	ChargeBalance   float64    `json:"charge_balance"`
	PhaseName       string     `json:"phase_name,omitempty"`
	PhaseProportion float64    `json:"phase_proportion"`
	RateName        string     `json:"rate_name,omitempty"`
	FormulaZ        float64    `json:"formula_z"`
	FormulaTotals   NameDouble `json:"formula_totals,omitempty"`
	Totals          NameDouble `json:"totals,omitempty"`
}

func (c ExchComp) clone() ExchComp {
	c.FormulaTotals = c.FormulaTotals.Clone()
	c.Totals = c.Totals.Clone()
	return c
}

// Exchange is an ion exchanger assemblage.
type Exchange struct {
	NumKeyword
	PitzerExchangeGammas bool       `json:"pitzer_exchange_gammas"`
	Comps                []ExchComp `json:"comps,omitempty"`
}

// NewExchange returns an empty exchanger for id.
func NewExchange(id int) *Exchange {
	x := &Exchange{PitzerExchangeGammas: true}
	x.SetUserID(id)
	return x
}

// Kind implements Entity.
func (Exchange) Kind() Kind { return KindExchange }

// Comp returns the component with the given formula.
func (x Exchange) Comp(formula string) (ExchComp, bool) {
	for _, c := range x.Comps {
		if c.Formula == formula {
			return c, true
		}
	}
	return ExchComp{}, false
}

// Clone returns a deep copy.
func (x Exchange) Clone() *Exchange {
	out := x
	out.Comps = nil
	for _, c := range x.Comps {
		out.Comps = append(out.Comps, c.clone())
	}
	return &out
}

// Add folds extensive*other into x. Components are matched by formula; log
// activities are averaged by moles.
func (x *Exchange) Add(other Exchange, extensive float64) {
	for _, add := range other.Comps {
		idx := -1
		for i := range x.Comps {
			if x.Comps[i].Formula == add.Formula {
				idx = i
				break
			}
		}
		if idx < 0 {
			c := add.clone()
			c.Moles *= extensive
			c.ChargeBalance *= extensive
			c.Totals.Scale(extensive)
			x.Comps = append(x.Comps, c)
			continue
		}
		c := &x.Comps[idx]
		c.LA = moleWeighted(c.LA, c.Moles, add.LA, add.Moles*extensive)
		c.Moles += add.Moles * extensive
		c.ChargeBalance += add.ChargeBalance * extensive
		c.Totals = ensure(c.Totals)
		c.Totals.AddScaled(add.Totals, extensive)
	}
}

// DumpRaw writes x as an EXCHANGE_RAW block.
func (x Exchange) DumpRaw(w *rawcodec.Writer, indent int) {
	x.writeHeader(w, indent, KindExchange)
	in := indent + 1
	w.Bool(in, "pitzer_exchange_gammas", x.PitzerExchangeGammas)
	for _, c := range x.Comps {
		w.Line(in, "-component", c.Formula)
		w.Float(in+1, "moles", c.Moles)
		w.Float(in+1, "la", c.LA)
		w.Float(in+1, "charge_balance", c.ChargeBalance)
		w.Text(in+1, "phase_name", c.PhaseName)
		w.Float(in+1, "phase_proportion", c.PhaseProportion)
		w.Text(in+1, "rate_name", c.RateName)
		w.Float(in+1, "formula_z", c.FormulaZ)
		w.Pairs(in+1, "formula_totals", c.FormulaTotals)
		w.Pairs(in+1, "totals", c.Totals)
	}
}

// ReadExchangeRaw reads the EXCHANGE_RAW block whose keyword line is current.
func ReadExchangeRaw(p *rawcodec.Parser) *Exchange {
	x := NewExchange(1)
	x.readHeader(p)
	var cur *ExchComp
	list := ""
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			switch {
			case list == rawcodec.SkipList:
			case list == "formula_totals" && cur != nil:
				p.Pair(cur.FormulaTotals)
			case list == "totals" && cur != nil:
				p.Pair(cur.Totals)
			default:
				p.UnexpectedData(rawcodec.KeywordExchange)
			}
			continue
		}
		list = ""
		if opt == "pitzer_exchange_gammas" {
			p.SetBool(1, &x.PitzerExchangeGammas)
			continue
		}
		if opt == "component" {
			x.Comps = append(x.Comps, ExchComp{
				Formula:       p.Arg(1),
				FormulaTotals: NameDouble{},
				Totals:        NameDouble{},
			})
			cur = &x.Comps[len(x.Comps)-1]
			continue
		}
		if cur == nil {
			p.UnknownOption(rawcodec.KeywordExchange, opt)
			list = rawcodec.SkipList
			continue
		}
		switch opt {
		case "moles":
			p.SetFloat(1, &cur.Moles)
		case "la":
			p.SetFloat(1, &cur.LA)
		case "charge_balance":
			p.SetFloat(1, &cur.ChargeBalance)
		case "phase_name":
			cur.PhaseName = p.Text(1)
		case "phase_proportion":
			p.SetFloat(1, &cur.PhaseProportion)
		case "rate_name":
			cur.RateName = p.Text(1)
		case "formula_z":
			p.SetFloat(1, &cur.FormulaZ)
		case "formula_totals", "totals":
			list = opt
		default:
			p.UnknownOption(rawcodec.KeywordExchange, opt)
			list = rawcodec.SkipList
		}
	}
	return x
}

// moleWeighted averages a and b by their mole amounts; a is kept when both are zero.
func moleWeighted(a, ma, b, mb float64) float64 {
	if ma+mb == 0 {
		return a
	}
	return (a*ma + b*mb) / (ma + mb)
}
