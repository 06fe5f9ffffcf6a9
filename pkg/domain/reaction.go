package domain

import "chemstate/pkg/rawcodec"

// Reaction is an irreversible reaction: reactant stoichiometry added in steps.
type Reaction struct {
	NumKeyword
	Units           string     `json:"units"`
	Steps           []float64  `json:"steps,omitempty"`
	CountSteps      int        `json:"count_steps"`
	EqualIncrements bool       `json:"equal_increments"`
	Reactants       NameDouble `json:"reactants,omitempty"`
	Elements        NameDouble `json:"elements,omitempty"`
}

// NewReaction returns an empty reaction in moles for id.
func NewReaction(id int) *Reaction {
	r := &Reaction{Units: "Mol", Reactants: NameDouble{}, Elements: NameDouble{}}
	r.SetUserID(id)
	return r
}

// Kind implements Entity.
func (Reaction) Kind() Kind { return KindReaction }

// Step returns the amount added at 1-based step n. With equal increments the single
// listed amount is divided into CountSteps parts.
func (r Reaction) Step(n int) float64 {
	if len(r.Steps) == 0 || n < 1 {
		return 0
	}
	if r.EqualIncrements && r.CountSteps > 0 {
		if n > r.CountSteps {
			return 0
		}
		return r.Steps[0] / float64(r.CountSteps)
	}
	if n > len(r.Steps) {
		return 0
	}
	return r.Steps[n-1]
}

// Clone returns a deep copy.
func (r Reaction) Clone() *Reaction {
	out := r
	out.Reactants = r.Reactants.Clone()
	out.Elements = r.Elements.Clone()
	if r.Steps != nil {
		out.Steps = append([]float64(nil), r.Steps...)
	}
	return &out
}

// DumpRaw writes r as a REACTION_RAW block.
func (r Reaction) DumpRaw(w *rawcodec.Writer, indent int) {
	r.writeHeader(w, indent, KindReaction)
	in := indent + 1
	w.Text(in, "units", r.Units)
	w.Pairs(in, "reactant_list", r.Reactants)
	w.Pairs(in, "element_list", r.Elements)
	w.Floats(in, "steps", r.Steps)
	w.Int(in, "count_steps", r.CountSteps)
	w.Bool(in, "equal_increments", r.EqualIncrements)
}

// ReadReactionRaw reads the REACTION_RAW block whose keyword line is current.
// Options missing from the block leave their fields zero, so empty units survive a
// dump and read.
func ReadReactionRaw(p *rawcodec.Parser) *Reaction {
	r := &Reaction{Reactants: NameDouble{}, Elements: NameDouble{}}
	r.readHeader(p)
	list := ""
	for p.NextData() {
		if opt, ok := p.Option(); ok {
			list = ""
			switch opt {
			case "units":
				r.Units = p.Arg(1)
			case "reactant_list", "element_list":
				list = opt
			case "steps":
				r.Steps = p.Floats(1)
			case "count_steps":
				p.SetInt(1, &r.CountSteps)
			case "equal_increments":
				p.SetBool(1, &r.EqualIncrements)
			default:
				p.UnknownOption(rawcodec.KeywordReaction, opt)
				list = rawcodec.SkipList
			}
			continue
		}
		switch list {
		case "reactant_list":
			p.Pair(r.Reactants)
		case "element_list":
			p.Pair(r.Elements)
		case rawcodec.SkipList:
		default:
			p.UnexpectedData(rawcodec.KeywordReaction)
		}
	}
	return r
}
