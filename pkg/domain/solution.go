package domain

import (
	"sort"

	"chemstate/pkg/rawcodec"
)

// SolutionIsotope is one isotope entry of a Solution.
type SolutionIsotope struct {
	IsotopeNumber    float64 `json:"isotope_number"`
	ElementName      string  `json:"element_name"`
	IsotopeName      string  `json:"isotope_name"`
	Total            float64 `json:"total"`
	Ratio            float64 `json:"ratio"`
	RatioUncertainty float64 `json:"ratio_uncertainty"`
}

// Solution is an aqueous solution: scalar state, element totals, master species
// activities, species activity coefficients and isotopes.
type Solution struct {
	NumKeyword
	Tc              float64           `json:"tc"`
	PH              float64           `json:"ph"`
	PE              float64           `json:"pe"`
	Mu              float64           `json:"mu"`
	AH2O            float64           `json:"ah2o"`
	TotalH          float64           `json:"total_h"`
	TotalO          float64           `json:"total_o"`
	CB              float64           `json:"cb"`
	MassWater       float64           `json:"mass_water"`
	TotalAlkalinity float64           `json:"total_alkalinity"`
	Totals          NameDouble        `json:"totals,omitempty"`
	MasterActivity  NameDouble        `json:"master_activity,omitempty"`
	SpeciesGamma    NameDouble        `json:"species_gamma,omitempty"`
	Isotopes        []SolutionIsotope `json:"isotopes,omitempty"`
}

// NewSolution returns pure water at 25 C for id.
func NewSolution(id int) *Solution {
	s := ZeroSolution()
	s.SetUserID(id)
	s.Tc = 25
	s.PH = 7
	s.PE = 4
	s.Mu = 1e-7
	s.AH2O = 1
	s.TotalH = 111.1
	s.TotalO = 55.55
	s.MassWater = 1
	return s
}

// ZeroSolution returns a solution with every field zero, used as an accumulator.
func ZeroSolution() *Solution {
	return &Solution{
		Totals:         NameDouble{},
		MasterActivity: NameDouble{},
		SpeciesGamma:   NameDouble{},
	}
}

// ScaledSolution returns a new solution holding old combined into a zero
// accumulator with the given weights.
func ScaledSolution(old Solution, intensive, extensive float64, policy CombinePolicy) *Solution {
	s := ZeroSolution()
	s.NumKeyword = old.NumKeyword
	s.Add(old, intensive, extensive, policy)
	return s
}

// NewBlendedSolution blends b into a without a Mix record. a keeps its extensive
// amounts and contributes 1-intensive of its intensive state; b contributes
// intensive and extensive. The result takes a's identity.
func NewBlendedSolution(a, b Solution, intensive, extensive float64, policy CombinePolicy) *Solution {
	s := ZeroSolution()
	s.NumKeyword = a.NumKeyword
	s.Add(a, 1-intensive, 1, policy)
	s.Add(b, intensive, extensive, policy)
	return s
}

// Kind implements Entity.
func (Solution) Kind() Kind { return KindSolution }

// Total returns the total for element name, 0 when unset.
func (s Solution) Total(name string) float64 { return s.Totals.Get(name) }

// SetTotal sets the total for element name.
func (s *Solution) SetTotal(name string, v float64) {
	s.Totals = ensure(s.Totals)
	s.Totals[name] = v
}

// MasterActivityOf returns the log activity of master species name, 0 when unset.
func (s Solution) MasterActivityOf(name string) float64 { return s.MasterActivity.Get(name) }

// SetMasterActivity sets the log activity of master species name.
func (s *Solution) SetMasterActivity(name string, v float64) {
	s.MasterActivity = ensure(s.MasterActivity)
	s.MasterActivity[name] = v
}

// SpeciesGammaOf returns the activity coefficient of species name, 0 when unset.
func (s Solution) SpeciesGammaOf(name string) float64 { return s.SpeciesGamma.Get(name) }

// SetSpeciesGamma sets the activity coefficient of species name.
func (s *Solution) SetSpeciesGamma(name string, v float64) {
	s.SpeciesGamma = ensure(s.SpeciesGamma)
	s.SpeciesGamma[name] = v
}

// Isotope returns the isotope entry for name.
func (s Solution) Isotope(name string) (SolutionIsotope, bool) {
	for _, iso := range s.Isotopes {
		if iso.IsotopeName == name {
			return iso, true
		}
	}
	return SolutionIsotope{}, false
}

// SetIsotope inserts or replaces the isotope entry with the same IsotopeName.
func (s *Solution) SetIsotope(iso SolutionIsotope) {
	for i := range s.Isotopes {
		if s.Isotopes[i].IsotopeName == iso.IsotopeName {
			s.Isotopes[i] = iso
			return
		}
	}
	s.Isotopes = append(s.Isotopes, iso)
}

// Clone returns a deep copy.
func (s Solution) Clone() *Solution {
	out := s
	out.Totals = s.Totals.Clone()
	out.MasterActivity = s.MasterActivity.Clone()
	out.SpeciesGamma = s.SpeciesGamma.Clone()
	if s.Isotopes != nil {
		out.Isotopes = append([]SolutionIsotope(nil), s.Isotopes...)
	}
	return &out
}

// Add folds other into s. Each field is combined by the rule policy assigns it;
// a nil policy uses DefaultCombinePolicy. Repeated calls over a Mix's fractions
// build the blended solution.
func (s *Solution) Add(other Solution, intensive, extensive float64, policy CombinePolicy) {
	if policy == nil {
		policy = defaultRules
	}
	w := weights{
		intensive: intensive,
		extensive: extensive,
		massAcc:   s.MassWater,
		massAdd:   other.MassWater * extensive,
	}
	s.Tc = w.scalar(policy.Rule(FieldTemperature), s.Tc, other.Tc)
	s.PH = w.scalar(policy.Rule(FieldPH), s.PH, other.PH)
	s.PE = w.scalar(policy.Rule(FieldPE), s.PE, other.PE)
	s.Mu = w.scalar(policy.Rule(FieldMu), s.Mu, other.Mu)
	s.AH2O = w.scalar(policy.Rule(FieldAH2O), s.AH2O, other.AH2O)
	s.TotalH = w.scalar(policy.Rule(FieldTotalH), s.TotalH, other.TotalH)
	s.TotalO = w.scalar(policy.Rule(FieldTotalO), s.TotalO, other.TotalO)
	s.CB = w.scalar(policy.Rule(FieldChargeBalance), s.CB, other.CB)
	s.TotalAlkalinity = w.scalar(policy.Rule(FieldTotalAlkalinity), s.TotalAlkalinity, other.TotalAlkalinity)

	s.Totals = ensure(s.Totals)
	s.MasterActivity = ensure(s.MasterActivity)
	s.SpeciesGamma = ensure(s.SpeciesGamma)
	w.names(policy.Rule(FieldTotals), s.Totals, other.Totals)
	w.names(policy.Rule(FieldMasterActivity), s.MasterActivity, other.MasterActivity)
	w.names(policy.Rule(FieldSpeciesGamma), s.SpeciesGamma, other.SpeciesGamma)

	for _, add := range other.Isotopes {
		idx := -1
		for i := range s.Isotopes {
			if s.Isotopes[i].IsotopeName == add.IsotopeName {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.Isotopes = append(s.Isotopes, SolutionIsotope{
				IsotopeNumber: add.IsotopeNumber,
				ElementName:   add.ElementName,
				IsotopeName:   add.IsotopeName,
			})
			idx = len(s.Isotopes) - 1
		}
		iso := &s.Isotopes[idx]
		iso.Total = w.scalar(policy.Rule(FieldIsotopeTotal), iso.Total, add.Total)
		iso.Ratio = w.scalar(policy.Rule(FieldIsotopeRatio), iso.Ratio, add.Ratio)
		iso.RatioUncertainty = w.scalar(policy.Rule(FieldIsotopeRatio), iso.RatioUncertainty, add.RatioUncertainty)
	}

	// last: the mass-weighted rules above read the pre-add water mass
	s.MassWater = w.scalar(policy.Rule(FieldMassWater), s.MassWater, other.MassWater)
}

// DumpRaw writes s as a SOLUTION_RAW block.
func (s Solution) DumpRaw(w *rawcodec.Writer, indent int) {
	s.writeHeader(w, indent, KindSolution)
	in := indent + 1
	w.Float(in, "temp", s.Tc)
	w.Float(in, "pH", s.PH)
	w.Float(in, "pe", s.PE)
	w.Float(in, "mu", s.Mu)
	w.Float(in, "ah2o", s.AH2O)
	w.Float(in, "total_h", s.TotalH)
	w.Float(in, "total_o", s.TotalO)
	w.Float(in, "cb", s.CB)
	w.Float(in, "mass_water", s.MassWater)
	w.Float(in, "total_alkalinity", s.TotalAlkalinity)
	w.Pairs(in, "totals", s.Totals)
	w.Pairs(in, "activities", s.MasterActivity)
	w.Pairs(in, "gammas", s.SpeciesGamma)
	if len(s.Isotopes) == 0 {
		return
	}
	isotopes := append([]SolutionIsotope(nil), s.Isotopes...)
	sort.SliceStable(isotopes, func(i, j int) bool { return isotopes[i].IsotopeName < isotopes[j].IsotopeName })
	w.Option(in, "isotopes")
	for _, iso := range isotopes {
		w.Line(in+1, iso.IsotopeName,
			rawcodec.FormatFloat(iso.IsotopeNumber),
			iso.ElementName,
			rawcodec.FormatFloat(iso.Total),
			rawcodec.FormatFloat(iso.Ratio),
			rawcodec.FormatFloat(iso.RatioUncertainty))
	}
}

// ReadSolutionRaw reads the SOLUTION_RAW block whose keyword line is current.
// Scalars not present in the block keep the NewSolution defaults.
func ReadSolutionRaw(p *rawcodec.Parser) *Solution {
	s := NewSolution(1)
	s.readHeader(p)
	list := ""
	for p.NextData() {
		if opt, ok := p.Option(); ok {
			list = ""
			switch opt {
			case "temp", "tc":
				p.SetFloat(1, &s.Tc)
			case "ph":
				p.SetFloat(1, &s.PH)
			case "pe":
				p.SetFloat(1, &s.PE)
			case "mu":
				p.SetFloat(1, &s.Mu)
			case "ah2o":
				p.SetFloat(1, &s.AH2O)
			case "total_h":
				p.SetFloat(1, &s.TotalH)
			case "total_o":
				p.SetFloat(1, &s.TotalO)
			case "cb", "charge_balance":
				p.SetFloat(1, &s.CB)
			case "mass_water", "mass_h2o":
				p.SetFloat(1, &s.MassWater)
			case "total_alkalinity", "alkalinity":
				p.SetFloat(1, &s.TotalAlkalinity)
			case "totals", "activities", "gammas", "isotopes":
				list = opt
			default:
				p.UnknownOption(rawcodec.KeywordSolution, opt)
				list = rawcodec.SkipList
			}
			continue
		}
		switch list {
		case "totals":
			p.Pair(s.Totals)
		case "activities":
			p.Pair(s.MasterActivity)
		case "gammas":
			p.Pair(s.SpeciesGamma)
		case "isotopes":
			readIsotope(p, s)
		case rawcodec.SkipList:
		default:
			p.UnexpectedData(rawcodec.KeywordSolution)
		}
	}
	return s
}

func readIsotope(p *rawcodec.Parser, s *Solution) {
	if len(p.Fields()) < 6 {
		p.Warnf("isotope line needs 6 fields, got %q", p.Line())
		return
	}
	iso := SolutionIsotope{IsotopeName: p.Arg(0), ElementName: p.Arg(2)}
	p.SetFloat(1, &iso.IsotopeNumber)
	p.SetFloat(3, &iso.Total)
	p.SetFloat(4, &iso.Ratio)
	p.SetFloat(5, &iso.RatioUncertainty)
	s.SetIsotope(iso)
}
