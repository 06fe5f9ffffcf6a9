package domain

// Field names a Solution quantity that takes part in combination.
type Field string

// Solution fields addressed by a CombinePolicy.
const (
	FieldTemperature     Field = "temp"
	FieldPH              Field = "ph"
	FieldPE              Field = "pe"
	FieldMu              Field = "mu"
	FieldAH2O            Field = "ah2o"
	FieldTotalH          Field = "total_h"
	FieldTotalO          Field = "total_o"
	FieldChargeBalance   Field = "cb"
	FieldMassWater       Field = "mass_water"
	FieldTotalAlkalinity Field = "total_alkalinity"
	FieldTotals          Field = "totals"
	FieldMasterActivity  Field = "activities"
	FieldSpeciesGamma    Field = "gammas"
	FieldIsotopeTotal    Field = "isotope_total"
	FieldIsotopeRatio    Field = "isotope_ratio"
)

// CombineRule is how one field of an added record folds into the accumulator.
type CombineRule int

const (
	// RuleExtensive adds extensive*v.
	RuleExtensive CombineRule = iota
	// RuleWeighted adds intensive*v. Summed over fractions adding up to one this
	// yields the fraction-weighted mean.
	RuleWeighted
	// RuleMassWeighted replaces the accumulator with the mean weighted by the water
	// mass each side contributes. Falls back to RuleWeighted when both masses are zero.
	RuleMassWeighted
	// RuleKeep leaves the accumulator unchanged.
	RuleKeep
)

func (r CombineRule) String() string {
	switch r {
	case RuleExtensive:
		return "extensive"
	case RuleWeighted:
		return "weighted"
	case RuleMassWeighted:
		return "mass_weighted"
	case RuleKeep:
		return "keep"
	default:
		return "unknown"
	}
}

// CombinePolicy assigns a rule to each Solution field. Fields absent from the table
// use the default rule for that field.
type CombinePolicy map[Field]CombineRule

var defaultRules = CombinePolicy{
	FieldTemperature:     RuleWeighted,
	FieldPH:              RuleWeighted,
	FieldPE:              RuleWeighted,
	FieldMu:              RuleWeighted,
	FieldAH2O:            RuleWeighted,
	FieldTotalH:          RuleExtensive,
	FieldTotalO:          RuleExtensive,
	FieldChargeBalance:   RuleExtensive,
	FieldMassWater:       RuleExtensive,
	FieldTotalAlkalinity: RuleExtensive,
	FieldTotals:          RuleExtensive,
	FieldMasterActivity:  RuleWeighted,
	FieldSpeciesGamma:    RuleWeighted,
	FieldIsotopeTotal:    RuleExtensive,
	FieldIsotopeRatio:    RuleWeighted,
}

// DefaultCombinePolicy returns a fresh copy of the default table: extensive
// quantities sum, intensive quantities accumulate intensive-weighted contributions.
func DefaultCombinePolicy() CombinePolicy {
	return defaultRules.With()
}

// MassWeightedPolicy returns the default table with every intensive field switched
// to RuleMassWeighted.
func MassWeightedPolicy() CombinePolicy {
	p := DefaultCombinePolicy()
	for f, r := range p {
		if r == RuleWeighted {
			p[f] = RuleMassWeighted
		}
	}
	return p
}

// Rule returns the rule for f.
func (p CombinePolicy) Rule(f Field) CombineRule {
	if r, ok := p[f]; ok {
		return r
	}
	return defaultRules[f]
}

// With returns a copy of p with the given overrides applied.
func (p CombinePolicy) With(overrides ...FieldRule) CombinePolicy {
	out := make(CombinePolicy, len(p)+len(overrides))
	for f, r := range p {
		out[f] = r
	}
	for _, o := range overrides {
		out[o.Field] = o.Rule
	}
	return out
}

// FieldRule is a single policy override.
type FieldRule struct {
	Field Field
	Rule  CombineRule
}

// weights holds the per-rule multipliers for one Add call.
type weights struct {
	intensive, extensive float64
	// accumulator and contribution water masses for RuleMassWeighted
	massAcc, massAdd float64
}

func (w weights) scalar(rule CombineRule, acc, v float64) float64 {
	switch rule {
	case RuleExtensive:
		return acc + w.extensive*v
	case RuleWeighted:
		return acc + w.intensive*v
	case RuleMassWeighted:
		total := w.massAcc + w.massAdd
		if total == 0 {
			return acc + w.intensive*v
		}
		return (w.massAcc*acc + w.massAdd*v) / total
	default:
		return acc
	}
}

func (w weights) names(rule CombineRule, acc, add NameDouble) {
	switch rule {
	case RuleExtensive:
		acc.AddScaled(add, w.extensive)
	case RuleWeighted:
		acc.AddScaled(add, w.intensive)
	case RuleMassWeighted:
		total := w.massAcc + w.massAdd
		if total == 0 {
			acc.AddScaled(add, w.intensive)
			return
		}
		acc.Blend(add, w.massAcc/total, w.massAdd/total)
	}
}
