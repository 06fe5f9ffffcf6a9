package engine

import "chemstate/pkg/domain"

// Conversions copy every slice and map; neither side aliases the other.

func toList(nd domain.NameDouble) []NameValue {
	if len(nd) == 0 {
		return nil
	}
	out := make([]NameValue, 0, len(nd))
	for _, name := range nd.Names() {
		out = append(out, NameValue{Name: name, Value: nd[name]})
	}
	return out
}

func fromList(list []NameValue) domain.NameDouble {
	out := make(domain.NameDouble, len(list))
	for _, nv := range list {
		out[nv.Name] = nv.Value
	}
	return out
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	return append([]float64(nil), in...)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func header(k domain.NumKeyword) Header {
	return Header{NUser: k.NUser, NUserEnd: k.NUserEnd, Description: k.Description}
}

// numKeyword reads an unset range end as a single id, the way raw headers do.
func numKeyword(h Header) domain.NumKeyword {
	end := h.NUserEnd
	if end == 0 {
		end = h.NUser
	}
	return domain.NumKeyword{NUser: h.NUser, NUserEnd: end, Description: h.Description}
}

// SolutionToNative converts a solution to the engine layout.
func SolutionToNative(s domain.Solution) Solution {
	n := Solution{
		Header:         header(s.NumKeyword),
		Tc:             s.Tc,
		PH:             s.PH,
		PE:             s.PE,
		Mu:             s.Mu,
		AH2O:           s.AH2O,
		TotalH:         s.TotalH,
		TotalO:         s.TotalO,
		CB:             s.CB,
		MassWater:      s.MassWater,
		TotalAlk:       s.TotalAlkalinity,
		Totals:         toList(s.Totals),
		MasterActivity: toList(s.MasterActivity),
		SpeciesGamma:   toList(s.SpeciesGamma),
	}
	for _, iso := range s.Isotopes {
		n.Isotopes = append(n.Isotopes, Isotope(iso))
	}
	return n
}

// SolutionFromNative converts an engine solution back to a record.
func SolutionFromNative(n Solution) *domain.Solution {
	s := &domain.Solution{
		NumKeyword:      numKeyword(n.Header),
		Tc:              n.Tc,
		PH:              n.PH,
		PE:              n.PE,
		Mu:              n.Mu,
		AH2O:            n.AH2O,
		TotalH:          n.TotalH,
		TotalO:          n.TotalO,
		CB:              n.CB,
		MassWater:       n.MassWater,
		TotalAlkalinity: n.TotalAlk,
		Totals:          fromList(n.Totals),
		MasterActivity:  fromList(n.MasterActivity),
		SpeciesGamma:    fromList(n.SpeciesGamma),
	}
	for _, iso := range n.Isotopes {
		s.Isotopes = append(s.Isotopes, domain.SolutionIsotope(iso))
	}
	return s
}

// ExchangeToNative converts an exchanger to the engine layout.
func ExchangeToNative(x domain.Exchange) Exchange {
	n := Exchange{Header: header(x.NumKeyword), PitzerGammas: boolToInt(x.PitzerExchangeGammas)}
	for _, c := range x.Comps {
		n.Comps = append(n.Comps, ExchComp{
			Formula:         c.Formula,
			Moles:           c.Moles,
			LA:              c.LA,
			CB:              c.ChargeBalance,
			PhaseName:       c.PhaseName,
			PhaseProportion: c.PhaseProportion,
			RateName:        c.RateName,
			FormulaZ:        c.FormulaZ,
			FormulaTotals:   toList(c.FormulaTotals),
			Totals:          toList(c.Totals),
		})
	}
	return n
}

// ExchangeFromNative converts an engine exchanger back to a record.
func ExchangeFromNative(n Exchange) *domain.Exchange {
	x := &domain.Exchange{NumKeyword: numKeyword(n.Header), PitzerExchangeGammas: n.PitzerGammas != 0}
	for _, c := range n.Comps {
		x.Comps = append(x.Comps, domain.ExchComp{
			Formula:         c.Formula,
			Moles:           c.Moles,
			LA:              c.LA,
			ChargeBalance:   c.CB,
			PhaseName:       c.PhaseName,
			PhaseProportion: c.PhaseProportion,
			RateName:        c.RateName,
			FormulaZ:        c.FormulaZ,
			FormulaTotals:   fromList(c.FormulaTotals),
			Totals:          fromList(c.Totals),
		})
	}
	return x
}

// GasPhaseToNative converts a gas phase to the engine layout.
func GasPhaseToNative(g domain.GasPhase) GasPhase {
	typ := GasTypePressure
	if g.Type == domain.GasPhaseVolume {
		typ = GasTypeVolume
	}
	return GasPhase{
		Header:      header(g.NumKeyword),
		Type:        typ,
		TotalP:      g.TotalP,
		TotalMoles:  g.TotalMoles,
		Volume:      g.Volume,
		Temperature: g.Temperature,
		Comps:       toList(g.Comps),
	}
}

// GasPhaseFromNative converts an engine gas phase back to a record.
func GasPhaseFromNative(n GasPhase) *domain.GasPhase {
	typ := domain.GasPhasePressure
	if n.Type == GasTypeVolume {
		typ = domain.GasPhaseVolume
	}
	return &domain.GasPhase{
		NumKeyword:  numKeyword(n.Header),
		Type:        typ,
		TotalP:      n.TotalP,
		TotalMoles:  n.TotalMoles,
		Volume:      n.Volume,
		Temperature: n.Temperature,
		Comps:       fromList(n.Comps),
	}
}

// KineticsToNative converts kinetics to the engine layout.
func KineticsToNative(k domain.Kinetics) Kinetics {
	n := Kinetics{
		Header:     header(k.NumKeyword),
		Steps:      copyFloats(k.Steps),
		StepDivide: k.StepDivide,
		RK:         k.RK,
		BadStepMax: k.BadStepMax,
		UseCVODE:   boolToInt(k.UseCVODE),
		Totals:     toList(k.Totals),
	}
	for _, c := range k.Comps {
		n.Comps = append(n.Comps, KineticsComp{
			RateName: c.RateName,
			Tol:      c.Tol,
			M:        c.M,
			M0:       c.M0,
			Moles:    c.Moles,
			Parms:    copyFloats(c.Parms),
			List:     toList(c.NameCoef),
		})
	}
	return n
}

// KineticsFromNative converts engine kinetics back to a record.
func KineticsFromNative(n Kinetics) *domain.Kinetics {
	k := &domain.Kinetics{
		NumKeyword: numKeyword(n.Header),
		Steps:      copyFloats(n.Steps),
		StepDivide: n.StepDivide,
		RK:         n.RK,
		BadStepMax: n.BadStepMax,
		UseCVODE:   n.UseCVODE != 0,
		Totals:     fromList(n.Totals),
	}
	for _, c := range n.Comps {
		k.Comps = append(k.Comps, domain.KineticsComp{
			RateName: c.RateName,
			Tol:      c.Tol,
			M:        c.M,
			M0:       c.M0,
			Moles:    c.Moles,
			Parms:    copyFloats(c.Parms),
			NameCoef: fromList(c.List),
		})
	}
	return k
}

// PPAssemblageToNative converts a phase assemblage to the engine layout.
func PPAssemblageToNative(a domain.PPAssemblage) PPAssemblage {
	n := PPAssemblage{Header: header(a.NumKeyword), EltList: toList(a.EltList)}
	for _, c := range a.Comps {
		n.Comps = append(n.Comps, PureComp{
			Name:         c.Name,
			AddFormula:   c.AddFormula,
			SI:           c.SI,
			Moles:        c.Moles,
			Delta:        c.Delta,
			InitialMoles: c.InitialMoles,
			DissolveOnly: boolToInt(c.DissolveOnly),
		})
	}
	return n
}

// PPAssemblageFromNative converts an engine phase assemblage back to a record.
func PPAssemblageFromNative(n PPAssemblage) *domain.PPAssemblage {
	a := &domain.PPAssemblage{NumKeyword: numKeyword(n.Header), EltList: fromList(n.EltList)}
	for _, c := range n.Comps {
		a.Comps = append(a.Comps, domain.PureComp{
			Name:         c.Name,
			AddFormula:   c.AddFormula,
			SI:           c.SI,
			Moles:        c.Moles,
			Delta:        c.Delta,
			InitialMoles: c.InitialMoles,
			DissolveOnly: c.DissolveOnly != 0,
		})
	}
	return a
}

// SSAssemblageToNative converts a solid solution assemblage to the engine layout.
func SSAssemblageToNative(a domain.SSAssemblage) SSAssemblage {
	n := SSAssemblage{Header: header(a.NumKeyword)}
	for _, ss := range a.SolidSolutions {
		n.SolidSolutions = append(n.SolidSolutions, SolidSolution{
			Name:        ss.Name,
			A0:          ss.A0,
			A1:          ss.A1,
			AG0:         ss.AG0,
			AG1:         ss.AG1,
			Miscibility: boolToInt(ss.Miscibility),
			XB1:         ss.XB1,
			XB2:         ss.XB2,
			Comps:       toList(ss.Comps),
		})
	}
	return n
}

// SSAssemblageFromNative converts an engine solid solution assemblage back to a
// record.
func SSAssemblageFromNative(n SSAssemblage) *domain.SSAssemblage {
	a := &domain.SSAssemblage{NumKeyword: numKeyword(n.Header)}
	for _, ss := range n.SolidSolutions {
		a.SolidSolutions = append(a.SolidSolutions, domain.SolidSolution{
			Name:        ss.Name,
			A0:          ss.A0,
			A1:          ss.A1,
			AG0:         ss.AG0,
			AG1:         ss.AG1,
			Miscibility: ss.Miscibility != 0,
			XB1:         ss.XB1,
			XB2:         ss.XB2,
			Comps:       fromList(ss.Comps),
		})
	}
	return a
}

// SurfaceToNative converts a surface to the engine layout.
func SurfaceToNative(s domain.Surface) Surface {
	n := Surface{
		Header:          header(s.NumKeyword),
		Type:            s.Type,
		DLType:          s.DLType,
		OnlyCounterIons: boolToInt(s.OnlyCounterIons),
		Thickness:       s.Thickness,
	}
	for _, c := range s.Comps {
		n.Comps = append(n.Comps, SurfaceComp{
			Formula:         c.Formula,
			Moles:           c.Moles,
			LA:              c.LA,
			CB:              c.ChargeBalance,
			ChargeName:      c.ChargeName,
			PhaseName:       c.PhaseName,
			PhaseProportion: c.PhaseProportion,
			RateName:        c.RateName,
			FormulaZ:        c.FormulaZ,
			Totals:          toList(c.Totals),
		})
	}
	for _, c := range s.Charges {
		n.Charges = append(n.Charges, SurfaceCharge{
			Name:         c.Name,
			SpecificArea: c.SpecificArea,
			Grams:        c.Grams,
			CB:           c.ChargeBalance,
			MassWater:    c.MassWater,
			LAPsi:        c.LAPsi,
		})
	}
	return n
}

// SurfaceFromNative converts an engine surface back to a record.
func SurfaceFromNative(n Surface) *domain.Surface {
	s := &domain.Surface{
		NumKeyword:      numKeyword(n.Header),
		Type:            n.Type,
		DLType:          n.DLType,
		OnlyCounterIons: n.OnlyCounterIons != 0,
		Thickness:       n.Thickness,
	}
	for _, c := range n.Comps {
		s.Comps = append(s.Comps, domain.SurfaceComp{
			Formula:         c.Formula,
			Moles:           c.Moles,
			LA:              c.LA,
			ChargeBalance:   c.CB,
			ChargeName:      c.ChargeName,
			PhaseName:       c.PhaseName,
			PhaseProportion: c.PhaseProportion,
			RateName:        c.RateName,
			FormulaZ:        c.FormulaZ,
			Totals:          fromList(c.Totals),
		})
	}
	for _, c := range n.Charges {
		s.Charges = append(s.Charges, domain.SurfaceCharge{
			Name:          c.Name,
			SpecificArea:  c.SpecificArea,
			Grams:         c.Grams,
			ChargeBalance: c.CB,
			MassWater:     c.MassWater,
			LAPsi:         c.LAPsi,
		})
	}
	return s
}

// MixToNative converts a mix to the engine layout, components ascending by id.
func MixToNative(m domain.Mix) Mix {
	n := Mix{Header: header(m.NumKeyword)}
	for _, f := range m.Fractions() {
		n.Comps = append(n.Comps, MixComp{N: f.ID, Fraction: f.Fraction})
	}
	return n
}

// MixFromNative converts an engine mix back to a record.
func MixFromNative(n Mix) *domain.Mix {
	m := domain.NewMix(0)
	m.NumKeyword = numKeyword(n.Header)
	for _, c := range n.Comps {
		m.SetFraction(c.N, c.Fraction)
	}
	return m
}

// ReactionToNative converts a reaction to the engine layout.
func ReactionToNative(r domain.Reaction) Reaction {
	return Reaction{
		Header:          header(r.NumKeyword),
		Units:           r.Units,
		Steps:           copyFloats(r.Steps),
		CountSteps:      r.CountSteps,
		EqualIncrements: boolToInt(r.EqualIncrements),
		Reactants:       toList(r.Reactants),
		Elements:        toList(r.Elements),
	}
}

// ReactionFromNative converts an engine reaction back to a record.
func ReactionFromNative(n Reaction) *domain.Reaction {
	return &domain.Reaction{
		NumKeyword:      numKeyword(n.Header),
		Units:           n.Units,
		Steps:           copyFloats(n.Steps),
		CountSteps:      n.CountSteps,
		EqualIncrements: n.EqualIncrements != 0,
		Reactants:       fromList(n.Reactants),
		Elements:        fromList(n.Elements),
	}
}

// TemperatureToNative converts a temperature schedule to the engine layout.
func TemperatureToNative(t domain.Temperature) Temperature {
	return Temperature{Header: header(t.NumKeyword), Temps: copyFloats(t.Temps), CountTemps: t.CountTemps}
}

// TemperatureFromNative converts an engine temperature schedule back to a record.
func TemperatureFromNative(n Temperature) *domain.Temperature {
	return &domain.Temperature{NumKeyword: numKeyword(n.Header), Temps: copyFloats(n.Temps), CountTemps: n.CountTemps}
}
