package domain

import (
	"strings"

	"chemstate/pkg/rawcodec"
)

// GasPhaseType selects whether a gas phase holds pressure or volume fixed.
type GasPhaseType string

const (
	GasPhasePressure GasPhaseType = "pressure"
	GasPhaseVolume   GasPhaseType = "volume"
)

// GasPhase is a gas reservoir in contact with a solution.
type GasPhase struct {
	NumKeyword
	Type        GasPhaseType `json:"type"`
	TotalP      float64      `json:"total_p"`
	TotalMoles  float64      `json:"total_moles"`
	Volume      float64      `json:"volume"`
	Temperature float64      `json:"temperature"`
	Comps       NameDouble   `json:"comps,omitempty"`
}

// NewGasPhase returns an empty fixed-pressure gas phase at 1 atm for id.
func NewGasPhase(id int) *GasPhase {
	g := &GasPhase{Type: GasPhasePressure, TotalP: 1, Volume: 1, Temperature: 298.15, Comps: NameDouble{}}
	g.SetUserID(id)
	return g
}

// Kind implements Entity.
func (GasPhase) Kind() Kind { return KindGasPhase }

// Moles returns the moles of gas component name, 0 when unset.
func (g GasPhase) Moles(name string) float64 { return g.Comps.Get(name) }

// SetMoles sets the moles of gas component name.
func (g *GasPhase) SetMoles(name string, v float64) {
	g.Comps = ensure(g.Comps)
	g.Comps[name] = v
}

// Clone returns a deep copy.
func (g GasPhase) Clone() *GasPhase {
	out := g
	out.Comps = g.Comps.Clone()
	return &out
}

// Add folds extensive*other into g. Pressure and temperature are averaged by total
// moles.
func (g *GasPhase) Add(other GasPhase, extensive float64) {
	added := other.TotalMoles * extensive
	g.TotalP = moleWeighted(g.TotalP, g.TotalMoles, other.TotalP, added)
	g.Temperature = moleWeighted(g.Temperature, g.TotalMoles, other.Temperature, added)
	g.TotalMoles += added
	g.Volume += other.Volume * extensive
	g.Comps = ensure(g.Comps)
	g.Comps.AddScaled(other.Comps, extensive)
}

// DumpRaw writes g as a GAS_PHASE_RAW block.
func (g GasPhase) DumpRaw(w *rawcodec.Writer, indent int) {
	g.writeHeader(w, indent, KindGasPhase)
	in := indent + 1
	w.Text(in, "type", string(g.Type))
	w.Float(in, "total_p", g.TotalP)
	w.Float(in, "total_moles", g.TotalMoles)
	w.Float(in, "volume", g.Volume)
	w.Float(in, "temperature", g.Temperature)
	w.Pairs(in, "component", g.Comps)
}

// ReadGasPhaseRaw reads the GAS_PHASE_RAW block whose keyword line is current.
// Options missing from the block leave their fields zero.
func ReadGasPhaseRaw(p *rawcodec.Parser) *GasPhase {
	g := &GasPhase{Comps: NameDouble{}}
	g.readHeader(p)
	list := ""
	for p.NextData() {
		if opt, ok := p.Option(); ok {
			list = ""
			switch opt {
			case "type":
				switch strings.ToLower(p.Arg(1)) {
				case "pressure", "0":
					g.Type = GasPhasePressure
				case "volume", "1":
					g.Type = GasPhaseVolume
				default:
					p.Warnf("unknown gas phase type %q", p.Arg(1))
				}
			case "total_p", "pressure":
				p.SetFloat(1, &g.TotalP)
			case "total_moles":
				p.SetFloat(1, &g.TotalMoles)
			case "volume":
				p.SetFloat(1, &g.Volume)
			case "temperature":
				p.SetFloat(1, &g.Temperature)
			case "component", "components":
				list = "component"
			default:
				p.UnknownOption(rawcodec.KeywordGasPhase, opt)
				list = rawcodec.SkipList
			}
			continue
		}
		switch list {
		case "component":
			p.Pair(g.Comps)
		case rawcodec.SkipList:
		default:
			p.UnexpectedData(rawcodec.KeywordGasPhase)
		}
	}
	return g
}
