package domain

import "chemstate/pkg/rawcodec"

// DefaultTemperature is returned by Temperature.At for an empty schedule.
const DefaultTemperature = 25.0

// Temperature is a reaction temperature schedule. With CountTemps > 0 the first two
// entries of Temps are endpoints interpolated over CountTemps steps; otherwise Temps
// lists one temperature per step.
type Temperature struct {
	NumKeyword
	Temps      []float64 `json:"temps,omitempty"`
	CountTemps int       `json:"count_temps"`
}

// NewTemperature returns an empty schedule for id.
func NewTemperature(id int) *Temperature {
	t := &Temperature{}
	t.SetUserID(id)
	return t
}

// Kind implements Entity.
func (Temperature) Kind() Kind { return KindTemperature }

// At returns the temperature for 1-based step n. Steps past the end of the schedule
// take its last temperature.
func (t Temperature) At(n int) float64 {
	if len(t.Temps) == 0 {
		return DefaultTemperature
	}
	if n < 1 {
		n = 1
	}
	if t.CountTemps > 0 {
		first := t.Temps[0]
		if t.CountTemps == 1 || len(t.Temps) < 2 {
			return first
		}
		if n > t.CountTemps {
			n = t.CountTemps
		}
		last := t.Temps[1]
		return first + float64(n-1)*(last-first)/float64(t.CountTemps-1)
	}
	if n > len(t.Temps) {
		return t.Temps[len(t.Temps)-1]
	}
	return t.Temps[n-1]
}

// Clone returns a deep copy.
func (t Temperature) Clone() *Temperature {
	out := t
	if t.Temps != nil {
		out.Temps = append([]float64(nil), t.Temps...)
	}
	return &out
}

// DumpRaw writes t as a REACTION_TEMPERATURE_RAW block.
func (t Temperature) DumpRaw(w *rawcodec.Writer, indent int) {
	t.writeHeader(w, indent, KindTemperature)
	w.Floats(indent+1, "temps", t.Temps)
	w.Int(indent+1, "count_temps", t.CountTemps)
}

// ReadTemperatureRaw reads the REACTION_TEMPERATURE_RAW block whose keyword line is
// current.
func ReadTemperatureRaw(p *rawcodec.Parser) *Temperature {
	t := NewTemperature(1)
	t.readHeader(p)
	for p.NextData() {
		opt, ok := p.Option()
		if !ok {
			p.UnexpectedData(rawcodec.KeywordTemperature)
			continue
		}
		switch opt {
		case "temps", "temperatures":
			t.Temps = p.Floats(1)
		case "count_temps":
			p.SetInt(1, &t.CountTemps)
		default:
			p.UnknownOption(rawcodec.KeywordTemperature, opt)
		}
	}
	return t
}
