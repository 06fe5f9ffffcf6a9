package domain

import (
	"encoding/json"
	"sort"

	"chemstate/pkg/rawcodec"
)

// MixFraction is one entry of a Mix's fraction table.
type MixFraction struct {
	ID       int     `json:"id"`
	Fraction float64 `json:"fraction"`
}

// Mix is a recipe: referenced solution ids with the fraction each contributes. It
// holds ids only and is resolved against a store when used. The table is changed
// only through SetFraction and RemoveFraction.
type Mix struct {
	NumKeyword
	comps map[int]float64
}

type mixJSON struct {
	NumKeyword
	Comps map[int]float64 `json:"comps,omitempty"`
}

// NewMix returns an empty mix for id.
func NewMix(id int) *Mix {
	m := &Mix{comps: map[int]float64{}}
	m.SetUserID(id)
	return m
}

// MarshalJSON encodes the fraction table under "comps".
func (m Mix) MarshalJSON() ([]byte, error) {
	return json.Marshal(mixJSON{NumKeyword: m.NumKeyword, Comps: m.comps})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (m *Mix) UnmarshalJSON(data []byte) error {
	var in mixJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.NumKeyword = in.NumKeyword
	m.comps = in.Comps
	return nil
}

// Kind implements Entity.
func (Mix) Kind() Kind { return KindMix }

// SetFraction sets the fraction for id, replacing any previous value.
func (m *Mix) SetFraction(id int, fraction float64) {
	if m.comps == nil {
		m.comps = map[int]float64{}
	}
	m.comps[id] = fraction
}

// RemoveFraction drops id from the table.
func (m *Mix) RemoveFraction(id int) { delete(m.comps, id) }

// Fraction returns the fraction for id, 0 when id is not referenced.
func (m Mix) Fraction(id int) float64 { return m.comps[id] }

// Len returns the number of referenced ids.
func (m Mix) Len() int { return len(m.comps) }

// Fractions returns a copy of the table in ascending id order.
func (m Mix) Fractions() []MixFraction {
	out := make([]MixFraction, 0, len(m.comps))
	for id, f := range m.comps {
		out = append(out, MixFraction{ID: id, Fraction: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clone returns a deep copy.
func (m Mix) Clone() *Mix {
	out := m
	out.comps = make(map[int]float64, len(m.comps))
	for id, f := range m.comps {
		out.comps[id] = f
	}
	return &out
}

// DumpRaw writes m as a MIX_RAW block.
func (m Mix) DumpRaw(w *rawcodec.Writer, indent int) {
	m.writeHeader(w, indent, KindMix)
	w.IntPairs(indent+1, "mixes", m.comps)
}

// ReadMixRaw reads the MIX_RAW block whose keyword line is current.
func ReadMixRaw(p *rawcodec.Parser) *Mix {
	m := NewMix(1)
	m.readHeader(p)
	list := ""
	for p.NextData() {
		if opt, ok := p.Option(); ok {
			if opt == "mixes" || opt == "mix" {
				list = "mixes"
				continue
			}
			p.UnknownOption(rawcodec.KeywordMix, opt)
			list = rawcodec.SkipList
			continue
		}
		switch list {
		case "mixes":
			p.IntPair(m.comps)
		case rawcodec.SkipList:
		default:
			p.UnexpectedData(rawcodec.KeywordMix)
		}
	}
	return m
}
