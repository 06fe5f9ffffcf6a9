// Package domain defines the reactant records stored by chemstate, their raw text
// serialization and the combination rules used when reactants are mixed.
package domain

import "chemstate/pkg/rawcodec"

// Kind identifies one of the reactant collections.
type Kind string

// Supported reactant kinds, in dump order.
const (
	KindSolution     Kind = "solution"
	KindExchange     Kind = "exchange"
	KindGasPhase     Kind = "gas_phase"
	KindKinetics     Kind = "kinetics"
	KindPPAssemblage Kind = "pp_assemblage"
	KindSSAssemblage Kind = "ss_assemblage"
	KindSurface      Kind = "surface"
	KindMix          Kind = "mix"
	KindReaction     Kind = "reaction"
	KindTemperature  Kind = "temperature"
)

// Kinds lists every kind in the fixed order used for dumps and persistence buckets.
var Kinds = []Kind{
	KindSolution,
	KindExchange,
	KindGasPhase,
	KindKinetics,
	KindPPAssemblage,
	KindSSAssemblage,
	KindSurface,
	KindMix,
	KindReaction,
	KindTemperature,
}

var kindKeywords = map[Kind]rawcodec.Keyword{
	KindSolution:     rawcodec.KeywordSolution,
	KindExchange:     rawcodec.KeywordExchange,
	KindGasPhase:     rawcodec.KeywordGasPhase,
	KindKinetics:     rawcodec.KeywordKinetics,
	KindPPAssemblage: rawcodec.KeywordPPAssemblage,
	KindSSAssemblage: rawcodec.KeywordSSAssemblage,
	KindSurface:      rawcodec.KeywordSurface,
	KindMix:          rawcodec.KeywordMix,
	KindReaction:     rawcodec.KeywordReaction,
	KindTemperature:  rawcodec.KeywordTemperature,
}

// Keyword returns the raw block keyword for k.
func (k Kind) Keyword() rawcodec.Keyword { return kindKeywords[k] }

// KindForKeyword maps a raw block keyword back to its kind.
func KindForKeyword(kw rawcodec.Keyword) (Kind, bool) {
	for k, v := range kindKeywords {
		if v == kw {
			return k, true
		}
	}
	return "", false
}

// Entity is implemented by every reactant record.
type Entity interface {
	Kind() Kind
	UserID() int
	DumpRaw(w *rawcodec.Writer, indent int)
}

// NumKeyword carries the identity shared by all records: the user number (or range)
// and a free-text description. Line is the header line the record was parsed from
// and is zero for records built in code.
type NumKeyword struct {
	NUser       int    `json:"n_user"`
	NUserEnd    int    `json:"n_user_end"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"-"`
}

// UserID returns the record's user number.
func (k NumKeyword) UserID() int { return k.NUser }

// SetUserID sets both ends of the number range to n.
func (k *NumKeyword) SetUserID(n int) {
	k.NUser = n
	k.NUserEnd = n
}

func (k *NumKeyword) readHeader(p *rawcodec.Parser) {
	k.NUser, k.NUserEnd, k.Description = p.Header()
	k.Line = p.LineNumber()
}

func (k NumKeyword) writeHeader(w *rawcodec.Writer, indent int, kind Kind) {
	end := k.NUserEnd
	if end == 0 && k.NUser != 0 {
		end = k.NUser
	}
	w.Header(indent, kind.Keyword(), k.NUser, end, k.Description)
}
