// Package rawcodec implements the line-oriented keyword format used to dump and
// restore reactant state. A dump is a sequence of blocks; each block starts with a
// keyword line carrying the entity id and is followed by option and data lines.
package rawcodec

import "strings"

// Keyword identifies a block keyword recognized at the start of a line.
type Keyword int

// Raw block keywords. KeywordNone marks a line that is a keyword in the wider input
// language but has no raw reader; it terminates a raw read.
const (
	KeywordNone Keyword = iota
	KeywordEnd
	KeywordEOF
	KeywordSolution
	KeywordExchange
	KeywordGasPhase
	KeywordKinetics
	KeywordPPAssemblage
	KeywordSSAssemblage
	KeywordSurface
	KeywordMix
	KeywordReaction
	KeywordTemperature
)

var rawKeywords = map[string]Keyword{
	"END":                      KeywordEnd,
	"SOLUTION_RAW":             KeywordSolution,
	"EXCHANGE_RAW":             KeywordExchange,
	"GAS_PHASE_RAW":            KeywordGasPhase,
	"KINETICS_RAW":             KeywordKinetics,
	"EQUILIBRIUM_PHASES_RAW":   KeywordPPAssemblage,
	"SOLID_SOLUTIONS_RAW":      KeywordSSAssemblage,
	"SURFACE_RAW":              KeywordSurface,
	"MIX_RAW":                  KeywordMix,
	"REACTION_RAW":             KeywordReaction,
	"REACTION_TEMPERATURE_RAW": KeywordTemperature,
}

// inputKeywords are recognized as block starts but have no raw reader.
var inputKeywords = keywordSet(
	"ADVECTION", "CALCULATE_VALUES", "DATABASE", "DUMP", "EQUILIBRIUM_PHASES",
	"EXCHANGE", "EXCHANGE_MASTER_SPECIES", "EXCHANGE_SPECIES", "GAS_PHASE",
	"INCREMENTAL_REACTIONS", "INVERSE_MODELING", "ISOTOPES", "KINETICS", "KNOBS",
	"MIX", "PHASES", "PITZER", "PRINT", "RATES", "REACTION", "REACTION_TEMPERATURE",
	"SAVE", "SELECTED_OUTPUT", "SOLID_SOLUTIONS", "SOLUTION", "SOLUTION_MASTER_SPECIES",
	"SOLUTION_SPECIES", "SOLUTION_SPREAD", "SURFACE", "SURFACE_MASTER_SPECIES",
	"SURFACE_SPECIES", "TITLE", "TRANSPORT", "USE", "USER_PRINT", "USER_PUNCH",
)

func keywordSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// String returns the raw keyword text written at the head of a block.
func (k Keyword) String() string {
	for name, kw := range rawKeywords {
		if kw == k {
			return name
		}
	}
	switch k {
	case KeywordEOF:
		return "EOF"
	default:
		return "NONE"
	}
}

// lookupKeyword classifies the first token of a line. ok is false when the token is
// not a keyword at all; kw is KeywordNone for input keywords without a raw reader.
func lookupKeyword(token string) (kw Keyword, ok bool) {
	upper := strings.ToUpper(token)
	if kw, ok := rawKeywords[upper]; ok {
		return kw, true
	}
	if _, ok := inputKeywords[upper]; ok {
		return KeywordNone, true
	}
	return KeywordNone, false
}
