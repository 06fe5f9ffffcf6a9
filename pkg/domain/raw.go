package domain

import "chemstate/pkg/rawcodec"

var rawReaders = map[rawcodec.Keyword]func(*rawcodec.Parser) Entity{
	rawcodec.KeywordSolution:     func(p *rawcodec.Parser) Entity { return ReadSolutionRaw(p) },
	rawcodec.KeywordExchange:     func(p *rawcodec.Parser) Entity { return ReadExchangeRaw(p) },
	rawcodec.KeywordGasPhase:     func(p *rawcodec.Parser) Entity { return ReadGasPhaseRaw(p) },
	rawcodec.KeywordKinetics:     func(p *rawcodec.Parser) Entity { return ReadKineticsRaw(p) },
	rawcodec.KeywordPPAssemblage: func(p *rawcodec.Parser) Entity { return ReadPPAssemblageRaw(p) },
	rawcodec.KeywordSSAssemblage: func(p *rawcodec.Parser) Entity { return ReadSSAssemblageRaw(p) },
	rawcodec.KeywordSurface:      func(p *rawcodec.Parser) Entity { return ReadSurfaceRaw(p) },
	rawcodec.KeywordMix:          func(p *rawcodec.Parser) Entity { return ReadMixRaw(p) },
	rawcodec.KeywordReaction:     func(p *rawcodec.Parser) Entity { return ReadReactionRaw(p) },
	rawcodec.KeywordTemperature:  func(p *rawcodec.Parser) Entity { return ReadTemperatureRaw(p) },
}

// ReadEntityRaw reads the block whose keyword line is current with the reader for
// kw. It reports false, consuming nothing, when kw has no reader.
func ReadEntityRaw(kw rawcodec.Keyword, p *rawcodec.Parser) (Entity, bool) {
	read, ok := rawReaders[kw]
	if !ok {
		return nil, false
	}
	return read(p), true
}
