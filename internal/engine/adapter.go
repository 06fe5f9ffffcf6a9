package engine

import (
	"fmt"

	"chemstate/pkg/domain"
)

// Adapter exposes a State through the record types. Every value crossing the
// adapter is converted, so callers never share memory with the engine arrays.
type Adapter struct {
	state *State
}

// NewAdapter wraps state. A nil state gets a fresh one.
func NewAdapter(state *State) *Adapter {
	if state == nil {
		state = NewState()
	}
	return &Adapter{state: state}
}

// State returns the wrapped engine state.
func (a *Adapter) State() *State { return a.state }

// Lock acquires the engine state.
func (a *Adapter) Lock() { a.state.Lock() }

// Unlock releases the engine state.
func (a *Adapter) Unlock() { a.state.Unlock() }

func convertAll[T record](t *Table[T], conv func(T) domain.Entity) []domain.Entity {
	out := make([]domain.Entity, 0, t.Len())
	for _, item := range t.Items() {
		out = append(out, conv(item))
	}
	return out
}

func find[T record](t *Table[T], id int, conv func(T) domain.Entity) (domain.Entity, bool) {
	item, ok := t.Find(id)
	if !ok {
		return nil, false
	}
	return conv(item), true
}

// Entities converts the active array of kind in array order.
func (a *Adapter) Entities(kind domain.Kind) []domain.Entity {
	s := a.state
	switch kind {
	case domain.KindSolution:
		return convertAll(&s.Solutions, func(n Solution) domain.Entity { return SolutionFromNative(n) })
	case domain.KindExchange:
		return convertAll(&s.Exchangers, func(n Exchange) domain.Entity { return ExchangeFromNative(n) })
	case domain.KindGasPhase:
		return convertAll(&s.GasPhases, func(n GasPhase) domain.Entity { return GasPhaseFromNative(n) })
	case domain.KindKinetics:
		return convertAll(&s.Kinetics, func(n Kinetics) domain.Entity { return KineticsFromNative(n) })
	case domain.KindPPAssemblage:
		return convertAll(&s.PPAssemblages, func(n PPAssemblage) domain.Entity { return PPAssemblageFromNative(n) })
	case domain.KindSSAssemblage:
		return convertAll(&s.SSAssemblages, func(n SSAssemblage) domain.Entity { return SSAssemblageFromNative(n) })
	case domain.KindSurface:
		return convertAll(&s.Surfaces, func(n Surface) domain.Entity { return SurfaceFromNative(n) })
	case domain.KindMix:
		return convertAll(&s.Mixes, func(n Mix) domain.Entity { return MixFromNative(n) })
	case domain.KindReaction:
		return convertAll(&s.Reactions, func(n Reaction) domain.Entity { return ReactionFromNative(n) })
	case domain.KindTemperature:
		return convertAll(&s.Temperatures, func(n Temperature) domain.Entity { return TemperatureFromNative(n) })
	}
	return nil
}

// Find binary searches the array of kind for id.
func (a *Adapter) Find(kind domain.Kind, id int) (domain.Entity, bool) {
	s := a.state
	switch kind {
	case domain.KindSolution:
		return find(&s.Solutions, id, func(n Solution) domain.Entity { return SolutionFromNative(n) })
	case domain.KindExchange:
		return find(&s.Exchangers, id, func(n Exchange) domain.Entity { return ExchangeFromNative(n) })
	case domain.KindGasPhase:
		return find(&s.GasPhases, id, func(n GasPhase) domain.Entity { return GasPhaseFromNative(n) })
	case domain.KindKinetics:
		return find(&s.Kinetics, id, func(n Kinetics) domain.Entity { return KineticsFromNative(n) })
	case domain.KindPPAssemblage:
		return find(&s.PPAssemblages, id, func(n PPAssemblage) domain.Entity { return PPAssemblageFromNative(n) })
	case domain.KindSSAssemblage:
		return find(&s.SSAssemblages, id, func(n SSAssemblage) domain.Entity { return SSAssemblageFromNative(n) })
	case domain.KindSurface:
		return find(&s.Surfaces, id, func(n Surface) domain.Entity { return SurfaceFromNative(n) })
	case domain.KindMix:
		return find(&s.Mixes, id, func(n Mix) domain.Entity { return MixFromNative(n) })
	case domain.KindReaction:
		return find(&s.Reactions, id, func(n Reaction) domain.Entity { return ReactionFromNative(n) })
	case domain.KindTemperature:
		return find(&s.Temperatures, id, func(n Temperature) domain.Entity { return TemperatureFromNative(n) })
	}
	return nil, false
}

// Stage converts e into the staging slot of its kind and increments that kind's
// instance counter.
func (a *Adapter) Stage(e domain.Entity) error {
	s := a.state
	switch v := e.(type) {
	case *domain.Solution:
		s.Solutions.Stage(SolutionToNative(*v))
	case *domain.Exchange:
		s.Exchangers.Stage(ExchangeToNative(*v))
	case *domain.GasPhase:
		s.GasPhases.Stage(GasPhaseToNative(*v))
	case *domain.Kinetics:
		s.Kinetics.Stage(KineticsToNative(*v))
	case *domain.PPAssemblage:
		s.PPAssemblages.Stage(PPAssemblageToNative(*v))
	case *domain.SSAssemblage:
		s.SSAssemblages.Stage(SSAssemblageToNative(*v))
	case *domain.Surface:
		s.Surfaces.Stage(SurfaceToNative(*v))
	case *domain.Mix:
		s.Mixes.Stage(MixToNative(*v))
	case *domain.Reaction:
		s.Reactions.Stage(ReactionToNative(*v))
	case *domain.Temperature:
		s.Temperatures.Stage(TemperatureToNative(*v))
	default:
		return fmt.Errorf("engine: cannot stage %T", e)
	}
	return nil
}

// Load inserts e into the sorted array of its kind. It is how records computed
// outside the engine are seeded into it.
func (a *Adapter) Load(e domain.Entity) error {
	s := a.state
	switch v := e.(type) {
	case *domain.Solution:
		s.Solutions.Insert(SolutionToNative(*v))
	case *domain.Exchange:
		s.Exchangers.Insert(ExchangeToNative(*v))
	case *domain.GasPhase:
		s.GasPhases.Insert(GasPhaseToNative(*v))
	case *domain.Kinetics:
		s.Kinetics.Insert(KineticsToNative(*v))
	case *domain.PPAssemblage:
		s.PPAssemblages.Insert(PPAssemblageToNative(*v))
	case *domain.SSAssemblage:
		s.SSAssemblages.Insert(SSAssemblageToNative(*v))
	case *domain.Surface:
		s.Surfaces.Insert(SurfaceToNative(*v))
	case *domain.Mix:
		s.Mixes.Insert(MixToNative(*v))
	case *domain.Reaction:
		s.Reactions.Insert(ReactionToNative(*v))
	case *domain.Temperature:
		s.Temperatures.Insert(TemperatureToNative(*v))
	default:
		return fmt.Errorf("engine: cannot load %T", e)
	}
	return nil
}
