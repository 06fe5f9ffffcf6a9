package core

import "chemstate/pkg/domain"

// SolutionLookup finds a solution by id.
type SolutionLookup func(id int) (*domain.Solution, bool)

// WeightSplit chooses the intensive and extensive weights for one mix entry.
type WeightSplit func(id int, fraction float64) (intensive, extensive float64)

// SolutionMap adapts a plain map to a SolutionLookup.
func SolutionMap(solutions map[int]domain.Solution) SolutionLookup {
	return func(id int) (*domain.Solution, bool) {
		s, ok := solutions[id]
		if !ok {
			return nil, false
		}
		return s.Clone(), true
	}
}

// ResolveMix blends the solutions mix references, using each fraction as both the
// intensive and the extensive weight.
func ResolveMix(mix domain.Mix, lookup SolutionLookup, policy domain.CombinePolicy) (*domain.Solution, error) {
	return ResolveMixWeighted(mix, lookup, policy, nil)
}

// ResolveMixWeighted starts from a zero solution and adds every referenced solution
// in ascending id order. A nil split uses the fraction for both weights. When any
// referenced id is missing it returns a zero solution and ErrMissingReference.
func ResolveMixWeighted(mix domain.Mix, lookup SolutionLookup, policy domain.CombinePolicy, split WeightSplit) (*domain.Solution, error) {
	fractions := mix.Fractions()
	parts := make([]*domain.Solution, len(fractions))
	for i, f := range fractions {
		s, ok := lookup(f.ID)
		if !ok {
			return domain.ZeroSolution(), ErrMissingReference{MixID: mix.UserID(), ID: f.ID}
		}
		parts[i] = s
	}
	acc := domain.ZeroSolution()
	for i, f := range fractions {
		intensive, extensive := f.Fraction, f.Fraction
		if split != nil {
			intensive, extensive = split(f.ID, f.Fraction)
		}
		acc.Add(*parts[i], intensive, extensive, policy)
	}
	acc.SetUserID(mix.UserID())
	acc.Description = mix.Description
	return acc, nil
}

func (b *StorageBin) lookupSolution(id int) (*domain.Solution, bool) {
	return b.solutions.get(id)
}

// ResolveMix resolves mix id against the bin's solutions.
func (b *StorageBin) ResolveMix(mixID int, policy domain.CombinePolicy) (*domain.Solution, error) {
	mix, err := b.Mix(mixID)
	if err != nil {
		return nil, err
	}
	return ResolveMix(*mix, b.lookupSolution, policy)
}

// MaterializeMix resolves mix mixID and stores the result as solution targetID.
func (b *StorageBin) MaterializeMix(mixID, targetID int, policy domain.CombinePolicy) (*domain.Solution, error) {
	s, err := b.ResolveMix(mixID, policy)
	if err != nil {
		return nil, err
	}
	s.SetUserID(targetID)
	b.PutSolution(*s)
	return s, nil
}
