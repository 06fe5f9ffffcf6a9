package domain

import "sort"

// NameDouble maps a component name to a numeric value (moles, log activity,
// coefficient). A missing name reads as zero.
type NameDouble map[string]float64

// Get returns the value for name or 0 when absent.
func (nd NameDouble) Get(name string) float64 {
	return nd[name]
}

// Clone returns an independent copy; a nil map clones to an empty one.
func (nd NameDouble) Clone() NameDouble {
	out := make(NameDouble, len(nd))
	for k, v := range nd {
		out[k] = v
	}
	return out
}

// Names returns the component names in ascending order.
func (nd NameDouble) Names() []string {
	names := make([]string, 0, len(nd))
	for k := range nd {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddScaled adds f*other[k] to every component, creating missing ones.
func (nd NameDouble) AddScaled(other NameDouble, f float64) {
	for k, v := range other {
		nd[k] += v * f
	}
}

// Blend sets every component in the union to (w1*nd[k] + w2*other[k]).
func (nd NameDouble) Blend(other NameDouble, w1, w2 float64) {
	for k, v := range nd {
		nd[k] = v * w1
	}
	for k, v := range other {
		nd[k] += v * w2
	}
}

// Scale multiplies every component by f.
func (nd NameDouble) Scale(f float64) {
	for k, v := range nd {
		nd[k] = v * f
	}
}

func ensure(nd NameDouble) NameDouble {
	if nd == nil {
		return NameDouble{}
	}
	return nd
}
