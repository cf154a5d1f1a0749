// Package property implements per-entity named stats and their ordered
// modification chains.
package property

// ModificationKind distinguishes how a Modification combines with a
// property's base value.
type ModificationKind int

const (
	Adjustment ModificationKind = iota // current +/- amount
	Multiplier                         // current * amount
	Absolute                           // current = amount
)

// Modification is one entry in a Property's ordered modification chain.
type Modification struct {
	Kind   ModificationKind
	Amount float64
	Source string // component or action id that applied this, for diagnostics
}

// Apply folds the modification onto current.
func (m Modification) Apply(current float64) float64 {
	switch m.Kind {
	case Adjustment:
		return current + m.Amount
	case Multiplier:
		return current * m.Amount
	case Absolute:
		return m.Amount
	default:
		return current
	}
}

// Property is a named numeric stat on an entity, identified by
// (EntityID, Name).
type Property struct {
	EntityID string
	Name     string
	Base     float64
	Min      float64
	Max      float64
	Mods     []Modification
}

// New creates a property with no modifications.
func New(entityID, name string, base, min, max float64) *Property {
	return &Property{EntityID: entityID, Name: name, Base: base, Min: min, Max: max}
}

// AddModification appends a modification to the chain.
func (p *Property) AddModification(m Modification) {
	p.Mods = append(p.Mods, m)
}

// Current applies every modification in list order to Base and clamps the
// result to [Min, Max].
func (p *Property) Current() float64 {
	v := p.Base
	for _, m := range p.Mods {
		v = m.Apply(v)
	}
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	return v
}

// SetBase sets the unmodified base value (e.g. from a direct
// ModifyPropertyAction), leaving the modification chain intact.
func (p *Property) SetBase(v float64) {
	p.Base = v
}

// Identity returns the (EntityID, Name) pair that identifies this property.
func (p *Property) Identity() (string, string) {
	return p.EntityID, p.Name
}
