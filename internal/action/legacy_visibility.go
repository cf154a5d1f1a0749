package action

// LegacyVisibility is the older visibility lattice some dispatch paths
// still check directly instead of going through the sensed-entity rollup
// (spec.md §4.7): NotVisible < CasterUnknown, TargetUnknown < Visible,
// with CasterUnknown ⊔ TargetUnknown = Visible. Defer means "ask the next
// level up".
type LegacyVisibility int

const (
	NotVisible LegacyVisibility = iota
	CasterUnknown
	TargetUnknown
	Visible
	Defer // sentinel: this level has no opinion, escalate
)

// Join computes the lattice join (least upper bound) of two visibility
// values, used when combining independent signals about the same action.
func (v LegacyVisibility) Join(other LegacyVisibility) LegacyVisibility {
	if v == Defer {
		return other
	}
	if other == Defer {
		return v
	}
	if (v == CasterUnknown && other == TargetUnknown) || (v == TargetUnknown && other == CasterUnknown) {
		return Visible
	}
	if v > other {
		return v
	}
	return other
}

// EscalationLevel is one rung of the team -> player -> entity escalation
// chain: Check reports this level's opinion (or Defer to ask the next
// level).
type EscalationLevel func() LegacyVisibility

// Escalate evaluates levels from most to least specific, taking the
// pairwise Join of every non-Defer answer — a Defer at any level simply
// drops out rather than short-circuiting the rest, since Join treats
// Defer as the identity.
func Escalate(levels ...EscalationLevel) LegacyVisibility {
	result := Defer
	for _, level := range levels {
		result = result.Join(level())
	}
	return result
}
