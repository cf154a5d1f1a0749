// Package action implements the deterministic action pipeline: the single
// Action record every state change flows through, its fixed-order
// execute(), and the concrete variants content and core systems use to
// mutate entities, worlds, players and teams.
package action

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/nestedmap"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/world"
)

// maxNested bounds reaction recursion (spec.md §4.3 step 11): reactions
// enqueued at nested >= this depth fail silently rather than recursing
// further, so a cyclic aura can't loop the process forever.
const maxNested = 10

// Permission is one priority-keyed vote on whether an action may apply.
type Permission struct {
	Permitted bool
	By        container.Ref
	HasBy     bool
	Using     string // component id, if the vote came from a specific component
	Message   string
}

// ListenPoint is an extra (world, position) pair whose nearby entities
// should be collected as listeners, alongside the caster/target's own
// positions (spec.md §4.3's additional_listen_points — used e.g. by
// PublishEntityAction so not-yet-published entities still get wired up).
type ListenPoint struct {
	World    *world.World
	Position vec.Vector
}

// VisibilityChangeKind distinguishes a gain from a loss in an action's
// visibility_changes field.
type VisibilityChangeKind int

const (
	VisibilityAdd VisibilityChangeKind = iota
	VisibilityRemove
)

// VisibilityChange pairs a gain/loss kind with the rollup deltas it
// produced, for Game.queue_for_broadcast to translate into publish/
// unpublish follow-ups (spec.md §4.6 step 1).
type VisibilityChange struct {
	Kind    VisibilityChangeKind
	Changes nestedmap.Changes
}

// BroadcastType controls how Game.queue_for_broadcast fans an executed
// action out to players (spec.md §4.6). Variants default to SenseGated;
// content may call SetBroadcastType to widen or suppress delivery.
type BroadcastType int

const (
	// BroadcastSenseGated delivers to each player/team whose owned or
	// sensed entities include the caster or target. The default.
	BroadcastSenseGated BroadcastType = iota
	// BroadcastNone suppresses delivery entirely.
	BroadcastNone
	// BroadcastDirect suppresses the generic fan-out; the variant is
	// responsible for delivering the message itself (e.g. a targeted
	// whisper) before queue_for_broadcast runs.
	BroadcastDirect
	// BroadcastFull delivers to every connected player regardless of
	// sense.
	BroadcastFull
)

// Variant is the hook set every concrete action type supplies. A variant
// embeds *Action and is itself passed to Execute so callers construct e.g.
// &MoveAction{Action: NewAction(...), ...}.
type Variant interface {
	Initialize()
	Apply() bool
	Teardown()
	baseAction() *Action
}

// Action is the base record common to every variant (spec.md §4.3). Fields
// are unexported with accessor methods so the component.Action method
// names (Caster, Target, Using, Tags, Public, Nested) don't collide with
// data fields of the same name.
type Action struct {
	caster *entity.Entity
	target *entity.Entity

	usingContainer    container.Ref
	hasUsingContainer bool
	usingComponentID  string

	tags        map[string]struct{}
	breadcrumbs map[string]struct{}

	public   bool
	absolute bool

	permissions map[int]Permission

	permitted          bool
	decidingPermission *Permission

	nested int

	movementAction bool

	anticipators map[string]struct{}

	sensors map[string]component.SenseResult

	visibilityChanges *VisibilityChange

	listeners   []component.Container
	listenerIDs map[container.Ref]struct{}

	additionalListenPoints []ListenPoint
	additionalListeners    []component.Container

	feasibilityCallback func(*Action) bool

	applied bool

	broadcastType BroadcastType

	id string
}

var actionSeq int

func nextActionID() string {
	actionSeq++
	return "a" + itoa(actionSeq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// NewAction creates a base action; variants wrap it.
func NewAction(caster, target *entity.Entity, public bool) *Action {
	return &Action{
		caster:       caster,
		target:       target,
		public:       public,
		tags:         make(map[string]struct{}),
		breadcrumbs:  make(map[string]struct{}),
		permissions:  make(map[int]Permission),
		anticipators: make(map[string]struct{}),
		sensors:      make(map[string]component.SenseResult),
		listenerIDs:  make(map[container.Ref]struct{}),
		id:           nextActionID(),
	}
}

// --- component.Action interface (what Catalog.Sense/Modify/React need) ---

func (a *Action) ID() string                { return a.id }
func (a *Action) Tags() map[string]struct{} { return a.tags }
func (a *Action) Public() bool              { return a.public }
func (a *Action) Nested() int               { return a.nested }

func (a *Action) Caster() (container.Ref, bool) {
	if a.caster == nil {
		return container.Ref{}, false
	}
	return a.caster.Ref(), true
}

func (a *Action) Target() (container.Ref, bool) {
	if a.target == nil {
		return container.Ref{}, false
	}
	return a.target.Ref(), true
}

func (a *Action) Using() (container.Ref, bool) {
	return a.usingContainer, a.hasUsingContainer
}

// Permit records an allow vote at priority. A deny already recorded at the
// same priority is sticky and is not overridden (spec.md §4.3 step 6).
func (a *Action) Permit(priority int, by container.Ref, message string) {
	if existing, ok := a.permissions[priority]; ok && !existing.Permitted {
		return
	}
	a.permissions[priority] = Permission{Permitted: true, By: by, HasBy: true, Message: message}
}

// Deny records a deny vote at priority, always overwriting whatever was
// there (a later deny replaces an earlier allow at the same priority).
func (a *Action) Deny(priority int, by container.Ref, message string) {
	a.permissions[priority] = Permission{Permitted: false, By: by, HasBy: true, Message: message}
}

// CasterEntity, TargetEntity give variants typed access to the entities
// behind the generic Caster()/Target() refs.
func (a *Action) CasterEntity() *entity.Entity { return a.caster }
func (a *Action) TargetEntity() *entity.Entity { return a.target }

// SetUsingContainer records which container (entity, world, ...) the using
// reference names, and optionally which one of its components.
func (a *Action) SetUsingContainer(ref container.Ref, componentID string) {
	a.usingContainer = ref
	a.hasUsingContainer = true
	a.usingComponentID = componentID
}

// UsingComponentID returns the component id named by Using, if any.
func (a *Action) UsingComponentID() string { return a.usingComponentID }

func (a *Action) AddTag(tag string)        { a.tags[tag] = struct{}{} }
func (a *Action) HasTag(tag string) bool   { _, ok := a.tags[tag]; return ok }
func (a *Action) AddBreadcrumb(b string)   { a.breadcrumbs[b] = struct{}{} }
func (a *Action) HasBreadcrumb(b string) bool {
	_, ok := a.breadcrumbs[b]
	return ok
}

// Breadcrumbs returns the full breadcrumb set, for serialization.
func (a *Action) Breadcrumbs() []string {
	out := make([]string, 0, len(a.breadcrumbs))
	for b := range a.breadcrumbs {
		out = append(out, b)
	}
	return out
}

func (a *Action) SetAbsolute(v bool) { a.absolute = v }
func (a *Action) Absolute() bool     { return a.absolute }

func (a *Action) SetMovementAction(v bool) { a.movementAction = v }
func (a *Action) IsMovementAction() bool   { return a.movementAction }

func (a *Action) AddAnticipator(id string) { a.anticipators[id] = struct{}{} }

func (a *Action) SetFeasibilityCallback(f func(*Action) bool) { a.feasibilityCallback = f }

func (a *Action) AddAdditionalListenPoint(p ListenPoint) {
	a.additionalListenPoints = append(a.additionalListenPoints, p)
}

func (a *Action) AddAdditionalListener(c component.Container) {
	a.additionalListeners = append(a.additionalListeners, c)
}

// SetVisibilityChanges records the rollup deltas produced by this action,
// for Game.queue_for_broadcast to translate into publish/unpublish
// follow-ups (spec.md §4.6 step 1).
func (a *Action) SetVisibilityChanges(kind VisibilityChangeKind, changes nestedmap.Changes) {
	a.visibilityChanges = &VisibilityChange{Kind: kind, Changes: changes}
}

// VisibilityChanges returns the recorded visibility delta, if any.
func (a *Action) VisibilityChanges() (VisibilityChange, bool) {
	if a.visibilityChanges == nil {
		return VisibilityChange{}, false
	}
	return *a.visibilityChanges, true
}

// Applied reports whether apply() ran and reported a state change.
func (a *Action) Applied() bool { return a.applied }

// SetBroadcastType overrides the default sense-gated fan-out rule.
func (a *Action) SetBroadcastType(t BroadcastType) { a.broadcastType = t }

// BroadcastType returns the fan-out rule queue_for_broadcast should apply.
func (a *Action) BroadcastType() BroadcastType { return a.broadcastType }

// Permitted reports the last-computed permission decision.
func (a *Action) Permitted() bool { return a.permitted }

// DecidingPermission returns the Permission that decided the outcome, if
// decidePermission has run.
func (a *Action) DecidingPermission() (Permission, bool) {
	if a.decidingPermission == nil {
		return Permission{}, false
	}
	return *a.decidingPermission, true
}

func (a *Action) decidePermission() {
	if len(a.permissions) == 0 {
		// Default key 0 = allow (spec.md §4.3 "Permission").
		a.permitted = true
		d := Permission{Permitted: true}
		a.decidingPermission = &d
		return
	}
	highest := 0
	first := true
	for p := range a.permissions {
		if first || p > highest {
			highest = p
			first = false
		}
	}
	perm := a.permissions[highest]
	a.permitted = perm.Permitted
	decided := perm
	a.decidingPermission = &decided
}
