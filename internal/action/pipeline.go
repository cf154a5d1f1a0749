package action

import (
	"fmt"
	"strings"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/metrics"
	"github.com/and0p/chaos-core/internal/world"
)

// Broadcaster is the single thing Execute needs from Game: somewhere to
// hand a completed action for fan-out. Defined here, not imported from
// package game, so action has no dependency on it — game depends on
// action, not the reverse (spec.md §9's indirection strategy, same shape
// as component.Container's registry-mediated resolution).
type Broadcaster interface {
	QueueForBroadcast(a *Action)
}

// worldOf resolves the world an entity is currently published into, if
// any.
func worldOf(registry *component.Registry, e *entity.Entity) (*world.World, bool) {
	if e == nil || e.WorldID == "" {
		return nil, false
	}
	c, ok := registry.Resolve(container.Ref{Kind: container.KindWorld, ID: e.WorldID})
	if !ok {
		return nil, false
	}
	w, ok := c.(*world.World)
	return w, ok
}

// addListener appends c to the listener list if it isn't already present, by Ref.
func (a *Action) addListener(c component.Container) {
	if c == nil {
		return
	}
	ref := c.Ref()
	if _, dup := a.listenerIDs[ref]; dup {
		return
	}
	a.listenerIDs[ref] = struct{}{}
	a.listeners = append(a.listeners, c)
}

// collectListeners builds the deterministic, deduplicated listener order
// described in spec.md §4.3.
func (a *Action) collectListeners(registry *component.Registry, listenDistance int) {
	a.listeners = nil
	a.listenerIDs = make(map[container.Ref]struct{})

	// 1. Caster, nearby entities (excluding caster/target), caster's world.
	if a.caster != nil {
		a.addListener(component.Container(a.caster))
		if w, ok := worldOf(registry, a.caster); ok {
			for _, ref := range w.EntitiesWithin(a.caster.Position, listenDistance) {
				if a.isCasterOrTarget(ref) {
					continue
				}
				if c, ok := registry.Resolve(ref); ok {
					a.addListener(c)
				}
			}
			a.addListener(component.Container(w))
		}
	}

	// 2. The game.
	if g, ok := registry.Resolve(container.GameRef); ok {
		a.addListener(g)
	}

	// 3. If target != caster: target's world, nearby entities, target.
	if a.target != nil && !a.targetIsCaster() {
		if w, ok := worldOf(registry, a.target); ok {
			a.addListener(component.Container(w))
			for _, ref := range w.EntitiesWithin(a.target.Position, listenDistance) {
				if c, ok := registry.Resolve(ref); ok {
					a.addListener(c)
				}
			}
		}
		a.addListener(component.Container(a.target))
	}

	// 4. Each additional listen point: its world, then nearby entities.
	for _, p := range a.additionalListenPoints {
		if p.World == nil {
			continue
		}
		a.addListener(component.Container(p.World))
		for _, ref := range p.World.EntitiesWithin(p.Position, listenDistance) {
			if c, ok := registry.Resolve(ref); ok {
				a.addListener(c)
			}
		}
	}

	// 5. Additional listeners, verbatim.
	for _, c := range a.additionalListeners {
		a.addListener(c)
	}
}

func (a *Action) isCasterOrTarget(ref container.Ref) bool {
	if a.caster != nil && ref == a.caster.Ref() {
		return true
	}
	if a.target != nil && ref == a.target.Ref() {
		return true
	}
	return false
}

func (a *Action) targetIsCaster() bool {
	return a.caster != nil && a.target != nil && a.caster.Ref() == a.target.Ref()
}

// sense runs step 4: each listener's Sense is recorded, then the caster is
// inserted last with an observed-self marker.
func (a *Action) sense() {
	for _, l := range a.listeners {
		a.sensors[refID(l.Ref())] = l.Sense(a)
	}
	if a.caster != nil {
		a.sensors[refID(a.caster.Ref())] = component.SenseResult{Observed: true}
	}
}

func refID(r container.Ref) string { return r.Kind.String() + ":" + r.ID }

// modify runs step 5: every listener's Modify runs in collection order.
func (a *Action) modify() {
	for _, l := range a.listeners {
		l.Modify(a)
	}
}

// react runs step 11: every listener's React runs in collection order.
func (a *Action) react() {
	for _, l := range a.listeners {
		l.React(a)
	}
}

// execute is the shared pipeline body; v is the concrete variant so its
// Initialize/Apply/Teardown hooks can be invoked at the right points
// (spec.md §4.3 execute(force)).
func (a *Action) execute(v Variant, registry *component.Registry, b Broadcaster, listenDistance int, force bool) bool {
	v.Initialize()

	// Unpublished fast path: target exists, is not published, and this is
	// not itself a publish action. Components still get to veto attachment
	// before the entity becomes visible.
	if a.target != nil && !a.target.Published {
		if _, isPublish := v.(*PublishEntityAction); !isPublish {
			a.target.Modify(a)
			a.decidePermission()
			if !a.permitted {
				metrics.PermissionDenials.Inc()
			}
			if a.permitted || force {
				a.applied = v.Apply()
			}
			a.target.React(a)
			a.recordOutcome(v)
			return a.applied
		}
	}

	a.collectListeners(registry, listenDistance)
	a.sense()
	a.modify()
	a.decidePermission()
	if !a.permitted {
		metrics.PermissionDenials.Inc()
	}

	if (a.permitted && (a.feasibilityCallback == nil || a.feasibilityCallback(a))) || force {
		a.applied = v.Apply()
	}

	if b != nil {
		b.QueueForBroadcast(a)
	}
	v.Teardown()

	a.react()
	a.recordOutcome(v)
	return a.applied
}

// recordOutcome updates the applied/skipped counter and traces the
// pipeline's decision for this action, named by v's concrete variant type.
func (a *Action) recordOutcome(v Variant) {
	if a.applied {
		metrics.ActionsExecuted.WithLabelValues("applied").Inc()
	} else {
		metrics.ActionsExecuted.WithLabelValues("skipped").Inc()
	}
	logging.LogActionExecuted(a.id, variantKind(v), a.permitted, a.applied, a.nested)
}

// variantKind strips the package qualifier off v's dynamic type name (e.g.
// "*action.MoveAction" -> "MoveAction") for a readable trace line.
func variantKind(v Variant) string {
	name := fmt.Sprintf("%T", v)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Execute is the entry point for a freshly-constructed, top-level action
// (nested == 0).
func Execute(v Variant, registry *component.Registry, b Broadcaster, listenDistance int, force bool) bool {
	return v.baseAction().execute(v, registry, b, listenDistance, force)
}

// Recurse runs v as a reaction triggered by a (react() / counter() in
// spec.md §4.3 step 11), with v's nesting set to a.nested + 1. Fails
// silently past the nesting cap so a cyclic aura can't recurse forever.
func (a *Action) Recurse(v Variant, registry *component.Registry, b Broadcaster, listenDistance int) bool {
	if a.nested+1 >= maxNested {
		return false
	}
	v.baseAction().nested = a.nested + 1
	metrics.ReactionDepth.Observe(float64(v.baseAction().nested))
	return v.baseAction().execute(v, registry, b, listenDistance, false)
}

// baseAction lets the pipeline reach into a variant's embedded Action
// without every variant re-exporting it.
func (a *Action) baseAction() *Action { return a }
