package action

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/and0p/chaos-core/internal/property"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/visibility"
	"github.com/and0p/chaos-core/internal/world"
)

// noopLifecycle gives a variant empty Initialize/Teardown hooks so it only
// needs to implement Apply.
type noopLifecycle struct{}

func (noopLifecycle) Initialize() {}
func (noopLifecycle) Teardown()   {}

// --- AttachComponentAction ---------------------------------------------

// AttachComponentAction attaches Component to the target (spec.md §4.4).
type AttachComponentAction struct {
	*Action
	noopLifecycle
	Component *component.Component
}

func NewAttachComponentAction(target *entity.Entity, c *component.Component) *AttachComponentAction {
	return &AttachComponentAction{Action: NewAction(nil, target, true), Component: c}
}

func (a *AttachComponentAction) Apply() bool {
	return a.TargetEntity().Catalog().AddComponent(a.Component) == nil
}

// --- PublishEntityAction -------------------------------------------------

const publishPreloadRadius = 1

// PublishEntityAction publishes an entity into a world at a position
// (spec.md §4.4). additional_listen_points is seeded with (World,
// Position) in Initialize so not-yet-published entities still collect the
// listeners they'll need.
type PublishEntityAction struct {
	*Action
	World    *world.World
	Position vec.Vector
}

func NewPublishEntityAction(target *entity.Entity, w *world.World, pos vec.Vector) *PublishEntityAction {
	a := &PublishEntityAction{Action: NewAction(nil, target, true), World: w, Position: pos}
	a.SetMovementAction(true)
	return a
}

func (a *PublishEntityAction) Initialize() {
	a.World.AddView(a.TargetEntity().ID(), a.Position.ToChunkSpace(), publishPreloadRadius)
	a.AddAdditionalListenPoint(ListenPoint{World: a.World, Position: a.Position})
}

func (a *PublishEntityAction) Apply() bool {
	e := a.TargetEntity()
	e.Published = true
	e.WorldID = a.World.ID()
	e.Position = a.Position
	a.World.AddPublished(e.ID())
	a.World.IndexEntity(e.ID(), a.Position)
	e.Catalog().SubscribeToAll()
	return true
}

func (a *PublishEntityAction) Teardown() {
	if !a.TargetEntity().Active {
		a.World.RemoveView(a.TargetEntity().ID())
	}
}

// --- UnpublishEntityAction -------------------------------------------------

// UnpublishEntityAction reverses PublishEntityAction.
type UnpublishEntityAction struct {
	*Action
	noopLifecycle
	World *world.World
}

func NewUnpublishEntityAction(target *entity.Entity, w *world.World) *UnpublishEntityAction {
	a := &UnpublishEntityAction{Action: NewAction(nil, target, true), World: w}
	a.SetMovementAction(true)
	return a
}

func (a *UnpublishEntityAction) Apply() bool {
	e := a.TargetEntity()
	e.Catalog().UnsubscribeFromAll()
	a.World.RemovePublished(e.ID())
	a.World.RemoveEntity(e.ID())
	a.World.RemoveView(e.ID())
	e.Published = false
	e.WorldID = ""
	return true
}

// --- ChangeWorldAction -------------------------------------------------

// ChangeWorldAction moves a published entity from one world to another.
type ChangeWorldAction struct {
	*Action
	noopLifecycle
	From, To *world.World
	Position vec.Vector
}

func NewChangeWorldAction(target *entity.Entity, from, to *world.World, pos vec.Vector) *ChangeWorldAction {
	a := &ChangeWorldAction{Action: NewAction(nil, target, true), From: from, To: to, Position: pos}
	a.SetMovementAction(true)
	return a
}

func (a *ChangeWorldAction) Apply() bool {
	e := a.TargetEntity()
	e.Catalog().UnsubscribeFromAll()
	a.From.RemovePublished(e.ID())
	a.From.RemoveEntity(e.ID())
	a.From.RemoveView(e.ID())

	e.WorldID = a.To.ID()
	e.Position = a.Position
	a.To.AddPublished(e.ID())
	a.To.IndexEntity(e.ID(), a.Position)
	a.To.AddView(e.ID(), a.Position.ToChunkSpace(), publishPreloadRadius)
	e.Catalog().SubscribeToAll()
	return true
}

// --- MoveAction / RelativeMoveAction -------------------------------------------------

// MoveAction sets an entity's absolute position within its current world,
// re-indexing it and updating every owning player's view scope when the
// chunk changes (spec.md §4.4).
type MoveAction struct {
	*Action
	noopLifecycle
	World       *world.World
	NewPosition vec.Vector
	ViewDistance int
	Owners      []*player.Player
}

func NewMoveAction(target *entity.Entity, w *world.World, newPos vec.Vector, viewDistance int, owners []*player.Player) *MoveAction {
	a := &MoveAction{Action: NewAction(nil, target, true), World: w, NewPosition: newPos, ViewDistance: viewDistance, Owners: owners}
	a.SetMovementAction(true)
	return a
}

// NewRelativeMoveAction builds a MoveAction whose new position is the
// entity's current position plus delta.
func NewRelativeMoveAction(target *entity.Entity, w *world.World, delta vec.Vector, viewDistance int, owners []*player.Player) *MoveAction {
	return NewMoveAction(target, w, target.Position.Add(delta), viewDistance, owners)
}

func (a *MoveAction) Apply() bool {
	e := a.TargetEntity()
	old := e.Position
	a.World.RemoveEntity(e.ID())
	e.Position = a.NewPosition
	a.World.IndexEntity(e.ID(), a.NewPosition)
	logging.LogEntityMovement(e.ID(), old.X, old.Y, a.NewPosition.X, a.NewPosition.Y)

	if !old.SameChunk(a.NewPosition) {
		for _, owner := range a.Owners {
			scope := owner.ScopeFor(a.World.ID())
			removed := scope.RemoveViewer(e.ID(), old.ToChunkSpace(), a.ViewDistance)
			added := scope.AddViewer(e.ID(), a.NewPosition.ToChunkSpace(), a.ViewDistance)
			a.logChunkActivity(removed, added)
		}
	}
	return true
}

// logChunkActivity traces the chunks that actually flipped active/inactive
// as a result of a viewer's chunk-scope update.
func (a *MoveAction) logChunkActivity(removed, added visibility.Change) {
	for _, chunk := range removed.Removed {
		logging.LogChunkActivity(a.World.ID(), chunk.X, chunk.Y, false)
	}
	for _, chunk := range added.Added {
		logging.LogChunkActivity(a.World.ID(), chunk.X, chunk.Y, true)
	}
}

// --- OwnEntityAction -------------------------------------------------

// OwnEntityAction makes a player own an entity (spec.md §4.4).
type OwnEntityAction struct {
	*Action
	noopLifecycle
	Player *player.Player
}

func NewOwnEntityAction(caster *entity.Entity, target *entity.Entity, p *player.Player) *OwnEntityAction {
	return &OwnEntityAction{Action: NewAction(caster, target, true), Player: p}
}

func (a *OwnEntityAction) Apply() bool {
	changes := a.Player.OwnEntity(a.TargetEntity())
	a.SetVisibilityChanges(VisibilityAdd, changes)
	return !changes.Empty()
}

// --- EquipItemAction -------------------------------------------------

// EquipItemAction places an item entity into one of target's slots.
type EquipItemAction struct {
	*Action
	noopLifecycle
	Slot string
	Item *entity.Entity
}

func NewEquipItemAction(target *entity.Entity, slot string, item *entity.Entity) *EquipItemAction {
	return &EquipItemAction{Action: NewAction(nil, target, true), Slot: slot, Item: item}
}

func (a *EquipItemAction) Apply() bool {
	return a.TargetEntity().Equip(a.Slot, a.Item.ID())
}

// --- AddSlotAction / RemoveSlotAction -------------------------------------------------

type AddSlotAction struct {
	*Action
	noopLifecycle
	Slot string
}

func NewAddSlotAction(target *entity.Entity, slot string) *AddSlotAction {
	return &AddSlotAction{Action: NewAction(nil, target, true), Slot: slot}
}

func (a *AddSlotAction) Apply() bool { return a.TargetEntity().AddSlot(a.Slot) }

type RemoveSlotAction struct {
	*Action
	noopLifecycle
	Slot string
}

func NewRemoveSlotAction(target *entity.Entity, slot string) *RemoveSlotAction {
	return &RemoveSlotAction{Action: NewAction(nil, target, true), Slot: slot}
}

func (a *RemoveSlotAction) Apply() bool { return a.TargetEntity().RemoveSlot(a.Slot) }

// --- AddPropertyAction / RemovePropertyAction -------------------------------------------------

type AddPropertyAction struct {
	*Action
	noopLifecycle
	Name           string
	Base, Min, Max float64
}

func NewAddPropertyAction(target *entity.Entity, name string, base, min, max float64) *AddPropertyAction {
	return &AddPropertyAction{Action: NewAction(nil, target, true), Name: name, Base: base, Min: min, Max: max}
}

func (a *AddPropertyAction) Apply() bool {
	return a.TargetEntity().AddProperty(a.Name, a.Base, a.Min, a.Max)
}

type RemovePropertyAction struct {
	*Action
	noopLifecycle
	Name string
}

func NewRemovePropertyAction(target *entity.Entity, name string) *RemovePropertyAction {
	return &RemovePropertyAction{Action: NewAction(nil, target, true), Name: name}
}

func (a *RemovePropertyAction) Apply() bool { return a.TargetEntity().RemoveProperty(a.Name) }

// --- LearnAbilityAction / ForgetAbilityAction -------------------------------------------------

type LearnAbilityAction struct {
	*Action
	noopLifecycle
	Grant entity.Grant
}

func NewLearnAbilityAction(target *entity.Entity, g entity.Grant) *LearnAbilityAction {
	return &LearnAbilityAction{Action: NewAction(nil, target, true), Grant: g}
}

func (a *LearnAbilityAction) Apply() bool { return a.TargetEntity().LearnAbility(a.Grant) }

type ForgetAbilityAction struct {
	*Action
	noopLifecycle
	Grant entity.Grant
}

func NewForgetAbilityAction(target *entity.Entity, g entity.Grant) *ForgetAbilityAction {
	return &ForgetAbilityAction{Action: NewAction(nil, target, true), Grant: g}
}

func (a *ForgetAbilityAction) Apply() bool { return a.TargetEntity().ForgetAbility(a.Grant) }

// --- ModifyPropertyAction / PropertyAdjustmentAction -------------------------------------------------

// ModifyPropertyAction sets a property's base value directly.
type ModifyPropertyAction struct {
	*Action
	noopLifecycle
	Name    string
	NewBase float64
}

func NewModifyPropertyAction(target *entity.Entity, name string, newBase float64) *ModifyPropertyAction {
	return &ModifyPropertyAction{Action: NewAction(nil, target, true), Name: name, NewBase: newBase}
}

func (a *ModifyPropertyAction) Apply() bool {
	p, ok := a.TargetEntity().Properties[a.Name]
	if !ok {
		return false
	}
	p.SetBase(a.NewBase)
	return true
}

// PropertyAdjustmentAction appends a Modification to a property's chain.
type PropertyAdjustmentAction struct {
	*Action
	noopLifecycle
	Name string
	Mod  property.Modification
}

func NewPropertyAdjustmentAction(target *entity.Entity, name string, mod property.Modification) *PropertyAdjustmentAction {
	return &PropertyAdjustmentAction{Action: NewAction(nil, target, true), Name: name, Mod: mod}
}

func (a *PropertyAdjustmentAction) Apply() bool {
	p, ok := a.TargetEntity().Properties[a.Name]
	if !ok {
		return false
	}
	p.AddModification(a.Mod)
	return true
}

// --- SenseEntityAction / LoseEntityAction -------------------------------------------------

// SenseEntityAction records that Using's sensed-entity rollup now includes
// Sensed (spec.md §4.4).
type SenseEntityAction struct {
	*Action
	noopLifecycle
	UsingEntity *entity.Entity
	Sensed      *entity.Entity
}

func NewSenseEntityAction(caster *entity.Entity, using, sensed *entity.Entity) *SenseEntityAction {
	return &SenseEntityAction{Action: NewAction(caster, sensed, true), UsingEntity: using, Sensed: sensed}
}

func (a *SenseEntityAction) Apply() bool {
	changes := a.UsingEntity.SensedEntities.Add(a.Sensed.ID(), a.Sensed)
	a.SetVisibilityChanges(VisibilityAdd, changes)
	return !changes.Empty()
}

// LoseEntityAction is the inverse of SenseEntityAction.
type LoseEntityAction struct {
	*Action
	noopLifecycle
	UsingEntity *entity.Entity
	Lost        *entity.Entity
}

func NewLoseEntityAction(caster *entity.Entity, using, lost *entity.Entity) *LoseEntityAction {
	return &LoseEntityAction{Action: NewAction(caster, lost, true), UsingEntity: using, Lost: lost}
}

func (a *LoseEntityAction) Apply() bool {
	changes := a.UsingEntity.SensedEntities.Remove(a.Lost.ID())
	a.SetVisibilityChanges(VisibilityRemove, changes)
	return !changes.Empty()
}

// --- CustomAction -------------------------------------------------

// CustomAction is the opaque extension point for content-defined state
// changes: Payload is whatever content wants to stash there, ApplyFunc is
// the state change itself.
type CustomAction struct {
	*Action
	noopLifecycle
	Kind      string
	Payload   any
	ApplyFunc func(*CustomAction) bool
}

func NewCustomAction(caster, target *entity.Entity, kind string, payload any, applyFunc func(*CustomAction) bool) *CustomAction {
	return &CustomAction{Action: NewAction(caster, target, true), Kind: kind, Payload: payload, ApplyFunc: applyFunc}
}

func (a *CustomAction) Apply() bool {
	if a.ApplyFunc == nil {
		return false
	}
	return a.ApplyFunc(a)
}
