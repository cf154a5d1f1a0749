package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/and0p/chaos-core/internal/action"
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/and0p/chaos-core/internal/property"
	"github.com/and0p/chaos-core/internal/vec"
	"github.com/and0p/chaos-core/internal/world"
)

// ActionWire is the universal envelope for a serialized Action (spec.md
// §6): the fields every variant carries, plus a Fields bag for the
// variant-specific payload keyed by action_type.
type ActionWire struct {
	Caster      string          `json:"caster,omitempty"`
	Target      string          `json:"target,omitempty"`
	Using       string          `json:"using,omitempty"`
	Tags        []string        `json:"tags"`
	Breadcrumbs []string        `json:"breadcrumbs"`
	Permitted   bool            `json:"permitted"`
	ActionType  string          `json:"action_type"`
	Fields      json.RawMessage `json:"fields,omitempty"`
}

// wireSource is the subset of a Variant's promoted *Action methods
// EncodeAction needs. Every concrete variant embeds *Action, which
// implements all of these, so a type assertion from action.Variant always
// succeeds.
type wireSource interface {
	Tags() map[string]struct{}
	Breadcrumbs() []string
	Permitted() bool
	Caster() (container.Ref, bool)
	Target() (container.Ref, bool)
	Using() (container.Ref, bool)
}

func setOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// EncodeAction builds the universal envelope for v, ready for json.Marshal.
// The variant-specific Fields payload is produced by a type switch over
// every concrete variant in package action.
func EncodeAction(v action.Variant) (*ActionWire, error) {
	src, ok := v.(wireSource)
	if !ok {
		return nil, fmt.Errorf("serialize: %T does not expose the action wire accessors", v)
	}

	w := &ActionWire{
		Tags:        setOf(src.Tags()),
		Breadcrumbs: src.Breadcrumbs(),
		Permitted:   src.Permitted(),
	}
	if ref, ok := src.Caster(); ok {
		w.Caster = ref.ID
	}
	if ref, ok := src.Target(); ok {
		w.Target = ref.ID
	}
	if ref, ok := src.Using(); ok {
		w.Using = ref.ID
	}

	fields, actionType, err := encodeFields(v)
	if err != nil {
		return nil, err
	}
	w.ActionType = actionType
	w.Fields = fields
	return w, nil
}

type publishFields struct {
	WorldID string `json:"world_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type worldOnlyFields struct {
	WorldID string `json:"world_id"`
}

type changeWorldFields struct {
	FromWorldID string `json:"from_world_id"`
	ToWorldID   string `json:"to_world_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

type slotFields struct {
	Slot string `json:"slot"`
}

type propertyFields struct {
	Name string  `json:"name"`
	Base float64 `json:"base"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type nameFields struct {
	Name string `json:"name"`
}

type modifyPropertyFields struct {
	Name    string  `json:"name"`
	NewBase float64 `json:"new_base"`
}

type propertyAdjustmentFields struct {
	Name string                `json:"name"`
	Mod  property.Modification `json:"mod"`
}

type senseFields struct {
	UsingID  string `json:"using_id"`
	SensedID string `json:"sensed_id"`
}

type loseFields struct {
	UsingID string `json:"using_id"`
	LostID  string `json:"lost_id"`
}

type customFields struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

type attachFields struct {
	ComponentID string `json:"component_id"`
}

type equipFields struct {
	Slot   string `json:"slot"`
	ItemID string `json:"item_id"`
}

type ownFields struct {
	PlayerID string `json:"player_id"`
}

func encodeFields(v action.Variant) (json.RawMessage, string, error) {
	var payload any
	var kind string

	switch t := v.(type) {
	case *action.PublishEntityAction:
		kind = "PublishEntityAction"
		payload = publishFields{WorldID: t.World.ID(), X: t.Position.X, Y: t.Position.Y}
	case *action.UnpublishEntityAction:
		kind = "UnpublishEntityAction"
		payload = worldOnlyFields{WorldID: t.World.ID()}
	case *action.ChangeWorldAction:
		kind = "ChangeWorldAction"
		payload = changeWorldFields{FromWorldID: t.From.ID(), ToWorldID: t.To.ID(), X: t.Position.X, Y: t.Position.Y}
	case *action.MoveAction:
		kind = "MoveAction"
		payload = publishFields{WorldID: t.World.ID(), X: t.NewPosition.X, Y: t.NewPosition.Y}
	case *action.OwnEntityAction:
		kind = "OwnEntityAction"
		payload = ownFields{PlayerID: t.Player.ID()}
	case *action.EquipItemAction:
		kind = "EquipItemAction"
		payload = equipFields{Slot: t.Slot, ItemID: t.Item.ID()}
	case *action.AddSlotAction:
		kind = "AddSlotAction"
		payload = slotFields{Slot: t.Slot}
	case *action.RemoveSlotAction:
		kind = "RemoveSlotAction"
		payload = slotFields{Slot: t.Slot}
	case *action.AddPropertyAction:
		kind = "AddPropertyAction"
		payload = propertyFields{Name: t.Name, Base: t.Base, Min: t.Min, Max: t.Max}
	case *action.RemovePropertyAction:
		kind = "RemovePropertyAction"
		payload = nameFields{Name: t.Name}
	case *action.LearnAbilityAction:
		kind = "LearnAbilityAction"
		payload = t.Grant
	case *action.ForgetAbilityAction:
		kind = "ForgetAbilityAction"
		payload = t.Grant
	case *action.ModifyPropertyAction:
		kind = "ModifyPropertyAction"
		payload = modifyPropertyFields{Name: t.Name, NewBase: t.NewBase}
	case *action.PropertyAdjustmentAction:
		kind = "PropertyAdjustmentAction"
		payload = propertyAdjustmentFields{Name: t.Name, Mod: t.Mod}
	case *action.SenseEntityAction:
		kind = "SenseEntityAction"
		payload = senseFields{UsingID: t.UsingEntity.ID(), SensedID: t.Sensed.ID()}
	case *action.LoseEntityAction:
		kind = "LoseEntityAction"
		payload = loseFields{UsingID: t.UsingEntity.ID(), LostID: t.Lost.ID()}
	case *action.CustomAction:
		kind = "CustomAction"
		payload = customFields{Kind: t.Kind, Payload: t.Payload}
	case *action.AttachComponentAction:
		kind = "AttachComponentAction"
		payload = attachFields{ComponentID: t.Component.ID}
	default:
		return nil, "", fmt.Errorf("serialize: unknown action variant %T", v)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return raw, kind, nil
}

// DecodeAction reconstructs a concrete Variant from its wire envelope,
// resolving caster/target/using/world references against registry (spec.md
// §6: "Deserializer returns a typed action with references resolved
// against Game.instance"). Ability grants and custom payloads round-trip
// by value; AttachComponentAction is not deserializable since a component's
// behavior closures have no wire representation — content reattaches it
// directly rather than via a broadcast round trip.
func DecodeAction(w *ActionWire, registry *component.Registry) (action.Variant, error) {
	resolveEntity := func(id string) (*entity.Entity, error) {
		if id == "" {
			return nil, nil
		}
		c, ok := registry.Resolve(container.Ref{Kind: container.KindEntity, ID: id})
		if !ok {
			return nil, fmt.Errorf("serialize: unknown entity %q", id)
		}
		e, ok := c.(*entity.Entity)
		if !ok {
			return nil, fmt.Errorf("serialize: %q is not an entity", id)
		}
		return e, nil
	}
	resolveWorld := func(id string) (*world.World, error) {
		if id == "" {
			return nil, nil
		}
		c, ok := registry.Resolve(container.Ref{Kind: container.KindWorld, ID: id})
		if !ok {
			return nil, fmt.Errorf("serialize: unknown world %q", id)
		}
		wd, ok := c.(*world.World)
		if !ok {
			return nil, fmt.Errorf("serialize: %q is not a world", id)
		}
		return wd, nil
	}
	resolvePlayer := func(id string) (*player.Player, error) {
		if id == "" {
			return nil, nil
		}
		c, ok := registry.Resolve(container.Ref{Kind: container.KindPlayer, ID: id})
		if !ok {
			return nil, fmt.Errorf("serialize: unknown player %q", id)
		}
		p, ok := c.(*player.Player)
		if !ok {
			return nil, fmt.Errorf("serialize: %q is not a player", id)
		}
		return p, nil
	}

	target, err := resolveEntity(w.Target)
	if err != nil {
		return nil, err
	}
	caster, err := resolveEntity(w.Caster)
	if err != nil {
		return nil, err
	}

	switch w.ActionType {
	case "MoveAction":
		var f publishFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		wd, err := resolveWorld(f.WorldID)
		if err != nil {
			return nil, err
		}
		return action.NewMoveAction(target, wd, vec.Vector{X: f.X, Y: f.Y}, 0, nil), nil
	case "AddSlotAction":
		var f slotFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewAddSlotAction(target, f.Slot), nil
	case "RemoveSlotAction":
		var f slotFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewRemoveSlotAction(target, f.Slot), nil
	case "AddPropertyAction":
		var f propertyFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewAddPropertyAction(target, f.Name, f.Base, f.Min, f.Max), nil
	case "RemovePropertyAction":
		var f nameFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewRemovePropertyAction(target, f.Name), nil
	case "ModifyPropertyAction":
		var f modifyPropertyFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewModifyPropertyAction(target, f.Name, f.NewBase), nil
	case "PropertyAdjustmentAction":
		var f propertyAdjustmentFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewPropertyAdjustmentAction(target, f.Name, f.Mod), nil
	case "LearnAbilityAction":
		var g entity.Grant
		if err := json.Unmarshal(w.Fields, &g); err != nil {
			return nil, err
		}
		return action.NewLearnAbilityAction(target, g), nil
	case "ForgetAbilityAction":
		var g entity.Grant
		if err := json.Unmarshal(w.Fields, &g); err != nil {
			return nil, err
		}
		return action.NewForgetAbilityAction(target, g), nil
	case "SenseEntityAction":
		var f senseFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		using, err := resolveEntity(f.UsingID)
		if err != nil {
			return nil, err
		}
		sensed, err := resolveEntity(f.SensedID)
		if err != nil {
			return nil, err
		}
		return action.NewSenseEntityAction(caster, using, sensed), nil
	case "LoseEntityAction":
		var f loseFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		using, err := resolveEntity(f.UsingID)
		if err != nil {
			return nil, err
		}
		lost, err := resolveEntity(f.LostID)
		if err != nil {
			return nil, err
		}
		return action.NewLoseEntityAction(caster, using, lost), nil
	case "EquipItemAction":
		var f equipFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		item, err := resolveEntity(f.ItemID)
		if err != nil {
			return nil, err
		}
		return action.NewEquipItemAction(target, f.Slot, item), nil
	case "UnpublishEntityAction":
		var f worldOnlyFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		wd, err := resolveWorld(f.WorldID)
		if err != nil {
			return nil, err
		}
		return action.NewUnpublishEntityAction(target, wd), nil
	case "PublishEntityAction":
		var f publishFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		wd, err := resolveWorld(f.WorldID)
		if err != nil {
			return nil, err
		}
		return action.NewPublishEntityAction(target, wd, vec.Vector{X: f.X, Y: f.Y}), nil
	case "ChangeWorldAction":
		var f changeWorldFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		from, err := resolveWorld(f.FromWorldID)
		if err != nil {
			return nil, err
		}
		to, err := resolveWorld(f.ToWorldID)
		if err != nil {
			return nil, err
		}
		return action.NewChangeWorldAction(target, from, to, vec.Vector{X: f.X, Y: f.Y}), nil
	case "OwnEntityAction":
		var f ownFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		p, err := resolvePlayer(f.PlayerID)
		if err != nil {
			return nil, err
		}
		return action.NewOwnEntityAction(caster, target, p), nil
	case "CustomAction":
		var f customFields
		if err := json.Unmarshal(w.Fields, &f); err != nil {
			return nil, err
		}
		return action.NewCustomAction(caster, target, f.Kind, f.Payload, nil), nil
	default:
		return nil, fmt.Errorf("serialize: decoding action_type %q is not supported", w.ActionType)
	}
}
