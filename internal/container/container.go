// Package container defines the small, dependency-free vocabulary shared
// by every scope root (entity, world, player, team, game): which Kind of
// container something is, and a stable (Kind, ID) Ref to it. Keeping this
// vocabulary in its own leaf package lets every other package refer to
// "some container over there" without needing to import it concretely —
// exactly the indirection spec.md §9 asks for to break the catalogs' cyclic
// reference graph.
package container

// Kind tags which concrete container a Ref points at.
type Kind int

const (
	KindEntity Kind = iota
	KindWorld
	KindPlayer
	KindTeam
	KindGame
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindWorld:
		return "world"
	case KindPlayer:
		return "player"
	case KindTeam:
		return "team"
	case KindGame:
		return "game"
	default:
		return "unknown"
	}
}

// Ref is a stable, non-owning reference to a container, resolved against a
// component.Registry at dispatch time rather than held as a live pointer.
type Ref struct {
	Kind Kind
	ID   string
}

// GameID is the fixed id of the single process-wide Game singleton
// (spec.md §5), so every container can resolve the "game" capability scope
// without holding a live reference to it.
const GameID = "game"

// GameRef is the fixed Ref naming the Game singleton.
var GameRef = Ref{Kind: KindGame, ID: GameID}

// Role is the capability a Component subscribes under.
type Role int

const (
	RoleSensor Role = iota
	RoleModifier
	RoleReacter
)

func (r Role) String() string {
	switch r {
	case RoleSensor:
		return "sensor"
	case RoleModifier:
		return "modifier"
	case RoleReacter:
		return "reacter"
	default:
		return "unknown"
	}
}
