package game

import (
	"github.com/and0p/chaos-core/internal/action"
	"github.com/and0p/chaos-core/internal/config"
	"github.com/and0p/chaos-core/internal/player"
)

// QueueForBroadcast implements action.Broadcaster: it is called once per
// action that runs the full pipeline, top-level or nested (spec.md §4.3
// step 9, right after apply/before teardown; the unpublished fast path
// does not call it), and decides which connected players' outgoing queues
// the action is appended to.
func (g *Game) QueueForBroadcast(a *action.Action) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch a.BroadcastType() {
	case action.BroadcastNone, action.BroadcastDirect:
		return
	case action.BroadcastFull:
		for _, p := range g.players {
			p.Enqueue(a)
		}
		return
	}

	recipients := make(map[string]*player.Player)
	if vc, ok := a.VisibilityChanges(); ok {
		g.collectVisibilityRecipients(vc, recipients)
	}

	var casterID, targetID string
	if ref, ok := a.Caster(); ok {
		casterID = ref.ID
	}
	if ref, ok := a.Target(); ok {
		targetID = ref.ID
	}
	for id, p := range g.players {
		if g.playerSenses(p, casterID) || g.playerSenses(p, targetID) {
			recipients[id] = p
		}
	}

	for _, p := range recipients {
		p.Enqueue(a)
	}
}

// collectVisibilityRecipients expands a rollup delta (spec.md §4.6 step 1)
// into the players it should reach: a player-scoped node names that player
// directly, a team-scoped node fans out to every member.
func (g *Game) collectVisibilityRecipients(vc action.VisibilityChange, out map[string]*player.Player) {
	for scope, byNode := range vc.Changes {
		for nodeID := range byNode {
			switch scope {
			case "player-owned", "player-sensed":
				if p, ok := g.players[nodeID]; ok {
					out[nodeID] = p
				}
			case "team-sensed":
				if t, ok := g.teams[nodeID]; ok {
					for _, memberID := range t.Members {
						if p, ok := g.players[memberID]; ok {
							out[memberID] = p
						}
					}
				}
			}
			// An "entity"-scoped node (an entity's own SensedEntities, e.g.
			// a granted Eyes component) surfaces to players transitively
			// through player-sensed once that entity's rollup feeds a
			// player's — nothing further to do for it here.
		}
	}
}

// playerSenses reports whether p currently owns or senses entityID,
// rolling up through p's team when perception grouping is PerceptionTeam
// (spec.md §4.6's "perception grouping = team" mode).
func (g *Game) playerSenses(p *player.Player, entityID string) bool {
	if entityID == "" {
		return false
	}
	if p.OwnedEntities.Contains(entityID) || p.SensedEntities.Contains(entityID) {
		return true
	}
	if g.config.GetPerceptionGrouping() == config.PerceptionTeam && p.TeamID != "" {
		if t, ok := g.teams[p.TeamID]; ok {
			return t.SensedEntities.Contains(entityID)
		}
	}
	return false
}
