package game

import (
	"fmt"

	"github.com/and0p/chaos-core/internal/ability"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/message"
)

// HandleCast answers a client's CAST request (spec.md §4.8): the client
// must be connected, must own the named caster entity, and the ability
// must be known to the caster before its cast func runs. The resulting
// Event is enqueued for the next Tick — casts never execute inline.
func (g *Game) HandleCast(c message.Cast) message.CastResponse {
	g.mu.RLock()
	playerID, ok := g.clientPlayers[c.ClientID]
	if !ok {
		g.mu.RUnlock()
		return message.CastResponse{Error: fmt.Sprintf("unknown client %q", c.ClientID)}
	}
	p, ok := g.players[playerID]
	g.mu.RUnlock()
	if !ok {
		return message.CastResponse{Error: fmt.Sprintf("unknown player %q", playerID)}
	}

	caster, ok := g.resolveEntity(c.CasterID)
	if !ok {
		return message.CastResponse{Error: fmt.Sprintf("unknown caster entity %q", c.CasterID)}
	}
	if !p.OwnedEntities.Contains(caster.ID()) {
		return message.CastResponse{Error: fmt.Sprintf("player %q does not own entity %q", playerID, c.CasterID)}
	}

	ab, ok := g.abilities.Get(c.AbilityName)
	if !ok {
		return message.CastResponse{Error: fmt.Sprintf("unknown ability %q", c.AbilityName)}
	}

	var target *entity.Entity
	if c.Target != "" {
		t, ok := g.resolveEntity(c.Target)
		if !ok {
			return message.CastResponse{Error: fmt.Sprintf("unknown target entity %q", c.Target)}
		}
		target = t
	}

	ev, err := ab.Cast(caster, ability.CastArgs{
		Using:     c.Using,
		GrantedBy: c.GrantedBy,
		Target:    target,
		Params:    c.Params,
	})
	if err != nil {
		logging.LogWarn("game: cast %s by %s failed: %v", c.AbilityName, c.CasterID, err)
		return message.CastResponse{Error: err.Error()}
	}

	g.queue.Enqueue(ev)
	return message.CastResponse{}
}
