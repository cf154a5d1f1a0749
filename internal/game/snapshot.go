package game

import (
	"encoding/json"
	"fmt"

	"github.com/and0p/chaos-core/internal/config"
	"github.com/and0p/chaos-core/internal/container"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/and0p/chaos-core/internal/serialize"
)

// buildSnapshot gathers every world/entity/team p can currently see
// (its own owned+sensed entities, rolled up through its team under team
// perception grouping) and marshals a serialize.GameSnapshot for it.
func (g *Game) buildSnapshot(p *player.Player) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visible := make(map[string]*entity.Entity)
	for id, e := range p.OwnedEntities.All() {
		visible[id] = e
	}
	for id, e := range p.SensedEntities.All() {
		visible[id] = e
	}
	if g.config.GetPerceptionGrouping() == config.PerceptionTeam && p.TeamID != "" {
		if t, ok := g.teams[p.TeamID]; ok {
			for id, e := range t.SensedEntities.All() {
				visible[id] = e
			}
		}
	}

	worldIDs := make(map[string]struct{})
	entities := make([]serialize.EntitySnapshot, 0, len(visible))
	for _, e := range visible {
		entities = append(entities, serialize.Entity(e))
		if e.WorldID != "" {
			worldIDs[e.WorldID] = struct{}{}
		}
	}

	worlds := make([]serialize.WorldSnapshot, 0, len(worldIDs))
	for id := range worldIDs {
		if w, ok := g.worlds[id]; ok {
			worlds = append(worlds, serialize.World(w))
		}
	}

	players := []serialize.PlayerSnapshot{serialize.Player(p)}
	var teams []serialize.TeamSnapshot
	if p.TeamID != "" {
		if t, ok := g.teams[p.TeamID]; ok {
			teams = append(teams, serialize.Team(t))
		}
	}

	snap := serialize.GameSnapshot{
		ID:       container.GameID,
		Players:  players,
		Teams:    teams,
		Worlds:   worlds,
		Entities: entities,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("game: marshal snapshot for %s: %w", p.ID(), err)
	}
	return data, nil
}
