package game

import (
	"context"
	"fmt"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/message"
	"github.com/and0p/chaos-core/internal/metrics"
	"github.com/and0p/chaos-core/internal/player"
	"github.com/google/uuid"
)

// HandleConnection answers a client's handshake (spec.md §6's CONNECTION):
// a bearer token, if present, is validated and resolved straight to a
// player id; otherwise desired_name is looked up (or minted) in the
// profile directory. Either way a Player container is created the first
// time a player id is seen and reused on every reconnect.
func (g *Game) HandleConnection(ctx context.Context, conn message.Connection) message.ConnectionResponse {
	playerID, err := g.resolvePlayerID(ctx, conn)
	if err != nil {
		logging.LogWarn("game: connection from client %s rejected: %v", conn.ClientID, err)
		return message.ConnectionResponse{OK: false, Error: err.Error()}
	}

	g.mu.Lock()
	p, ok := g.players[playerID]
	if !ok {
		p = player.New(playerID, g.registry)
		g.players[playerID] = p
		metrics.ConnectedPlayers.Inc()
	}
	g.clientPlayers[conn.ClientID] = playerID
	g.mu.Unlock()

	logging.LogInfo("game: client %s connected as player %s", conn.ClientID, p.ID())
	return message.ConnectionResponse{OK: true, PlayerID: playerID}
}

// resolvePlayerID implements spec.md §6's two CONNECTION paths: a bearer
// token resolves directly, otherwise desired_name is resolved (or minted)
// against the profile directory.
func (g *Game) resolvePlayerID(ctx context.Context, conn message.Connection) (string, error) {
	if conn.Token != "" {
		playerID, err := g.authenticator.Validate(conn.Token)
		if err != nil {
			return "", fmt.Errorf("invalid token: %w", err)
		}
		return playerID, nil
	}

	name := conn.DesiredName
	if name == "" {
		name = conn.ClientID
	}
	if name == "" {
		return "", fmt.Errorf("connection carries neither a token nor a desired_name/client_id")
	}

	profile, err := g.accountsRepo.CreateOrTouch(ctx, name, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("profile directory: %w", err)
	}
	return profile.PlayerID, nil
}

// DisconnectClient drops conn's client-id mapping. The underlying Player
// container (and everything it owns) is left in place — a disconnect is
// not a despawn.
func (g *Game) DisconnectClient(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clientPlayers, clientID)
}
