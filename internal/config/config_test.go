package config

import "testing"

func TestGameConfigDefaults(t *testing.T) {
	var g GameConfig
	if g.GetViewDistance() != 6 {
		t.Fatalf("expected default view distance 6, got %d", g.GetViewDistance())
	}
	if g.GetInactiveViewDistance() != 1 {
		t.Fatalf("expected default inactive view distance 1, got %d", g.GetInactiveViewDistance())
	}
	if g.GetListenDistance() != 25 {
		t.Fatalf("expected default listen distance 25, got %d", g.GetListenDistance())
	}
	if g.GetPerceptionGrouping() != PerceptionPlayer {
		t.Fatalf("expected default perception grouping player, got %v", g.GetPerceptionGrouping())
	}
}

func TestGameConfigExplicitValueWins(t *testing.T) {
	g := GameConfig{ViewDistance: 16, PerceptionGrouping: PerceptionTeam}
	if g.GetViewDistance() != 16 {
		t.Fatalf("expected explicit view distance 16, got %d", g.GetViewDistance())
	}
	if g.GetPerceptionGrouping() != PerceptionTeam {
		t.Fatalf("expected explicit perception grouping team, got %v", g.GetPerceptionGrouping())
	}
}

func TestServerConfigPortFallback(t *testing.T) {
	var s ServerConfig
	if s.GetTCPPort() != 7777 {
		t.Fatalf("expected default TCP port 7777, got %d", s.GetTCPPort())
	}
	s.TCPPort = 9000
	if s.GetTCPPort() != 9000 {
		t.Fatalf("expected configured TCP port 9000, got %d", s.GetTCPPort())
	}
}

func TestLoadWithNoPathAndNoEnvReturnsNil(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config when no path or env var is set")
	}
}
