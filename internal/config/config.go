package config

import (
	"io/ioutil"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Cache    CacheConfig    `yaml:"cache"`
	Accounts AccountsConfig `yaml:"accounts"`
	Server   ServerConfig   `yaml:"server"`
}

// PerceptionGrouping selects whether a player's sensed-entity rollup is
// kept individual or merged across the player's team (spec.md §4.6).
type PerceptionGrouping string

const (
	PerceptionPlayer PerceptionGrouping = "player"
	PerceptionTeam   PerceptionGrouping = "team"
)

// GameConfig holds the tick-loop and spatial-radius knobs.
type GameConfig struct {
	ViewDistance         int                `yaml:"view_distance"`
	InactiveViewDistance int                `yaml:"inactive_view_distance"`
	ListenDistance       int                `yaml:"listen_distance"`
	PerceptionGrouping   PerceptionGrouping `yaml:"perception_grouping"`
}

// GetViewDistance returns the view radius, falling back to env/default.
func (g *GameConfig) GetViewDistance() int {
	return getIntWithEnvFallback(g.ViewDistance, "GAME_VIEW_DISTANCE", 6)
}

// GetInactiveViewDistance returns the view radius kept for inactive viewers.
func (g *GameConfig) GetInactiveViewDistance() int {
	return getIntWithEnvFallback(g.InactiveViewDistance, "GAME_INACTIVE_VIEW_DISTANCE", 1)
}

// GetListenDistance returns the listener-collection radius.
func (g *GameConfig) GetListenDistance() int {
	return getIntWithEnvFallback(g.ListenDistance, "GAME_LISTEN_DISTANCE", 25)
}

// GetPerceptionGrouping returns the sensed-entity rollup grouping mode.
func (g *GameConfig) GetPerceptionGrouping() PerceptionGrouping {
	if g.PerceptionGrouping != "" {
		return g.PerceptionGrouping
	}
	if v := os.Getenv("GAME_PERCEPTION_GROUPING"); v != "" {
		return PerceptionGrouping(v)
	}
	return PerceptionPlayer
}

// EventBusConfig configures the broadcast fan-out transport.
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// CacheConfig configures the hot snapshot cache.
type CacheConfig struct {
	URL string `yaml:"url"`
	TTL int    `yaml:"ttl_seconds"`
}

// AccountsConfig configures the player-profile directory's two backing
// stores.
type AccountsConfig struct {
	MariaDSN string `yaml:"maria_dsn"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
}

// ServerConfig holds transport and observability ports.
type ServerConfig struct {
	TCPPort     int `yaml:"tcp_port"`
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// GetTCPPort returns the TCP port, falling back to env/default.
func (s *ServerConfig) GetTCPPort() int {
	return getIntWithEnvFallback(s.TCPPort, "GAME_TCP_PORT", 7777)
}

// GetRESTPort returns the REST API port, falling back to env/default.
func (s *ServerConfig) GetRESTPort() int {
	return getIntWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// GetMetricsPort returns the Prometheus metrics port, falling back to env/default.
func (s *ServerConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// getIntWithEnvFallback resolves a value with priority: config -> env -> default.
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	if configVal > 0 {
		return configVal
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if n, err := strconv.Atoi(envVal); err == nil && n > 0 {
			return n
		}
	}

	return defaultVal
}

// getStringWithEnvFallback resolves a value with priority: config -> env -> default.
func getStringWithEnvFallback(configVal string, envVar string, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// GetMariaDSN returns the MariaDB DSN, falling back to env/default.
func (a *AccountsConfig) GetMariaDSN() string {
	return getStringWithEnvFallback(a.MariaDSN, "GAME_MARIA_DSN", "")
}

// GetMongoURI returns the MongoDB URI, falling back to env/default.
func (a *AccountsConfig) GetMongoURI() string {
	return getStringWithEnvFallback(a.MongoURI, "GAME_MONGO_URI", "mongodb://localhost:27017")
}

// Load reads the YAML config file.
// If path == "", it tries the GAME_CONFIG env var, or returns nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return nil, nil // no config given, caller uses defaults
		}
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
