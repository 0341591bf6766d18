package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"party-quiz/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
		Dir string `yaml:"dir"`
	} `yaml:"quiz"`
	Players map[domain.Player]domain.PlayerInfo `yaml:"players"`
	Game    struct {
		TimedListDuration     string `yaml:"timedListDuration"`
		CountdownTick         string `yaml:"countdownTick"`
		AdvanceDelay          string `yaml:"advanceDelay"`
		ThemedSetResolveDelay string `yaml:"themedSetResolveDelay"`
		MediaDir              string `yaml:"mediaDir"`
	} `yaml:"game"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	for p := range cfg.Players {
		if !p.Valid() {
			return cfg, fmt.Errorf("players: unknown player key %q", p)
		}
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// GameConfig converts the game and players sections into the session configuration.
func (c Config) GameConfig() domain.GameConfig {
	players := map[domain.Player]domain.PlayerInfo{
		domain.Player1: {Name: "Joueur 1"},
		domain.Player2: {Name: "Joueur 2"},
	}
	for p, info := range c.Players {
		if info.Name != "" {
			players[p] = info
		}
	}
	return domain.GameConfig{
		Players:               players,
		TimedListDuration:     TTLDuration(c.Game.TimedListDuration, 60*time.Second),
		CountdownTick:         TTLDuration(c.Game.CountdownTick, time.Second),
		AdvanceDelay:          TTLDuration(c.Game.AdvanceDelay, 2*time.Second),
		ThemedSetResolveDelay: TTLDuration(c.Game.ThemedSetResolveDelay, 5*time.Second),
		MediaBaseDir:          c.Game.MediaDir,
	}
}

// LogLevel returns the configured level, info when unset or unknown.
func (c Config) LogLevel() log.Level {
	if lvl, err := log.ParseLevel(c.Log.Level); err == nil {
		return lvl
	}
	return log.InfoLevel
}

// NewLogger builds the process logger for a component prefix.
func (c Config) NewLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           c.LogLevel(),
	})
}
