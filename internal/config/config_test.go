package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"party-quiz/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadGameConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
quiz:
  dir: quizzes
  ttl: 5m
players:
  player1:
    name: Alice
game:
  timedListDuration: 45s
  advanceDelay: 1500ms
  mediaDir: media
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	game := cfg.GameConfig()
	if game.PlayerName(domain.Player1) != "Alice" || game.PlayerName(domain.Player2) != "Joueur 2" {
		t.Fatalf("unexpected players %+v", game.Players)
	}
	if game.TimedListDuration != 45*time.Second || game.AdvanceDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected durations %+v", game)
	}
	if game.ThemedSetResolveDelay != 5*time.Second || game.CountdownTick != time.Second {
		t.Fatalf("expected defaults, got %+v", game)
	}
	if game.MediaBaseDir != "media" || cfg.Server.Port != "9090" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestLoadRejectsUnknownPlayer(t *testing.T) {
	path := writeConfig(t, "players:\n  player3:\n    name: Eve\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown player rejected")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on garbage, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
