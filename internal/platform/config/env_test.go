package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Host        string        `env:"TEST_HOST" envDefault:"localhost:5009"`
	Level       *int32        `env:"TEST_LEVEL"`
	TurnTimeout time.Duration `env:"TEST_TURN_TIMEOUT" envDefault:"1s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Host != "localhost:5009" {
		t.Fatalf("host = %q, want %q", cfg.Host, "localhost:5009")
	}
	if cfg.Level != nil {
		t.Fatalf("level = %d, want unset", *cfg.Level)
	}
	if cfg.TurnTimeout != time.Second {
		t.Fatalf("turn timeout = %v, want 1s", cfg.TurnTimeout)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SWOQ_TEST_HOST", "swoq.example:5009")
	t.Setenv("SWOQ_TEST_LEVEL", "4")
	t.Setenv("TEST_HOST", "ignored:1")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Host != "swoq.example:5009" {
		t.Fatalf("host = %q, want %q", cfg.Host, "swoq.example:5009")
	}
	if cfg.Level == nil || *cfg.Level != 4 {
		t.Fatalf("level = %v, want 4", cfg.Level)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SWOQ_TEST_LEVEL", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
