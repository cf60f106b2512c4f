package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/louisbranch/swoq.bot/internal/platform/errors"
	"github.com/louisbranch/swoq.bot/internal/platform/timeouts"
)

// Config identifies the player and the game server. It is validated once
// and never changes afterwards.
type Config struct {
	UserID   string
	UserName string
	// Host is the game server address (host:port).
	Host string
	// ReplaysFolder enables replay recording when set.
	ReplaysFolder string
	// DialTimeout bounds connection establishment; zero uses the default.
	DialTimeout time.Duration
	// TurnTimeout bounds each Start and Act exchange; zero uses the default.
	TurnTimeout time.Duration
	// WaitForHealth waits for the server's gRPC health check before Connect
	// returns.
	WaitForHealth bool
}

// Validate reports the first invalid field as an ErrInvalidConfig error.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.UserID) == "":
		return invalidConfig("user_id", "user id is required")
	case strings.TrimSpace(c.UserName) == "":
		return invalidConfig("user_name", "user name is required")
	case strings.TrimSpace(c.Host) == "":
		return invalidConfig("host", "host is required")
	case c.DialTimeout < 0:
		return invalidConfig("dial_timeout", "dial timeout must not be negative")
	case c.TurnTimeout < 0:
		return invalidConfig("turn_timeout", "turn timeout must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.DialTimeout == 0 {
		c.DialTimeout = timeouts.GRPCDial
	}
	if c.TurnTimeout == 0 {
		c.TurnTimeout = timeouts.Turn
	}
	return c
}

// prepare validates cfg, fills defaults and makes sure the replay folder
// can take new files.
func prepare(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg = cfg.withDefaults()
	if cfg.ReplaysFolder != "" {
		if err := probeFolder(cfg.ReplaysFolder); err != nil {
			return Config{}, apperrors.Wrap(apperrors.CodeReplayPathInvalid, "replay folder is not writable", err)
		}
	}
	return cfg, nil
}

func probeFolder(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	probe, err := os.CreateTemp(folder, ".swoq-probe-*")
	if err != nil {
		return fmt.Errorf("create probe file: %w", err)
	}
	name := probe.Name()
	closeErr := probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove probe file: %w", err)
	}
	return closeErr
}
