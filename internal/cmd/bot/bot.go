// Package bot parses bot command configuration and plays one game.
package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/louisbranch/swoq.bot/internal/game"
	entrypoint "github.com/louisbranch/swoq.bot/internal/platform/cmd"
	"github.com/louisbranch/swoq.bot/internal/platform/timeouts"
	"github.com/louisbranch/swoq.bot/internal/replay/storage/sqlite"
	"github.com/louisbranch/swoq.bot/internal/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// IndexFileName is the replay index created inside the replays folder when
// no explicit index path is configured.
const IndexFileName = "index.db"

// ErrGameLost is returned by Run when the game ended without success.
var ErrGameLost = errors.New("game lost")

// Config holds bot command configuration. Env tags omit the SWOQ_ prefix.
type Config struct {
	Host               string        `env:"HOST"`
	UserID             string        `env:"USER_ID"`
	UserName           string        `env:"USER_NAME"`
	Level              *int32        `env:"LEVEL"`
	Seed               *int32        `env:"SEED"`
	ReplaysFolder      string        `env:"REPLAYS_FOLDER"`
	ReplayIndexPath    string        `env:"REPLAY_INDEX_PATH"`
	DialTimeout        time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
	TurnTimeout        time.Duration `env:"TURN_TIMEOUT" envDefault:"2s"`
	WaitForHealth      bool          `env:"WAIT_FOR_HEALTH" envDefault:"false"`
	QueueRetryInterval time.Duration `env:"QUEUE_RETRY_INTERVAL" envDefault:"2s"`
	QueueMaxRetries    uint          `env:"QUEUE_MAX_RETRIES" envDefault:"30"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Game server address (host:port)")
	fs.StringVar(&cfg.UserID, "user-id", cfg.UserID, "User identifier")
	fs.StringVar(&cfg.UserName, "user-name", cfg.UserName, "User display name")
	fs.Var(optionalInt32{&cfg.Level}, "level", "Level to play (default: server picks)")
	fs.Var(optionalInt32{&cfg.Seed}, "seed", "Map seed (default: server picks)")
	fs.StringVar(&cfg.ReplaysFolder, "replays", cfg.ReplaysFolder, "Folder for replay files (empty disables replays)")
	fs.StringVar(&cfg.ReplayIndexPath, "replay-index", cfg.ReplayIndexPath, "SQLite replay index path (default: <replays>/index.db)")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Connection timeout")
	fs.DurationVar(&cfg.TurnTimeout, "turn-timeout", cfg.TurnTimeout, "Timeout for each Start and Act exchange")
	fs.BoolVar(&cfg.WaitForHealth, "wait-for-health", cfg.WaitForHealth, "Wait for the gRPC health check before playing")
	fs.DurationVar(&cfg.QueueRetryInterval, "queue-retry-interval", cfg.QueueRetryInterval, "Pause between starts while the quest is queued")
	fs.UintVar(&cfg.QueueMaxRetries, "queue-max-retries", cfg.QueueMaxRetries, "Start retries while the quest is queued")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IndexPath returns the replay index path, or "" when replays are off.
func (c Config) IndexPath() string {
	if c.ReplaysFolder == "" {
		return ""
	}
	if c.ReplayIndexPath != "" {
		return c.ReplayIndexPath
	}
	return filepath.Join(c.ReplaysFolder, IndexFileName)
}

func (c Config) sessionConfig() session.Config {
	return session.Config{
		UserID:        c.UserID,
		UserName:      c.UserName,
		Host:          c.Host,
		ReplaysFolder: c.ReplaysFolder,
		DialTimeout:   c.DialTimeout,
		TurnTimeout:   c.TurnTimeout,
		WaitForHealth: c.WaitForHealth,
	}
}

// Run plays one game and reports ErrGameLost unless it ends in success.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBot, func(ctx context.Context) error {
		status, err := Play(ctx, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if status != game.StatusSuccess {
			return fmt.Errorf("%w: %s", ErrGameLost, status)
		}
		return nil
	})
}

// Play connects, starts a game and moves east and south alternately until
// the game ends. Progress is written to out.
func Play(ctx context.Context, cfg Config, out io.Writer, opts ...session.Option) (game.Status, error) {
	if out == nil {
		out = io.Discard
	}
	printer := message.NewPrinter(language.English)

	if path := cfg.IndexPath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("create replay index folder: %w", err)
		}
		index, err := sqlite.Open(path)
		if err != nil {
			return 0, fmt.Errorf("open replay index: %w", err)
		}
		defer index.Close()
		opts = append(opts, session.WithReplayIndex(index))
	}
	opts = append(opts, session.WithTurnObserver(func(turn session.Turn) {
		printer.Fprintf(out, "tick %d: %s -> %s (%s)\n", turn.Tick, turn.Action, turn.Result, turn.Status)
	}))

	client, err := session.Connect(ctx, cfg.sessionConfig(), opts...)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	g, err := startWithRetry(ctx, client, cfg)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := g.Close(ctx); err != nil {
			log.Printf("close game %s: %v", g.GameID(), err)
		}
	}()
	printer.Fprintf(out, "game %s started: %d x %d map, visibility %d, seed %s\n",
		g.GameID(), g.MapWidth(), g.MapHeight(), g.VisibilityRange(), formatSeed(g.Seed()))

	policy := []game.Action{game.ActionMoveEast, game.ActionMoveSouth}
	for turn := 0; g.Active(); turn++ {
		err := g.Act(ctx, policy[turn%len(policy)])
		if err == nil || errors.Is(err, session.ErrActRejected) {
			continue
		}
		return g.Status(), err
	}

	final := g.State()
	printer.Fprintf(out, "game %s finished: %s after %d ticks\n", g.GameID(), final.Status, final.Tick)
	return final.Status, nil
}

// startWithRetry retries Start while the server reports the quest queued.
func startWithRetry(ctx context.Context, client *session.Client, cfg Config) (*session.Game, error) {
	request := game.StartRequest{Level: cfg.Level, Seed: cfg.Seed}
	interval := cfg.QueueRetryInterval
	if interval <= 0 {
		interval = timeouts.QueueRetry
	}
	start := func() (*session.Game, error) {
		g, err := client.Start(ctx, request)
		if err == nil {
			return g, nil
		}
		if result, ok := session.RejectedStartResult(err); ok && result == game.StartResultQuestQueued {
			log.Printf("quest queued, retrying in %s", interval)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	return backoff.Retry(ctx, start,
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxTries(cfg.QueueMaxRetries+1),
	)
}

func formatSeed(seed *int32) string {
	if seed == nil {
		return "unknown"
	}
	return strconv.Itoa(int(*seed))
}

// optionalInt32 is a flag.Value for an int32 that may be left unset.
type optionalInt32 struct {
	target **int32
}

func (o optionalInt32) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return strconv.Itoa(int(**o.target))
}

func (o optionalInt32) Set(value string) error {
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return err
	}
	v := int32(parsed)
	*o.target = &v
	return nil
}
