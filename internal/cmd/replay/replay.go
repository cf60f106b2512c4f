// Package replay parses replay command flags and prints recorded games.
package replay

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	entrypoint "github.com/louisbranch/swoq.bot/internal/platform/cmd"
	replayfile "github.com/louisbranch/swoq.bot/internal/replay"
	"github.com/louisbranch/swoq.bot/internal/replay/storage/sqlite"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Config holds replay command configuration. Env tags omit the SWOQ_ prefix.
type Config struct {
	ReplaysFolder   string `env:"REPLAYS_FOLDER" envDefault:"replays"`
	ReplayIndexPath string `env:"REPLAY_INDEX_PATH"`
	// File prints one replay instead of listing the index.
	File  string
	Limit int
	Page  string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ReplaysFolder, "replays", cfg.ReplaysFolder, "Folder holding replay files")
	fs.StringVar(&cfg.ReplayIndexPath, "replay-index", cfg.ReplayIndexPath, "SQLite replay index path (default: <replays>/index.db)")
	fs.StringVar(&cfg.File, "file", "", "Replay file to print turn by turn")
	fs.IntVar(&cfg.Limit, "limit", 20, "Games listed per page")
	fs.StringVar(&cfg.Page, "page", "", "Page token from a previous listing")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.File == "" && fs.NArg() > 0 {
		cfg.File = fs.Arg(0)
	}
	return cfg, nil
}

func (c Config) indexPath() string {
	if c.ReplayIndexPath != "" {
		return c.ReplayIndexPath
	}
	return filepath.Join(c.ReplaysFolder, "index.db")
}

// Run prints a replay or the index listing to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReplay, func(ctx context.Context) error {
		return Print(ctx, cfg, os.Stdout)
	})
}

// Print writes the requested view to out.
func Print(ctx context.Context, cfg Config, out io.Writer) error {
	printer := message.NewPrinter(language.English)
	if cfg.File != "" {
		return printReplay(printer, out, cfg.File)
	}
	return printIndex(ctx, printer, out, cfg)
}

func printReplay(printer *message.Printer, out io.Writer, path string) error {
	recorded, err := replayfile.Open(path)
	if recorded == nil {
		return err
	}
	if err != nil && !errors.Is(err, replayfile.ErrTruncated) {
		return err
	}

	start := recorded.StartResponse
	printer.Fprintf(out, "%s played game %s on %s\n", recorded.Header.UserName, start.GameID, recorded.Header.DateTime.Format("2006-01-02 15:04:05"))
	printer.Fprintf(out, "map %d x %d, visibility %d, seed %s\n", start.MapWidth, start.MapHeight, start.VisibilityRange, formatSeed(start.Seed))
	for _, turn := range recorded.Turns {
		state := turn.Response.State
		if state == nil {
			printer.Fprintf(out, "  %s -> %s\n", turn.Request.Action, turn.Response.Result)
			continue
		}
		line := printer.Sprintf("  tick %d: %s -> %s", state.Tick, turn.Request.Action, turn.Response.Result)
		if state.Player != nil && state.Player.Position != nil {
			line += printer.Sprintf(" at (%d, %d) health %d", state.Player.Position.X, state.Player.Position.Y, state.Player.Health)
		}
		fmt.Fprintln(out, line)
	}
	if final := recorded.Final(); final != nil {
		printer.Fprintf(out, "%d turns, final status %s\n", len(recorded.Turns), final.Status)
	}
	if err != nil {
		printer.Fprintf(out, "replay is truncated after %d turns\n", len(recorded.Turns))
	}
	return nil
}

func printIndex(ctx context.Context, printer *message.Printer, out io.Writer, cfg Config) error {
	path := cfg.indexPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("replay index: %w", err)
	}
	index, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer index.Close()

	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}
	page, err := index.ListGames(ctx, limit, cfg.Page)
	if err != nil {
		return err
	}
	if len(page.Games) == 0 {
		printer.Fprintf(out, "no games recorded\n")
		return nil
	}
	for _, record := range page.Games {
		printer.Fprintf(out, "%s  %s  level %d  %s at tick %d  %d turns",
			record.StartedAt.Local().Format("2006-01-02 15:04:05"),
			record.GameID,
			record.Level,
			record.FinalStatus,
			record.FinalTick,
			record.Turns,
		)
		if record.FailedTurns > 0 {
			printer.Fprintf(out, " (%d not written)", record.FailedTurns)
		}
		printer.Fprintf(out, "\n    %s\n", record.FilePath)
	}
	if page.NextPageToken != "" {
		printer.Fprintf(out, "next page: -page %s\n", page.NextPageToken)
	}
	return nil
}

func formatSeed(seed *int32) string {
	if seed == nil {
		return "unknown"
	}
	return fmt.Sprint(*seed)
}
