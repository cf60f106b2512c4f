// Package sqlite provides a SQLite-backed replay index.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
	sqlitemigrate "github.com/louisbranch/swoq.bot/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/swoq.bot/internal/replay/storage"
	"github.com/louisbranch/swoq.bot/internal/replay/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists replay summaries in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite replay index and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutGame inserts or replaces one game record.
func (s *Store) PutGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(record.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(record.FilePath) == "" {
		return fmt.Errorf("file path is required")
	}
	startedAt := record.StartedAt.UTC()
	finishedAt := record.FinishedAt.UTC()
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	if finishedAt.IsZero() {
		finishedAt = startedAt
	}

	var seed sql.NullInt64
	if record.Seed != nil {
		seed = sql.NullInt64{Int64: int64(*record.Seed), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO replay_games (
		   game_id,
		   user_name,
		   level,
		   seed,
		   file_path,
		   turns,
		   failed_turns,
		   final_tick,
		   final_status,
		   started_at,
		   finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
		   user_name = excluded.user_name,
		   level = excluded.level,
		   seed = excluded.seed,
		   file_path = excluded.file_path,
		   turns = excluded.turns,
		   failed_turns = excluded.failed_turns,
		   final_tick = excluded.final_tick,
		   final_status = excluded.final_status,
		   started_at = excluded.started_at,
		   finished_at = excluded.finished_at`,
		gameID,
		record.UserName,
		record.Level,
		seed,
		record.FilePath,
		record.Turns,
		record.FailedTurns,
		record.FinalTick,
		int32(record.FinalStatus),
		toMillis(startedAt),
		toMillis(finishedAt),
	)
	if err != nil {
		return fmt.Errorf("put replay game: %w", err)
	}
	return nil
}

// GetGame returns one game record by id.
func (s *Store) GetGame(ctx context.Context, gameID string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, user_name, level, seed, file_path, turns, failed_turns,
		        final_tick, final_status, started_at, finished_at
		   FROM replay_games
		  WHERE game_id = ?`,
		gameID,
	)
	record, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameRecord{}, storage.ErrNotFound
		}
		return storage.GameRecord{}, fmt.Errorf("get replay game: %w", err)
	}
	return record, nil
}

// ListGames returns one page of game records, most recently started first.
func (s *Store) ListGames(ctx context.Context, pageSize int, pageToken string) (storage.GamePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GamePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GamePage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.GamePage{}, fmt.Errorf("page size must be greater than zero")
	}

	var (
		rows *sql.Rows
		err  error
	)
	pageToken = strings.TrimSpace(pageToken)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT game_id, user_name, level, seed, file_path, turns, failed_turns,
			        final_tick, final_status, started_at, finished_at
			   FROM replay_games
			  ORDER BY started_at DESC, game_id ASC
			  LIMIT ?`,
			pageSize+1,
		)
	} else {
		startedAt, gameID, parseErr := parsePageToken(pageToken)
		if parseErr != nil {
			return storage.GamePage{}, parseErr
		}
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT game_id, user_name, level, seed, file_path, turns, failed_turns,
			        final_tick, final_status, started_at, finished_at
			   FROM replay_games
			  WHERE started_at < ? OR (started_at = ? AND game_id > ?)
			  ORDER BY started_at DESC, game_id ASC
			  LIMIT ?`,
			startedAt,
			startedAt,
			gameID,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list replay games: %w", err)
	}
	defer rows.Close()

	page := storage.GamePage{Games: make([]storage.GameRecord, 0, pageSize)}
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return storage.GamePage{}, fmt.Errorf("list replay games: %w", err)
		}
		page.Games = append(page.Games, record)
	}
	if err := rows.Err(); err != nil {
		return storage.GamePage{}, fmt.Errorf("list replay games: %w", err)
	}
	if len(page.Games) > pageSize {
		last := page.Games[pageSize-1]
		page.NextPageToken = formatPageToken(last)
		page.Games = page.Games[:pageSize]
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (storage.GameRecord, error) {
	var (
		record     storage.GameRecord
		seed       sql.NullInt64
		status     int32
		startedAt  int64
		finishedAt int64
	)
	if err := row.Scan(
		&record.GameID,
		&record.UserName,
		&record.Level,
		&seed,
		&record.FilePath,
		&record.Turns,
		&record.FailedTurns,
		&record.FinalTick,
		&status,
		&startedAt,
		&finishedAt,
	); err != nil {
		return storage.GameRecord{}, err
	}
	if seed.Valid {
		record.Seed = game.Int32(int32(seed.Int64))
	}
	record.FinalStatus = game.Status(status)
	record.StartedAt = fromMillis(startedAt)
	record.FinishedAt = fromMillis(finishedAt)
	return record, nil
}

func formatPageToken(record storage.GameRecord) string {
	return strconv.FormatInt(toMillis(record.StartedAt), 10) + "/" + record.GameID
}

func parsePageToken(token string) (int64, string, error) {
	millis, gameID, ok := strings.Cut(token, "/")
	if !ok || gameID == "" {
		return 0, "", fmt.Errorf("invalid page token")
	}
	startedAt, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid page token: %w", err)
	}
	return startedAt, gameID, nil
}

var _ storage.Index = (*Store)(nil)
