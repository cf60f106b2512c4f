// Package storage defines the persistence contract for the replay index: one
// summary row per recorded game, pointing at its replay file.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
)

var (
	// ErrNotFound indicates a requested game record is missing.
	ErrNotFound = errors.New("record not found")
)

// GameRecord summarizes one recorded game.
type GameRecord struct {
	GameID   string
	UserName string
	Level    int32
	// Seed is the effective seed echoed by the server; nil when it was not.
	Seed     *int32
	FilePath string
	// Turns counts the turns written to the replay file.
	Turns int
	// FailedTurns counts turns that could not be written.
	FailedTurns int
	FinalTick   int32
	FinalStatus game.Status
	StartedAt   time.Time
	FinishedAt  time.Time
}

// GamePage stores one page of game records, most recent first.
type GamePage struct {
	Games         []GameRecord
	NextPageToken string
}

// Index persists replay summaries.
type Index interface {
	// PutGame inserts or replaces the record for GameID.
	PutGame(ctx context.Context, record GameRecord) error
	GetGame(ctx context.Context, gameID string) (GameRecord, error)
	ListGames(ctx context.Context, pageSize int, pageToken string) (GamePage, error)
	Close() error
}
