package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
	"github.com/louisbranch/swoq.bot/internal/replay/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetGameRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	startedAt := time.Date(2026, time.March, 4, 10, 15, 0, 0, time.UTC)
	input := storage.GameRecord{
		GameID:      "game-1",
		UserName:    "Ada",
		Level:       3,
		Seed:        game.Int32(42),
		FilePath:    "/tmp/Ada - 20260304-101500 - game-1.swoq",
		Turns:       5,
		FailedTurns: 1,
		FinalTick:   5,
		FinalStatus: game.StatusSuccess,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(time.Minute),
	}
	if err := store.PutGame(context.Background(), input); err != nil {
		t.Fatalf("put game: %v", err)
	}

	got, err := store.GetGame(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.UserName != "Ada" {
		t.Fatalf("user_name = %q, want %q", got.UserName, "Ada")
	}
	if got.Seed == nil || *got.Seed != 42 {
		t.Fatalf("seed = %v, want 42", got.Seed)
	}
	if got.Turns != 5 || got.FailedTurns != 1 {
		t.Fatalf("turns = %d/%d, want 5/1", got.Turns, got.FailedTurns)
	}
	if got.FinalStatus != game.StatusSuccess {
		t.Fatalf("final_status = %v, want %v", got.FinalStatus, game.StatusSuccess)
	}
	if !got.StartedAt.Equal(startedAt) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, startedAt)
	}
}

func TestPutGameReplacesExisting(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	record := storage.GameRecord{GameID: "game-1", UserName: "Ada", FilePath: "a.swoq", StartedAt: time.Now()}
	if err := store.PutGame(context.Background(), record); err != nil {
		t.Fatalf("put game: %v", err)
	}
	record.Turns = 9
	record.FinalStatus = game.StatusTimeout
	if err := store.PutGame(context.Background(), record); err != nil {
		t.Fatalf("replace game: %v", err)
	}

	got, err := store.GetGame(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Turns != 9 || got.FinalStatus != game.StatusTimeout {
		t.Fatalf("got %+v, want replaced record", got)
	}
	if got.Seed != nil {
		t.Fatalf("seed = %v, want nil", *got.Seed)
	}
}

func TestPutGameValidatesRecord(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.PutGame(context.Background(), storage.GameRecord{FilePath: "a.swoq"}); err == nil {
		t.Fatal("expected missing game id error")
	}
	if err := store.PutGame(context.Background(), storage.GameRecord{GameID: "g"}); err == nil {
		t.Fatal("expected missing file path error")
	}
}

func TestGetGameReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetGame(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListGamesPaginatesMostRecentFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		record := storage.GameRecord{
			GameID:    id,
			UserName:  "Ada",
			FilePath:  id + ".swoq",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.PutGame(context.Background(), record); err != nil {
			t.Fatalf("put game %s: %v", id, err)
		}
	}

	first, err := store.ListGames(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Games) != 2 || first.Games[0].GameID != "c" || first.Games[1].GameID != "b" {
		t.Fatalf("first page = %+v, want [c b]", first.Games)
	}
	if first.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	second, err := store.ListGames(context.Background(), 2, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Games) != 1 || second.Games[0].GameID != "a" {
		t.Fatalf("second page = %+v, want [a]", second.Games)
	}
	if second.NextPageToken != "" {
		t.Fatalf("next page token = %q, want empty", second.NextPageToken)
	}
}

func TestListGamesRejectsBadInput(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.ListGames(context.Background(), 0, ""); err == nil {
		t.Fatal("expected page size error")
	}
	if _, err := store.ListGames(context.Background(), 10, "garbage"); err == nil {
		t.Fatal("expected page token error")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
	if err := store.PutGame(context.Background(), storage.GameRecord{GameID: "g", FilePath: "f"}); err == nil {
		t.Fatal("expected not configured error")
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
