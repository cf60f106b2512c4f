package game

import "fmt"

// Status is the lifecycle status the server reports for a game.
type Status int32

const (
	// StatusActive indicates the game accepts further actions.
	StatusActive Status = iota
	// StatusSuccess indicates the player reached the exit.
	StatusSuccess
	// StatusTimeout indicates the game ran out of ticks.
	StatusTimeout
	// StatusNoProgress indicates the server stopped the game for inactivity.
	StatusNoProgress
	// StatusPlayerDied indicates the first player died.
	StatusPlayerDied
	// StatusPlayer2Died indicates the second player died.
	StatusPlayer2Died
	// StatusCanceled indicates the server canceled the game.
	StatusCanceled
)

var statusNames = map[Status]string{
	StatusActive:      "GAME_STATUS_ACTIVE",
	StatusSuccess:     "GAME_STATUS_FINISHED_SUCCESS",
	StatusTimeout:     "GAME_STATUS_FINISHED_TIMEOUT",
	StatusNoProgress:  "GAME_STATUS_FINISHED_NO_PROGRESS",
	StatusPlayerDied:  "GAME_STATUS_FINISHED_PLAYER_DIED",
	StatusPlayer2Died: "GAME_STATUS_FINISHED_PLAYER2_DIED",
	StatusCanceled:    "GAME_STATUS_FINISHED_CANCELED",
}

// Statuses returns every known status in protocol order.
func Statuses() []Status {
	return []Status{
		StatusActive,
		StatusSuccess,
		StatusTimeout,
		StatusNoProgress,
		StatusPlayerDied,
		StatusPlayer2Died,
		StatusCanceled,
	}
}

// Terminal reports whether the status ends the game. Unknown values are
// treated as terminal: the server only ever reports one active status.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// String returns the protocol name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GameStatus(%d)", int32(s))
}
