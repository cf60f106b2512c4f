package game

import "time"

// StartRequest asks the server to create a game instance for a user.
type StartRequest struct {
	UserID   string
	UserName string
	// Level pins the level; nil lets the server pick from the user's progress.
	Level *int32
	// Seed pins map generation; nil lets the server choose one.
	Seed *int32
}

// StartResponse describes the created game instance.
type StartResponse struct {
	Result          StartResult
	GameID          string
	MapWidth        int32
	MapHeight       int32
	VisibilityRange int32
	State           *State
	// Seed is the effective seed, echoed even when the request left it unset.
	Seed *int32
}

// ActRequest carries one directed action for a game.
type ActRequest struct {
	GameID string
	Action Action
}

// ActResponse carries the server's verdict and the resulting snapshot.
type ActResponse struct {
	Result ActResult
	State  *State
}

// ReplayHeader opens every replay file.
type ReplayHeader struct {
	UserName string
	DateTime time.Time
}

// Int32 returns a pointer to v, for optional request fields.
func Int32(v int32) *int32 {
	return &v
}
