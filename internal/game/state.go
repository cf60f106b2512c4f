package game

import "slices"

// Position is a map coordinate; Y grows southwards.
type Position struct {
	X int32
	Y int32
}

// PlayerState is one player's view of the game after a tick.
type PlayerState struct {
	Position *Position
	// Surroundings is the row-major square of tiles within visibility range.
	Surroundings []Tile
	Health       int32
	Inventory    Inventory
	HasSword     bool
}

// Clone returns a deep copy of p.
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}
	out := *p
	if p.Position != nil {
		pos := *p.Position
		out.Position = &pos
	}
	out.Surroundings = slices.Clone(p.Surroundings)
	return &out
}

// State is an authoritative snapshot of a game. Snapshots are replaced
// wholesale after every turn and never edited in place.
type State struct {
	Tick    int32
	Level   int32
	Status  Status
	Player  *PlayerState
	Player2 *PlayerState
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Player = s.Player.Clone()
	out.Player2 = s.Player2.Clone()
	return &out
}
