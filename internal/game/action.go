package game

import (
	"fmt"
	"strings"
)

// Action is a directed action sent to the server for one turn.
type Action int32

const (
	// ActionNone waits one tick.
	ActionNone Action = iota
	// ActionMoveNorth moves one cell north.
	ActionMoveNorth
	// ActionMoveEast moves one cell east.
	ActionMoveEast
	// ActionMoveSouth moves one cell south.
	ActionMoveSouth
	// ActionMoveWest moves one cell west.
	ActionMoveWest
	// ActionUseNorth uses the inventory or attacks north.
	ActionUseNorth
	// ActionUseEast uses the inventory or attacks east.
	ActionUseEast
	// ActionUseSouth uses the inventory or attacks south.
	ActionUseSouth
	// ActionUseWest uses the inventory or attacks west.
	ActionUseWest
)

const actionPrefix = "DIRECTED_ACTION_"

var actionNames = map[Action]string{
	ActionNone:      "DIRECTED_ACTION_NONE",
	ActionMoveNorth: "DIRECTED_ACTION_MOVE_NORTH",
	ActionMoveEast:  "DIRECTED_ACTION_MOVE_EAST",
	ActionMoveSouth: "DIRECTED_ACTION_MOVE_SOUTH",
	ActionMoveWest:  "DIRECTED_ACTION_MOVE_WEST",
	ActionUseNorth:  "DIRECTED_ACTION_USE_NORTH",
	ActionUseEast:   "DIRECTED_ACTION_USE_EAST",
	ActionUseSouth:  "DIRECTED_ACTION_USE_SOUTH",
	ActionUseWest:   "DIRECTED_ACTION_USE_WEST",
}

// Actions returns every directed action in protocol order.
func Actions() []Action {
	return []Action{
		ActionNone,
		ActionMoveNorth,
		ActionMoveEast,
		ActionMoveSouth,
		ActionMoveWest,
		ActionUseNorth,
		ActionUseEast,
		ActionUseSouth,
		ActionUseWest,
	}
}

// Valid reports whether a is one of the actions the protocol accepts.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// String returns the protocol name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("DirectedAction(%d)", int32(a))
}

// ParseAction resolves an action from its protocol name. The
// DIRECTED_ACTION_ prefix is optional and matching ignores case, so
// "move_east" and "DIRECTED_ACTION_MOVE_EAST" are equivalent.
func ParseAction(name string) (Action, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(normalized, actionPrefix) {
		normalized = actionPrefix + normalized
	}
	for action, candidate := range actionNames {
		if candidate == normalized {
			return action, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown directed action %q", name)
}
