package game

import "testing"

func TestStatusTerminal(t *testing.T) {
	for _, status := range Statuses() {
		want := status != StatusActive
		if got := status.Terminal(); got != want {
			t.Fatalf("%s terminal = %v, want %v", status, got, want)
		}
	}
	if !Status(99).Terminal() {
		t.Fatal("expected unknown status to be terminal")
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusActive.String(); got != "GAME_STATUS_ACTIVE" {
		t.Fatalf("active = %q, want %q", got, "GAME_STATUS_ACTIVE")
	}
	if got := Status(42).String(); got != "GameStatus(42)" {
		t.Fatalf("unknown = %q, want %q", got, "GameStatus(42)")
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Action
	}{
		{name: "full name", input: "DIRECTED_ACTION_MOVE_EAST", want: ActionMoveEast},
		{name: "short lower", input: "move_south", want: ActionMoveSouth},
		{name: "padded", input: "  use_west ", want: ActionUseWest},
		{name: "none", input: "NONE", want: ActionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAction(tc.input)
			if err != nil {
				t.Fatalf("parse action: %v", err)
			}
			if got != tc.want {
				t.Fatalf("action = %s, want %s", got, tc.want)
			}
		})
	}

	if _, err := ParseAction("jump"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestActionValid(t *testing.T) {
	for _, action := range Actions() {
		if !action.Valid() {
			t.Fatalf("expected %s to be valid", action)
		}
	}
	if Action(-1).Valid() {
		t.Fatal("expected negative action to be invalid")
	}
	if Action(len(Actions())).Valid() {
		t.Fatal("expected out of range action to be invalid")
	}
}

func TestParseResults(t *testing.T) {
	if got, ok := ParseStartResult("START_RESULT_QUEST_QUEUED"); !ok || got != StartResultQuestQueued {
		t.Fatalf("start result = %v, %v", got, ok)
	}
	if _, ok := ParseStartResult("nope"); ok {
		t.Fatal("expected unknown start result")
	}
	if got, ok := ParseActResult("ACT_RESULT_GAME_FINISHED"); !ok || got != ActResultGameFinished {
		t.Fatalf("act result = %v, %v", got, ok)
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	original := &State{
		Tick:   3,
		Status: StatusActive,
		Player: &PlayerState{
			Position:     &Position{X: 1, Y: 2},
			Surroundings: []Tile{TileWall, TileEmpty},
			Health:       5,
		},
	}

	clone := original.Clone()
	clone.Player.Position.X = 9
	clone.Player.Surroundings[0] = TileExit
	clone.Tick = 4

	if original.Player.Position.X != 1 {
		t.Fatalf("position x = %d, want 1", original.Player.Position.X)
	}
	if original.Player.Surroundings[0] != TileWall {
		t.Fatalf("surroundings[0] = %s, want %s", original.Player.Surroundings[0], TileWall)
	}
	if original.Tick != 3 {
		t.Fatalf("tick = %d, want 3", original.Tick)
	}
	if clone.Player2 != nil {
		t.Fatal("expected nil player2 to stay nil")
	}

	var nilState *State
	if nilState.Clone() != nil {
		t.Fatal("expected nil clone of nil state")
	}
}

func TestTilesCoversNames(t *testing.T) {
	if got, want := len(Tiles()), len(tileNames); got != want {
		t.Fatalf("tiles len = %d, want %d", got, want)
	}
}
