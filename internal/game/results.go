package game

import "fmt"

// StartResult is the server's verdict on a start request.
type StartResult int32

const (
	StartResultOK StartResult = iota
	StartResultInternalError
	StartResultNotAllowed
	StartResultUnknownUser
	StartResultQuestQueued
	StartResultQuestAlreadyActive
)

var startResultNames = map[StartResult]string{
	StartResultOK:                 "START_RESULT_OK",
	StartResultInternalError:      "START_RESULT_INTERNAL_ERROR",
	StartResultNotAllowed:         "START_RESULT_NOT_ALLOWED",
	StartResultUnknownUser:        "START_RESULT_UNKNOWN_USER",
	StartResultQuestQueued:        "START_RESULT_QUEST_QUEUED",
	StartResultQuestAlreadyActive: "START_RESULT_QUEST_ALREADY_ACTIVE",
}

// StartResults returns every known start result in protocol order.
func StartResults() []StartResult {
	return []StartResult{
		StartResultOK,
		StartResultInternalError,
		StartResultNotAllowed,
		StartResultUnknownUser,
		StartResultQuestQueued,
		StartResultQuestAlreadyActive,
	}
}

func (r StartResult) String() string {
	if name, ok := startResultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("StartResult(%d)", int32(r))
}

// ParseStartResult resolves a start result from its protocol name.
func ParseStartResult(name string) (StartResult, bool) {
	for result, candidate := range startResultNames {
		if candidate == name {
			return result, true
		}
	}
	return StartResultOK, false
}

// ActResult is the server's verdict on one turn.
type ActResult int32

const (
	ActResultOK ActResult = iota
	ActResultInternalError
	ActResultNotAllowed
	ActResultUnknownGameID
	ActResultMoveNotAllowed
	ActResultUseNotAllowed
	ActResultInventoryFull
	ActResultInventoryEmpty
	ActResultNoSword
	ActResultGameFinished
)

var actResultNames = map[ActResult]string{
	ActResultOK:             "ACT_RESULT_OK",
	ActResultInternalError:  "ACT_RESULT_INTERNAL_ERROR",
	ActResultNotAllowed:     "ACT_RESULT_NOT_ALLOWED",
	ActResultUnknownGameID:  "ACT_RESULT_UNKNOWN_GAME_ID",
	ActResultMoveNotAllowed: "ACT_RESULT_MOVE_NOT_ALLOWED",
	ActResultUseNotAllowed:  "ACT_RESULT_USE_NOT_ALLOWED",
	ActResultInventoryFull:  "ACT_RESULT_INVENTORY_FULL",
	ActResultInventoryEmpty: "ACT_RESULT_INVENTORY_EMPTY",
	ActResultNoSword:        "ACT_RESULT_NO_SWORD",
	ActResultGameFinished:   "ACT_RESULT_GAME_FINISHED",
}

// ActResults returns every known act result in protocol order.
func ActResults() []ActResult {
	return []ActResult{
		ActResultOK,
		ActResultInternalError,
		ActResultNotAllowed,
		ActResultUnknownGameID,
		ActResultMoveNotAllowed,
		ActResultUseNotAllowed,
		ActResultInventoryFull,
		ActResultInventoryEmpty,
		ActResultNoSword,
		ActResultGameFinished,
	}
}

func (r ActResult) String() string {
	if name, ok := actResultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ActResult(%d)", int32(r))
}

// ParseActResult resolves an act result from its protocol name.
func ParseActResult(name string) (ActResult, bool) {
	for result, candidate := range actResultNames {
		if candidate == name {
			return result, true
		}
	}
	return ActResultOK, false
}
