package replay

import (
	"fmt"
	"strings"
	"time"
)

// Extension is the file extension of replay files.
const Extension = ".swoq"

const fileTimeLayout = "20060102-150405"

// FileName returns the replay file name for a game.
func FileName(userName string, startedAt time.Time, gameID string) string {
	return fmt.Sprintf("%s - %s - %s%s", escapeName(userName), startedAt.Format(fileTimeLayout), escapeName(gameID), Extension)
}

// escapeName replaces characters that are not portable in file names.
func escapeName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, value)
}
