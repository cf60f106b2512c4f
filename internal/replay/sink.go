package replay

import (
	"io"
	"os"
)

// Sink is the destination of a replay. *os.File satisfies it.
type Sink interface {
	io.Writer
	io.Seeker
	Truncate(size int64) error
	Sync() error
	Close() error
}

// OpenFunc creates the sink for a replay path. It must fail if the path
// already exists.
type OpenFunc func(path string) (Sink, error)

func openExclusive(path string) (Sink, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}
