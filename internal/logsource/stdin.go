package logsource

import (
	"context"
	"io"
	"os"
)

// StdinName is the source name used for standard input.
const StdinName = "stdin"

// StdinSource reads log lines from stdin.
type StdinSource struct {
	*ReaderSource
}

// NewStdinSource creates a StdinSource that reads from stdin in a background goroutine.
func NewStdinSource(ctx context.Context, conf ...Config) *StdinSource {
	return newStdinSourceWithReader(ctx, os.Stdin, conf...)
}

func newStdinSourceWithReader(ctx context.Context, r io.Reader, conf ...Config) *StdinSource {
	return &StdinSource{ReaderSource: NewReaderSource(ctx, StdinName, r, conf...)}
}
