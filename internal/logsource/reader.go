package logsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/tinytelemetry/logtally/internal/model"
)

const (
	// DefaultBuffer is the default channel buffer size for source lines.
	DefaultBuffer = model.DefaultLineBuffer

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = model.DefaultMaxLineSize
)

// ErrLineTooLong describes a line that exceeded the source's max line size.
var ErrLineTooLong = errors.New("line exceeds max line size")

// Config holds tunable parameters shared by reader-backed sources.
type Config struct {
	BufferSize  int
	MaxLineSize int
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBuffer
	}
	if c.MaxLineSize <= 0 {
		c.MaxLineSize = DefaultMaxLineSize
	}
	return c
}

// ReaderSource streams non-empty lines from an io.Reader. Lines longer than
// the configured maximum are skipped and delivered as Oversized envelopes.
type ReaderSource struct {
	name   string
	ch     chan model.IngestEnvelope
	cancel context.CancelFunc
	err    error
}

// NewReaderSource starts reading r in a background goroutine. Lines are
// tagged with name.
func NewReaderSource(ctx context.Context, name string, r io.Reader, conf ...Config) *ReaderSource {
	var cfg Config
	if len(conf) > 0 {
		cfg = conf[0]
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	s := &ReaderSource{
		name:   name,
		ch:     make(chan model.IngestEnvelope, cfg.BufferSize),
		cancel: cancel,
	}
	go s.read(ctx, r, cfg.MaxLineSize)
	return s
}

func (s *ReaderSource) read(ctx context.Context, r io.Reader, maxLineSize int) {
	defer close(s.ch)

	br := bufio.NewReaderSize(r, min(maxLineSize, 64*1024))

	// Read in a single helper goroutine so a blocked read does not prevent
	// noticing cancellation.
	results := make(chan model.IngestEnvelope)
	readErr := make(chan error, 1)
	go func() {
		defer close(results)
		lineNo := 0
		for {
			line, oversized, err := readLine(br, maxLineSize)
			if err != nil {
				if err := s.readFailure(ctx, err); err != nil {
					readErr <- err
				}
				return
			}
			lineNo++
			if line == "" && !oversized {
				continue
			}
			env := model.IngestEnvelope{Source: s.name, Line: line, LineNo: lineNo, Oversized: oversized}
			select {
			case results <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case env, ok := <-results:
			if !ok {
				select {
				case s.err = <-readErr:
				default:
				}
				return
			}
			select {
			case s.ch <- env:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
	}
}

// readFailure wraps and logs a read error. It returns nil for io.EOF and for
// errors caused by Stop, such as reading from a file that Stop closed.
func (s *ReaderSource) readFailure(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) || ctx.Err() != nil {
		return nil
	}
	err = fmt.Errorf("%s: %w", s.name, err)
	log.Printf("logsource: %v", err)
	return err
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is consumed to its end and reported as oversized with no text.
// io.EOF is returned only when no further line exists.
func readLine(br *bufio.Reader, maxLineSize int) (string, bool, error) {
	var (
		buf       []byte
		oversized bool
		started   bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return string(buf), oversized, nil
			}
			return "", false, err
		}
		started = true
		if !oversized {
			if len(buf)+len(chunk) > maxLineSize {
				oversized, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), oversized, nil
		}
	}
}

func (s *ReaderSource) Lines() <-chan model.IngestEnvelope { return s.ch }
func (s *ReaderSource) Stop()                              { s.cancel() }
func (s *ReaderSource) Name() string                       { return s.name }

// Err returns the error that ended the source, if any. It is only
// meaningful after Lines has been closed.
func (s *ReaderSource) Err() error { return s.err }
