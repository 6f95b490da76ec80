package logsource

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// FileSource reads log lines from a file on disk.
type FileSource struct {
	*ReaderSource
	file      *os.File
	closeOnce sync.Once
}

// NewFileSource opens path and starts reading it in a background goroutine.
// The file is closed by Stop or Close.
func NewFileSource(ctx context.Context, path string, conf ...Config) (*FileSource, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}

	s := &FileSource{
		ReaderSource: NewReaderSource(ctx, path, f, conf...),
		file:         f,
	}
	return s, nil
}

// CheckFile reports an error if path cannot be opened for reading or is a
// directory. The file is not kept open.
func CheckFile(path string) error {
	f, err := openFile(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}
	return f, nil
}

// Stop cancels reading and closes the file, unblocking any pending read.
func (s *FileSource) Stop() {
	s.ReaderSource.Stop()
	s.close()
}

// Close releases the underlying file. It is safe to call more than once.
func (s *FileSource) Close() error {
	s.close()
	return nil
}

func (s *FileSource) close() {
	s.closeOnce.Do(func() {
		_ = s.file.Close()
	})
}
