package trace

import (
	"bufio"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a CBOR trace file.
// It is safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	buf     *bufio.Writer
	encoder *cbor.Encoder
	closed  bool
	dropped int
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &FileLogger{
		file:    f,
		buf:     buf,
		encoder: NewEncoder(buf),
	}, nil
}

// Log appends the event. Events logged after Close are discarded; encoding
// failures are counted, not returned.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.dropped++
	}
}

// Dropped returns the number of events that could not be encoded.
func (l *FileLogger) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Flush writes buffered events to the file.
func (l *FileLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	return l.buf.Flush()
}

// Close flushes and closes the file. It is safe to call Close more than once.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	ferr := l.buf.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return ferr
}

var _ Logger = (*FileLogger)(nil)
