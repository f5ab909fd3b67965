package output

import (
	"fmt"
	"io"
	"sync"
)

// DefaultCapacity is the queue size used when NewStream is given a
// capacity of zero or less.
const DefaultCapacity = 100

// Stream writes whole lines to a single writer from one consumer
// goroutine. Any number of goroutines may call Send concurrently.
type Stream struct {
	lines chan string
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewStream starts a stream writing to w. The stream buffers up to
// capacity lines before Send blocks.
func NewStream(w io.Writer, capacity int) *Stream {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Stream{
		lines: make(chan string, capacity),
		done:  make(chan struct{}),
	}
	go s.consume(w)
	return s
}

func (s *Stream) consume(w io.Writer) {
	defer close(s.done)
	for line := range s.lines {
		fmt.Fprintln(w, line)
	}
}

// Send enqueues one line, blocking while the stream's buffer is full.
// It must not be called after Close.
func (s *Stream) Send(line string) {
	s.lines <- line
}

// Sendf formats and enqueues one line.
func (s *Stream) Sendf(format string, args ...any) {
	s.Send(fmt.Sprintf(format, args...))
}

// Close stops accepting lines and returns once every enqueued line has
// been written. It is safe to call more than once.
func (s *Stream) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.lines)
	}
	s.mu.Unlock()

	<-s.done
}
