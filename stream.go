package peekback

import (
	"errors"
	"sync"

	"github.com/peekback/peekback/pkg/guard"
)

var (
	// ErrEmptyDelimiter reports a delimiter-bounded read with no delimiter.
	ErrEmptyDelimiter = errors.New("empty delimiter")
	// ErrTruncated reports end of stream before the requested delimiter.
	ErrTruncated = errors.New("truncated input")
)

// Stream augments a raw stream with buffered lookahead, pushback, and
// delimiter-bounded reads. A Stream owns its raw handle: all consumption goes
// through it, which the guard facade enforces. Streams are safe for
// concurrent use; operations on one Stream are serialized by its mutex, and
// distinct Streams never contend.
//
// The pending buffer holds elements pulled from the raw stream or pushed back
// by Unread but not yet delivered. Reads drain it from the front; pushback
// prepends.
type Stream[E Elem] struct {
	mu   sync.Mutex
	g    *guard.Guard
	src  source[E]
	kind Kind
	buf  []E
}

func newStream[E Elem](g *guard.Guard, kind Kind, src source[E]) *Stream[E] {
	return &Stream[E]{g: g, src: src, kind: kind}
}

// Kind reports the element kind fixed at wrap time.
func (s *Stream[E]) Kind() Kind { return s.kind }

// Guard returns the facade claiming the raw handle. Non-read operations
// (Close, Sync, Name) remain available through it.
func (s *Stream[E]) Guard() *guard.Guard { return s.g }

// Buffered reports the number of pending elements.
func (s *Stream[E]) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Read returns up to n elements, draining the pending buffer before pulling
// the remainder from the raw stream. n < 0 reads to end of stream; n == 0
// returns immediately without touching the lock or the raw stream. End of
// stream is an empty result, not an error. If the raw stream fails, anything
// already taken is pushed back and the error returned.
func (s *Stream[E]) Read(n int) ([]E, error) {
	if n == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(n)
}

// Unread prepends data to the pending buffer. Subsequent reads deliver it
// before any further raw-stream elements, most recent pushback first. There
// is no bound on pushback size.
func (s *Stream[E]) Unread(data []E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreadLocked(data)
}

// Peek returns what the next Read of n would, without consuming it. The read
// and pushback happen under a single lock hold, so no other goroutine
// observes the intermediate state; repeated peeks are idempotent. n < 0 peeks
// to end of stream.
func (s *Stream[E]) Peek(n int) ([]E, error) {
	if n == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ret, err := s.readLocked(n)
	if err != nil {
		return nil, err
	}
	s.unreadLocked(ret)
	return ret, nil
}

// ReadLine returns the next line through its newline. At end of stream the
// unterminated remainder comes back without one; an empty result means true
// end of stream with nothing pending.
func (s *Stream[E]) ReadLine() ([]E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLineLocked()
}

// ReadLines reads to end of stream, returning the non-empty lines produced.
func (s *Stream[E]) ReadLines() ([][]E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lines [][]E
	for {
		line, err := s.readLineLocked()
		if err != nil {
			return lines, err
		}
		if len(line) == 0 {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

// ReadUntil consumes and returns the shortest prefix of the remaining stream
// that ends with delim. A delimiter already pending in the buffer is sliced
// out without touching the raw stream. With eofOK, end of stream before the
// delimiter returns everything consumed; otherwise the consumed data is
// pushed back and ErrTruncated returned, so nothing is ever dropped.
func (s *Stream[E]) ReadUntil(delim []E, eofOK bool) ([]E, error) {
	if len(delim) == 0 {
		return nil, ErrEmptyDelimiter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := index(s.buf, delim); i >= 0 {
		return s.take(i + len(delim)), nil
	}
	acc := s.take(-1)
	for !hasSuffix(acc, delim) {
		// Request the fewest elements that could complete an occurrence
		// given the delimiter prefix already at the tail. Never fewer, so
		// short delimiters don't degrade into element-by-element reads.
		chunk, err := s.src.ReadN(len(delim) - overlap(acc, delim))
		acc = append(acc, chunk...)
		if err != nil {
			s.unreadLocked(acc)
			return nil, err
		}
		if len(chunk) == 0 {
			if eofOK {
				return acc, nil
			}
			s.unreadLocked(acc)
			return nil, ErrTruncated
		}
	}
	return acc, nil
}

func (s *Stream[E]) readLocked(n int) ([]E, error) {
	ret := s.take(n)
	if n >= 0 && len(ret) == n {
		return ret, nil
	}
	want := n
	if n > 0 {
		want = n - len(ret)
	}
	rest, err := s.src.ReadN(want)
	ret = append(ret, rest...)
	if err != nil {
		s.unreadLocked(ret)
		return nil, err
	}
	return ret, nil
}

func (s *Stream[E]) readLineLocked() ([]E, error) {
	nl := []E{E('\n')}
	if i := index(s.buf, nl); i >= 0 {
		return s.take(i + 1), nil
	}
	ret := s.take(-1)
	rest, err := s.src.ReadLine()
	ret = append(ret, rest...)
	if err != nil {
		s.unreadLocked(ret)
		return nil, err
	}
	return ret, nil
}

// take removes and returns up to n pending elements; n < 0 takes them all.
// The result is capped so later appends cannot stomp the buffer.
func (s *Stream[E]) take(n int) []E {
	if n < 0 || n > len(s.buf) {
		n = len(s.buf)
	}
	ret := s.buf[:n:n]
	s.buf = s.buf[n:]
	return ret
}

func (s *Stream[E]) unreadLocked(data []E) {
	if len(data) == 0 {
		return
	}
	buf := make([]E, 0, len(data)+len(s.buf))
	s.buf = append(append(buf, data...), s.buf...)
}
