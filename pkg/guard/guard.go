// Package guard wraps a raw stream handle that has been claimed by a
// lookahead wrapper, refusing direct reads and seeks so all consumption goes
// through the wrapper's buffer. Non-read operations pass through, and Raw
// exposes the handle itself for emergency use.
package guard

import (
	"errors"
	"fmt"
	"io"
)

// ErrProtected reports a read-side operation attempted on a claimed handle.
var ErrProtected = errors.New("operation protected on claimed stream")

// Guard is the access-restricting facade over a claimed raw handle. It
// implements the standard read-side interfaces so it can stand in for the
// handle anywhere, but every read or seek fails with ErrProtected naming the
// blocked operation.
type Guard struct {
	raw any
}

func New(raw any) *Guard {
	return &Guard{raw: raw}
}

// Raw returns the claimed handle, bypassing protection. This is a deliberate
// escape hatch for emergency and debugging use.
func (g *Guard) Raw() any { return g.raw }

func (g *Guard) protected(op string) error {
	return fmt.Errorf("%s: %w", op, ErrProtected)
}

func (g *Guard) Read([]byte) (int, error) { return 0, g.protected("read") }

func (g *Guard) ReadAt([]byte, int64) (int, error) { return 0, g.protected("readat") }

func (g *Guard) ReadByte() (byte, error) { return 0, g.protected("readbyte") }

func (g *Guard) ReadRune() (rune, int, error) { return 0, 0, g.protected("readrune") }

func (g *Guard) Seek(int64, int) (int64, error) { return 0, g.protected("seek") }

func (g *Guard) WriteTo(io.Writer) (int64, error) { return 0, g.protected("writeto") }

// Close closes the raw handle when it supports closing.
func (g *Guard) Close() error {
	if c, ok := g.raw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Sync flushes the raw handle when it supports syncing.
func (g *Guard) Sync() error {
	if s, ok := g.raw.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Mode reports the raw handle's declared mode, or "".
func (g *Guard) Mode() string {
	if m, ok := g.raw.(interface{ Mode() string }); ok {
		return m.Mode()
	}
	return ""
}

// Name reports the raw handle's name, or "".
func (g *Guard) Name() string {
	if n, ok := g.raw.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

var (
	_ io.Reader     = (*Guard)(nil)
	_ io.ReaderAt   = (*Guard)(nil)
	_ io.ByteReader = (*Guard)(nil)
	_ io.RuneReader = (*Guard)(nil)
	_ io.Seeker     = (*Guard)(nil)
	_ io.WriterTo   = (*Guard)(nil)
	_ io.Closer     = (*Guard)(nil)
)
