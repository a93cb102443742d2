// Package peekback augments byte- and rune-oriented streams with buffered
// lookahead, arbitrary pushback, and delimiter-bounded reads.
//
// At most one Stream exists per raw handle: wrapping the same handle again
// returns the engine already claiming it, so two layers never fight over one
// read position. Once wrapped, the handle belongs to its Stream; the
// guard.Guard facade refuses direct reads and seeks while leaving close and
// flush reachable.
//
// Raw handles must be comparable (pointers in practice) since the per-handle
// registry is keyed by handle identity.
package peekback

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peekback/peekback/pkg/guard"
)

// Kind is a stream's element kind, fixed at wrap time.
type Kind int

const (
	// KindAuto detects the kind from the raw handle at wrap time.
	KindAuto Kind = iota
	KindBytes
	KindRunes
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindRunes:
		return "runes"
	default:
		return "auto"
	}
}

var (
	ErrKindConflict = errors.New("raw stream is both byte and rune oriented")
	ErrKindUnknown  = errors.New("cannot determine element kind of raw stream")
	ErrClaimed      = errors.New("raw stream already wrapped with a different element kind")
)

// Wrapped is the kind-agnostic surface shared by *Stream[byte] and
// *Stream[rune]. Callers type-assert to reach the typed operations.
type Wrapped interface {
	Kind() Kind
	Buffered() int
	Guard() *guard.Guard
}

// Bytes returns the byte-oriented Stream claiming raw, constructing it on
// first wrap. It fails with ErrClaimed if raw is already claimed as a rune
// stream, and with a kind error if the handle's evidence contradicts bytes.
func Bytes(raw any) (*Stream[byte], error) {
	return obtain(streams, raw, func() (*Stream[byte], error) {
		return newBytes(raw)
	})
}

// Runes returns the rune-oriented Stream claiming raw, constructing it on
// first wrap. It fails with ErrClaimed if raw is already claimed as a byte
// stream, and with a kind error if the handle's evidence contradicts runes.
func Runes(raw any) (*Stream[rune], error) {
	return obtain(streams, raw, func() (*Stream[rune], error) {
		return newRunes(raw)
	})
}

// Wrap claims raw with the given kind; KindAuto detects the kind from the
// handle. If raw is already claimed, the existing engine is returned as is,
// whatever kind was requested.
func Wrap(raw any, kind Kind) (Wrapped, error) {
	if w := streams.lookup(raw); w != nil {
		return w, nil
	}
	if kind == KindAuto {
		k, err := detect(guard.New(raw), KindAuto)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if kind == KindBytes {
		s, err := Bytes(raw)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := Runes(raw)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newBytes(raw any) (*Stream[byte], error) {
	g := guard.New(raw)
	if _, err := detect(g, KindBytes); err != nil {
		return nil, err
	}
	r, ok := g.Raw().(io.Reader)
	if !ok {
		return nil, fmt.Errorf("byte stream: %w", ErrKindUnknown)
	}
	lr, _ := g.Raw().(lineReader)
	return newStream[byte](g, KindBytes, &byteSource{r: r, lr: lr}), nil
}

func newRunes(raw any) (*Stream[rune], error) {
	g := guard.New(raw)
	if _, err := detect(g, KindRunes); err != nil {
		return nil, err
	}
	r, ok := g.Raw().(io.RuneReader)
	if !ok {
		return nil, fmt.Errorf("rune stream: %w", ErrKindUnknown)
	}
	return newStream[rune](g, KindRunes, &runeSource{r: r}), nil
}

// detect decides the element kind of the handle behind g. This is the one
// mode handshake done at wrap time; hint forces one side, and conflicting
// evidence fails rather than guessing. Evidence for bytes is a "b" in the
// handle's declared mode or implementing io.Reader but not io.RuneReader;
// evidence for runes is a non-"b" mode or implementing io.RuneReader only.
func detect(g *guard.Guard, hint Kind) (Kind, error) {
	mode := g.Mode()
	_, canBytes := g.Raw().(io.Reader)
	_, canRunes := g.Raw().(io.RuneReader)
	binary := hint == KindBytes || strings.Contains(mode, "b") || (canBytes && !canRunes)
	text := hint == KindRunes || (mode != "" && !strings.Contains(mode, "b")) || (canRunes && !canBytes)
	switch {
	case binary && text:
		return KindAuto, ErrKindConflict
	case binary:
		return KindBytes, nil
	case text:
		return KindRunes, nil
	default:
		return KindAuto, ErrKindUnknown
	}
}
