package peekback

import (
	"runtime"
	"sync"
	"weak"
)

// registry associates a raw handle with the engine claiming it, so wrapping
// the same handle twice never stands up two competing buffers. Values are
// weak: the registry keeps neither the engine nor, through it, the raw handle
// alive, and entries are removed once the engine is collected.
type registry struct {
	mu      sync.Mutex
	entries map[any]*entry
}

type entry struct {
	// get resolves the weakly held engine; nil once it has been collected.
	get func() Wrapped
}

// streams is process-wide state, like the wrapper cache it replaces.
var streams = &registry{entries: make(map[any]*entry)}

// lookup returns the live engine claiming raw, of whatever kind, or nil.
func (r *registry) lookup(raw any) Wrapped {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[raw]; ok {
		if w := e.get(); w != nil {
			return w
		}
	}
	return nil
}

// obtain returns the engine claiming raw, constructing one with mk if none
// exists. Lookup and construction happen under the registry lock so two
// racing wraps of one handle produce exactly one engine; the lock never
// covers the engine's own operations. The cached path does not re-validate
// the element kind, but it cannot hand a byte engine to a rune caller either,
// so a kind disagreement surfaces as ErrClaimed.
func obtain[E Elem](r *registry, raw any, mk func() (*Stream[E], error)) (*Stream[E], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[raw]; ok {
		if w := e.get(); w != nil {
			s, ok := w.(*Stream[E])
			if !ok {
				return nil, ErrClaimed
			}
			return s, nil
		}
		// Engine collected but its cleanup has not run yet.
		delete(r.entries, raw)
	}
	s, err := mk()
	if err != nil {
		return nil, err
	}
	p := weak.Make(s)
	e := &entry{get: func() Wrapped {
		if s := p.Value(); s != nil {
			return s
		}
		return nil
	}}
	r.entries[raw] = e
	// The cleanup must not capture s, or s would never be collected. It
	// deletes the entry only if it is still this one: the handle may have
	// been re-wrapped by the time the cleanup runs.
	runtime.AddCleanup(s, func(key any) {
		r.mu.Lock()
		if r.entries[key] == e {
			delete(r.entries, key)
		}
		r.mu.Unlock()
	}, raw)
	return s, nil
}
