// Package generation implements a generation token used to discard stale
// asynchronous results.
//
// Every operation that produces a result calls Begin before it starts its
// work. Starting a newer operation, or calling Invalidate on teardown, makes
// every older token stale. Results are published through Commit, which only
// runs the publish function while the token is still current:
//
//	tok := guard.Begin()
//	result := slowFetch(ctx)
//	guard.Commit(tok, func() { latest = result })
//
// The underlying work is never cancelled by the guard; only its effect is
// suppressed.
package generation

import "sync"

// Guard hands out tokens and serialises commits against invalidation.
// The zero value is ready to use.
type Guard struct {
	mu      sync.Mutex
	current uint64
}

// Token identifies one operation started through a Guard.
type Token struct {
	guard *Guard
	gen   uint64
}

// Begin starts a new generation and returns its token.
// All tokens handed out earlier become stale.
func (g *Guard) Begin() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	return Token{guard: g, gen: g.current}
}

// Invalidate makes every outstanding token stale without starting a new operation.
// Once Invalidate returns, no commit from an earlier token can run.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
}

// Current returns the latest generation number.
func (g *Guard) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Commit runs fn if tok is still the current generation and reports whether it ran.
// fn runs with the guard locked: it must not call Begin, Invalidate or Commit on the same guard.
func (g *Guard) Commit(tok Token, fn func()) bool {
	if tok.guard != g {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if tok.gen != g.current {
		return false
	}
	fn()
	return true
}

// Generation returns the generation number captured by the token.
func (t Token) Generation() uint64 {
	return t.gen
}

// Current reports whether no newer operation has started and the guard was not invalidated since.
func (t Token) Current() bool {
	if t.guard == nil {
		return false
	}
	return t.guard.Current() == t.gen
}
