// Package session tracks which placement computations are still current.
//
// The engine keeps no state between calls, so a caller that computes
// positions asynchronously (a TUI redrawing on every scroll event, a client
// issuing overlapping requests) must discard results of superseded calls
// itself. A [Tracker] hands out a [Token] per computation; only the token of
// the latest computation for a key is accepted:
//
//	tr := session.NewTracker()
//	tok := tr.Begin("tooltip")
//	go func() {
//	    res, err := scene.Resolve(ctx, sc, logger)
//	    if !tr.Accept(tok) {
//	        return // a newer computation for "tooltip" has started
//	    }
//	    apply(res, err)
//	}()
//
// The package also persists explorer [Snapshot]s so an interactive session
// can be resumed.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrStale is returned by Check for a token superseded by a newer one.
	ErrStale = errors.New("stale result")

	// ErrForeign is returned by Check for a token issued by another tracker.
	ErrForeign = errors.New("token from another session")
)

// Token identifies one computation.
type Token struct {
	Session    string `json:"session"`
	Key        string `json:"key"`
	Generation uint64 `json:"generation"`
}

// Tracker issues tokens and remembers the latest generation per key. It is
// safe for concurrent use.
type Tracker struct {
	id string

	mu     sync.Mutex
	latest map[string]uint64
}

// NewTracker creates a tracker with a fresh session ID.
func NewTracker() *Tracker {
	return &Tracker{id: uuid.NewString(), latest: make(map[string]uint64)}
}

// ID returns the tracker's session ID.
func (t *Tracker) ID() string {
	return t.id
}

// Begin starts a new computation for key, superseding earlier ones.
func (t *Tracker) Begin(key string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[key]++
	return Token{Session: t.id, Key: key, Generation: t.latest[key]}
}

// Check returns nil if tok belongs to the latest computation for its key.
func (t *Tracker) Check(tok Token) error {
	if tok.Session != t.id {
		return ErrForeign
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest[tok.Key] != tok.Generation {
		return ErrStale
	}
	return nil
}

// Accept reports whether tok's result should be applied.
func (t *Tracker) Accept(tok Token) bool {
	return t.Check(tok) == nil
}

// Forget drops key, invalidating its outstanding tokens. A later Begin
// continues the generation count so old tokens stay stale.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.latest[key]; ok {
		t.latest[key]++
	}
}
