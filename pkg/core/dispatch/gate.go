package dispatch

import (
	"sync"

	"github.com/wsafety/desk/pkg/core/model"
)

// Gate is the single in-flight flag shared by every status transition. While
// it is held, no dispatch in the list may be transitioned.
type Gate struct {
	mu     sync.Mutex
	held   bool
	holder model.ID
}

// TryAcquire takes the gate on behalf of dispatch id. It reports false when
// another transition already holds it.
func (g *Gate) TryAcquire(id model.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return false
	}
	g.held = true
	g.holder = id
	return true
}

// Release frees the gate. Releasing a free gate is a no-op.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
	g.holder = ""
}

// Busy reports whether a transition is in flight
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// Holder returns the dispatch whose transition holds the gate
func (g *Gate) Holder() (model.ID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder, g.held
}
