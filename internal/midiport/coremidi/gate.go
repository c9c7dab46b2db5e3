package coremidi

import "sync"

// gate lets packet callbacks run until it is closed. close waits for any
// callback inside run to return.
type gate struct {
	mu     sync.RWMutex
	closed bool
}

func (g *gate) run(fn func()) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return
	}
	fn()
}

func (g *gate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}
