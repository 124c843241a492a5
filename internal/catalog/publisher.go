package catalog

import "sync/atomic"

var empty = New(nil)

// Publisher hands the current catalog to readers. A rebuilt catalog replaces
// the old one with a single pointer swap; readers holding the previous
// catalog keep using it unchanged.
type Publisher struct {
	current atomic.Pointer[Catalog]
}

// Load returns the current catalog, or an empty one if none was stored.
func (p *Publisher) Load() *Catalog {
	if c := p.current.Load(); c != nil {
		return c
	}
	return empty
}

// Store publishes c. It must be fully built before the call.
func (p *Publisher) Store(c *Catalog) {
	p.current.Store(c)
}
