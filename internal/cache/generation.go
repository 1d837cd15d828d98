package cache

import "sync"

// Generations versions the cached views of each owner. A reader captures
// the generation before loading source data and stores its result only if
// no invalidation happened in between.
type Generations struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewGenerations() *Generations {
	return &Generations{gens: make(map[string]uint64)}
}

// Current returns the generation of owner.
func (g *Generations) Current(owner string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[owner]
}

// Bump advances owner's generation and runs drop while holding the lock.
func (g *Generations) Bump(owner string, drop func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[owner]++
	if drop != nil {
		drop()
	}
}

// StoreIf runs store only when owner is still at gen and reports whether it
// ran.
func (g *Generations) StoreIf(owner string, gen uint64, store func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gens[owner] != gen {
		return false
	}
	store()
	return true
}
