// internal/discovery/registry.go
package discovery

import "sync"

// Registry deduplicates pair addresses across polling cycles.
//
// The set is append-only for the life of the process and is never
// pruned; memory grows with the number of addresses observed. That is
// acceptable for a sandbox run, a concern for long deployments.
type Registry struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Has reports whether an address has been observed before
func (r *Registry) Has(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[address]
	return ok
}

// Add marks an address as observed
func (r *Registry) Add(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[address] = struct{}{}
}

// Warmup seeds the set from an initial discovery result without
// triggering any trade, so the "newest N" pairs already listed at
// startup are not misread as N new trades. Returns the number of
// addresses marked.
func (r *Registry) Warmup(records []PairRecord) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := 0
	for _, rec := range records {
		if rec.PairAddress == "" {
			continue
		}
		if _, ok := r.seen[rec.PairAddress]; !ok {
			r.seen[rec.PairAddress] = struct{}{}
			added++
		}
	}
	return added
}

// Clear forgets every observed address. This is the documented escape
// from the warm-up baseline: the next poll will trade whatever is
// currently newest.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[string]struct{})
}

// Size returns the number of observed addresses
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seen)
}
