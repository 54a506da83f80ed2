package indexer

import "sync"

// scopeLocks is an in-process advisory lock per indexing scope. It serializes
// runs for the same root directory while letting distinct roots index
// concurrently.
type scopeLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{active: make(map[string]struct{})}
}

// acquire reports whether the scope was free and marks it busy if so.
func (l *scopeLocks) acquire(scope string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.active[scope]; busy {
		return false
	}
	l.active[scope] = struct{}{}
	return true
}

func (l *scopeLocks) release(scope string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, scope)
}
