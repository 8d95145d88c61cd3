package service

import (
	"sync"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// SubmitGuard rejects a mutation while an identical one is still in flight.
// It is the server-side counterpart of disabling a submit button.
type SubmitGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inflight: make(map[string]struct{})}
}

// Acquire claims key until release is called. A nil guard admits everything.
func (g *SubmitGuard) Acquire(key string) (release func(), err error) {
	if g == nil {
		return func() {}, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return nil, domain.ErrSubmitInFlight
	}
	g.inflight[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}, nil
}
