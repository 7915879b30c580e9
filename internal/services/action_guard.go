// internal/services/action_guard.go
package services

import (
	"errors"
	"sync"
)

var ErrActionInProgress = errors.New("the same action is already in progress")

// ActionGuard is a best-effort in-flight flag per viewer, action and entity.
// It only rejects overlapping duplicates; it does not queue or deduplicate
// sequential requests.
type ActionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewActionGuard() *ActionGuard {
	return &ActionGuard{inFlight: make(map[string]struct{})}
}

// Acquire marks the action as running. The returned release must be called
// once the action finished.
func (g *ActionGuard) Acquire(viewerID, action, entityID string) (func(), error) {
	key := viewerID + "|" + action + "|" + entityID

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, ErrActionInProgress
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}
