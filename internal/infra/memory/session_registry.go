package memory

import (
	"sync"
	"time"
)

// SessionRegistry tracks live quiz sessions in process memory.
type SessionRegistry struct {
	mu     sync.RWMutex
	active map[string]time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{active: make(map[string]time.Time)}
}

func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[sessionID] = time.Now()
}

func (r *SessionRegistry) Unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, sessionID)
}

// Active returns the number of registered sessions.
func (r *SessionRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
