package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry tracks live quiz sessions in process memory and mirrors
// them as liveness keys in Redis, so operators can see active sessions
// across instances. Redis writes are best effort.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	active map[string]time.Time
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client: client,
		ttl:    ttl,
		active: make(map[string]time.Time),
	}
}

func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	r.active[sessionID] = time.Now()
	r.mu.Unlock()
	_ = r.client.Set(context.Background(), r.key(sessionID), "1", r.ttl).Err()
}

func (r *SessionRegistry) Unregister(sessionID string) {
	r.mu.Lock()
	delete(r.active, sessionID)
	r.mu.Unlock()
	_ = r.client.Del(context.Background(), r.key(sessionID)).Err()
}

// Active returns the number of sessions registered by this instance.
func (r *SessionRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

func (r *SessionRegistry) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
