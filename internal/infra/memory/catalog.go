package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eitango-quiz-service/internal/domain"
)

// WordSource fetches the vocabulary set from a backing store.
type WordSource interface {
	LoadWords(ctx context.Context) ([]domain.WordItem, error)
}

// RosterSource fetches the learner allow-list from a backing store.
type RosterSource interface {
	LoadRoster(ctx context.Context) (domain.Roster, error)
}

// StaticCatalog is a word/roster source backed by in-memory data (useful for
// tests and running without a database).
type StaticCatalog struct {
	words  []domain.WordItem
	roster domain.Roster
}

func NewStaticCatalog(words []domain.WordItem, roster domain.Roster) *StaticCatalog {
	return &StaticCatalog{words: words, roster: roster}
}

func (c *StaticCatalog) LoadWords(_ context.Context) ([]domain.WordItem, error) {
	return c.words, nil
}

func (c *StaticCatalog) LoadRoster(_ context.Context) (domain.Roster, error) {
	return c.roster, nil
}

// CachedCatalog caches the loaded word set and roster with TTL to avoid
// repeated backing-store hits on every new connection.
type CachedCatalog struct {
	words  WordSource
	roster RosterSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu           sync.RWMutex
	cachedWords  cachedWords
	cachedRoster cachedRoster
}

type cachedWords struct {
	items     []domain.WordItem
	expiresAt time.Time
}

type cachedRoster struct {
	roster    domain.Roster
	expiresAt time.Time
}

func NewCachedCatalog(words WordSource, roster RosterSource, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		words:  words,
		roster: roster,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedCatalog) Words(ctx context.Context) ([]domain.WordItem, error) {
	now := c.clock()

	c.mu.RLock()
	if c.cachedWords.items != nil && c.cachedWords.expiresAt.After(now) {
		items := c.cachedWords.items
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("words", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.cachedWords.items != nil && c.cachedWords.expiresAt.After(now) {
			items := c.cachedWords.items
			c.mu.RUnlock()
			return items, nil
		}
		c.mu.RUnlock()

		items, err := c.words.LoadWords(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cachedWords = cachedWords{items: items, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.WordItem), nil
}

func (c *CachedCatalog) Roster(ctx context.Context) (domain.Roster, error) {
	now := c.clock()

	c.mu.RLock()
	if c.cachedRoster.roster != nil && c.cachedRoster.expiresAt.After(now) {
		roster := c.cachedRoster.roster
		c.mu.RUnlock()
		return roster, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("roster", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.cachedRoster.roster != nil && c.cachedRoster.expiresAt.After(now) {
			roster := c.cachedRoster.roster
			c.mu.RUnlock()
			return roster, nil
		}
		c.mu.RUnlock()

		roster, err := c.roster.LoadRoster(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cachedRoster = cachedRoster{roster: roster, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return roster, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Roster), nil
}

func (c *CachedCatalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
