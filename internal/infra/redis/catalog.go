package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"eitango-quiz-service/internal/domain"
	"eitango-quiz-service/internal/infra/memory"
)

const (
	wordsKey  = "vocab:words"
	rosterKey = "vocab:roster"
)

// Catalog caches the word set and roster as JSON values in Redis and falls
// back to the backing sources on a miss, so several instances share one
// load of the vocabulary.
type Catalog struct {
	client *redis.Client
	words  memory.WordSource
	roster memory.RosterSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalog(client *redis.Client, words memory.WordSource, roster memory.RosterSource, ttl time.Duration) *Catalog {
	return &Catalog{
		client: client,
		words:  words,
		roster: roster,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) Words(ctx context.Context) ([]domain.WordItem, error) {
	raw, err := c.client.Get(ctx, wordsKey).Bytes()
	if err == nil && len(raw) > 0 {
		var items []domain.WordItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}

	result, err, _ := c.sf.Do(wordsKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		raw, err := c.client.Get(ctx, wordsKey).Bytes()
		if err == nil && len(raw) > 0 {
			var items []domain.WordItem
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
		}

		items, err := c.words.LoadWords(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(items); err == nil {
			_ = c.client.Set(ctx, wordsKey, data, c.ttlWithJitter()).Err()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.WordItem), nil
}

func (c *Catalog) Roster(ctx context.Context) (domain.Roster, error) {
	raw, err := c.client.Get(ctx, rosterKey).Bytes()
	if err == nil && len(raw) > 0 {
		var roster domain.Roster
		if err := json.Unmarshal(raw, &roster); err == nil {
			return roster, nil
		}
	}

	result, err, _ := c.sf.Do(rosterKey, func() (interface{}, error) {
		raw, err := c.client.Get(ctx, rosterKey).Bytes()
		if err == nil && len(raw) > 0 {
			var roster domain.Roster
			if err := json.Unmarshal(raw, &roster); err == nil {
				return roster, nil
			}
		}

		roster, err := c.roster.LoadRoster(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(roster); err == nil {
			_ = c.client.Set(ctx, rosterKey, data, c.ttlWithJitter()).Err()
		}
		return roster, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Roster), nil
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
