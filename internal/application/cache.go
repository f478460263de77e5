package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// DefaultSessionLimit bounds the number of session datasets kept in memory.
const DefaultSessionLimit = 64

// DatasetCache memoizes one Dataset per session and source configuration.
// Entries are replaced only by Refresh or evicted by the LRU bound.
type DatasetCache struct {
	loader  Loader
	entries *lru.Cache[string, *model.Dataset]
	group   singleflight.Group

	mu sync.Mutex
	// generations counts Refresh calls per token. A load stores its result
	// only if no Refresh happened while it ran.
	generations map[string]uint64
}

// NewDatasetCache creates a cache over loader holding at most size sessions.
func NewDatasetCache(loader Loader, size int) (*DatasetCache, error) {
	if size < 1 {
		size = DefaultSessionLimit
	}
	entries, err := lru.New[string, *model.Dataset](size)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	return &DatasetCache{
		loader:      loader,
		entries:     entries,
		generations: make(map[string]uint64),
	}, nil
}

// Get returns the session's dataset, loading it on first use. Concurrent
// callers with the same token share a single load. The returned Dataset is
// shared and must not be modified.
func (c *DatasetCache) Get(ctx context.Context, sessionID string) (*model.Dataset, error) {
	token, err := c.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if ds, ok := c.entries.Get(token); ok {
		return ds, nil
	}

	return c.load(ctx, token)
}

// Refresh drops the session's dataset and loads a new one.
func (c *DatasetCache) Refresh(ctx context.Context, sessionID string) (*model.Dataset, error) {
	token, err := c.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.generations[token]++
	c.mu.Unlock()

	c.entries.Remove(token)
	c.group.Forget(token)
	slog.Info("session dataset invalidated", "token", token[:12])

	return c.load(ctx, token)
}

// Len returns the number of cached sessions.
func (c *DatasetCache) Len() int {
	return c.entries.Len()
}

// Token derives the cache token from the session id and the loader's source key.
func (c *DatasetCache) Token(ctx context.Context, sessionID string) (string, error) {
	key, err := c.loader.SourceKey(ctx)
	if err != nil {
		return "", fmt.Errorf("computing source key: %w", err)
	}
	return hashKey(sessionID, key), nil
}

func (c *DatasetCache) load(ctx context.Context, token string) (*model.Dataset, error) {
	ch := c.group.DoChan(token, func() (any, error) {
		gen := c.generation(token)

		// The load outlives any single request so waiting callers still get a result.
		ds, err := c.loader.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generations[token] == gen {
			c.entries.Add(token, ds)
		} else {
			slog.Debug("discarding dataset superseded by refresh", "token", token[:12])
		}
		return ds, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Dataset), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *DatasetCache) generation(token string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[token]
}

// hashKey hashes the JSON encoding of parts with SHA-256.
func hashKey(parts ...string) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
