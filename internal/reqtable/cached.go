package reqtable

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Cached memoizes another Provider per (table, crop, levels). Concurrent
// misses for the same key share one load. Errors are not cached.
type Cached struct {
	next  Provider
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]any
}

// NewCached wraps next with an unbounded in-process cache.
func NewCached(next Provider) *Cached {
	return &Cached{next: next, entries: make(map[string]any)}
}

// Len returns the number of cached tables.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops all cached tables.
func (c *Cached) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]any)
	c.mu.Unlock()
}

func cacheKey(table, cropID string, levels []int) string {
	return fmt.Sprintf("%s|%s|%v", table, cropID, levels)
}

func load[T any](ctx context.Context, c *Cached, table, cropID string, levels []int,
	fn func(context.Context, string, []int) ([]T, error)) ([]T, error) {
	key := cacheKey(table, cropID, levels)

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v.([]T), nil
	}

	// The shared load outlives any one caller's cancellation; each caller
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		rows, err := fn(loadCtx, cropID, levels)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = rows
		c.mu.Unlock()
		return rows, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "reqtable: load %s for %s", table, cropID)
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	v, shared := res.Val, res.Shared
	zap.L().Debug("reqtable: cache fill",
		zap.String("table", table),
		zap.String("crop_id", cropID),
		zap.Ints("levels", levels),
		zap.Bool("shared", shared),
	)
	return v.([]T), nil
}

func (c *Cached) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	return load(ctx, c, "texture", cropID, levels, c.next.TextureRequirements)
}

func (c *Cached) PropertyRequirements(ctx context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error) {
	return load(ctx, c, "property", cropID, levels, c.next.PropertyRequirements)
}

func (c *Cached) PhaseRequirements(ctx context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error) {
	return load(ctx, c, "phase", cropID, levels, c.next.PhaseRequirements)
}

func (c *Cached) DrainageRequirements(ctx context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error) {
	return load(ctx, c, "drainage", cropID, levels, c.next.DrainageRequirements)
}
