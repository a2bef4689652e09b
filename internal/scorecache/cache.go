// Package scorecache provides time-bounded memoization of expensive graph
// and fusion results.
//
// Cache keys embed the graph revision captured when the result was
// computed, so a graph mutation makes every older entry unreadable without
// any active invalidation sweep; the TTL bounds how long abandoned entries
// linger. Writes landing mid-computation leave the result keyed under the
// revision it was computed against, never the newer one, so readers at the
// new revision recompute. Caching is a pure performance optimization: any
// store failure degrades to "recompute", never to an error.
package scorecache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/internal/metrics"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Store is the byte-level cache backend. Implementations return ok=false
// for misses and for their own failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// RevisionSource exposes the graph's monotonic mutation counter.
type RevisionSource interface {
	Revision() uint64
}

// Cache memoizes discovery and fusion results keyed by request fingerprint
// plus graph revision.
type Cache struct {
	store Store
	revs  RevisionSource
	ttl   time.Duration
}

// New creates a cache over the given store. A zero TTL disables expiry at
// the cache layer (stores may still bound entry lifetime themselves).
func New(store Store, revs RevisionSource, ttl time.Duration) *Cache {
	return &Cache{store: store, revs: revs, ttl: ttl}
}

func pathsKey(threshold float64, revision uint64) string {
	return fmt.Sprintf("cyber:paths:%s:rev:%d",
		strconv.FormatFloat(threshold, 'g', -1, 64), revision)
}

func movementKey(source, target string, revision uint64) string {
	return fmt.Sprintf("cyber:movement:%s:%s:rev:%d", source, target, revision)
}

// GetPaths returns the cached discovery result for the threshold at the
// current graph revision.
func (c *Cache) GetPaths(ctx context.Context, threshold float64) (models.DiscoverResult, bool) {
	if c == nil || c.store == nil {
		return models.DiscoverResult{}, false
	}
	var result models.DiscoverResult
	if !c.get(ctx, pathsKey(threshold, c.revs.Revision()), &result) {
		return models.DiscoverResult{}, false
	}
	return result, true
}

// PutPaths stores a discovery result under the revision the scan was
// computed against. Partial results are not cached: they reflect a
// caller's deadline, not the graph.
func (c *Cache) PutPaths(ctx context.Context, result models.DiscoverResult) {
	if c == nil || c.store == nil || result.Partial {
		return
	}
	c.put(ctx, pathsKey(result.Threshold, result.Revision), result)
}

// GetMovement returns the cached lateral-movement score for the pair at
// the current graph revision.
func (c *Cache) GetMovement(ctx context.Context, source, target string) (models.LateralMovement, bool) {
	if c == nil || c.store == nil {
		return models.LateralMovement{}, false
	}
	var movement models.LateralMovement
	if !c.get(ctx, movementKey(source, target, c.revs.Revision()), &movement) {
		return models.LateralMovement{}, false
	}
	return movement, true
}

// PutMovement stores a lateral-movement score under the revision it was
// computed against.
func (c *Cache) PutMovement(ctx context.Context, source, target string, movement models.LateralMovement, revision uint64) {
	if c == nil || c.store == nil {
		return
	}
	c.put(ctx, movementKey(source, target, revision), movement)
}

func (c *Cache) get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.store == nil {
		return false
	}
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warnf("Discarding undecodable cache entry %s: %v", key, err)
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

func (c *Cache) put(ctx context.Context, key string, value interface{}) {
	if c == nil || c.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warnf("Failed to encode cache entry %s: %v", key, err)
		return
	}
	c.store.Set(ctx, key, raw, c.ttl)
}
