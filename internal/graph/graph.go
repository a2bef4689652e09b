// Package graph maintains the in-memory weighted asset interaction graph.
//
// The graph is undirected and keeps at most one edge per unordered asset
// pair. Edge weight is a reinforcement signal: it only grows as
// observations repeat, and heavily reinforced connections are treated as
// cheaper to traverse when searching for attack paths.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BitBrain19/Cyber/pkg/models"
)

// InvalidAssetError reports an empty or malformed asset identifier passed
// to a graph mutation. The mutation is rejected before any state change.
type InvalidAssetError struct {
	ID string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid asset identifier %q", e.ID)
}

// ErrNoPath is returned by ShortestPath when the endpoints are unknown or
// not connected. Callers translate it into zero risk, never into a failure.
var ErrNoPath = errors.New("no path between assets")

// Neighbor is one adjacency entry returned by Neighbors.
type Neighbor struct {
	ID   string
	Edge Edge
}

// Edge is an immutable snapshot of one asset-pair connection.
type Edge struct {
	Weight    float64
	Types     []string
	UpdatedAt time.Time
}

type edgeState struct {
	weight    float64
	types     map[string]struct{}
	updatedAt time.Time
}

// AssetGraph owns the full asset-pair to edge mapping. Assets are indexed
// by integer handle internally; string IDs are the external key.
//
// All mutations run under the write lock. Read paths take the read lock and
// copy whatever they return, so callers never hold references into the
// graph's own state. The revision counter is read without a lock so other
// components can detect staleness cheaply.
type AssetGraph struct {
	mu       sync.RWMutex
	handles  map[string]int
	ids      []string
	names    []string
	tiers    []models.RiskTier
	adj      []map[int]*edgeState
	edges    int
	revision atomic.Uint64
	now      func() time.Time
}

// New creates an empty asset graph.
func New() *AssetGraph {
	return &AssetGraph{
		handles: make(map[string]int),
		now:     time.Now,
	}
}

func validAssetID(id string) bool {
	return strings.TrimSpace(id) != "" && id == strings.TrimSpace(id)
}

// handleFor returns the handle for id, inserting a new asset when needed.
// Callers must hold the write lock.
func (g *AssetGraph) handleFor(id string) int {
	if h, ok := g.handles[id]; ok {
		return h
	}
	h := len(g.ids)
	g.handles[id] = h
	g.ids = append(g.ids, id)
	g.names = append(g.names, "")
	g.tiers = append(g.tiers, models.TierLow)
	g.adj = append(g.adj, make(map[int]*edgeState))
	return h
}

// AddAsset inserts an asset from inventory, or refreshes its display name
// and risk tier when already known. The tier is raise-only.
func (g *AssetGraph) AddAsset(asset models.Asset) error {
	if !validAssetID(asset.ID) {
		return &InvalidAssetError{ID: asset.ID}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	h := g.handleFor(asset.ID)
	if asset.Name != "" {
		g.names[h] = asset.Name
	}
	if asset.RiskTier > g.tiers[h] {
		g.tiers[h] = asset.RiskTier
	}
	g.revision.Add(1)
	return nil
}

// AddObservation records one observed interaction between two assets.
// Both assets are inserted if new; the pair's edge weight grows by
// weightDelta (defaulting to 1 when non-positive), the connection type is
// added to the edge's tag set, and the graph revision is bumped.
func (g *AssetGraph) AddObservation(assetA, assetB, connectionType string, weightDelta float64) error {
	if !validAssetID(assetA) {
		return &InvalidAssetError{ID: assetA}
	}
	if !validAssetID(assetB) {
		return &InvalidAssetError{ID: assetB}
	}
	if weightDelta <= 0 {
		weightDelta = 1
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ha := g.handleFor(assetA)
	hb := g.handleFor(assetB)

	e := g.adj[ha][hb]
	if e == nil {
		e = &edgeState{types: make(map[string]struct{})}
		g.adj[ha][hb] = e
		g.adj[hb][ha] = e
		g.edges++
	}
	e.weight += weightDelta
	if connectionType != "" {
		e.types[connectionType] = struct{}{}
	}
	e.updatedAt = g.now()

	g.revision.Add(1)
	return nil
}

// ElevateRiskTier raises an asset's risk tier. Lower tiers are ignored so
// repeated observations can only escalate.
func (g *AssetGraph) ElevateRiskTier(id string, tier models.RiskTier) error {
	if !validAssetID(id) {
		return &InvalidAssetError{ID: id}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	h := g.handleFor(id)
	if tier > g.tiers[h] {
		g.tiers[h] = tier
		g.revision.Add(1)
	}
	return nil
}

// Revision returns the monotonic mutation counter.
func (g *AssetGraph) Revision() uint64 {
	return g.revision.Load()
}

// Contains reports whether the asset is known.
func (g *AssetGraph) Contains(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.handles[id]
	return ok
}

// RiskTier returns the asset's risk tier, and whether the asset is known.
func (g *AssetGraph) RiskTier(id string) (models.RiskTier, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.handles[id]
	if !ok {
		return models.TierLow, false
	}
	return g.tiers[h], true
}

func snapshotEdge(e *edgeState) Edge {
	types := make([]string, 0, len(e.types))
	for t := range e.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return Edge{Weight: e.weight, Types: types, UpdatedAt: e.updatedAt}
}

// Neighbors returns the asset's adjacency entries ordered by neighbor ID.
// Unknown or isolated assets yield an empty sequence, not an error.
func (g *AssetGraph) Neighbors(id string) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, ok := g.handles[id]
	if !ok || len(g.adj[h]) == 0 {
		return nil
	}

	out := make([]Neighbor, 0, len(g.adj[h]))
	for nh, e := range g.adj[h] {
		out = append(out, Neighbor{ID: g.ids[nh], Edge: snapshotEdge(e)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasPath reports reachability between two assets.
func (g *AssetGraph) HasPath(assetA, assetB string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ha, ok := g.handles[assetA]
	if !ok {
		return false
	}
	hb, ok := g.handles[assetB]
	if !ok {
		return false
	}
	if ha == hb {
		return true
	}

	visited := make([]bool, len(g.ids))
	queue := []int{ha}
	visited[ha] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for nh := range g.adj[cur] {
			if nh == hb {
				return true
			}
			if !visited[nh] {
				visited[nh] = true
				queue = append(queue, nh)
			}
		}
	}
	return false
}

// Assets returns a sorted snapshot of all known asset IDs.
func (g *AssetGraph) Assets() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.ids))
	copy(out, g.ids)
	sort.Strings(out)
	return out
}

// ElevatedAssets returns a sorted snapshot of the asset IDs whose risk
// tier qualifies them as attack-path discovery candidates.
func (g *AssetGraph) ElevatedAssets() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for h, tier := range g.tiers {
		if tier.Elevated() {
			out = append(out, g.ids[h])
		}
	}
	sort.Strings(out)
	return out
}

// Stats returns node and edge counts plus the current revision.
func (g *AssetGraph) Stats() models.GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return models.GraphStats{
		Assets:   len(g.ids),
		Edges:    g.edges,
		Revision: g.revision.Load(),
	}
}
