package graph

import "container/heap"

// Edge traversal cost. Frequently reinforced connections are cheaper:
// a well-worn channel is easier for an attacker to reuse.
func traversalCost(weight float64) float64 {
	return 1 / (1 + weight)
}

const costEpsilon = 1e-9

// pathItem is one frontier entry in the Dijkstra search. Ordering is by
// accumulated cost, then hop count, then the lexicographic path key, which
// makes the chosen path deterministic when costs tie.
type pathItem struct {
	handle int
	cost   float64
	hops   int
	lex    string
	path   []int
	weight float64
}

type pathQueue []*pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if d := q[i].cost - q[j].cost; d < -costEpsilon || d > costEpsilon {
		return d < 0
	}
	if q[i].hops != q[j].hops {
		return q[i].hops < q[j].hops
	}
	return q[i].lex < q[j].lex
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(*pathItem)) }

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// ShortestPath returns the minimum-cost path between two assets together
// with the sum of the raw edge weights along it. Cost per edge is
// 1/(1+weight). Ties prefer fewer hops, then the lexicographically smaller
// path. Returns ErrNoPath when either asset is unknown or unreachable.
//
// Cost and weight are direction-independent. The returned path is the
// reverse of the opposite direction's path whenever the route is unique;
// when several routes tie, the lexicographic tie-break applies in scan
// order, so each direction may pick a different tied route.
func (g *AssetGraph) ShortestPath(assetA, assetB string) ([]string, float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ha, ok := g.handles[assetA]
	if !ok {
		return nil, 0, ErrNoPath
	}
	hb, ok := g.handles[assetB]
	if !ok {
		return nil, 0, ErrNoPath
	}
	if ha == hb {
		return []string{assetA}, 0, nil
	}

	done := make([]bool, len(g.ids))
	q := &pathQueue{{handle: ha, lex: assetA, path: []int{ha}}}
	heap.Init(q)

	for q.Len() > 0 {
		cur := heap.Pop(q).(*pathItem)
		if done[cur.handle] {
			continue
		}
		done[cur.handle] = true

		if cur.handle == hb {
			path := make([]string, len(cur.path))
			for i, h := range cur.path {
				path[i] = g.ids[h]
			}
			return path, cur.weight, nil
		}

		for nh, e := range g.adj[cur.handle] {
			if done[nh] {
				continue
			}
			next := &pathItem{
				handle: nh,
				cost:   cur.cost + traversalCost(e.weight),
				hops:   cur.hops + 1,
				lex:    cur.lex + "\x00" + g.ids[nh],
				path:   appendPath(cur.path, nh),
				weight: cur.weight + e.weight,
			}
			heap.Push(q, next)
		}
	}

	return nil, 0, ErrNoPath
}

func appendPath(path []int, h int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = h
	return out
}
