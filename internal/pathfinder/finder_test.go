package pathfinder

import (
	"context"
	"testing"

	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/lateral"
)

func newFinder(t *testing.T) (*Finder, *graph.AssetGraph) {
	t.Helper()
	g := graph.New()
	for _, obs := range []struct {
		a, b   string
		weight float64
	}{
		{"a", "b", 3},
		{"b", "c", 2},
	} {
		if err := g.AddObservation(obs.a, obs.b, "tcp", obs.weight); err != nil {
			t.Fatalf("observe: %v", err)
		}
	}
	return NewFinder(g, lateral.NewScorer(g)), g
}

func TestDiscoverRanksPathsDescending(t *testing.T) {
	finder, g := newFinder(t)

	result := finder.Discover(context.Background(), 0.25)
	if result.Partial {
		t.Fatalf("scan without deadline must be complete")
	}
	if result.Revision != g.Revision() {
		t.Fatalf("result must carry the graph revision")
	}

	// a-c scores 1.0 (2 hops * weight 5), a-b scores 0.3, b-c scores 0.2
	// and falls below the threshold.
	if len(result.Paths) != 2 {
		t.Fatalf("expected 2 qualifying paths, got %d: %+v", len(result.Paths), result.Paths)
	}
	if result.Paths[0].Source != "a" || result.Paths[0].Target != "c" {
		t.Fatalf("highest risk pair must rank first, got %+v", result.Paths[0])
	}
	if result.Paths[0].RiskScore != 1.0 {
		t.Fatalf("unexpected top score: %v", result.Paths[0].RiskScore)
	}
	if result.Paths[1].Source != "a" || result.Paths[1].Target != "b" {
		t.Fatalf("unexpected second pair: %+v", result.Paths[1])
	}
	if !result.Paths[0].IsSuspicious || result.Paths[1].IsSuspicious {
		t.Fatalf("suspicion flags not carried through: %+v", result.Paths)
	}
}

func TestDiscoverThresholdIsStrict(t *testing.T) {
	finder, _ := newFinder(t)

	// The best pair scores exactly 1.0; a threshold of 1.0 excludes it.
	result := finder.Discover(context.Background(), 1.0)
	if len(result.Paths) != 0 {
		t.Fatalf("expected no paths above 1.0, got %+v", result.Paths)
	}

	result = finder.Discover(context.Background(), 1.1)
	if len(result.Paths) != 0 {
		t.Fatalf("expected empty result above max risk, got %+v", result.Paths)
	}
	if result.Partial {
		t.Fatalf("an empty result is still complete")
	}
}

func TestDiscoverHonorsCanceledContext(t *testing.T) {
	finder, _ := newFinder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := finder.Discover(ctx, 0.0)
	if !result.Partial {
		t.Fatalf("expired deadline must mark the result partial")
	}
	if len(result.Paths) != 0 {
		t.Fatalf("nothing should be scanned after cancellation, got %+v", result.Paths)
	}
}

func TestDiscoverAmongRestrictsCandidates(t *testing.T) {
	finder, g := newFinder(t)
	if err := g.AddObservation("c", "d", "tcp", 9); err != nil {
		t.Fatalf("observe: %v", err)
	}

	result := finder.DiscoverAmong(context.Background(), 0.0, []string{"a", "b"})
	if len(result.Paths) != 1 {
		t.Fatalf("expected only the a-b pair, got %+v", result.Paths)
	}
	if result.Paths[0].Source != "a" || result.Paths[0].Target != "b" {
		t.Fatalf("unexpected pair: %+v", result.Paths[0])
	}
}

func TestDiscoverEmptyGraph(t *testing.T) {
	g := graph.New()
	finder := NewFinder(g, lateral.NewScorer(g))

	result := finder.Discover(context.Background(), 0.0)
	if len(result.Paths) != 0 || result.Partial {
		t.Fatalf("empty graph must yield an empty complete result, got %+v", result)
	}
}
