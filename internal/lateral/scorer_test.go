package lateral

import (
	"math"
	"testing"

	"github.com/BitBrain19/Cyber/internal/graph"
)

func buildGraph(t *testing.T, observations [][3]interface{}) *graph.AssetGraph {
	t.Helper()
	g := graph.New()
	for _, obs := range observations {
		if err := g.AddObservation(obs[0].(string), obs[1].(string), "tcp", obs[2].(float64)); err != nil {
			t.Fatalf("observe: %v", err)
		}
	}
	return g
}

func TestScoreGrowsWithLengthAndWeight(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 3.0},
		{"b", "c", 2.0},
	})
	scorer := NewScorer(g)

	movement := scorer.Score("a", "c")
	if len(movement.Path) != 3 || movement.Path[1] != "b" {
		t.Fatalf("unexpected path: %v", movement.Path)
	}
	if movement.PathLength != 2 {
		t.Fatalf("expected 2 hops, got %d", movement.PathLength)
	}
	if movement.TotalWeight != 5 {
		t.Fatalf("expected total weight 5, got %v", movement.TotalWeight)
	}
	// 2 hops * weight 5 / 10 saturates at 1.0.
	if movement.RiskScore != 1.0 {
		t.Fatalf("expected saturated risk 1.0, got %v", movement.RiskScore)
	}
	if !movement.IsSuspicious {
		t.Fatalf("a saturated score must be suspicious")
	}
}

func TestScoreDirectEdge(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{{"a", "b", 3.0}})
	scorer := NewScorer(g)

	movement := scorer.Score("a", "b")
	if movement.PathLength != 1 || movement.TotalWeight != 3 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if math.Abs(movement.RiskScore-0.3) > 1e-12 {
		t.Fatalf("expected risk 0.3, got %v", movement.RiskScore)
	}
	if movement.IsSuspicious {
		t.Fatalf("0.3 is below the suspicion threshold")
	}
}

func TestScoreAtThresholdIsNotSuspicious(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{{"a", "b", 7.0}})
	scorer := NewScorer(g)

	movement := scorer.Score("a", "b")
	if math.Abs(movement.RiskScore-0.7) > 1e-12 {
		t.Fatalf("expected risk 0.7, got %v", movement.RiskScore)
	}
	// The threshold is strict: exactly 0.7 does not qualify.
	if movement.IsSuspicious {
		t.Fatalf("risk exactly at the threshold must not be suspicious")
	}
}

func TestScoreZeroResults(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1.0},
		{"x", "y", 1.0},
	})
	scorer := NewScorer(g)

	for _, pair := range [][2]string{
		{"a", "a"},       // self pair
		{"a", "ghost"},   // unknown target
		{"ghost", "a"},   // unknown source
		{"a", "x"},       // disconnected components
		{"ghost", "wat"}, // both unknown
	} {
		movement := scorer.Score(pair[0], pair[1])
		if movement.RiskScore != 0 || movement.IsSuspicious {
			t.Fatalf("pair %v: expected zero risk, got %+v", pair, movement)
		}
		if movement.Path == nil || len(movement.Path) != 0 {
			t.Fatalf("pair %v: expected empty (non-nil) path, got %#v", pair, movement.Path)
		}
		if movement.PathLength != 0 || movement.TotalWeight != 0 {
			t.Fatalf("pair %v: expected zero-valued result, got %+v", pair, movement)
		}
	}
}
