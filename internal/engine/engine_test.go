package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BitBrain19/Cyber/internal/fusion"
	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/scorecache"
	"github.com/BitBrain19/Cyber/pkg/models"
)

type stubProvider struct {
	prediction fusion.Prediction
	err        error
	calls      int
}

func (s *stubProvider) Predict(ctx context.Context, event *models.SecurityEvent) (fusion.Prediction, error) {
	s.calls++
	return s.prediction, s.err
}

func seedGraph(t *testing.T, g *graph.AssetGraph) {
	t.Helper()
	if err := g.AddObservation("a", "b", "ssh", 3); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if err := g.AddObservation("b", "c", "sql", 2); err != nil {
		t.Fatalf("observe: %v", err)
	}
}

func TestRecordEventBuildsGraph(t *testing.T) {
	g := graph.New()
	eng := New(g, Options{})

	err := eng.RecordEvent(&models.SecurityEvent{
		EventType:      "network_connection",
		SourceAsset:    "web-01",
		TargetAsset:    "db-01",
		ConnectionType: "sql",
		Weight:         2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neighbors := g.Neighbors("web-01")
	if len(neighbors) != 1 || neighbors[0].Edge.Weight != 2 {
		t.Fatalf("unexpected adjacency: %+v", neighbors)
	}
}

func TestRecordEventIgnoresPartialEvents(t *testing.T) {
	g := graph.New()
	eng := New(g, Options{})

	if err := eng.RecordEvent(&models.SecurityEvent{EventType: "login", SourceAsset: "web-01"}); err != nil {
		t.Fatalf("events without both endpoints are not an error: %v", err)
	}
	if err := eng.RecordEvent(nil); err != nil {
		t.Fatalf("nil events are not an error: %v", err)
	}
	if g.Stats().Assets != 0 {
		t.Fatalf("partial events must not touch the graph")
	}
}

func TestRecordEventRejectsMalformedAssets(t *testing.T) {
	g := graph.New()
	eng := New(g, Options{})

	err := eng.RecordEvent(&models.SecurityEvent{SourceAsset: " bad", TargetAsset: "db-01"})
	var invalid *graph.InvalidAssetError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAssetError, got %v", err)
	}
}

func TestRecordEventTagsReinforceAndElevate(t *testing.T) {
	g := graph.New()
	eng := New(g, Options{})

	err := eng.RecordEvent(&models.SecurityEvent{
		SourceAsset:    "web-01",
		TargetAsset:    "dc-01",
		ConnectionType: "smb",
		Weight:         1,
		IoaTags: []models.IoaTag{
			{ID: "r1", Severity: "critical"},
			{ID: "r2", Severity: "low"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w := g.Neighbors("web-01")[0].Edge.Weight; w != 3 {
		t.Fatalf("critical tag must add 2 to the weight, got %v", w)
	}
	if tier, _ := g.RiskTier("dc-01"); tier != models.TierCritical {
		t.Fatalf("critical tag must elevate the target, got %v", tier)
	}
	if tier, _ := g.RiskTier("web-01"); tier != models.TierCritical {
		t.Fatalf("critical tag must elevate the source, got %v", tier)
	}
}

func TestEvaluateFusesAllSignals(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	provider := &stubProvider{prediction: fusion.Prediction{
		AnomalyScore:   1.0,
		Classification: models.Classification{Label: models.ClassMalicious, Confidence: 1.0},
	}}
	eng := New(g, Options{Provider: provider, ProviderTimeout: time.Second})

	verdict := eng.Evaluate(context.Background(), &models.SecurityEvent{
		EventType:   "lateral",
		SourceAsset: "a",
		TargetAsset: "c",
	})

	if verdict.Degraded {
		t.Fatalf("healthy provider must not degrade")
	}
	if verdict.GraphRisk != 1.0 {
		t.Fatalf("expected saturated graph risk for a-c, got %v", verdict.GraphRisk)
	}
	if verdict.OverallScore != 1.0 {
		t.Fatalf("expected overall 1.0, got %v", verdict.OverallScore)
	}
	if !verdict.Alert {
		t.Fatalf("score above the alert threshold must alert")
	}
	if verdict.Movement.PathLength != 2 {
		t.Fatalf("verdict must carry the movement detail, got %+v", verdict.Movement)
	}
	if verdict.SourceAsset != "a" || verdict.TargetAsset != "c" {
		t.Fatalf("verdict must echo the event endpoints")
	}
}

func TestEvaluateDegradesOnProviderFailure(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	provider := &stubProvider{err: errors.New("model down")}
	eng := New(g, Options{Provider: provider, ProviderTimeout: time.Second})

	verdict := eng.Evaluate(context.Background(), &models.SecurityEvent{
		SourceAsset: "a",
		TargetAsset: "b",
	})

	if !verdict.Degraded {
		t.Fatalf("failed provider must mark the verdict degraded")
	}
	if verdict.AnomalyScore != 0 || verdict.Classification.Label != models.ClassBenign {
		t.Fatalf("degraded verdicts use neutral model signals, got %+v", verdict)
	}
	// 0.3 * graph risk (a-b scores 0.3) is all that remains.
	if verdict.OverallScore >= 0.7 {
		t.Fatalf("degraded verdict must not alert here, got %v", verdict.OverallScore)
	}
	if verdict.Alert {
		t.Fatalf("unexpected alert")
	}
}

func TestEvaluateWithoutAssetPair(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	eng := New(g, Options{})

	verdict := eng.Evaluate(context.Background(), &models.SecurityEvent{EventType: "dns_query"})
	if verdict.GraphRisk != 0 || verdict.Movement.RiskScore != 0 {
		t.Fatalf("no endpoints means no graph signal, got %+v", verdict)
	}
	if !verdict.Degraded {
		t.Fatalf("missing provider must degrade")
	}
}

func TestGetAttackPathsServedFromCache(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	store := scorecache.NewMemoryStore()
	eng := New(g, Options{Cache: scorecache.New(store, g, time.Minute)})
	ctx := context.Background()

	first := eng.GetAttackPaths(ctx, 0.25)
	if len(first.Paths) != 2 {
		t.Fatalf("expected 2 qualifying paths, got %+v", first.Paths)
	}

	second := eng.GetAttackPaths(ctx, 0.25)
	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Fatalf("unchanged graph must serve the cached result")
	}

	// Any mutation bumps the revision and forces a fresh scan.
	if err := g.AddObservation("c", "d", "rdp", 9); err != nil {
		t.Fatalf("observe: %v", err)
	}
	third := eng.GetAttackPaths(ctx, 0.25)
	if third.Revision == first.Revision {
		t.Fatalf("mutation must invalidate the cached scan")
	}
	if len(third.Paths) <= len(first.Paths) {
		t.Fatalf("new edge should add qualifying paths, got %+v", third.Paths)
	}
}

func TestGetAttackPathsNarrowsLargePopulations(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	if err := g.ElevateRiskTier("a", models.TierHigh); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	if err := g.ElevateRiskTier("b", models.TierHigh); err != nil {
		t.Fatalf("elevate: %v", err)
	}

	eng := New(g, Options{NarrowAfter: 2})
	result := eng.GetAttackPaths(context.Background(), 0.0)

	// Only the elevated pair a-b is scanned; c is excluded.
	if len(result.Paths) != 1 {
		t.Fatalf("expected the narrowed scan to yield 1 path, got %+v", result.Paths)
	}
	if result.Paths[0].Source != "a" || result.Paths[0].Target != "b" {
		t.Fatalf("unexpected pair: %+v", result.Paths[0])
	}
}

func TestScoreMovementUsesCache(t *testing.T) {
	g := graph.New()
	seedGraph(t, g)
	eng := New(g, Options{Cache: scorecache.New(scorecache.NewMemoryStore(), g, time.Minute)})
	ctx := context.Background()

	first := eng.ScoreMovement(ctx, "a", "c")
	if first.RiskScore != 1.0 {
		t.Fatalf("unexpected score: %+v", first)
	}

	second := eng.ScoreMovement(ctx, "a", "c")
	if second.RiskScore != first.RiskScore || second.PathLength != first.PathLength {
		t.Fatalf("cached movement must match: %+v vs %+v", first, second)
	}
}
