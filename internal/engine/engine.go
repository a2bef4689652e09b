// Package engine wires the asset graph, lateral-movement scorer, path
// finder, signal fusion and score cache into the three inbound operations:
// record an event, evaluate an event, discover attack paths.
package engine

import (
	"context"
	"time"

	"github.com/BitBrain19/Cyber/internal/fusion"
	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/lateral"
	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/internal/metrics"
	"github.com/BitBrain19/Cyber/internal/pathfinder"
	"github.com/BitBrain19/Cyber/internal/scorecache"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// AlertThreshold is the overall score above which a verdict raises an alert.
const AlertThreshold = 0.7

// defaultNarrowAfter bounds the full-population path scan. Past this asset
// count discovery only considers elevated-risk-tier assets, since the scan
// is quadratic in the candidate count.
const defaultNarrowAfter = 500

// Options configures an Engine.
type Options struct {
	// Provider scores events with the external models. Nil means every
	// evaluation runs degraded on neutral signals.
	Provider fusion.ScoreProvider

	// ProviderTimeout bounds each Predict call. Zero keeps the caller's
	// context deadline only.
	ProviderTimeout time.Duration

	// Cache memoizes discovery and movement results. Nil disables caching.
	Cache *scorecache.Cache

	// NarrowAfter overrides the asset count past which discovery narrows
	// to elevated-tier assets. Zero keeps the default.
	NarrowAfter int
}

// Engine is the top-level scoring facade. All methods are safe for
// concurrent use.
type Engine struct {
	graph           *graph.AssetGraph
	scorer          *lateral.Scorer
	finder          *pathfinder.Finder
	cache           *scorecache.Cache
	provider        fusion.ScoreProvider
	providerTimeout time.Duration
	narrowAfter     int
	now             func() time.Time
}

// New creates an engine over the given graph.
func New(g *graph.AssetGraph, opts Options) *Engine {
	scorer := lateral.NewScorer(g)
	narrow := opts.NarrowAfter
	if narrow <= 0 {
		narrow = defaultNarrowAfter
	}
	return &Engine{
		graph:           g,
		scorer:          scorer,
		finder:          pathfinder.NewFinder(g, scorer),
		cache:           opts.Cache,
		provider:        opts.Provider,
		providerTimeout: opts.ProviderTimeout,
		narrowAfter:     narrow,
		now:             time.Now,
	}
}

// Graph returns the underlying asset graph.
func (e *Engine) Graph() *graph.AssetGraph {
	return e.graph
}

// Stats returns graph size counters.
func (e *Engine) Stats() models.GraphStats {
	return e.graph.Stats()
}

// RecordEvent folds one event into the asset graph. Events without both
// endpoints still contribute nothing to the graph but are not an error;
// malformed asset identifiers are.
//
// Matched rule tags reinforce the observation: each high-severity tag adds
// to the edge weight, and the event's endpoints are raised to the tag's
// implied risk tier.
func (e *Engine) RecordEvent(event *models.SecurityEvent) error {
	if event == nil || !event.HasAssetPair() {
		return nil
	}

	delta := event.Weight
	maxTier := models.TierLow
	for _, tag := range event.IoaTags {
		switch tag.Severity {
		case "critical":
			delta += 2
			if maxTier < models.TierCritical {
				maxTier = models.TierCritical
			}
		case "high":
			delta++
			if maxTier < models.TierHigh {
				maxTier = models.TierHigh
			}
		}
	}

	if err := e.graph.AddObservation(event.SourceAsset, event.TargetAsset, event.ConnectionType, delta); err != nil {
		return err
	}
	metrics.Observations.Inc()

	if maxTier >= models.TierHigh {
		if err := e.graph.ElevateRiskTier(event.SourceAsset, maxTier); err != nil {
			return err
		}
		if err := e.graph.ElevateRiskTier(event.TargetAsset, maxTier); err != nil {
			return err
		}
	}

	stats := e.graph.Stats()
	metrics.GraphAssets.Set(float64(stats.Assets))
	metrics.GraphEdges.Set(float64(stats.Edges))
	return nil
}

// Evaluate fuses the model signals with graph context into one verdict.
// Provider failure or timeout degrades the verdict to neutral model
// signals; it never fails the evaluation.
func (e *Engine) Evaluate(ctx context.Context, event *models.SecurityEvent) models.Verdict {
	prediction, degraded := fusion.PredictWithTimeout(ctx, e.provider, event, e.providerTimeout)
	if degraded {
		metrics.DegradedFusions.Inc()
	}

	var movement models.LateralMovement
	if event != nil && event.HasAssetPair() {
		movement = e.movement(ctx, event.SourceAsset, event.TargetAsset)
	}

	overall := fusion.Fuse(prediction.AnomalyScore, prediction.Classification, movement.RiskScore)
	alert := overall > AlertThreshold
	if alert {
		metrics.Alerts.Inc()
	}

	verdict := models.Verdict{
		AnomalyScore:   prediction.AnomalyScore,
		Classification: prediction.Classification,
		GraphRisk:      movement.RiskScore,
		Movement:       movement,
		OverallScore:   overall,
		Alert:          alert,
		Degraded:       degraded,
		EvaluatedAt:    e.now(),
	}
	if event != nil {
		verdict.EventType = event.EventType
		verdict.SourceAsset = event.SourceAsset
		verdict.TargetAsset = event.TargetAsset
		verdict.IoaTags = event.IoaTags
	}
	return verdict
}

func (e *Engine) movement(ctx context.Context, source, target string) models.LateralMovement {
	if cached, ok := e.cache.GetMovement(ctx, source, target); ok {
		return cached
	}
	// The revision is read before scoring so a write landing mid-score
	// leaves the result keyed under the revision it was computed against.
	revision := e.graph.Revision()
	movement := e.scorer.Score(source, target)
	e.cache.PutMovement(ctx, source, target, movement, revision)
	return movement
}

// GetAttackPaths discovers all asset pairs whose lateral-movement risk
// exceeds riskThreshold, ranked descending. Results are served from the
// score cache when the graph has not changed since they were computed.
//
// On large graphs the scan narrows to elevated-risk-tier assets; the
// full population is only scanned while the graph stays small.
func (e *Engine) GetAttackPaths(ctx context.Context, riskThreshold float64) models.DiscoverResult {
	if cached, ok := e.cache.GetPaths(ctx, riskThreshold); ok {
		return cached
	}

	candidates := e.graph.Assets()
	if len(candidates) > e.narrowAfter {
		elevated := e.graph.ElevatedAssets()
		if len(elevated) > 0 {
			logger.Debugf("Narrowing path scan from %d to %d elevated assets", len(candidates), len(elevated))
			candidates = elevated
		}
	}

	started := e.now()
	result := e.finder.DiscoverAmong(ctx, riskThreshold, candidates)
	metrics.DiscoverDuration.Observe(e.now().Sub(started).Seconds())

	e.cache.PutPaths(ctx, result)
	return result
}

// ScoreMovement exposes the pair-level lateral-movement score, cached.
func (e *Engine) ScoreMovement(ctx context.Context, source, target string) models.LateralMovement {
	return e.movement(ctx, source, target)
}
