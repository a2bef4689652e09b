package fusion

import (
	"context"
	"strings"

	"github.com/BitBrain19/Cyber/pkg/models"
)

// BaselineProvider is a deterministic heuristic stand-in for the external
// model service, driven by the same event features the trained models
// consume (bytes transferred, login attempts, duration, event type). It
// keeps the engine runnable when no model endpoint is configured.
type BaselineProvider struct{}

// NewBaselineProvider creates the heuristic provider.
func NewBaselineProvider() *BaselineProvider {
	return &BaselineProvider{}
}

// Feature saturation points for the heuristic anomaly score.
const (
	baselineBytesScale    = 10 * 1024 * 1024
	baselineAttemptsScale = 10
	baselineDurationScale = 3600
)

// Predict scores the event from its raw features.
func (p *BaselineProvider) Predict(_ context.Context, event *models.SecurityEvent) (Prediction, error) {
	if event == nil {
		return NeutralPrediction(), nil
	}

	anomaly := clamp01(0.4*clamp01(event.BytesTransferred()/baselineBytesScale) +
		0.4*clamp01(event.LoginAttempts()/baselineAttemptsScale) +
		0.2*clamp01(event.Duration()/baselineDurationScale))

	return Prediction{
		AnomalyScore:   anomaly,
		Classification: p.classify(event),
	}, nil
}

func (p *BaselineProvider) classify(event *models.SecurityEvent) models.Classification {
	action := strings.ToLower(event.Field("action"))
	denied := action == "denied" || action == "blocked" || action == "failed"
	attempts := event.LoginAttempts()

	switch {
	case denied && attempts >= 10:
		return models.Classification{Label: models.ClassMalicious, Confidence: clamp01(attempts / 20)}
	case denied || attempts >= 5:
		return models.Classification{Label: models.ClassSuspicious, Confidence: 0.6}
	default:
		return models.Classification{Label: models.ClassBenign, Confidence: 0.9}
	}
}
