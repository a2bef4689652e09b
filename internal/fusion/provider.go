package fusion

import (
	"context"
	"errors"
	"time"

	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// ErrProviderTimeout reports that the score provider did not answer within
// the caller's budget. It is recovered locally and never surfaced to the
// end user as a failure.
var ErrProviderTimeout = errors.New("score provider timed out")

// Prediction is the model-side signal pair for one event.
type Prediction struct {
	AnomalyScore   float64
	Classification models.Classification
}

// ScoreProvider wraps the external anomaly and classifier models. Predict
// is assumed synchronous with a bounded timeout enforced by the caller.
type ScoreProvider interface {
	Predict(ctx context.Context, event *models.SecurityEvent) (Prediction, error)
}

// NeutralPrediction is the lowest-information-content signal: zero anomaly
// and a benign classification with zero confidence. It is what fusion
// falls back to when the provider is unavailable, so downstream consumers
// can distinguish "no risk" from "unknown" via the degraded marker.
func NeutralPrediction() Prediction {
	return Prediction{
		Classification: models.Classification{Label: models.ClassBenign, Confidence: 0},
	}
}

// PredictWithTimeout calls the provider under the given budget. On
// timeout, cancellation, or provider error it returns NeutralPrediction
// and degraded=true; fusion then proceeds on the remaining signals.
func PredictWithTimeout(ctx context.Context, provider ScoreProvider, event *models.SecurityEvent, budget time.Duration) (Prediction, bool) {
	if provider == nil {
		return NeutralPrediction(), true
	}

	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	type outcome struct {
		prediction Prediction
		err        error
	}
	ch := make(chan outcome, 1)
	go func() {
		p, err := provider.Predict(ctx, event)
		ch <- outcome{prediction: p, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.Warnf("Score provider did not respond in time: %v", errors.Join(ErrProviderTimeout, ctx.Err()))
		return NeutralPrediction(), true
	case out := <-ch:
		if out.err != nil {
			logger.Warnf("Score provider failed, continuing with neutral signals: %v", out.err)
			return NeutralPrediction(), true
		}
		return out.prediction, false
	}
}
