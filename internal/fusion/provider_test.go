package fusion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BitBrain19/Cyber/pkg/models"
)

type stubProvider struct {
	prediction Prediction
	err        error
	delay      time.Duration
}

func (s *stubProvider) Predict(ctx context.Context, event *models.SecurityEvent) (Prediction, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return Prediction{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.prediction, s.err
}

func TestPredictWithTimeoutHappyPath(t *testing.T) {
	want := Prediction{
		AnomalyScore:   0.8,
		Classification: models.Classification{Label: models.ClassMalicious, Confidence: 0.9},
	}
	provider := &stubProvider{prediction: want}

	got, degraded := PredictWithTimeout(context.Background(), provider, &models.SecurityEvent{}, time.Second)
	if degraded {
		t.Fatalf("healthy provider must not degrade")
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestPredictWithTimeoutDegradesOnSlowProvider(t *testing.T) {
	provider := &stubProvider{
		prediction: Prediction{AnomalyScore: 0.9},
		delay:      200 * time.Millisecond,
	}

	got, degraded := PredictWithTimeout(context.Background(), provider, &models.SecurityEvent{}, 10*time.Millisecond)
	if !degraded {
		t.Fatalf("slow provider must degrade")
	}
	if got != NeutralPrediction() {
		t.Fatalf("degraded evaluation must use neutral signals, got %+v", got)
	}
}

func TestPredictWithTimeoutDegradesOnError(t *testing.T) {
	provider := &stubProvider{err: errors.New("model endpoint down")}

	got, degraded := PredictWithTimeout(context.Background(), provider, &models.SecurityEvent{}, time.Second)
	if !degraded {
		t.Fatalf("provider error must degrade")
	}
	if got != NeutralPrediction() {
		t.Fatalf("expected neutral prediction, got %+v", got)
	}
}

func TestPredictWithTimeoutNilProvider(t *testing.T) {
	got, degraded := PredictWithTimeout(context.Background(), nil, &models.SecurityEvent{}, time.Second)
	if !degraded || got != NeutralPrediction() {
		t.Fatalf("nil provider must yield neutral degraded signals, got %+v degraded=%v", got, degraded)
	}
}

func TestBaselineProviderHeuristics(t *testing.T) {
	provider := NewBaselineProvider()

	quiet, err := provider.Predict(context.Background(), &models.SecurityEvent{
		EventType: "login",
		Fields:    map[string]interface{}{"login_attempts": 1.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quiet.Classification.Label != models.ClassBenign {
		t.Fatalf("expected benign for a quiet event, got %+v", quiet.Classification)
	}

	bruteForce, err := provider.Predict(context.Background(), &models.SecurityEvent{
		EventType: "login",
		Fields: map[string]interface{}{
			"login_attempts": 15.0,
			"action":         "denied",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bruteForce.Classification.Label != models.ClassMalicious {
		t.Fatalf("expected malicious for repeated denied logins, got %+v", bruteForce.Classification)
	}
	if bruteForce.AnomalyScore <= quiet.AnomalyScore {
		t.Fatalf("noisier event must score higher anomaly: %v <= %v", bruteForce.AnomalyScore, quiet.AnomalyScore)
	}
}
