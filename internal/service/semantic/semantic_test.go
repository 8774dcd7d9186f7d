package semantic

import (
	"context"
	"errors"
	"testing"

	"emergency-call-analysis/internal/models"
	"emergency-call-analysis/internal/service/semantic/mock"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0, 1}, []float64{1, 0, 1}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"empty", nil, nil, 0.0},
		{"length mismatch", []float64{1}, []float64{1, 2}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIntentMatcher_ExactTemplate(t *testing.T) {
	m, err := NewIntentMatcher(context.Background(), mock.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intent, score := m.Best(context.Background(), "fire broke out")
	if intent != models.TypeFire {
		t.Errorf("intent = %q, want fire", intent)
	}
	if score < 0.99 {
		t.Errorf("score = %v, want ~1.0 for exact template", score)
	}
}

func TestIntentMatcher_AmbulanceTemplate(t *testing.T) {
	m, err := NewIntentMatcher(context.Background(), mock.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intent, score := m.Best(context.Background(), "someone is bleeding")
	if intent != models.TypeAmbulance {
		t.Errorf("intent = %q, want ambulance", intent)
	}
	if score < 0.99 {
		t.Errorf("score = %v, want ~1.0", score)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedding service down")
}

func TestNewIntentMatcher_EmbedderError(t *testing.T) {
	if _, err := NewIntentMatcher(context.Background(), failingEmbedder{}); err == nil {
		t.Error("expected error when template embedding fails")
	}
}

type flakyEmbedder struct {
	good *mock.Embedder
	fail bool
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if f.fail {
		return nil, errors.New("embedding service down")
	}
	return f.good.Embed(ctx, text)
}

func TestIntentMatcher_QueryErrorDegrades(t *testing.T) {
	emb := &flakyEmbedder{good: mock.New()}
	m, err := NewIntentMatcher(context.Background(), emb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb.fail = true
	intent, score := m.Best(context.Background(), "anything")
	if intent != models.TypeUnknown || score != 0 {
		t.Errorf("Best() = (%q, %v), want (unknown, 0) on embed failure", intent, score)
	}
}

func TestPlaceMatcher_ExactTemplate(t *testing.T) {
	m, err := NewPlaceMatcher(context.Background(), mock.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hint := m.Match(context.Background(), "shopping mall")
	if hint == nil {
		t.Fatal("expected hint for exact template")
	}
	if hint.Text != "shopping mall" {
		t.Errorf("hint.Text = %q, want 'shopping mall'", hint.Text)
	}
	if !hint.Semantic {
		t.Error("expected hint tagged as semantic")
	}
	if hint.Confidence < 0.99 {
		t.Errorf("hint.Confidence = %v, want ~1.0", hint.Confidence)
	}
}

func TestPlaceMatcher_BelowThreshold(t *testing.T) {
	m, err := NewPlaceMatcher(context.Background(), mock.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No token overlap with any place template.
	if hint := m.Match(context.Background(), "zzqq xkcd foo"); hint != nil {
		t.Errorf("expected nil hint, got %+v", hint)
	}
}

func TestPlaceMatcher_EmbedderErrorDegrades(t *testing.T) {
	emb := &flakyEmbedder{good: mock.New()}
	m, err := NewPlaceMatcher(context.Background(), emb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb.fail = true
	if hint := m.Match(context.Background(), "shopping mall"); hint != nil {
		t.Errorf("expected nil hint on embed failure, got %+v", hint)
	}
}
