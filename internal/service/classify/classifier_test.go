package classify

import (
	"context"
	"testing"

	"emergency-call-analysis/internal/models"
)

// stubFallback returns a fixed intent and score.
type stubFallback struct {
	intent string
	score  float64
	called bool
}

func (s *stubFallback) Best(_ context.Context, _ string) (string, float64) {
	s.called = true
	return s.intent, s.score
}

func TestClassify_EmptyInput(t *testing.T) {
	clf := New(nil)

	for _, text := range []string{"", "   "} {
		got := clf.Classify(context.Background(), text)

		if got.Type != models.TypeUnknown {
			t.Errorf("Classify(%q).Type = %q, want unknown", text, got.Type)
		}
		if got.Priority != models.PriorityLow {
			t.Errorf("Classify(%q).Priority = %q, want low", text, got.Priority)
		}
		if got.Confidence != 0.0 {
			t.Errorf("Classify(%q).Confidence = %v, want 0.0", text, got.Confidence)
		}
		if len(got.Keywords) != 0 {
			t.Errorf("Classify(%q).Keywords = %v, want empty", text, got.Keywords)
		}
		if got.Location != nil {
			t.Errorf("Classify(%q).Location = %+v, want nil", text, got.Location)
		}
	}
}

func TestClassify_FireNearChurchStreet(t *testing.T) {
	clf := New(nil)

	got := clf.Classify(context.Background(), "there is a fire near Church Street")

	if got.Type != models.TypeFire {
		t.Errorf("Type = %q, want fire", got.Type)
	}
	if got.Priority != models.PriorityCritical {
		t.Errorf("Priority = %q, want critical", got.Priority)
	}
	if got.Confidence != 0.80 {
		t.Errorf("Confidence = %v, want 0.80", got.Confidence)
	}
	if got.Location == nil || got.Location.Text != "Church Street" {
		t.Errorf("Location = %+v, want Church Street", got.Location)
	}
	if got.Location != nil && got.Location.Confidence != 0.95 {
		t.Errorf("Location.Confidence = %v, want 0.95", got.Location.Confidence)
	}
}

func TestClassify_WeakAmbulanceKeywords(t *testing.T) {
	clf := New(nil)

	got := clf.Classify(context.Background(), "I fell down, I am in pain")

	if got.Type != models.TypeAmbulance {
		t.Errorf("Type = %q, want ambulance", got.Type)
	}
	if got.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want medium", got.Priority)
	}
	// Two weak hits: 0.5 + 0.1*2
	if got.Confidence != 0.70 {
		t.Errorf("Confidence = %v, want 0.70", got.Confidence)
	}
	if got.Location != nil {
		t.Errorf("Location = %+v, want nil", got.Location)
	}
}

func TestClassify_StrongHitConfidenceFloor(t *testing.T) {
	clf := New(nil)

	got := clf.Classify(context.Background(), "she is bleeding badly")

	if got.Type != models.TypeAmbulance {
		t.Errorf("Type = %q, want ambulance", got.Type)
	}
	// One strong hit: at least 0.5 + 0.3
	if got.Confidence < 0.80 {
		t.Errorf("Confidence = %v, want >= 0.80", got.Confidence)
	}
	if got.Confidence > 0.95 {
		t.Errorf("Confidence = %v, want <= 0.95", got.Confidence)
	}
}

func TestClassify_ConfidenceClamped(t *testing.T) {
	clf := New(nil)

	// Many strong hits push the raw score well past the cap.
	got := clf.Classify(context.Background(),
		"fire and smoke and blast and explosion burning everywhere gas leak")

	if got.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want clamp at 0.95", got.Confidence)
	}
}

func TestClassify_TieBreakFixedOrder(t *testing.T) {
	clf := New(nil)

	// fire ("fire", 3) ties police ("knife", 3); fire precedes police
	// in the enumeration order.
	got := clf.Classify(context.Background(), "a fire and a man with a knife")
	if got.Type != models.TypeFire {
		t.Errorf("Type = %q, want fire on tie", got.Type)
	}

	// "heart attack" scores ambulance 3 and police 3 (via "attack");
	// ambulance wins the tie.
	got = clf.Classify(context.Background(), "my father had a heart attack")
	if got.Type != models.TypeAmbulance {
		t.Errorf("Type = %q, want ambulance on tie", got.Type)
	}
	if got.Priority != models.PriorityCritical {
		t.Errorf("Priority = %q, want critical", got.Priority)
	}
}

func TestClassify_KeywordsDeduplicated(t *testing.T) {
	clf := New(nil)

	got := clf.Classify(context.Background(), "fire fire everywhere, gas leak and smoke")

	seen := map[string]int{}
	for _, kw := range got.Keywords {
		seen[kw]++
		if seen[kw] > 1 {
			t.Errorf("keyword %q appears more than once in %v", kw, got.Keywords)
		}
	}
	for _, want := range []string{"fire", "gas", "leak", "smoke"} {
		if seen[want] == 0 {
			t.Errorf("expected keyword %q in %v", want, got.Keywords)
		}
	}
}

func TestClassify_SemanticFallbackUsed(t *testing.T) {
	fb := &stubFallback{intent: models.TypeAmbulance, score: 0.85}
	clf := New(fb)

	got := clf.Classify(context.Background(), "my neighbour will not wake up")

	if !fb.called {
		t.Fatal("expected fallback to be invoked")
	}
	if got.Type != models.TypeAmbulance {
		t.Errorf("Type = %q, want ambulance from fallback", got.Type)
	}
	if got.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want fixed medium", got.Priority)
	}
	if got.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", got.Confidence)
	}
	if len(got.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty in semantic branch", got.Keywords)
	}
}

func TestClassify_SemanticFallbackBelowThreshold(t *testing.T) {
	fb := &stubFallback{intent: models.TypePolice, score: 0.4}
	clf := New(fb)

	got := clf.Classify(context.Background(), "i am waiting near church street")

	if got.Type != models.TypeUnknown {
		t.Errorf("Type = %q, want unknown below threshold", got.Type)
	}
	if got.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", got.Confidence)
	}
	// The extraction hint is kept even when classification comes up empty.
	if got.Location == nil || got.Location.Text != "Church Street" {
		t.Errorf("Location = %+v, want retained Church Street hint", got.Location)
	}
}

func TestClassify_NoFallbackConfigured(t *testing.T) {
	clf := New(nil)

	got := clf.Classify(context.Background(), "hello how are you today")

	if got.Type != models.TypeUnknown {
		t.Errorf("Type = %q, want unknown", got.Type)
	}
}
