package classify

import (
	"testing"
)

func TestExtractLocation_AcronymPlace(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"i live in bda apartments", "Bda Apartments"},
		{"near RV college", "Rv College"},
		{"fire at hsr layout now", "Hsr Layout"},
	}

	for _, tt := range tests {
		hint := ExtractLocation(tt.text)
		if hint == nil {
			t.Errorf("ExtractLocation(%q) = nil, want %q", tt.text, tt.want)
			continue
		}
		if hint.Text != tt.want {
			t.Errorf("ExtractLocation(%q).Text = %q, want %q", tt.text, hint.Text, tt.want)
		}
		if hint.Confidence != 0.95 {
			t.Errorf("ExtractLocation(%q).Confidence = %v, want 0.95", tt.text, hint.Confidence)
		}
	}
}

func TestExtractLocation_NamedPlace(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"there is a fire near church street", "Church Street"},
		{"accident at orion mall", "Orion Mall"},
		{"she is at victoria hospital", "Victoria Hospital"},
		{"come to brigade road fast", "Brigade Road"},
	}

	for _, tt := range tests {
		hint := ExtractLocation(tt.text)
		if hint == nil {
			t.Errorf("ExtractLocation(%q) = nil, want %q", tt.text, tt.want)
			continue
		}
		if hint.Text != tt.want {
			t.Errorf("ExtractLocation(%q).Text = %q, want %q", tt.text, hint.Text, tt.want)
		}
		if hint.Confidence != 0.95 {
			t.Errorf("ExtractLocation(%q).Confidence = %v, want 0.95", tt.text, hint.Confidence)
		}
	}

	if _, rule := ExtractLocationWithRule("there is a fire near church street"); rule != "named-place" {
		t.Errorf("expected named-place rule, got %q", rule)
	}
}

func TestExtractLocation_Pincode(t *testing.T) {
	hint, rule := ExtractLocationWithRule("my pincode is 560034 please hurry")
	if hint == nil {
		t.Fatal("expected pincode hint")
	}
	if hint.Pincode != "560034" {
		t.Errorf("expected pincode 560034, got %q", hint.Pincode)
	}
	if hint.Text != "" {
		t.Errorf("expected empty text for pincode hint, got %q", hint.Text)
	}
	if hint.Confidence != 0.80 {
		t.Errorf("expected confidence 0.80, got %v", hint.Confidence)
	}
	if rule != "pincode" {
		t.Errorf("expected rule pincode, got %q", rule)
	}
}

func TestExtractLocation_PincodeRejectsLeadingZero(t *testing.T) {
	if hint := ExtractLocation("code 060034 here"); hint != nil {
		t.Errorf("expected no hint for leading-zero code, got %+v", hint)
	}
}

func TestExtractLocation_PlaceOutranksPincode(t *testing.T) {
	hint := ExtractLocation("near church street 560001")
	if hint == nil {
		t.Fatal("expected hint")
	}
	if hint.Text != "Church Street" {
		t.Errorf("expected place hint to win over pincode, got %+v", hint)
	}
	if hint.Pincode != "" {
		t.Errorf("expected no pincode on place hint, got %q", hint.Pincode)
	}
}

func TestExtractLocation_NoMatch(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"please help me quickly",
		"the number is 12345",
	}

	for _, text := range tests {
		if hint := ExtractLocation(text); hint != nil {
			t.Errorf("ExtractLocation(%q) = %+v, want nil", text, hint)
		}
	}
}

func TestExtractLocation_StopwordsTrimmed(t *testing.T) {
	hint := ExtractLocation("i am near whitefield station")
	if hint == nil {
		t.Fatal("expected hint")
	}
	if hint.Text != "Whitefield Station" {
		t.Errorf("expected 'Whitefield Station', got %q", hint.Text)
	}
}

func TestExtractionRules_Order(t *testing.T) {
	want := []string{"acronym-place", "named-place", "pincode"}
	if len(extractionRules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(extractionRules))
	}
	for i, rule := range extractionRules {
		if rule.Name != want[i] {
			t.Errorf("rule %d = %q, want %q", i, rule.Name, want[i])
		}
	}
}
