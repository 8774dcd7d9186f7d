package classify

import (
	"regexp"
	"strings"

	"emergency-call-analysis/internal/models"
)

// Confidence constants set by which extraction rule matched.
const (
	placeConfidence   = 0.95
	pincodeConfidence = 0.80
)

// extractionRule is one step of the location extraction cascade. Rules
// are evaluated in the order of extractionRules; the first rule to
// produce a hint wins.
type extractionRule struct {
	Name  string
	Apply func(text string) *models.LocationHint
}

// extractionRules is the ordered cascade. Structured address-like
// mentions rank above a bare 6-digit code because the latter is
// ambiguous with other numbers.
var extractionRules = []extractionRule{
	{Name: "acronym-place", Apply: matchAcronymPlace},
	{Name: "named-place", Apply: matchNamedPlace},
	{Name: "pincode", Apply: matchPincode},
}

var (
	acronymRe = regexp.MustCompile(`(?i)\b([a-z]{2,5})\s+(apartment|apartments|colony|layout|society|residency|pg|hostel|college|campus|hospital|mall)\b`)
	namedRe   = regexp.MustCompile(`(?i)\b((?:[a-z]{2,}\s)+)(street|road|lane|avenue|circle|cross|mall|hospital|college|school|university|station|airport|temple|church|mosque|pg|hostel|apartment|residency|society|habitat)\b`)
	pinRe     = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)
)

// nameStopwords trims filler from the front of a named-place match, so
// "a fire near church street" yields "Church Street" rather than the
// whole span.
var nameStopwords = map[string]struct{}{
	"i": {}, "am": {}, "the": {}, "to": {}, "you": {}, "me": {},
	"come": {}, "fast": {}, "soon": {}, "please": {},
	"near": {}, "in": {}, "on": {}, "at": {}, "live": {}, "stay": {},
	"there": {}, "here": {}, "has": {}, "have": {}, "is": {}, "are": {},
	"only": {}, "also": {},
}

// ExtractLocation runs the extraction cascade over the text and returns
// the first matching hint, or nil if no rule matches.
func ExtractLocation(text string) *models.LocationHint {
	hint, _ := ExtractLocationWithRule(text)
	return hint
}

// ExtractLocationWithRule is ExtractLocation plus the name of the rule
// that matched, for observability.
func ExtractLocationWithRule(text string) (*models.LocationHint, string) {
	if strings.TrimSpace(text) == "" {
		return nil, ""
	}
	for _, rule := range extractionRules {
		if hint := rule.Apply(text); hint != nil {
			return hint, rule.Name
		}
	}
	return nil, ""
}

func matchAcronymPlace(text string) *models.LocationHint {
	m := acronymRe.FindString(text)
	if m == "" {
		return nil
	}
	return &models.LocationHint{
		Text:       titleCase(m),
		Confidence: placeConfidence,
	}
}

func matchNamedPlace(text string) *models.LocationHint {
	m := namedRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	// Keep only the trailing run of non-stopword name tokens.
	tokens := strings.Fields(m[1])
	kept := 0
	for i := len(tokens) - 1; i >= 0; i-- {
		if _, stop := nameStopwords[strings.ToLower(tokens[i])]; stop {
			break
		}
		kept++
	}
	if kept == 0 {
		return nil
	}

	span := strings.Join(tokens[len(tokens)-kept:], " ") + " " + m[2]
	return &models.LocationHint{
		Text:       titleCase(span),
		Confidence: placeConfidence,
	}
}

func matchPincode(text string) *models.LocationHint {
	m := pinRe.FindString(text)
	if m == "" {
		return nil
	}
	return &models.LocationHint{
		Pincode:    m,
		Confidence: pincodeConfidence,
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
