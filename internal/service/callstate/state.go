// Package callstate accumulates per-call analysis across streamed
// transcript chunks. State values are immutable; Apply returns a new
// State, so snapshots taken at different chunks never alias.
package callstate

import (
	"strings"

	"emergency-call-analysis/internal/models"
)

// lockThreshold freezes the call location once a hint this confident
// has been seen. Later, weaker hints must not displace it.
const lockThreshold = 0.90

// Observation is the per-chunk input to the state transition: the raw
// chunk text, its classification, and the fused location resolution
// computed from the classification's hint.
type Observation struct {
	Text           string
	Classification models.Classification
	Resolved       *models.ResolvedLocation
}

// State is the accumulated view of one call.
type State struct {
	transcript string
	current    models.Classification
	hint       *models.LocationHint
	resolved   *models.ResolvedLocation
	locked     bool
}

// New returns the empty initial state.
func New() State {
	return State{current: models.Classification{
		Type:     models.TypeUnknown,
		Priority: models.PriorityLow,
	}}
}

// Apply folds one chunk observation into the state and returns the
// successor. Type, priority, and keywords always track the latest
// classification. Location is stickier:
//
//   - once locked, only the transcript and classification move
//   - a chunk carrying a hint replaces hint and resolution, and locks
//     when the hint's confidence reaches the threshold
//   - a chunk with no hint keeps the prior location; its region-level
//     resolution is taken only when nothing better exists yet
func (s State) Apply(obs Observation) State {
	next := s
	if obs.Text != "" {
		next.transcript = s.transcript + " " + obs.Text
	}

	cls := obs.Classification
	next.current = models.Classification{
		Type:       cls.Type,
		Priority:   cls.Priority,
		Confidence: cls.Confidence,
		Keywords:   append([]string(nil), cls.Keywords...),
	}

	if s.locked {
		return next
	}

	if cls.Location != nil {
		hint := *cls.Location
		next.hint = &hint
		if obs.Resolved != nil {
			resolved := *obs.Resolved
			next.resolved = &resolved
		}
		if hint.Confidence >= lockThreshold {
			next.locked = true
		}
		return next
	}

	if s.resolved == nil && obs.Resolved != nil {
		resolved := *obs.Resolved
		next.resolved = &resolved
	}
	return next
}

// Snapshot renders the state as an event payload.
func (s State) Snapshot() models.IncidentSnapshot {
	snap := models.IncidentSnapshot{
		Transcript:     strings.TrimSpace(s.transcript),
		Type:           s.current.Type,
		Priority:       s.current.Priority,
		Confidence:     s.current.Confidence,
		Keywords:       append([]string(nil), s.current.Keywords...),
		LocationLocked: s.locked,
	}
	if s.hint != nil {
		hint := *s.hint
		snap.Location = &hint
	}
	if s.resolved != nil {
		resolved := *s.resolved
		snap.Resolved = &resolved
	}
	return snap
}

// Transcript returns the accumulated transcript so far.
func (s State) Transcript() string {
	return strings.TrimSpace(s.transcript)
}

// Classification returns the latest per-chunk classification.
func (s State) Classification() models.Classification {
	return s.current
}

// Resolved returns the current fused location, which may be nil.
func (s State) Resolved() *models.ResolvedLocation {
	return s.resolved
}

// Locked reports whether the location is frozen for this call.
func (s State) Locked() bool {
	return s.locked
}
