// Package models defines the data structures shared across the call
// analysis pipeline and its event payloads.
package models

// Emergency types produced by the classifier.
const (
	TypeAmbulance = "ambulance"
	TypeFire      = "fire"
	TypePolice    = "police"
	TypeUnknown   = "unknown"
)

// Priority levels, highest first.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Resolution levels for a fused location, most specific first.
const (
	LevelPrecise = "precise"
	LevelApprox  = "approx"
	LevelRegion  = "region"
)

// Dispatch status values for a persisted incident.
const (
	StatusNew        = "new"
	StatusDispatched = "dispatched"
	StatusResolved   = "resolved"
)

// LocationHint is the output of location extraction from speech.
// A nil *LocationHint means no location was found.
type LocationHint struct {
	Text       string  `json:"text,omitempty"`
	Pincode    string  `json:"pincode,omitempty"`
	Confidence float64 `json:"confidence"`
	Semantic   bool    `json:"semantic,omitempty"`
}

// CallerMetadata is network-derived context for the caller. It is
// supplied externally and read-only to the pipeline.
type CallerMetadata struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Network string `json:"network"`
}

// ResolvedLocation is the result of fusing a speech hint with caller
// metadata. Values are never mutated after creation; the resolver
// produces a fresh value per call.
type ResolvedLocation struct {
	Level      string  `json:"level"`
	Pincode    string  `json:"pincode,omitempty"`
	Text       string  `json:"text,omitempty"`
	Area       string  `json:"area,omitempty"`
	City       string  `json:"city,omitempty"`
	Region     string  `json:"region,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Classification is the immutable result of one classifier run.
type Classification struct {
	Type       string        `json:"type"`
	Priority   string        `json:"priority"`
	Confidence float64       `json:"confidence"`
	Keywords   []string      `json:"keywords"`
	Location   *LocationHint `json:"location,omitempty"`
}

// GeoPoint is a geocoded location from the external geocoding service.
type GeoPoint struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PlaceID          string  `json:"placeId,omitempty"`
	Confidence       float64 `json:"confidence"`
}

// IncidentSnapshot is a read-only view of the evolving call state.
type IncidentSnapshot struct {
	Transcript     string            `json:"transcript"`
	Type           string            `json:"type"`
	Priority       string            `json:"priority"`
	Confidence     float64           `json:"confidence"`
	Keywords       []string          `json:"keywords"`
	Location       *LocationHint     `json:"location,omitempty"`
	Resolved       *ResolvedLocation `json:"resolvedLocation,omitempty"`
	LocationLocked bool              `json:"locationLocked"`
}

// CallAnalysis is the batch pipeline output for one recording.
type CallAnalysis struct {
	CallID     string         `json:"callId"`
	Language   string         `json:"language"`
	Transcript string         `json:"transcript"`
	Analysis   Classification `json:"analysis"`
	Geo        *GeoPoint      `json:"geo,omitempty"`
}

// IncidentRecord is the flat produced record handed to persistence and
// the dispatch layer. The pipeline always writes status "new"; the
// dispatch layer owns later status transitions.
type IncidentRecord struct {
	CallID        string   `json:"callId"`
	Timestamp     int64    `json:"timestamp"`
	PhoneNumber   string   `json:"phoneNumber,omitempty"`
	AudioPath     string   `json:"audioPath,omitempty"`
	Language      string   `json:"language"`
	Transcript    string   `json:"transcript"`
	EmergencyType string   `json:"emergencyType"`
	Priority      string   `json:"priority"`
	Confidence    float64  `json:"confidence"`
	Keywords      []string `json:"keywords"`
	LocationText  string   `json:"locationText,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Status        string   `json:"status"`
}

// IncidentPartial is the per-chunk event emitted while a streamed call
// is in progress.
type IncidentPartial struct {
	EventType  string           `json:"eventType"`
	CallID     string           `json:"callId"`
	ChunkIndex int              `json:"chunkIndex"`
	Timestamp  int64            `json:"timestamp"`
	Snapshot   IncidentSnapshot `json:"snapshot"`
}

// IncidentFinal is the end-of-call event carrying the produced record.
type IncidentFinal struct {
	EventType string         `json:"eventType"`
	CallID    string         `json:"callId"`
	Timestamp int64          `json:"timestamp"`
	Record    IncidentRecord `json:"record"`
}
