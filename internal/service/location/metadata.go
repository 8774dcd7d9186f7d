package location

import "emergency-call-analysis/internal/models"

// MetadataProvider looks up caller network metadata for a phone number.
// Real deployments would back this with a telco HLR/CRM lookup.
type MetadataProvider interface {
	Lookup(phoneNumber string) models.CallerMetadata
}

// StaticProvider returns the same configured metadata for every caller.
// Used when no upstream lookup is wired in; the configured region still
// gives the resolver a usable fallback.
type StaticProvider struct {
	Metadata models.CallerMetadata
}

// NewStaticProvider builds a provider pinned to one city/region.
func NewStaticProvider(city, region, country, network string) *StaticProvider {
	return &StaticProvider{Metadata: models.CallerMetadata{
		City:    city,
		Region:  region,
		Country: country,
		Network: network,
	}}
}

// Lookup returns the fixed metadata regardless of number.
func (p *StaticProvider) Lookup(string) models.CallerMetadata {
	return p.Metadata
}
