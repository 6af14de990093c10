package visitorid

import (
	"github.com/analyticskit/go-analytics/model"
)

// Identifiers reported instead of a real visitor identifier in restrictive privacy modes.
const (
	NoConsentID = "Consent-NO"
	NoStorageID = "no-storage"
	OptOutID    = "opt-out"
)

// ModeSource returns the current privacy mode.
type ModeSource interface {
	CurrentMode() model.PrivacyMode
}

// ProviderParams contains the dependencies of a Provider.
type ProviderParams struct {
	Modes                   ModeSource
	Type                    model.VisitorIDType
	Sources                 map[model.VisitorIDType]Source
	Fallback                Source
	IgnoreLimitedAdTracking bool
}

// Provider picks the visitor identifier according to the privacy mode and the configured
// identifier type.
type Provider struct {
	modes    ModeSource
	source   Source
	fallback Source
	ignoreLT bool
}

// NewProvider creates a Provider. If there is no source for the configured type, Fallback is used.
func NewProvider(params ProviderParams) *Provider {
	source := params.Sources[params.Type]
	if source == nil {
		source = params.Fallback
	}
	return &Provider{
		modes:    params.Modes,
		source:   source,
		fallback: params.Fallback,
		ignoreLT: params.IgnoreLimitedAdTracking,
	}
}

// VisitorID returns the identifier to send, or false if there is none.
func (p *Provider) VisitorID() (string, bool) {
	switch p.modes.CurrentMode().Name() {
	case model.PrivacyModeNoStorageName:
		return NoStorageID, true
	case model.PrivacyModeNoConsentName:
		return NoConsentID, true
	case model.PrivacyModeOptOutName:
		return OptOutID, true
	}
	switch {
	case !p.source.LimitAdTracking():
		return p.source.VisitorID()
	case p.ignoreLT:
		return p.fallback.VisitorID()
	default:
		return OptOutID, true
	}
}

// LimitAdTracking reports whether the configured source limits tracking.
func (p *Provider) LimitAdTracking() bool {
	return p.source.LimitAdTracking()
}
