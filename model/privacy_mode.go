package model

import (
	"sort"

	"golang.org/x/exp/slices"
)

// Names of the built-in privacy modes.
const (
	PrivacyModeOptInName     = "optin"
	PrivacyModeOptOutName    = "optout"
	PrivacyModeExemptName    = "exempt"
	PrivacyModeNoConsentName = "no-consent"
	PrivacyModeNoStorageName = "no-storage"
	PrivacyModeCustomName    = "custom"
)

// PrivacyMode is a named privacy policy. It decides which events are sent, which of their
// properties are kept, and which persisted data may be written.
//
// Property key lists are keyed by an event name pattern. A pattern "*" matches every event, a
// pattern with "*" elsewhere matches every event name starting with the text before the "*", and
// any other pattern matches only that exact name.
//
// Modes are identified by name and cannot be modified after construction.
type PrivacyMode struct {
	name                  string
	visitorConsent        bool
	allowedEventNames     []string
	forbiddenEventNames   []string
	allowedStorage        []PrivacyStorageFeature
	forbiddenStorage      []PrivacyStorageFeature
	allowedPropertyKeys   map[string][]PropertyName
	forbiddenPropertyKeys map[string][]PropertyName
}

// PrivacyModeParams contains the fields of a new PrivacyMode.
type PrivacyModeParams struct {
	Name                  string
	VisitorConsent        bool
	AllowedEventNames     []string
	ForbiddenEventNames   []string
	AllowedStorage        []PrivacyStorageFeature
	ForbiddenStorage      []PrivacyStorageFeature
	AllowedPropertyKeys   map[string][]PropertyName
	ForbiddenPropertyKeys map[string][]PropertyName
}

// NewPrivacyMode creates a mode from params. All slices and maps are copied.
func NewPrivacyMode(params PrivacyModeParams) PrivacyMode {
	return PrivacyMode{
		name:                  params.Name,
		visitorConsent:        params.VisitorConsent,
		allowedEventNames:     slices.Clone(params.AllowedEventNames),
		forbiddenEventNames:   slices.Clone(params.ForbiddenEventNames),
		allowedStorage:        slices.Clone(params.AllowedStorage),
		forbiddenStorage:      slices.Clone(params.ForbiddenStorage),
		allowedPropertyKeys:   clonePropertyKeys(params.AllowedPropertyKeys),
		forbiddenPropertyKeys: clonePropertyKeys(params.ForbiddenPropertyKeys),
	}
}

func clonePropertyKeys(m map[string][]PropertyName) map[string][]PropertyName {
	ret := make(map[string][]PropertyName, len(m))
	for k, v := range m {
		ret[k] = slices.Clone(v)
	}
	return ret
}

// Name returns the mode name.
func (m PrivacyMode) Name() string { return m.name }

// VisitorConsent returns true if the visitor has given consent in this mode.
func (m PrivacyMode) VisitorConsent() bool { return m.visitorConsent }

// AllowedEventNames returns the event name patterns that may be sent.
func (m PrivacyMode) AllowedEventNames() []string { return slices.Clone(m.allowedEventNames) }

// ForbiddenEventNames returns the event name patterns that must not be sent.
func (m PrivacyMode) ForbiddenEventNames() []string { return slices.Clone(m.forbiddenEventNames) }

// AllowedStorage returns the storage features that may be written.
func (m PrivacyMode) AllowedStorage() []PrivacyStorageFeature { return slices.Clone(m.allowedStorage) }

// ForbiddenStorage returns the storage features that must not be written.
func (m PrivacyMode) ForbiddenStorage() []PrivacyStorageFeature {
	return slices.Clone(m.forbiddenStorage)
}

// AllowedPropertyKeys returns a copy of the allowed property keys, by event name pattern.
func (m PrivacyMode) AllowedPropertyKeys() map[string][]PropertyName {
	return clonePropertyKeys(m.allowedPropertyKeys)
}

// ForbiddenPropertyKeys returns a copy of the forbidden property keys, by event name pattern.
func (m PrivacyMode) ForbiddenPropertyKeys() map[string][]PropertyName {
	return clonePropertyKeys(m.forbiddenPropertyKeys)
}

// EventPatterns returns the sorted keys of both property key maps.
func (m PrivacyMode) EventPatterns() []string {
	seen := make(map[string]struct{})
	for k := range m.allowedPropertyKeys {
		seen[k] = struct{}{}
	}
	for k := range m.forbiddenPropertyKeys {
		seen[k] = struct{}{}
	}
	ret := make([]string, 0, len(seen))
	for k := range seen {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// AllowedPropertyKeysFor returns the allowed keys registered under one event name pattern.
func (m PrivacyMode) AllowedPropertyKeysFor(pattern string) []PropertyName {
	return m.allowedPropertyKeys[pattern]
}

// ForbiddenPropertyKeysFor returns the forbidden keys registered under one event name pattern.
func (m PrivacyMode) ForbiddenPropertyKeysFor(pattern string) []PropertyName {
	return m.forbiddenPropertyKeys[pattern]
}

// Default event names and property keys used by the built-in modes.
var (
	DefaultEventNames = []string{
		EventNameClickAction,
		EventNameClickDownload,
		EventNameClickExit,
		EventNameClickNavigation,
		EventNamePageDisplay,
	}

	DefaultStorageFeatures = []PrivacyStorageFeature{StorageVisitor, StoragePrivacy}

	MinimumDefaultPropertyKeys = []PropertyName{
		ConnectionTypeName,
		DeviceTimestampUTC,
		VisitorPrivacyConsent,
		VisitorPrivacyMode,
	}

	ExemptDefaultPropertyKeys = append(slices.Clone(MinimumDefaultPropertyKeys),
		AppCrash, AppCrashClass, AppCrashScreen, AppVersion,
		Browser, BrowserCookieAcceptance, BrowserGroup, BrowserVersion,
		Click, ClickChapter1, ClickChapter2, ClickChapter3, ClickFullName,
		ConnectionMonitor, ConnectionOrganisation,
		DateProperty, DateDay, DateDayNumber, DateMonth, DateMonthNumber, DateWeek, DateYear, DateYearOfWeek,
		DeviceBrand, DeviceDisplayHeight, DeviceDisplayWidth, DeviceManufacturer, DeviceModel,
		DeviceName, DeviceNameTech, DeviceScreenDiagonal, DeviceScreenHeight, DeviceScreenWidth, DeviceType,
		EventCollectionPlatform, EventCollectionVersion, EventHour, EventID, EventMinute, EventNameProperty,
		EventPosition, EventSecond, EventTime, EventTimeUTC, EventURL, EventURLDomain, EventURLFull,
		ExclusionCause, ExclusionType,
		GeoCity, GeoContinent, GeoCountry, GeoMetro, GeoRegion,
		HitTimeUTC,
		OS, OSGroup, OSVersion, OSVersionName,
		Page, PageChapter1, PageChapter2, PageChapter3, PageDuration, PageFullName, PagePosition,
		PrivacyStatus,
		Site, SiteEnv, SiteID, SitePlatform,
		Src, SrcDetail, SrcDirectAccess, SrcOrganic, SrcOrganicDetail, SrcPortalDomain, SrcPortalSite,
		SrcPortalSiteID, SrcPortalURL, SrcReferrerSiteDomain, SrcReferrerSiteURL, SrcReferrerURL,
		SrcSE, SrcSECategory, SrcSECountry, SrcType, SrcURL, SrcURLDomain, SrcWebmail,
	)
)

func anyKeys() map[string][]PropertyName {
	return map[string][]PropertyName{AnyEventName: {AnyPropertyName}}
}

func keysForAnyEvent(keys []PropertyName) map[string][]PropertyName {
	return map[string][]PropertyName{AnyEventName: keys}
}

// Built-in privacy modes.
var (
	PrivacyModeOptIn = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeOptInName,
		VisitorConsent:      true,
		AllowedEventNames:   []string{AnyEventName},
		AllowedStorage:      []PrivacyStorageFeature{StorageAll},
		AllowedPropertyKeys: anyKeys(),
	})

	PrivacyModeOptOut = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeOptOutName,
		AllowedEventNames:   []string{AnyEventName},
		AllowedStorage:      DefaultStorageFeatures,
		AllowedPropertyKeys: keysForAnyEvent(MinimumDefaultPropertyKeys),
	})

	PrivacyModeExempt = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeExemptName,
		AllowedEventNames:   DefaultEventNames,
		AllowedStorage:      DefaultStorageFeatures,
		AllowedPropertyKeys: keysForAnyEvent(ExemptDefaultPropertyKeys),
	})

	PrivacyModeNoConsent = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeNoConsentName,
		AllowedEventNames:   []string{AnyEventName},
		ForbiddenStorage:    []PrivacyStorageFeature{StorageAll},
		AllowedPropertyKeys: keysForAnyEvent(MinimumDefaultPropertyKeys),
	})

	PrivacyModeNoStorage = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeNoStorageName,
		AllowedEventNames:   []string{AnyEventName},
		ForbiddenStorage:    []PrivacyStorageFeature{StorageAll},
		AllowedPropertyKeys: anyKeys(),
	})

	PrivacyModeCustom = NewPrivacyMode(PrivacyModeParams{
		Name:                PrivacyModeCustomName,
		AllowedEventNames:   DefaultEventNames,
		AllowedStorage:      DefaultStorageFeatures,
		AllowedPropertyKeys: keysForAnyEvent(ExemptDefaultPropertyKeys),
	})
)

// BuiltInPrivacyModes returns the modes that are always registered.
func BuiltInPrivacyModes() []PrivacyMode {
	return []PrivacyMode{
		PrivacyModeOptIn,
		PrivacyModeOptOut,
		PrivacyModeExempt,
		PrivacyModeNoConsent,
		PrivacyModeNoStorage,
		PrivacyModeCustom,
	}
}
