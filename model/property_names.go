package model

// AnyPropertyName is the wildcard property name. It may be used in privacy mode property lists, but
// never as the name of an actual Property.
var AnyPropertyName = PropertyName{key: anyPropertyKey}

// Well-known property names.
var (
	AppCrash                       = MustPropertyName("app_crash")
	AppCrashClass                  = MustPropertyName("app_crash_class")
	AppCrashScreen                 = MustPropertyName("app_crash_screen")
	AppDaysSinceFirstSession       = MustPropertyName("app_dsfs")
	AppDaysSinceLastSession        = MustPropertyName("app_dsls")
	AppDaysSinceUpdate             = MustPropertyName("app_dsu")
	AppID                          = MustPropertyName("app_id")
	AppFirstSession                = MustPropertyName("app_fs")
	AppFirstSessionAfterUpdate     = MustPropertyName("app_fsau")
	AppFirstSessionDate            = MustPropertyName("app_fsd")
	AppFirstSessionDateAfterUpdate = MustPropertyName("app_fsdau")
	AppSessionCount                = MustPropertyName("app_sc")
	AppSessionCountSinceUpdate     = MustPropertyName("app_scsu")
	AppSessionID                   = MustPropertyName("app_sessionid")
	AppVersion                     = MustPropertyName("app_version")
	Browser                        = MustPropertyName("browser")
	BrowserLanguage                = MustPropertyName("browser_language")
	BrowserLanguageLocal           = MustPropertyName("browser_language_local")
	BrowserCookieAcceptance        = MustPropertyName("browser_cookie_acceptance")
	BrowserGroup                   = MustPropertyName("browser_group")
	BrowserVersion                 = MustPropertyName("browser_version")
	Click                          = MustPropertyName("click")
	ClickChapter1                  = MustPropertyName("click_chapter1")
	ClickChapter2                  = MustPropertyName("click_chapter2")
	ClickChapter3                  = MustPropertyName("click_chapter3")
	ClickFullName                  = MustPropertyName("click_full_name")
	ConnectionMonitor              = MustPropertyName("connection_monitor")
	ConnectionOrganisation         = MustPropertyName("connection_organisation")
	ConnectionTypeName             = MustPropertyName("connection_type")
	DateProperty                   = MustPropertyName("date")
	DateDay                        = MustPropertyName("date_day")
	DateDayNumber                  = MustPropertyName("date_daynumber")
	DateMonth                      = MustPropertyName("date_month")
	DateMonthNumber                = MustPropertyName("date_monthnumber")
	DateWeek                       = MustPropertyName("date_week")
	DateYear                       = MustPropertyName("date_year")
	DateYearOfWeek                 = MustPropertyName("date_yearofweek")
	DeviceBrand                    = MustPropertyName("device_brand")
	DeviceDisplayHeight            = MustPropertyName("device_display_height")
	DeviceDisplayWidth             = MustPropertyName("device_display_width")
	DeviceName                     = MustPropertyName("device_name")
	DeviceNameTech                 = MustPropertyName("device_name_tech")
	DeviceScreenDiagonal           = MustPropertyName("device_screen_diagonal")
	DeviceScreenHeight             = MustPropertyName("device_screen_height")
	DeviceScreenWidth              = MustPropertyName("device_screen_width")
	DeviceTimestampUTC             = MustPropertyName("device_timestamp_utc")
	DeviceType                     = MustPropertyName("device_type")
	DeviceManufacturer             = MustPropertyName("device_manufacturer")
	DeviceModel                    = MustPropertyName("device_model")
	EventCollectionPlatform        = MustPropertyName("event_collection_platform")
	EventCollectionVersion         = MustPropertyName("event_collection_version")
	EventHour                      = MustPropertyName("event_hour")
	EventID                        = MustPropertyName("event_id")
	EventMinute                    = MustPropertyName("event_minute")
	EventNameProperty              = MustPropertyName("event_name")
	EventPosition                  = MustPropertyName("event_position")
	EventSecond                    = MustPropertyName("event_second")
	EventTime                      = MustPropertyName("event_time")
	EventTimeUTC                   = MustPropertyName("event_time_utc")
	EventURL                       = MustPropertyName("event_url")
	EventURLDomain                 = MustPropertyName("event_url_domain")
	EventURLFull                   = MustPropertyName("event_url_full")
	ExclusionCause                 = MustPropertyName("exclusion_cause")
	ExclusionType                  = MustPropertyName("exclusion_type")
	GeoCity                        = MustPropertyName("geo_city")
	GeoContinent                   = MustPropertyName("geo_continent")
	GeoCountry                     = MustPropertyName("geo_country")
	GeoMetro                       = MustPropertyName("geo_metro")
	GeoRegion                      = MustPropertyName("geo_region")
	HitTimeUTC                     = MustPropertyName("hit_time_utc")
	OS                             = MustPropertyName("os")
	OSGroup                        = MustPropertyName("os_group")
	OSVersion                      = MustPropertyName("os_version")
	OSVersionName                  = MustPropertyName("os_version_name")
	Page                           = MustPropertyName("page")
	PageChapter1                   = MustPropertyName("page_chapter1")
	PageChapter2                   = MustPropertyName("page_chapter2")
	PageChapter3                   = MustPropertyName("page_chapter3")
	PageDuration                   = MustPropertyName("page_duration")
	PageFullName                   = MustPropertyName("page_full_name")
	PagePosition                   = MustPropertyName("page_position")
	PrivacyStatus                  = MustPropertyName("privacy_status")
	Site                           = MustPropertyName("site")
	SiteEnv                        = MustPropertyName("site_env")
	SiteID                         = MustPropertyName("site_id")
	SitePlatform                   = MustPropertyName("site_platform")
	Src                            = MustPropertyName("src")
	SrcDetail                      = MustPropertyName("src_detail")
	SrcDirectAccess                = MustPropertyName("src_direct_access")
	SrcOrganic                     = MustPropertyName("src_organic")
	SrcOrganicDetail               = MustPropertyName("src_organic_detail")
	SrcPortalDomain                = MustPropertyName("src_portal_domain")
	SrcPortalSite                  = MustPropertyName("src_portal_site")
	SrcPortalSiteID                = MustPropertyName("src_portal_site_id")
	SrcPortalURL                   = MustPropertyName("src_portal_url")
	SrcReferrerSiteDomain          = MustPropertyName("src_referrer_site_domain")
	SrcReferrerSiteURL             = MustPropertyName("src_referrer_site_url")
	SrcReferrerURL                 = MustPropertyName("src_referrer_url")
	SrcSE                          = MustPropertyName("src_se")
	SrcSECategory                  = MustPropertyName("src_se_category")
	SrcSECountry                   = MustPropertyName("src_se_country")
	SrcType                        = MustPropertyName("src_type")
	SrcURL                         = MustPropertyName("src_url")
	SrcURLDomain                   = MustPropertyName("src_url_domain")
	SrcWebmail                     = MustPropertyName("src_webmail")
	UserIDProperty                 = MustPropertyName("user_id")
	UserRecognition                = MustPropertyName("user_recognition")
	UserCategory                   = MustPropertyName("user_category")
	VisitorPrivacyConsent          = MustPropertyName("visitor_privacy_consent")
	VisitorPrivacyMode             = MustPropertyName("visitor_privacy_mode")
)
