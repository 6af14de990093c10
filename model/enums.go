package model

// ConnectionType describes the network the device is currently using.
type ConnectionType string

// Known connection types. The string value is the one sent to the collector.
const (
	ConnectionOffline ConnectionType = "OFFLINE"
	ConnectionWiFi    ConnectionType = "WIFI"
	ConnectionMobile  ConnectionType = "MOBILE"
	ConnectionGPRS    ConnectionType = "GPRS"
	ConnectionEdge    ConnectionType = "EDGE"
	Connection2G      ConnectionType = "2G"
	Connection3G      ConnectionType = "3G"
	Connection3GPlus  ConnectionType = "3G+"
	Connection4G      ConnectionType = "4G"
	Connection5G      ConnectionType = "5G"
	ConnectionUnknown ConnectionType = "UNKNOWN"
)

// VisitorIDType selects where the visitor identifier comes from.
type VisitorIDType string

// Supported visitor ID sources.
const (
	// VisitorIDAdvertising uses the Google advertising ID, falling back to the Huawei one.
	VisitorIDAdvertising       VisitorIDType = "ADID"
	VisitorIDGoogleAdvertising VisitorIDType = "GOOGLE_ADID"
	VisitorIDHuaweiAdvertising VisitorIDType = "HUAWEI_OAID"
	VisitorIDUUID              VisitorIDType = "UUID"
	VisitorIDCustom            VisitorIDType = "CUSTOM"
)

// OfflineStorageMode controls when stored events are sent.
type OfflineStorageMode string

const (
	// OfflineStorageAlways stores events and only sends them when SendOfflineData is called.
	OfflineStorageAlways OfflineStorageMode = "always"
	// OfflineStorageRequired sends events as soon as possible, keeping them while offline.
	OfflineStorageRequired OfflineStorageMode = "required"
	// OfflineStorageNever sends events and then wipes the local store, sent or not.
	OfflineStorageNever OfflineStorageMode = "never"
)

// VisitorStorageMode controls how the lifetime of a generated visitor UUID is measured.
type VisitorStorageMode string

const (
	// VisitorStorageFixed expires the UUID a fixed time after it was generated.
	VisitorStorageFixed VisitorStorageMode = "fixed"
	// VisitorStorageRelative expires the UUID a fixed time after it was last used.
	VisitorStorageRelative VisitorStorageMode = "relative"
)

// PrivacyStorageFeature is a group of persisted preference keys that privacy modes can allow or
// forbid as a unit.
type PrivacyStorageFeature string

// Storage features.
const (
	StorageVisitor   PrivacyStorageFeature = "VISITOR"
	StorageCrash     PrivacyStorageFeature = "CRASH"
	StorageLifecycle PrivacyStorageFeature = "LIFECYCLE"
	StoragePrivacy   PrivacyStorageFeature = "PRIVACY"
	StorageUser      PrivacyStorageFeature = "USER"
	StorageAll       PrivacyStorageFeature = "ALL"
)

// AllStorageFeatures lists every storage feature other than StorageAll.
var AllStorageFeatures = []PrivacyStorageFeature{
	StorageVisitor, StorageCrash, StorageLifecycle, StoragePrivacy, StorageUser,
}
