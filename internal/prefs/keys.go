package prefs

import "github.com/analyticskit/go-analytics/model"

// Keys of persisted values.
const (
	KeyVersionCode                 = "PAVersionCode"
	KeyFirstSessionDate            = "PAFirstLaunchDate"
	KeyFirstSessionDateAfterUpdate = "PAFirstLaunchDateAfterUpdate"
	KeyLastSessionDate             = "PALastLaunchDate"
	KeySessionCount                = "PALaunchCount"
	KeySessionCountSinceUpdate     = "PALaunchCountSinceUpdate"

	KeyVisitorUUID                    = "PAIdclientUUID"
	KeyVisitorUUIDGenerationTimestamp = "PAIdclientUUIDGenerationTimestamp"

	KeyPrivacyMode                    = "PAPrivacyMode"
	KeyPrivacyModeExpirationTimestamp = "PAPrivacyModeExpirationTimestamp"
	KeyPrivacyVisitorConsent          = "PAPrivacyVisitorConsent"
	KeyPrivacyVisitorID               = "PAPrivacyUserId"

	KeyCrashInfo = "PACrashed"

	KeyUser                    = "PAUser"
	KeyUserGenerationTimestamp = "PAUserGenerationTimestamp"
)

var featureByKey = map[string]model.PrivacyStorageFeature{
	KeyVersionCode:                    model.StorageLifecycle,
	KeyFirstSessionDate:               model.StorageLifecycle,
	KeyFirstSessionDateAfterUpdate:    model.StorageLifecycle,
	KeyLastSessionDate:                model.StorageLifecycle,
	KeySessionCount:                   model.StorageLifecycle,
	KeySessionCountSinceUpdate:        model.StorageLifecycle,
	KeyVisitorUUID:                    model.StorageVisitor,
	KeyVisitorUUIDGenerationTimestamp: model.StorageVisitor,
	KeyPrivacyMode:                    model.StoragePrivacy,
	KeyPrivacyModeExpirationTimestamp: model.StoragePrivacy,
	KeyPrivacyVisitorConsent:          model.StoragePrivacy,
	KeyPrivacyVisitorID:               model.StoragePrivacy,
	KeyCrashInfo:                      model.StorageCrash,
	KeyUser:                           model.StorageUser,
	KeyUserGenerationTimestamp:        model.StorageUser,
}

// Keys written by older library versions. Their presence means the stored lifecycle data uses an
// incompatible format.
var legacyKeys = []string{
	"PAFirstInitLifecycleDone",
	"PAInitLifecycleDone",
	"PAFirstLaunch",
	"PAFirstLaunchAfterUpdate",
	"PADaysSinceFirstLaunch",
	"PADaysSinceFirstLaunchAfterUpdate",
	"PADaysSinceLastUse",
	"ATIdclientUUID",
}

var changedKeys = []string{
	KeyVersionCode,
	KeyFirstSessionDate,
	KeyFirstSessionDateAfterUpdate,
	KeyLastSessionDate,
}

// FeatureOf returns the storage feature that a key belongs to.
func FeatureOf(key string) (model.PrivacyStorageFeature, bool) {
	f, ok := featureByKey[key]
	return f, ok
}

// KeysOf returns the keys that belong to a storage feature. For model.StorageAll it returns every
// known key.
func KeysOf(feature model.PrivacyStorageFeature) []string {
	var ret []string
	for k, f := range featureByKey {
		if feature == model.StorageAll || f == feature {
			ret = append(ret, k)
		}
	}
	return ret
}
