package interfaces

import "context"

// AdvertisingIDInfo is the result of querying a platform advertising identifier service.
type AdvertisingIDInfo struct {
	ID              string
	LimitAdTracking bool
}

// AdvertisingIDSource queries a platform advertising identifier service. The call may block; the
// client calls it at most once per source and caches the result.
type AdvertisingIDSource interface {
	AdvertisingIDInfo(ctx context.Context) (AdvertisingIDInfo, error)
}
