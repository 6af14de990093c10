// Package internal contains helpers shared by the analytics client's subpackages. It is not part of
// the public API.
package internal

// SDKVersion is the library version, sent in event_collection_version and the User-Agent header.
const SDKVersion = "1.4.0"

// SDKName is the product token used in the User-Agent header.
const SDKName = "GoAnalyticsSDK"
