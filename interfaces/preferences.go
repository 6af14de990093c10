package interfaces

// PreferenceStore is a persistent string key-value store, such as a platform preferences file.
//
// All methods must be safe for concurrent use. Writes should be durable by the time the method
// returns, or at least before the process exits normally.
type PreferenceStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(keys ...string) error
	Clear() error
}
