package interfaces

// PlatformHooks gives access to platform facilities that have no portable Go equivalent.
type PlatformHooks interface {
	// SystemProperty returns the value of a platform system property, if it is set.
	SystemProperty(key string) (string, bool)
}

// NoPlatformHooks is a PlatformHooks implementation that reports every property as unset.
type NoPlatformHooks struct{}

// SystemProperty always returns false.
func (NoPlatformHooks) SystemProperty(string) (string, bool) { return "", false }
