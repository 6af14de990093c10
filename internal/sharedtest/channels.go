package sharedtest

import "time"

// TryReceive returns the next value from ch, or false if none arrives within the timeout.
func TryReceive[V any](ch <-chan V, timeout time.Duration) (V, bool) {
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(timeout):
		var empty V
		return empty, false
	}
}
