// Package prefstore contains implementations of interfaces.PreferenceStore: an in-memory store for
// tests and ephemeral processes, and a file-backed store that can reload itself when the file is
// edited by another process.
package prefstore
