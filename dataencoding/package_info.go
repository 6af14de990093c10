// Package dataencoding provides implementations of interfaces.DataEncoder for the local event store.
package dataencoding
