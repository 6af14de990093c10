// Package sharedtest contains types and functions used by unit tests in multiple packages.
//
// It is important that no non-test code ever imports this package, so that it will not be compiled
// into applications as a transitive dependency.
package sharedtest
