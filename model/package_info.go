// Package model contains the data types that host applications use to describe analytics events:
// events and their builders, validated property names, typed property values, context properties,
// users, and privacy modes.
//
// All types in this package are immutable once constructed, or are builders whose output is
// immutable. They may be shared freely between goroutines.
package model
