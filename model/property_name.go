package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxPropertyNameLength = 40
	prefixM               = "m_"
	prefixVisit           = "visit_"
	anyPropertyKey        = "*"
)

// ErrInvalidPropertyName is returned by NewPropertyName for a key that is not a valid property name.
var ErrInvalidPropertyName = errors.New(
	"property name can contain only `a-z`, `0-9`, `_`, must begin with `a-z`, " +
		"must not begin with m_ or visit_, max allowed length: 40",
)

var propertyNameRegex = regexp.MustCompile(`(?i)^[a-z]\w*$`)

// PropertyName is a validated event property key.
//
// The zero value is not a valid name; use NewPropertyName or MustPropertyName.
type PropertyName struct {
	key string
}

// NewPropertyName validates key and returns it as a PropertyName.
//
// A valid key is at most 40 characters, starts with a letter, contains only letters, digits and
// underscores, and does not start with "m_" or "visit_" (case-insensitively). The single
// character "*" is also accepted, and is equal to AnyPropertyName.
func NewPropertyName(key string) (PropertyName, error) {
	if !isValidPropertyKey(key) {
		return PropertyName{}, fmt.Errorf("%w: %q", ErrInvalidPropertyName, key)
	}
	return PropertyName{key: key}, nil
}

// MustPropertyName is like NewPropertyName but panics if the key is invalid. It is intended for
// package-level declarations of known names.
func MustPropertyName(key string) PropertyName {
	n, err := NewPropertyName(key)
	if err != nil {
		panic(err)
	}
	return n
}

func isValidPropertyKey(key string) bool {
	if len(key) > maxPropertyNameLength {
		return false
	}
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, prefixM) || strings.HasPrefix(lower, prefixVisit) {
		return false
	}
	return key == anyPropertyKey || propertyNameRegex.MatchString(key)
}

// Key returns the name as it was given.
func (n PropertyName) Key() string { return n.key }

// String returns the same value as Key.
func (n PropertyName) String() string { return n.key }

// IsAny returns true if this is the wildcard name used in privacy filters.
func (n PropertyName) IsAny() bool { return n.key == anyPropertyKey }

// Equal compares two names case-insensitively.
func (n PropertyName) Equal(other PropertyName) bool {
	return strings.EqualFold(n.key, other.key)
}

func (n PropertyName) normalized() string {
	return strings.ToLower(n.key)
}
