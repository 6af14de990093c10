package model

import "strings"

// WildcardMatches reports whether s matches pattern.
//
// A pattern starting with "*" matches anything. A pattern containing "*" elsewhere matches any
// string that starts with the text before the first "*". Any other pattern must equal s exactly.
func WildcardMatches(pattern, s string) bool {
	i := strings.Index(pattern, "*")
	switch {
	case i == 0:
		return true
	case i < 0:
		return pattern == s
	default:
		return strings.HasPrefix(s, pattern[:i])
	}
}
