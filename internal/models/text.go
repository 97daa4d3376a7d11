package models

import "strings"

// NormalizeKey lowercases and trims an identifier such as a cuisine name so
// lookups and uniqueness are case-insensitive.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CultureMatches reports whether two culture names refer to the same cuisine,
// using a bidirectional substring check so "Mexican" matches "mexican food".
func CultureMatches(a, b string) bool {
	na, nb := NormalizeKey(a), NormalizeKey(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// ContainsAnyKeyword reports whether the haystack mentions any of the given
// lowercase keywords.
func ContainsAnyKeyword(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
