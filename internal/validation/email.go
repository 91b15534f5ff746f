// Package validation holds the per-field predicates and normalizers shared
// by the repository implementations.
package validation

import (
	"regexp"
	"strings"
)

// emailPattern is deliberately loose: local part, @, domain with a TLD of
// at least two letters. Full RFC 5322 parsing is not the goal.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
// Callers normalize first; ValidEmail does not trim.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Uniqueness in the store is enforced over the normalized form.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
