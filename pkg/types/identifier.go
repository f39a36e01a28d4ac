// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[0-9]+$`)

// Identifier is a PubMed identifier: a non-empty string of decimal digits.
type Identifier string

// ParseIdentifier trims surrounding whitespace from raw and reports whether
// what remains is a well-formed identifier.
func ParseIdentifier(raw string) (Identifier, bool) {
	s := strings.TrimSpace(raw)
	if !identifierPattern.MatchString(s) {
		return "", false
	}
	return Identifier(s), true
}

func (id Identifier) String() string { return string(id) }

// CompareIdentifiers orders identifiers numerically without converting them
// to integers, so arbitrarily long digit strings compare correctly. Leading
// zeros are ignored.
func CompareIdentifiers(a, b Identifier) int {
	x := strings.TrimLeft(string(a), "0")
	y := strings.TrimLeft(string(b), "0")
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}
