package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CanonicalName returns the lookup key for a list name.
func CanonicalName(name string) string {
	return strings.ToLower(name)
}

// DisplayTitle lower-cases name and upper-cases only its first character,
// so "GROCERIES" and "groceries" both render as "Groceries".
func DisplayTitle(name string) string {
	key := CanonicalName(name)
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
