package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatName trims s and returns it with the first letter upper-cased and the
// rest lower-cased ("  rOSAS rojas " -> "Rosas rojas").
func FormatName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
