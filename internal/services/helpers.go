package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// titleName normalizes a guest name to Title Case. Ticket exports arrive
// with names in whatever casing the buyer typed.
func titleName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		lower := strings.ToLower(f)
		r, size := utf8.DecodeRuneInString(lower)
		fields[i] = string(unicode.ToUpper(r)) + lower[size:]
	}
	return strings.Join(fields, " ")
}
