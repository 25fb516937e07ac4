package utils

import "strings"

// BooleanLiteralListing names the accepted spellings for boolean options.
const BooleanLiteralListing = "true, false, yes, no, on, off, 1, 0"

var booleanLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// ParseBooleanLiteral interprets input case-insensitively. The second result is false
// when input is not a recognized literal.
func ParseBooleanLiteral(input string) (bool, bool) {
	parsed, recognized := booleanLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, recognized
}
