package http

import "strings"

// Input validation limits
const (
	MaxNameLength     = 255
	MaxGreetingLength = 1000
	MaxContextLength  = 50000 // knowledge-base text
	MaxMessageLength  = 2000
)

// SanitizeString removes null bytes before text reaches the store.
func SanitizeString(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
