// Package utils provides utility functions and helpers for the application.
package utils

import (
	"strconv"
	"strings"
)

// JoinStrings joins a slice of strings with the given separator.
func JoinStrings(strs []string, sep string) string {
	return strings.Join(strs, sep)
}

// FormatInt64 converts an int64 to its decimal string representation.
func FormatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

// TruncateString shortens a string to maxLen runes, appending an ellipsis
// when truncation occurred.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// MaskEmail obscures the local part of an email address for logging.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// ContainsString reports whether a slice contains the given string.
func ContainsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
