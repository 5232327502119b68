package util

import (
	"regexp"
	"strings"
)

var controlRe = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// SanitizeForLog removes control characters and newlines from user content
// before logging. Intercepted action descriptions and scanned fragments are
// attacker-controlled, so anything that reaches a log line goes through
// here first.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlRe.ReplaceAllString(s, " ")
}

// Truncate shortens s to max runes for log and notification payloads.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
