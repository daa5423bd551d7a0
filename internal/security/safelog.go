package security

import (
	"regexp"
	"strings"
)

// sensitivePatterns match credential-bearing key/value text.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(consumer[_-]?key|mpin|totp|password|token|sid|auth)[=:\s]+["']?([^\s"',}]+)["']?`),
}

// MaskToken masks a token for display, keeping the first and last four
// characters of long values.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 4) + token[len(token)-4:]
}

// Redact replaces credential values embedded in free-form text.
func Redact(text string) string {
	for _, pattern := range sensitivePatterns {
		text = pattern.ReplaceAllString(text, "$1=****")
	}
	return text
}
