package logging

import (
	"regexp"
	"strings"
)

// Field names whose values must never reach the logs. The mutation
// endpoint's anti-forgery token is the main concern here.
var sensitiveFields = []string{
	"csrf",
	"csrf_token",
	"token",
	"password",
	"secret",
	"authorization",
	"cookie",
}

var tokenPattern = regexp.MustCompile(`(?i)(csrf_token|token|secret)[=:]["']?([a-zA-Z0-9+/=_-]{16,})["']?`)

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// Redact replaces token-like values embedded in a string.
func Redact(s string) string {
	return tokenPattern.ReplaceAllString(s, "${1}="+RedactedValue)
}

// RedactValues redacts sensitive keys in a flat string map, such as the
// form values of a mutation request about to be logged.
func RedactValues(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		if IsSensitiveField(k) {
			result[k] = RedactedValue
			continue
		}
		result[k] = Redact(v)
	}
	return result
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
