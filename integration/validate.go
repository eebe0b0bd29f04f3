// Package integration drives the credential lifecycle for pluggable tool
// integrations: field validation, connectivity testing, OAuth authorization,
// and persistence. The controller is a per-tool state machine; all network
// work happens outside it, with results fed back in.
package integration

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"wrapchat/tools"
)

const (
	minKeyLength      = 10
	minPasswordLength = 8
)

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)
)

// ValidateField checks one field value and returns a user-facing error
// message, or "" when the value is acceptable. Validation is local and
// recoverable; it only ever blocks submission.
func ValidateField(field tools.CredentialField, value string) string {
	value = strings.TrimSpace(value)

	if value == "" {
		if field.Required {
			return fmt.Sprintf("%s is required", field.Label)
		}
		return ""
	}

	name := strings.ToLower(field.Name)

	switch {
	case strings.Contains(name, "email"):
		if !emailPattern.MatchString(value) {
			return fmt.Sprintf("%s must be a valid email address", field.Label)
		}

	case strings.Contains(name, "url"):
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Sprintf("%s must be a valid URL", field.Label)
		}

	case isKeyLike(name):
		if len(value) < minKeyLength {
			return fmt.Sprintf("%s must be at least %d characters", field.Label, minKeyLength)
		}
		if !apiKeyPattern.MatchString(value) {
			return fmt.Sprintf("%s contains invalid characters", field.Label)
		}

	case field.Type == tools.FieldPassword:
		if len(value) < minPasswordLength {
			return fmt.Sprintf("%s must be at least %d characters", field.Label, minPasswordLength)
		}
	}

	return ""
}

// isKeyLike matches API keys, tokens and secrets, which share a charset and
// minimum-length rule.
func isKeyLike(name string) bool {
	return strings.Contains(name, "api_key") ||
		strings.Contains(name, "apikey") ||
		strings.Contains(name, "token") ||
		strings.Contains(name, "secret")
}

// ValidateAll runs ValidateField over every field and returns the error map.
// An empty map means the form can be submitted.
func ValidateAll(fields []tools.CredentialField, values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, field := range fields {
		if msg := ValidateField(field, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}
