// Package redact provides utilities for redacting sensitive information from
// strings before they are logged or returned in error responses. It prevents
// accidental leakage of connection strings, credentials, file paths, and SQL
// fragments that database drivers like to embed in error messages.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

// Precompiled regex patterns
var (
	// Database connection strings
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|db|database|connection)://[^@\s]+@`)

	// Credentials
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)

	// File paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL queries and fragments
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE|SCHEMA|VIEW)(?:[\s\w,*()='"]+)?`,
	)

	// Hostnames with optional ports
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	patterns = []*regexp.Regexp{
		dbConnRegex, passwordRegex, unixPathRegex, sqlRegex, hostPortRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		dbConnRegex:   RedactedCredentialPlaceholder,
		passwordRegex: RedactedCredentialPlaceholder,
		unixPathRegex: RedactedPathPlaceholder,
		sqlRegex:      "[REDACTED_SQL]",
		hostPortRegex: "[REDACTED_HOST]",
	}
)

// String redacts sensitive information from the given string.
func String(s string) string {
	if s == "" {
		return s
	}

	result := s
	for _, pattern := range patterns {
		placeholder, ok := patternPlaceholders[pattern]
		if !ok {
			continue
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
