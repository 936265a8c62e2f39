package domain

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InputDateLayout accepts YYYY-MM-DD, with or without zero padding on month and day.
const InputDateLayout = "2006-1-2"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// check is one step of an ordered validation chain.
type check func() error

// firstFailure runs checks in order and stops at the first failure.
func firstFailure(checks ...check) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

// sanitize drops ASCII control characters and surrounding whitespace.
func sanitize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(stripped)
}

// ParseUsername validates a directory username.
func ParseUsername(raw string) (string, error) {
	for _, r := range raw {
		if r < 0x20 || r == 0x7f {
			return "", &ValidationError{Field: "username", Reason: "contains control characters"}
		}
	}
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: "username", Reason: "is required"}
	}
	if !usernamePattern.MatchString(name) {
		return "", &ValidationError{Field: "username", Reason: "must contain only letters, digits, spaces, dashes and underscores"}
	}
	return name, nil
}

// ParseUserID validates a store identifier.
func ParseUserID(raw string) (string, error) {
	id := sanitize(raw)
	if id == "" {
		return "", &ValidationError{Field: "userId", Reason: "is required"}
	}
	if !ValidID(id) {
		return "", &ValidationError{Field: "userId", Reason: "is not a valid identifier"}
	}
	// Stored identifiers are lowercase hex.
	return strings.ToLower(id), nil
}

// ParseDescription trims and HTML-escapes a record description.
func ParseDescription(raw string) (string, error) {
	desc := sanitize(raw)
	if desc == "" {
		return "", &ValidationError{Field: "description", Reason: "is required"}
	}
	return html.EscapeString(desc), nil
}

// ParseDuration parses a non-negative whole number of minutes.
func ParseDuration(raw string) (int, error) {
	value := sanitize(raw)
	if value == "" {
		return 0, &ValidationError{Field: "durationMinutes", Reason: "is required"}
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: "durationMinutes", Reason: "must be an integer"}
	}
	if minutes < 0 {
		return 0, &ValidationError{Field: "durationMinutes", Reason: "must not be negative"}
	}
	return minutes, nil
}

// ParseDate parses an optional calendar date as midnight UTC. Empty input yields nil.
func ParseDate(field, raw string) (*time.Time, error) {
	value := sanitize(raw)
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(InputDateLayout, value, time.UTC)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return &day, nil
}

// ParseLimit parses an optional non-negative window size. Empty input yields nil.
func ParseLimit(raw string) (*int, error) {
	value := sanitize(raw)
	if value == "" {
		return nil, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil {
		return nil, &ValidationError{Field: "limit", Reason: "must be an integer"}
	}
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	return &limit, nil
}
