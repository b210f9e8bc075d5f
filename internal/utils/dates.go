package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format.
const DateLayout = "2006-01-02"

var acceptedDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDate accepts a calendar date ("2006-01-02") or a full ISO-8601 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseOptionalDate returns nil for a nil or blank input.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders an optional date as "2006-01-02".
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// FormatTimestamp renders a timestamp as RFC 3339 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NullIfEmpty returns nil for a nil or empty string, the string otherwise.
// The result is meant for gorm update maps, where nil writes NULL.
func NullIfEmpty(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// NullableTime unwraps an optional time for gorm update maps.
func NullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// EmptyToNil returns nil for a nil or empty string pointer.
func EmptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
