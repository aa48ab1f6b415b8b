// Package timefmt renders message timestamps for display. It is a pure
// mapping from an instant to a fixed English layout; callers that hold a raw
// feed string use DisplayOr to degrade to a fallback instead of failing.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimestamp marks input that cannot be parsed as an instant.
// Callers recover from it locally (fallback display); it is never fatal.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// DisplayLayout is the contract format: weekday, month, day, year, then the
// literal " at " and a 12-hour clock, e.g. "Wednesday May 20, 2015 at 1:55:10 PM".
const DisplayLayout = "Monday January 2, 2006 at 3:04:05 PM"

// parseLayouts are tried in order. Feed timestamps are ISO-8601; the second
// form accepts values that omit a zone offset.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parse converts a raw feed timestamp into an instant.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// Format renders an instant in the display layout.
func Format(t time.Time) string {
	return t.Format(DisplayLayout)
}

// FormatString parses and renders in one step.
func FormatString(raw string) (string, error) {
	t, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

// DisplayOr renders raw for display, returning fallback when raw does not
// parse. This is the recovery path: rendering never fails on a bad value.
func DisplayOr(raw, fallback string) string {
	s, err := FormatString(raw)
	if err != nil {
		return fallback
	}
	return s
}
