// Package normalize maps source-native records onto the canonical trade
// schema. Coercion never fails a record: garbage numeric or timestamp values
// degrade to nil, which upserts as NULL.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts seen in broker CSV exports, tried in order.
var csvTimeLayouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// feedTimeLayout matches the platform's entry timestamps,
// e.g. "Thu 21 Mar 2019 09:00:11". Feed times are UTC.
const feedTimeLayout = "Mon 2 Jan 2006 15:04:05"

// ParseTimestamp parses a CSV timestamp on a best-effort basis.
// Unparseable values become nil, not an error.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// ParseFeedTime parses a feed entry timestamp, or nil when unparseable.
func ParseFeedTime(s string) *time.Time {
	t, err := time.Parse(feedTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// Float coerces s to a float, or nil for empty, non-numeric, NaN, or Inf
// values. A literal zero is preserved as 0.0.
func Float(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Int coerces s to an integer, or nil when not integer-coercible.
func Int(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Fraction interprets percent-like roster fields. The sentinel "-" and empty
// or non-numeric values become nil; a "%"-suffixed value divides by 100; a
// plain number passes through unchanged.
func Fraction(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	if strings.HasSuffix(s, "%") {
		v := Float(strings.TrimSuffix(s, "%"))
		if v == nil {
			return nil
		}
		f := *v / 100
		return &f
	}
	return Float(s)
}
