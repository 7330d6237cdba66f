// Package gqltime registers the DateTime, Date and Time scalars used by
// schemas that exchange ISO 8601 values.
package gqltime

import (
	"time"

	"github.com/gqlforge/gqlforge/pkg/gqlt"
)

// Scalars registered in the shared base registry. Generated packages
// reference these instead of declaring their own when the schema uses
// the conventional names.
var (
	DateTime = gqlt.BaseScalar("DateTime")
	Date     = gqlt.BaseScalar("Date")
	Time     = gqlt.BaseScalar("Time")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// ParseDateTime parses an RFC 3339 date-time value.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseDate parses a full-date value such as "2015-04-21".
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// ParseTime parses a partial-time value such as "13:37:00".
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// FormatDateTime renders t as RFC 3339.
func FormatDateTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatDate renders the date part of t.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders the time-of-day part of t.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}
