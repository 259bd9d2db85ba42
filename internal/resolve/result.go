// Package resolve converts the typed tag stream into absolute UTC results:
// one resolver per tag family plus the context merger that combines adjacent
// compatible tags and assembles ranges.
package resolve

import (
	"encoding/json"
	"time"
)

// Result is one extracted time: a point instant or a [start,end] interval.
type Result struct {
	Start time.Time
	End   time.Time
	Point bool
}

// QueryTag is the coarse classification of the dominant expression kind.
type QueryTag string

const (
	QueryAbsolute  QueryTag = "absolute"
	QueryRelative  QueryTag = "relative"
	QueryRange     QueryTag = "range"
	QueryHoliday   QueryTag = "holiday"
	QueryLunar     QueryTag = "lunar"
	QueryRecurring QueryTag = "recurring"
	QueryNone      QueryTag = "none"
)

// InstantLayout is the wire format of every emitted instant.
const InstantLayout = "2006-01-02T15:04:05Z"

// FormatInstant renders t as an ISO-8601 UTC instant with second precision.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// MarshalJSON renders a point as a single instant string and an interval as
// a two-element [start,end] array, matching the public result contract.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Point {
		return json.Marshal(FormatInstant(r.Start))
	}
	return json.Marshal([2]string{FormatInstant(r.Start), FormatInstant(r.End)})
}

// Encode flattens results into the public JSON shape: each element is either
// one instant string or a [start,end] pair.
func Encode(results []Result) []any {
	out := make([]any, 0, len(results))
	for _, r := range results {
		if r.Point {
			out = append(out, FormatInstant(r.Start))
		} else {
			out = append(out, []string{FormatInstant(r.Start), FormatInstant(r.End)})
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// startOfWeek returns the Monday 00:00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return startOfDay(t).AddDate(0, 0, 1-wd)
}

// inRange reports whether t lies within the representable window
// [0001-01-01, 9999-12-31]; instants outside drop their tag.
func inRange(t time.Time) bool {
	y := t.Year()
	return y >= 1 && y <= 9999
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
