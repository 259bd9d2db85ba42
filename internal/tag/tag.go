// Package tag defines the typed token model shared by the tagger and the
// resolvers, plus the bracketed wire form "[FAMILY field=value ...]" in
// which the tagger emits matches.
package tag

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Family classifies a tag.
type Family string

const (
	UTC        Family = "UTC"
	REL        Family = "REL"
	WEEK       Family = "WEEK"
	PERIOD     Family = "PERIOD"
	CLOCK      Family = "CLOCK"
	HOLIDAY    Family = "HOLIDAY"
	LUNAR      Family = "LUNAR"
	DELTA      Family = "DELTA"
	RANGEOPEN  Family = "RANGE_OPEN"
	RANGESEP   Family = "RANGE_SEP"
	RANGECLOSE Family = "RANGE_CLOSE"
	CENTURY    Family = "CENTURY"
	DECADE     Family = "DECADE"
	RECUR      Family = "RECUR"
	ORDINAL    Family = "ORDINAL"
	NOISE      Family = "NOISE"
)

var knownFamilies = map[Family]bool{
	UTC: true, REL: true, WEEK: true, PERIOD: true, CLOCK: true,
	HOLIDAY: true, LUNAR: true, DELTA: true, RANGEOPEN: true,
	RANGESEP: true, RANGECLOSE: true, CENTURY: true, DECADE: true,
	RECUR: true, ORDINAL: true, NOISE: true,
}

// Tag is one recognized time-phrase fragment: a family, a string payload,
// and the source rune span it covers.
type Tag struct {
	Family Family
	Fields map[string]string
	Start  int // rune offset in source text, inclusive
	End    int // rune offset in source text, exclusive
}

// Get returns a payload field or "".
func (t Tag) Get(key string) string {
	return t.Fields[key]
}

// Has reports whether a payload field is present.
func (t Tag) Has(key string) bool {
	_, ok := t.Fields[key]
	return ok
}

// Int returns a payload field parsed as int, or def when absent/malformed.
func (t Tag) Int(key string, def int) int {
	v, ok := t.Fields[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// String renders the canonical bracketed wire form with sorted fields.
func (t Tag) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(t.Family))
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(t.Fields[k])
	}
	b.WriteByte(']')
	return b.String()
}

// Parse decodes the bracketed wire form. Field values must not contain
// spaces, '=' or brackets; the tagger never produces such values.
func Parse(s string) (Tag, error) {
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return Tag{}, errors.Errorf("tag: malformed %q", s)
	}
	parts := strings.Fields(s[1 : len(s)-1])
	if len(parts) == 0 {
		return Tag{}, errors.Errorf("tag: empty %q", s)
	}
	fam := Family(parts[0])
	if !knownFamilies[fam] {
		return Tag{}, errors.Errorf("tag: unknown family %q", parts[0])
	}
	t := Tag{Family: fam, Fields: make(map[string]string, len(parts)-1)}
	for _, kv := range parts[1:] {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			return Tag{}, errors.Errorf("tag: malformed field %q in %q", kv, s)
		}
		t.Fields[kv[:i]] = kv[i+1:]
	}
	return t, nil
}

// Specificity ranks families for the dominance filter: a tag fully covered
// by an equal-or-more-specific tag is dropped.
func (f Family) Specificity() int {
	switch f {
	case NOISE:
		return 100
	case UTC:
		return 90
	case LUNAR:
		return 80
	case HOLIDAY:
		return 70
	case REL:
		return 60
	case WEEK:
		return 50
	case CENTURY, DECADE:
		return 45
	case PERIOD:
		return 40
	case CLOCK:
		return 30
	case DELTA:
		return 20
	default:
		return 10
	}
}

// IsDateLike reports whether the family anchors a calendar day on its own.
func (f Family) IsDateLike() bool {
	switch f {
	case UTC, REL, WEEK, HOLIDAY, LUNAR:
		return true
	}
	return false
}
