// Package grammar builds the per-language rule sets for the tagger.
//
// Each language exposes an explicit builder returning the ordered rule
// fragments, named sub-patterns, and lexicons; there is no package-level
// mutable registry. Weights implement priority: on equal-length matches the
// lower weight wins.
package grammar

import (
	"sort"

	"github.com/y00281951/fst-time-nlu/internal/fst"
)

// Version participates in the grammar content hash; bump on semantic
// changes invisible to the rule fingerprint.
const Version = "2025.08.1"

// Fragment weights. Lower wins ties; noise outranks everything so guard
// fragments can veto same-length time readings.
const (
	weightNoise     = 5
	weightNoiseNum  = 6
	weightUTC       = 10
	weightUTCShort  = 11
	weightLunar     = 12
	weightUTCMonth  = 13
	weightHoliday   = 14
	weightRecur     = 16
	weightCentury   = 18
	weightRelWeek   = 19
	weightRel       = 20
	weightWeekNth   = 21
	weightWeek      = 22
	weightPeriod    = 24
	weightClock     = 26
	weightDelta     = 28
	weightRangeOpen = 30
	weightRangeSep  = 31
	weightOrdinal   = 32
)

// Tag family names as emitted on the wire (internal/tag parses them back).
const (
	famUTC       = "UTC"
	famREL       = "REL"
	famWEEK      = "WEEK"
	famPERIOD    = "PERIOD"
	famCLOCK     = "CLOCK"
	famHOLIDAY   = "HOLIDAY"
	famLUNAR     = "LUNAR"
	famDELTA     = "DELTA"
	famRangeOpen = "RANGE_OPEN"
	famRangeSep  = "RANGE_SEP"
	famCENTURY   = "CENTURY"
	famDECADE    = "DECADE"
	famRECUR     = "RECUR"
	famORDINAL   = "ORDINAL"
	famNOISE     = "NOISE"
)

func rule(family string, weight int, pat fst.Pattern) fst.Rule {
	return fst.Rule{Family: family, Weight: weight, Pat: pat}
}

// aliasLex turns a surface→value map into a lexicon with deterministic
// entry order, so the grammar fingerprint is stable across processes.
func aliasLex(m map[string]string) []fst.LexEntry {
	out := make([]fst.LexEntry, 0, len(m))
	for surface, value := range m {
		out = append(out, fst.LexEntry{Surface: surface, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Surface < out[j].Surface })
	return out
}
