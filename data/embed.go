// Package data carries the static tables the grammar and resolvers read:
// per-locale holiday aliases, holiday definitions, the traditional→simplified
// folding table, and the Chinese disambiguation word list.
//
// All tables are embedded and parsed once; accessors return shared read-only
// values and are safe for concurrent use.
package data

import (
	_ "embed"
	"strconv"
	"strings"
	"sync"
)

//go:embed holiday_zh.csv
var holidayZHRaw string

//go:embed holiday_en.csv
var holidayENRaw string

//go:embed holiday_defs.csv
var holidayDefsRaw string

//go:embed trad2simp.tsv
var tradSimpRaw string

//go:embed noise_zh.txt
var noiseZHRaw string

// HolidayDef describes how a holiday id resolves to a date within a year.
//
// Kind is one of:
//   - "fixed": month/day of the Gregorian year (A=month, B=day)
//   - "nth":   the N-th weekday of a month (A=month, B=weekday 1=Mon..7=Sun,
//     C=n, with C=-1 meaning the last occurrence)
//   - "lunar": a lunar calendar date (A=lunar month, B=lunar day)
//   - "cnye":  Chinese New Year's Eve (the day before lunar 1/1)
//   - "term":  a solar term; Term holds its Chinese name
type HolidayDef struct {
	ID   string
	Kind string
	A    int
	B    int
	C    int
	Term string
}

var (
	once        sync.Once
	holidayDefs map[string]HolidayDef
	aliasZH     map[string]string
	aliasEN     map[string]string
	tradSimp    map[rune]rune
	noiseZH     []string
)

func load() {
	once.Do(func() {
		holidayDefs = parseDefs(holidayDefsRaw)
		aliasZH = parseAliases(holidayZHRaw)
		aliasEN = parseAliases(holidayENRaw)
		tradSimp = parseTradSimp(tradSimpRaw)
		noiseZH = parseLines(noiseZHRaw)
	})
}

// HolidayDefs returns the holiday id → definition table.
func HolidayDefs() map[string]HolidayDef {
	load()
	return holidayDefs
}

// HolidayAliasesZH returns the Chinese surface → holiday id table,
// including the 24 solar terms (ids prefixed "term:").
func HolidayAliasesZH() map[string]string {
	load()
	return aliasZH
}

// HolidayAliasesEN returns the English surface → holiday id table.
func HolidayAliasesEN() map[string]string {
	load()
	return aliasEN
}

// TradToSimp returns the traditional→simplified rune folding table.
func TradToSimp() map[rune]rune {
	load()
	return tradSimp
}

// NoiseWordsZH returns Chinese idioms and degree constructions that must
// suppress time tagging within their span.
func NoiseWordsZH() []string {
	load()
	return noiseZH
}

func parseDefs(raw string) map[string]HolidayDef {
	out := make(map[string]HolidayDef)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f := strings.Split(line, ",")
		if len(f) < 5 {
			continue
		}
		def := HolidayDef{ID: f[0], Kind: f[1]}
		if def.Kind == "term" {
			def.Term = f[2]
		} else {
			def.A, _ = strconv.Atoi(f[2])
			def.B, _ = strconv.Atoi(f[3])
			def.C, _ = strconv.Atoi(f[4])
		}
		out[def.ID] = def
	}
	return out
}

func parseAliases(raw string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.LastIndex(line, ",")
		if i <= 0 {
			continue
		}
		out[line[:i]] = line[i+1:]
	}
	return out
}

func parseTradSimp(raw string) map[rune]rune {
	out := make(map[rune]rune)
	for _, line := range strings.Split(raw, "\n") {
		f := strings.Split(strings.TrimSpace(line), "\t")
		if len(f) != 2 {
			continue
		}
		t := []rune(f[0])
		s := []rune(f[1])
		if len(t) == 1 && len(s) == 1 {
			out[t[0]] = s[0]
		}
	}
	return out
}

func parseLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
