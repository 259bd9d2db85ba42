package resolve

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu/data"
	"github.com/y00281951/fst-time-nlu/internal/tag"
)

// Gran is the granularity of a resolved date anchor.
type Gran int

const (
	GranInstant Gran = iota
	GranDay
	GranMonth
	GranYear
	GranMulti
)

// Resolved is one tag resolved against the base time: a concrete span plus
// the granularity the merger needs to combine it with neighbors.
type Resolved struct {
	Start time.Time
	End   time.Time
	Point bool
	Gran  Gran
}

// Tables carries the read-only lookup tables resolvers consult.
type Tables struct {
	Holidays map[string]data.HolidayDef
}

// NewTables loads the embedded holiday definitions.
func NewTables() *Tables {
	return &Tables{Holidays: data.HolidayDefs()}
}

// Context carries already-resolved anchors from the merger into a resolver.
type Context struct {
	// AnchorYear overrides the year implied by the base time (e.g. 2026年的春节).
	AnchorYear int
	// AnchorMonth is the month anchor for nth-weekday resolution.
	AnchorMonth time.Month
	// HasAnchorMonth reports whether AnchorMonth is valid.
	HasAnchorMonth bool
}

// periodHours returns the default hour bounds for a named part of day.
// Evening and night run to hour 24, which saturates to 23:59:59 on output.
func periodHours(kind string) (start, end int, ok bool) {
	switch kind {
	case "dawn":
		return 4, 6, true
	case "morning":
		return 6, 12, true
	case "noon":
		return 12, 12, true
	case "afternoon":
		return 12, 18, true
	case "evening", "night":
		return 18, 24, true
	case "midnight":
		return 0, 0, true
	}
	return 0, 0, false
}

// ResolveDate resolves a date-like tag (UTC, REL, WEEK, HOLIDAY, LUNAR) to a
// calendar span. DELTA, CENTURY/DECADE and RECUR resolve via their own
// functions below.
func ResolveDate(t tag.Tag, base time.Time, ctx Context, tables *Tables) (Resolved, error) {
	switch t.Family {
	case tag.UTC:
		return resolveUTC(t, base, ctx)
	case tag.REL:
		return resolveREL(t, base)
	case tag.WEEK:
		return resolveWeek(t, base, ctx)
	case tag.HOLIDAY:
		return resolveHoliday(t, base, ctx, tables)
	case tag.LUNAR:
		return resolveLunar(t, base, ctx)
	}
	return Resolved{}, errors.Errorf("resolve: %s is not date-like", t.Family)
}

func resolveUTC(t tag.Tag, base time.Time, ctx Context) (Resolved, error) {
	year := t.Int("year", 0)
	if year == 0 {
		if ctx.AnchorYear != 0 {
			year = ctx.AnchorYear
		} else {
			year = base.Year()
		}
	}
	month := t.Int("month", 0)
	day := t.Int("day", 0)

	if year < 1 || year > 9999 {
		return Resolved{}, errors.Errorf("resolve: year %d out of range", year)
	}

	switch {
	case month == 0:
		// bare year: whole-year interval
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: start, End: endOfDay(start.AddDate(1, 0, -1)), Gran: GranYear}, nil
	case day == 0:
		if month < 1 || month > 12 {
			return Resolved{}, errors.Errorf("resolve: month %d out of range", month)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: start, End: endOfDay(start.AddDate(0, 1, -1)), Gran: GranMonth}, nil
	default:
		if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
			return Resolved{}, errors.Errorf("resolve: invalid calendar day %d-%d-%d", year, month, day)
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
	}
}

// chainOffset counts a 下/上 prefix chain: each 下 advances one unit, each
// 上 goes back one; 本/这 stay.
func chainOffset(chain string) int {
	offset := 0
	for _, r := range chain {
		switch r {
		case '下':
			offset++
		case '上':
			offset--
		}
	}
	return offset
}

func resolveREL(t tag.Tag, base time.Time) (Resolved, error) {
	unit := t.Get("unit")
	offset := t.Int("offset", 0)
	if chain := t.Get("chain"); chain != "" {
		offset = chainOffset(chain)
	}

	switch unit {
	case "day":
		d := startOfDay(base).AddDate(0, 0, offset)
		return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
	case "week":
		weekStart := startOfWeek(base).AddDate(0, 0, 7*offset)
		if t.Has("weekday") {
			wd := t.Int("weekday", 1)
			d := weekStart.AddDate(0, 0, wd-1)
			return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
		}
		return Resolved{Start: weekStart, End: endOfDay(weekStart.AddDate(0, 0, 6)), Gran: GranMulti}, nil
	case "month":
		first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
		return Resolved{Start: first, End: endOfDay(first.AddDate(0, 1, -1)), Gran: GranMonth}, nil
	case "year":
		first := time.Date(base.Year()+offset, 1, 1, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: first, End: endOfDay(first.AddDate(1, 0, -1)), Gran: GranYear}, nil
	}
	return Resolved{}, errors.Errorf("resolve: unknown relative unit %q", unit)
}

func resolveWeek(t tag.Tag, base time.Time, ctx Context) (Resolved, error) {
	if t.Get("weekend") == "1" {
		offset := chainOffset(t.Get("chain"))
		sat := startOfWeek(base).AddDate(0, 0, 7*offset+5)
		return Resolved{Start: sat, End: endOfDay(sat.AddDate(0, 0, 1)), Gran: GranMulti}, nil
	}

	mod := t.Get("mod")
	if mod == "nth" {
		return resolveNthWeek(t, base, ctx)
	}

	wd := t.Int("weekday", 0)
	if wd < 1 || wd > 7 {
		return Resolved{}, errors.Errorf("resolve: weekday %d out of range", wd)
	}

	var d time.Time
	if mod == "" {
		// bare weekday (English): the next occurrence on or after today
		d = startOfWeek(base).AddDate(0, 0, wd-1)
		if d.Before(startOfDay(base)) {
			d = d.AddDate(0, 0, 7)
		}
	} else {
		weeks := t.Int("mod", 0)
		d = startOfWeek(base).AddDate(0, 0, 7*weeks+wd-1)
	}
	return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
}

// resolveNthWeek handles "第N个星期X" and "first tuesday of october": the
// k-th (or last) weekday within the anchoring month, or the n-th week of the
// anchor year when no weekday is given.
func resolveNthWeek(t tag.Tag, base time.Time, ctx Context) (Resolved, error) {
	n := t.Int("n", 1)
	year := base.Year()
	if ctx.AnchorYear != 0 {
		year = ctx.AnchorYear
	}

	if !t.Has("weekday") {
		// n-th week of the year, Monday-based
		if n < 1 || n > 53 {
			return Resolved{}, errors.Errorf("resolve: week ordinal %d out of range", n)
		}
		firstMonday := startOfWeek(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))
		if firstMonday.Year() < year {
			firstMonday = firstMonday.AddDate(0, 0, 7)
		}
		start := firstMonday.AddDate(0, 0, 7*(n-1))
		return Resolved{Start: start, End: endOfDay(start.AddDate(0, 0, 6)), Gran: GranMulti}, nil
	}

	wd := t.Int("weekday", 1)
	month := base.Month()
	if t.Has("month") {
		month = time.Month(t.Int("month", int(base.Month())))
	} else if ctx.HasAnchorMonth {
		month = ctx.AnchorMonth
	}
	d, err := nthWeekdayOfMonth(year, month, wd, n)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
}

// nthWeekdayOfMonth enumerates the month's occurrences of a weekday and
// picks the n-th, or the last when n is -1.
func nthWeekdayOfMonth(year int, month time.Month, weekday, n int) (time.Time, error) {
	if weekday < 1 || weekday > 7 {
		return time.Time{}, errors.Errorf("resolve: weekday %d out of range", weekday)
	}
	var days []time.Time
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		wd := int(d.Weekday())
		if wd == 0 {
			wd = 7
		}
		if wd == weekday {
			days = append(days, d)
		}
	}
	if n == -1 {
		return days[len(days)-1], nil
	}
	if n < 1 || n > len(days) {
		return time.Time{}, errors.Errorf("resolve: no %d-th weekday %d in %v %d", n, weekday, month, year)
	}
	return days[n-1], nil
}

func resolveHoliday(t tag.Tag, base time.Time, ctx Context, tables *Tables) (Resolved, error) {
	id := t.Get("id")
	year := base.Year()
	if ctx.AnchorYear != 0 {
		year = ctx.AnchorYear
	}
	year += t.Int("year_offset", 0)

	day, err := holidayDate(id, year, tables)
	if err != nil {
		return Resolved{}, err
	}

	// "下个/next" seeks the next strictly-future occurrence: when today is
	// the holiday, that is next year's.
	switch t.Int("seek", 0) {
	case 1:
		if !day.After(startOfDay(base)) {
			if day, err = holidayDate(id, year+1, tables); err != nil {
				return Resolved{}, err
			}
		}
	case -1:
		if !day.Before(startOfDay(base)) {
			if day, err = holidayDate(id, year-1, tables); err != nil {
				return Resolved{}, err
			}
		}
	}
	return Resolved{Start: day, End: endOfDay(day), Gran: GranDay}, nil
}

func holidayDate(id string, year int, tables *Tables) (time.Time, error) {
	if name, ok := strings.CutPrefix(id, "term:"); ok {
		return solarTermDate(year, name)
	}
	def, ok := tables.Holidays[id]
	if !ok {
		return time.Time{}, errors.Errorf("resolve: unknown holiday %q", id)
	}
	switch def.Kind {
	case "fixed":
		return time.Date(year, time.Month(def.A), def.B, 0, 0, 0, 0, time.UTC), nil
	case "nth":
		return nthWeekdayOfMonth(year, time.Month(def.A), def.B, def.C)
	case "lunar":
		return lunarToSolar(year, def.A, def.B)
	case "cnye":
		return chineseNewYearEve(year)
	case "term":
		return solarTermDate(year, def.Term)
	}
	return time.Time{}, errors.Errorf("resolve: unknown holiday kind %q", def.Kind)
}

func resolveLunar(t tag.Tag, base time.Time, ctx Context) (Resolved, error) {
	year := t.Int("year", 0)
	if year == 0 {
		if ctx.AnchorYear != 0 {
			year = ctx.AnchorYear
		} else {
			year = base.Year()
		}
	}
	month := t.Int("month", 0)
	day := t.Int("day", 0)
	if month < 1 || month > 12 || day < 1 || day > 30 {
		return Resolved{}, errors.Errorf("resolve: invalid lunar date %d-%d", month, day)
	}
	d, err := lunarToSolar(year, month, day)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
}

// ResolveDelta resolves a DELTA tag. Sub-day units yield an exact instant;
// day and larger units yield a day anchor; approximate deltas ("近一年")
// yield a bracket interval ending at the base time.
func ResolveDelta(t tag.Tag, base time.Time) (Resolved, error) {
	amount := t.Int("amount", 0)
	dir := t.Int("dir", 1)
	unit := t.Get("unit")
	if amount <= 0 {
		return Resolved{}, errors.Errorf("resolve: delta amount %d", amount)
	}

	if t.Get("approx") == "1" {
		// "近一年" brackets the past: [base - amount*unit, base]
		start, err := addUnits(base, unit, -amount)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Start: start, End: base, Gran: GranMulti}, nil
	}

	switch unit {
	case "hour", "minute", "second":
		var dur time.Duration
		switch unit {
		case "hour":
			dur = time.Hour
		case "minute":
			dur = time.Minute
		case "second":
			dur = time.Second
		}
		at := base.Add(time.Duration(dir*amount) * dur)
		return Resolved{Start: at, End: at, Point: true, Gran: GranInstant}, nil
	case "day", "week", "month", "year":
		d, err := addUnits(startOfDay(base), unit, dir*amount)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
	}
	return Resolved{}, errors.Errorf("resolve: unknown delta unit %q", unit)
}

func addUnits(t time.Time, unit string, n int) (time.Time, error) {
	switch unit {
	case "year":
		return t.AddDate(n, 0, 0), nil
	case "month":
		return t.AddDate(0, n, 0), nil
	case "week":
		return t.AddDate(0, 0, 7*n), nil
	case "day":
		return t.AddDate(0, 0, n), nil
	case "hour":
		return t.Add(time.Duration(n) * time.Hour), nil
	case "minute":
		return t.Add(time.Duration(n) * time.Minute), nil
	case "second":
		return t.Add(time.Duration(n) * time.Second), nil
	}
	return time.Time{}, errors.Errorf("resolve: unknown unit %q", unit)
}

// ResolveEra resolves CENTURY and DECADE tags to year intervals, with
// early/mid/late qualifiers narrowing to thirds.
func ResolveEra(t tag.Tag, base time.Time) (Resolved, error) {
	var startYear, span int

	switch t.Family {
	case tag.CENTURY:
		switch {
		case t.Has("century"):
			c := t.Int("century", 0)
			if c < 1 || c > 99 {
				return Resolved{}, errors.Errorf("resolve: century %d out of range", c)
			}
			startYear = (c - 1) * 100
		default:
			rel := t.Int("centuryrel", 0)
			startYear = base.Year()/100*100 + rel*100
		}
		span = 100
		if t.Has("decade") {
			startYear += t.Int("decade", 0)
			span = 10
		}
	case tag.DECADE:
		switch {
		case t.Has("decade4"):
			startYear = t.Int("decade4", 0)
		default:
			// two-digit decades read as the 1900s: "the 80s" → 1980s
			startYear = 1900 + t.Int("decade", 0)
		}
		span = 10
	default:
		return Resolved{}, errors.Errorf("resolve: %s is not an era family", t.Family)
	}

	switch t.Get("qualifier") {
	case "early":
		span, startYear = span/3, startYear
	case "mid":
		third := span / 3
		startYear += third
		span -= 2 * third
	case "late":
		third := span / 3
		startYear += span - third
		span = third
	}

	if startYear < 1 || startYear+span-1 > 9999 {
		return Resolved{}, errors.Errorf("resolve: era [%d,%d] out of range", startYear, startYear+span-1)
	}
	start := time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := endOfDay(time.Date(startYear+span-1, 12, 31, 0, 0, 0, 0, time.UTC))
	return Resolved{Start: start, End: end, Gran: GranMulti}, nil
}

// ResolveRecur resolves a RECUR tag to its next occurrence on or after the
// base day; the merger marks the whole utterance recurring.
func ResolveRecur(t tag.Tag, base time.Time) (Resolved, error) {
	today := startOfDay(base)
	switch t.Get("unit") {
	case "day":
		return Resolved{Start: today, End: endOfDay(today), Gran: GranDay}, nil
	case "week":
		if t.Has("weekday") {
			wd := t.Int("weekday", 1)
			d := startOfWeek(base).AddDate(0, 0, wd-1)
			if d.Before(today) {
				d = d.AddDate(0, 0, 7)
			}
			return Resolved{Start: d, End: endOfDay(d), Gran: GranDay}, nil
		}
		ws := startOfWeek(base)
		return Resolved{Start: ws, End: endOfDay(ws.AddDate(0, 0, 6)), Gran: GranMulti}, nil
	case "month":
		if t.Has("day") {
			day := t.Int("day", 1)
			d := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, time.UTC)
			if day > daysInMonth(d.Year(), d.Month()) || time.Date(d.Year(), d.Month(), day, 0, 0, 0, 0, time.UTC).Before(today) {
				d = d.AddDate(0, 1, 0)
			}
			if day > daysInMonth(d.Year(), d.Month()) {
				return Resolved{}, errors.Errorf("resolve: day %d not in month %v", day, d.Month())
			}
			at := time.Date(d.Year(), d.Month(), day, 0, 0, 0, 0, time.UTC)
			return Resolved{Start: at, End: endOfDay(at), Gran: GranDay}, nil
		}
		first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: first, End: endOfDay(first.AddDate(0, 1, -1)), Gran: GranMonth}, nil
	case "year":
		first := time.Date(base.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return Resolved{Start: first, End: endOfDay(first.AddDate(1, 0, -1)), Gran: GranYear}, nil
	}
	return Resolved{}, errors.Errorf("resolve: unknown recurrence unit %q", t.Get("unit"))
}
