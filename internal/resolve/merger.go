package resolve

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/y00281951/fst-time-nlu/internal/tag"
)

// expr accumulates one top-level time expression while walking the tag
// stream: a date anchor, an optional period refinement, an optional clock.
type expr struct {
	fam tag.Family // family of the first contributing tag

	hasDate bool
	date    Resolved

	hasPeriod   bool
	periodKind  string
	periodStart int
	periodEnd   int

	hasClock bool
	clockH   int
	clockM   int
	clockS   int
	meridiem string

	exact   bool // a sub-day delta fixed the full instant
	exactAt time.Time
}

func (e *expr) empty() bool {
	return e == nil || (!e.hasDate && !e.hasPeriod && !e.hasClock && !e.exact)
}

// merger is the context-merging state machine: it walks the postprocessed
// tag stream, combines adjacent compatible tags into expressions, assembles
// ranges, and emits the final results.
type merger struct {
	base   time.Time
	tables *Tables

	results []Result
	cur     *expr

	rangeOpen  bool  // explicit 从/from/between seen
	rangeStart *expr // committed start endpoint awaiting its end

	sawRange bool
	sawRecur bool
	firstFam tag.Family

	pendingOrdinal int
}

// Merge walks the tag stream and produces the final results plus the
// query tag. It never fails: tags that cannot resolve are dropped.
func Merge(tags []tag.Tag, base time.Time, tables *Tables) ([]Result, QueryTag) {
	m := &merger{base: base, tables: tables}
	for _, t := range tags {
		m.feed(t)
	}
	return m.finish()
}

func (m *merger) feed(t tag.Tag) {
	switch t.Family {
	case tag.NOISE:
		return

	case tag.RANGEOPEN:
		m.flush()
		m.rangeOpen = true

	case tag.RANGESEP:
		m.feedRangeSep(t)

	case tag.ORDINAL:
		m.pendingOrdinal = t.Int("n", 0)

	case tag.RECUR:
		m.flush()
		r, err := ResolveRecur(t, m.base)
		if err != nil {
			slog.Debug("dropping recurrence tag", "tag", t.String(), "error", err)
			return
		}
		m.sawRecur = true
		m.emit(Result{Start: r.Start, End: r.End, Point: r.Point}, tag.RECUR)

	case tag.CENTURY, tag.DECADE:
		m.flush()
		r, err := ResolveEra(t, m.base)
		if err != nil {
			slog.Debug("dropping era tag", "tag", t.String(), "error", err)
			return
		}
		e := &expr{fam: t.Family, hasDate: true, date: r}
		m.cur = e

	case tag.DELTA:
		m.feedDelta(t)

	case tag.UTC, tag.REL, tag.WEEK, tag.HOLIDAY, tag.LUNAR:
		m.feedDate(t)

	case tag.PERIOD:
		m.feedPeriod(t)

	case tag.CLOCK:
		m.feedClock(t)
	}
}

// feedRangeSep commits the expression before the separator as the range
// start. A weak separator ("and") only acts inside an explicit
// from/between construction; stray connectives are ignored.
func (m *merger) feedRangeSep(t tag.Tag) {
	if m.cur.empty() {
		return
	}
	if !m.rangeOpen && t.Get("weak") == "1" {
		return
	}
	if m.rangeStart != nil {
		// a second separator: close the pending range first
		m.commitRange()
	}
	m.rangeOpen = true
	m.rangeStart = m.cur
	m.cur = nil
}

func (m *merger) feedDelta(t tag.Tag) {
	r, err := ResolveDelta(t, m.base)
	if err != nil {
		slog.Debug("dropping delta tag", "tag", t.String(), "error", err)
		return
	}
	m.flush()
	e := &expr{fam: tag.DELTA}
	if r.Gran == GranInstant {
		e.exact = true
		e.exactAt = r.Start
	} else if r.Gran == GranMulti {
		// approximate bracket: emit directly, nothing can refine it
		m.emit(Result{Start: r.Start, End: r.End}, tag.DELTA)
		return
	} else {
		// the delta fixes the day; a following clock refines the time
		e.hasDate = true
		e.date = r
	}
	m.cur = e
}

func (m *merger) feedDate(t tag.Tag) {
	ctx := Context{}

	// a year- or month-granular anchor refines instead of starting over:
	// 2026年的春节, 十月的第一个星期二
	if !m.cur.empty() && m.cur.hasDate && !m.cur.hasClock && !m.cur.hasPeriod {
		switch m.cur.date.Gran {
		case GranYear:
			if t.Family == tag.HOLIDAY || t.Family == tag.LUNAR ||
				(t.Family == tag.UTC && !t.Has("year")) ||
				(t.Family == tag.WEEK && t.Get("mod") == "nth") {
				ctx.AnchorYear = m.cur.date.Start.Year()
				r, err := ResolveDate(t, m.base, ctx, m.tables)
				if err != nil {
					slog.Debug("dropping date tag", "tag", t.String(), "error", err)
					return
				}
				m.cur.date = r
				return
			}
		case GranMonth:
			if t.Family == tag.WEEK && t.Get("mod") == "nth" {
				ctx.AnchorYear = m.cur.date.Start.Year()
				ctx.AnchorMonth = m.cur.date.Start.Month()
				ctx.HasAnchorMonth = true
				r, err := ResolveDate(t, m.base, ctx, m.tables)
				if err != nil {
					slog.Debug("dropping date tag", "tag", t.String(), "error", err)
					return
				}
				m.cur.date = r
				return
			}
		}
	}

	tt := t
	if m.pendingOrdinal > 0 && t.Family == tag.WEEK && !t.Has("mod") {
		tt = t
		tt.Fields = make(map[string]string, len(t.Fields)+2)
		for k, v := range t.Fields {
			tt.Fields[k] = v
		}
		tt.Fields["mod"] = "nth"
		tt.Fields["n"] = strconv.Itoa(m.pendingOrdinal)
		m.pendingOrdinal = 0
	}

	r, err := ResolveDate(tt, m.base, ctx, m.tables)
	if err != nil {
		slog.Debug("dropping date tag", "tag", tt.String(), "error", err)
		return
	}
	if !inRange(r.Start) || !inRange(r.End) {
		slog.Debug("dropping out-of-range date tag", "tag", tt.String())
		return
	}

	if m.cur.empty() || !m.cur.hasDate {
		// a date joining a clock-only expression anchors it (…and 11:00 on
		// thursday); otherwise it starts the expression
		if m.cur == nil {
			m.cur = &expr{fam: t.Family}
		} else if m.cur.fam == "" {
			m.cur.fam = t.Family
		}
		m.cur.hasDate = true
		m.cur.date = r
		if m.cur.fam == tag.CLOCK || m.cur.fam == tag.PERIOD {
			m.cur.fam = t.Family
		}
		m.applyEmbeddedClock(tt)
		return
	}

	// a second independent date: close the current expression
	m.flush()
	m.cur = &expr{fam: t.Family, hasDate: true, date: r}
	m.applyEmbeddedClock(tt)
}

// applyEmbeddedClock lifts clock fields carried inside a UTC tag
// ("2025年1月21日18点30分") onto the expression.
func (m *merger) applyEmbeddedClock(t tag.Tag) {
	if !t.Has("hour") || m.cur == nil || m.cur.hasClock {
		return
	}
	m.cur.hasClock = true
	m.cur.clockH = t.Int("hour", 0)
	m.cur.clockM = t.Int("minute", 0)
	m.cur.clockS = t.Int("second", 0)
	m.cur.meridiem = t.Get("meridiem")
}

func (m *merger) feedPeriod(t tag.Tag) {
	ps, pe, ok := periodHours(t.Get("kind"))
	if !ok {
		slog.Debug("dropping period tag with unknown kind", "tag", t.String())
		return
	}
	if m.cur != nil && m.cur.hasClock {
		m.flush()
	}
	if m.cur == nil {
		m.cur = &expr{fam: tag.PERIOD}
	}
	m.cur.hasPeriod = true
	m.cur.periodKind = t.Get("kind")
	m.cur.periodStart, m.cur.periodEnd = ps, pe

	// 今晚/tonight carry their own day offset
	if t.Has("day") && !m.cur.hasDate {
		d := startOfDay(m.base).AddDate(0, 0, t.Int("day", 0))
		m.cur.hasDate = true
		m.cur.date = Resolved{Start: d, End: endOfDay(d), Gran: GranDay}
		if m.cur.fam == tag.PERIOD {
			m.cur.fam = tag.REL
		}
	}
}

func (m *merger) feedClock(t tag.Tag) {
	if m.cur != nil && (m.cur.hasClock || m.cur.exact) {
		m.flush()
	}
	if m.cur == nil {
		m.cur = &expr{fam: tag.CLOCK}
	}
	m.cur.hasClock = true
	m.cur.clockH = t.Int("hour", 0)
	m.cur.clockM = t.Int("minute", 0)
	m.cur.clockS = t.Int("second", 0)
	m.cur.meridiem = t.Get("meridiem")
}

// flush finalizes the current expression as a standalone result or as the
// closing endpoint of an open range.
func (m *merger) flush() {
	if m.cur.empty() {
		m.cur = nil
		m.rangeOpen = false
		return
	}
	if m.rangeStart != nil {
		m.commitRange()
		return
	}
	e := m.cur
	m.cur = nil
	m.rangeOpen = false
	if r, ok := m.finalize(e, false); ok {
		m.emit(r, e.fam)
	}
}

func (m *merger) commitRange() {
	start, end := m.rangeStart, m.cur
	m.rangeStart, m.cur = nil, nil
	m.rangeOpen = false
	if end.empty() {
		if r, ok := m.finalize(start, false); ok {
			m.emit(r, start.fam)
		}
		return
	}

	endHadDate := end.hasDate

	// endpoint date inheritance, both directions
	if !end.hasDate && start.hasDate {
		end.hasDate = true
		end.date = start.date
	} else if !start.hasDate && end.hasDate {
		start.hasDate = true
		start.date = end.date
	}

	rs, ok := m.finalize(start, false)
	if !ok {
		if re, ok2 := m.finalize(end, false); ok2 {
			m.emit(re, end.fam)
		}
		return
	}
	re, ok := m.finalize(end, true)
	if !ok {
		m.emit(rs, start.fam)
		return
	}

	from := rs.Start
	to := re.End
	if re.Point {
		to = re.Start
	}

	// cross-midnight fix: a clock-only end earlier than the start slips to
	// the next day
	if !to.After(from) && end.hasClock && !endHadDate && end.meridiem == "" {
		fixed := false
		if end.clockH < 12 {
			// am/pm fix first: 9点到5点 reads as 09:00–17:00
			if shifted := to.Add(12 * time.Hour); shifted.After(from) {
				to, fixed = shifted, true
			}
		}
		if !fixed {
			to = to.AddDate(0, 0, 1)
		}
	}
	if to.Before(from) {
		slog.Debug("dropping inverted range")
		return
	}
	m.sawRange = true
	m.emit(Result{Start: from, End: to}, start.fam)
}

// finalize resolves one accumulated expression to a Result. isRangeEnd
// selects the meridiem heuristic appropriate for a closing endpoint.
func (m *merger) finalize(e *expr, isRangeEnd bool) (Result, bool) {
	if e.empty() {
		return Result{}, false
	}
	if e.exact {
		if !inRange(e.exactAt) {
			return Result{}, false
		}
		return Result{Start: e.exactAt, End: e.exactAt, Point: true}, true
	}

	day := startOfDay(m.base)
	anchoredOnBase := true
	if e.hasDate {
		day = e.date.Start
		anchoredOnBase = false
	}

	if e.hasClock {
		h := m.resolveHour(e, day, anchoredOnBase && !isRangeEnd)
		if h < 0 || h > 23 || e.clockM > 59 || e.clockS > 59 {
			return Result{}, false
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), h, e.clockM, e.clockS, 0, time.UTC)
		if !inRange(at) {
			return Result{}, false
		}
		return Result{Start: at, End: at, Point: true}, true
	}

	if e.hasPeriod {
		start := day.Add(time.Duration(e.periodStart) * time.Hour)
		var end time.Time
		if e.periodEnd >= 24 {
			end = endOfDay(day)
		} else {
			end = day.Add(time.Duration(e.periodEnd) * time.Hour)
		}
		if e.periodStart == e.periodEnd {
			return Result{Start: start, End: start, Point: true}, true
		}
		if !inRange(start) || !inRange(end) {
			return Result{}, false
		}
		return Result{Start: start, End: end}, true
	}

	if e.hasDate {
		if !inRange(e.date.Start) || !inRange(e.date.End) {
			return Result{}, false
		}
		return Result{Start: e.date.Start, End: e.date.End, Point: e.date.Point}, true
	}
	return Result{}, false
}

// resolveHour applies the am/pm policy: an explicit meridiem wins, an
// adjacent period disambiguates, and a clock anchored on the base day
// otherwise prefers the next future occurrence within twelve hours.
func (m *merger) resolveHour(e *expr, day time.Time, preferFuture bool) int {
	h := e.clockH
	switch e.meridiem {
	case "am":
		if h == 12 {
			return 0
		}
		return h
	case "pm":
		if h < 12 {
			return h + 12
		}
		return h
	}

	if e.hasPeriod {
		switch {
		case e.periodKind == "midnight":
			if h == 12 {
				return 0
			}
		case e.periodStart >= 12 && h < 12:
			return h + 12
		}
		return h
	}

	if h <= 12 && preferFuture && day.Equal(startOfDay(m.base)) {
		am := day.Add(time.Duration(h) * time.Hour).
			Add(time.Duration(e.clockM) * time.Minute)
		if am.Before(m.base) && h < 12 {
			return h + 12
		}
	}
	return h
}

func (m *merger) emit(r Result, fam tag.Family) {
	if r.Start.After(r.End) {
		return
	}
	if m.firstFam == "" {
		m.firstFam = fam
	}
	m.results = append(m.results, r)
}

func (m *merger) finish() ([]Result, QueryTag) {
	if m.rangeStart != nil && !m.cur.empty() {
		m.commitRange()
	} else {
		if m.rangeStart != nil {
			// open range without an end: emit the start alone
			if r, ok := m.finalize(m.rangeStart, false); ok {
				m.emit(r, m.rangeStart.fam)
			}
			m.rangeStart = nil
		}
		m.flush()
	}

	if len(m.results) == 0 {
		return nil, QueryNone
	}
	return m.results, m.queryTag()
}

func (m *merger) queryTag() QueryTag {
	if m.sawRecur {
		return QueryRecurring
	}
	if m.sawRange {
		return QueryRange
	}
	switch m.firstFam {
	case tag.UTC, tag.CLOCK:
		return QueryAbsolute
	case tag.HOLIDAY:
		return QueryHoliday
	case tag.LUNAR:
		return QueryLunar
	case tag.CENTURY, tag.DECADE:
		return QueryRange
	case tag.RECUR:
		return QueryRecurring
	default:
		return QueryRelative
	}
}
