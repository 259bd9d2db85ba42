package resolve

import (
	"time"

	"github.com/6tail/lunar-go/calendar"
	"github.com/pkg/errors"
)

// lunarToSolar converts a lunar calendar date to the Gregorian day.
// Invalid lunar dates (e.g. day 30 of a short month) return an error and
// drop the tag.
func lunarToSolar(lunarYear, lunarMonth, lunarDay int) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("invalid lunar date %d-%d-%d", lunarYear, lunarMonth, lunarDay)
		}
	}()
	l := calendar.NewLunarFromYmd(lunarYear, lunarMonth, lunarDay)
	s := l.GetSolar()
	return time.Date(s.GetYear(), time.Month(s.GetMonth()), s.GetDay(), 0, 0, 0, 0, time.UTC), nil
}

// termAnchorMonth maps each solar term to the Gregorian month it falls in,
// used to anchor the jieqi table lookup.
var termAnchorMonth = map[string]int{
	"小寒": 1, "大寒": 1,
	"立春": 2, "雨水": 2,
	"惊蛰": 3, "春分": 3,
	"清明": 4, "谷雨": 4,
	"立夏": 5, "小满": 5,
	"芒种": 6, "夏至": 6,
	"小暑": 7, "大暑": 7,
	"立秋": 8, "处暑": 8,
	"白露": 9, "秋分": 9,
	"寒露": 10, "霜降": 10,
	"立冬": 11, "小雪": 11,
	"大雪": 12, "冬至": 12,
}

// solarTermDate returns the Gregorian day of the named solar term (节气)
// in the given year.
func solarTermDate(year int, name string) (time.Time, error) {
	month, ok := termAnchorMonth[name]
	if !ok {
		return time.Time{}, errors.Errorf("unknown solar term %q", name)
	}
	// the jieqi table spans the lunar year around the anchor date and keys
	// only one occurrence of each term by its Chinese name, so probe the
	// months around the term, plus the spring of the next year (whose lunar
	// table lists the December 冬至 of this year), and verify the year
	probes := [][2]int{{year, month}, {year, month - 1}, {year, month + 1}, {year + 1, 3}}
	for _, p := range probes {
		if p[1] < 1 || p[1] > 12 {
			continue
		}
		l := calendar.NewSolarFromYmd(p[0], p[1], 15).GetLunar()
		table := l.GetJieQiTable()
		s, ok := table[name]
		if !ok {
			continue
		}
		if s.GetYear() == year {
			return time.Date(s.GetYear(), time.Month(s.GetMonth()), s.GetDay(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.Errorf("solar term %q not found in %d", name, year)
}

// chineseNewYearEve returns 除夕: the day before lunar 1/1 of the lunar year
// beginning in the given Gregorian year.
func chineseNewYearEve(year int) (time.Time, error) {
	springFestival, err := lunarToSolar(year, 1, 1)
	if err != nil {
		return time.Time{}, err
	}
	return springFestival.AddDate(0, 0, -1), nil
}
