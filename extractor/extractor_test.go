package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu/internal/resolve"
)

// seedBase is the reference instant all scenario tests resolve against.
var seedBase = time.Date(2025, 1, 21, 8, 0, 0, 0, time.UTC)

func newExtractor(t *testing.T, lang Language) *Extractor {
	t.Helper()
	ext, err := New(lang)
	require.NoError(t, err)
	return ext
}

func point(s string) any { return s }

func interval(start, end string) any { return []string{start, end} }

func runScenarios(t *testing.T, lang Language, cases []struct {
	name  string
	input string
	want  []any
	tag   string
}) {
	t.Helper()
	ext := newExtractor(t, lang)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, qt := ext.Extract(tc.input, seedBase)
			require.Equal(t, tc.tag, string(qt), "query tag for %q", tc.input)
			got := resolve.Encode(results)
			require.Len(t, got, len(tc.want), "result count for %q", tc.input)
			for i := range tc.want {
				require.Equal(t, tc.want[i], got[i], "result %d for %q", i, tc.input)
			}
		})
	}
}

func TestExtractChineseSeeds(t *testing.T) {
	runScenarios(t, Chinese, []struct {
		name  string
		input string
		want  []any
		tag   string
	}{
		{
			name:  "明天上午9点",
			input: "明天上午9点",
			want:  []any{point("2025-01-22T09:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "从明天上午9点到下午5点",
			input: "从明天上午9点到下午5点",
			want:  []any{interval("2025-01-22T09:00:00Z", "2025-01-22T17:00:00Z")},
			tag:   "range",
		},
		{
			name:  "下下下周一",
			input: "下下下周一",
			want:  []any{interval("2025-02-10T00:00:00Z", "2025-02-10T23:59:59Z")},
			tag:   "relative",
		},
		{
			name:  "冬至那天",
			input: "冬至那天",
			want:  []any{interval("2025-12-21T00:00:00Z", "2025-12-21T23:59:59Z")},
			tag:   "holiday",
		},
		{
			name:  "纯数字串不是时间",
			input: "45901",
			want:  nil,
			tag:   "none",
		},
		{
			name:  "后天下午3点",
			input: "后天下午3点",
			want:  []any{point("2025-01-23T15:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "完整日期带时间",
			input: "2025年1月21日18点30分",
			want:  []any{point("2025-01-21T18:30:00Z")},
			tag:   "absolute",
		},
		{
			name:  "农历八月十五",
			input: "农历八月十五",
			want:  []any{interval("2025-10-06T00:00:00Z", "2025-10-06T23:59:59Z")},
			tag:   "lunar",
		},
		{
			name:  "中秋节",
			input: "中秋节",
			want:  []any{interval("2025-10-06T00:00:00Z", "2025-10-06T23:59:59Z")},
			tag:   "holiday",
		},
		{
			name:  "每周一",
			input: "每周一",
			want:  []any{interval("2025-01-27T00:00:00Z", "2025-01-27T23:59:59Z")},
			tag:   "recurring",
		},
		{
			name:  "三天后",
			input: "3天后",
			want:  []any{interval("2025-01-24T00:00:00Z", "2025-01-24T23:59:59Z")},
			tag:   "relative",
		},
		{
			name:  "近一年",
			input: "近一年",
			want:  []any{interval("2024-01-21T08:00:00Z", "2025-01-21T08:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "今晚8点",
			input: "今晚8点",
			want:  []any{point("2025-01-21T20:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "程度补语一点不是时间",
			input: "写得简洁一点",
			want:  nil,
			tag:   "none",
		},
		{
			name:  "成语不是时间",
			input: "一日之计在于晨",
			want:  nil,
			tag:   "none",
		},
		{
			name:  "明年春节",
			input: "明年春节",
			want:  []any{interval("2026-02-17T00:00:00Z", "2026-02-17T23:59:59Z")},
			tag:   "holiday",
		},
	})
}

func TestExtractEnglishSeeds(t *testing.T) {
	runScenarios(t, English, []struct {
		name  string
		input string
		want  []any
		tag   string
	}{
		{
			name:  "the day after tomorrow 5pm",
			input: "the day after tomorrow 5pm",
			want:  []any{point("2025-01-23T17:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "between 9:30 and 11:00 on thursday",
			input: "between 9:30 and 11:00 on thursday",
			want:  []any{interval("2025-01-23T09:30:00Z", "2025-01-23T11:00:00Z")},
			tag:   "range",
		},
		{
			name:  "the 80s",
			input: "the 80s",
			want:  []any{interval("1980-01-01T00:00:00Z", "1989-12-31T23:59:59Z")},
			tag:   "range",
		},
		{
			name:  "tomorrow morning",
			input: "tomorrow morning",
			want:  []any{interval("2025-01-22T06:00:00Z", "2025-01-22T12:00:00Z")},
			tag:   "relative",
		},
		{
			name:  "thanksgiving",
			input: "thanksgiving",
			want:  []any{interval("2025-11-27T00:00:00Z", "2025-11-27T23:59:59Z")},
			tag:   "holiday",
		},
		{
			name:  "every monday",
			input: "every monday",
			want:  []any{interval("2025-01-27T00:00:00Z", "2025-01-27T23:59:59Z")},
			tag:   "recurring",
		},
		{
			name:  "in 3 days",
			input: "in 3 days",
			want:  []any{interval("2025-01-24T00:00:00Z", "2025-01-24T23:59:59Z")},
			tag:   "relative",
		},
		{
			name:  "19th century",
			input: "the 19th century",
			want:  []any{interval("1800-01-01T00:00:00Z", "1899-12-31T23:59:59Z")},
			tag:   "range",
		},
		{
			name:  "tonight",
			input: "tonight",
			want:  []any{interval("2025-01-21T18:00:00Z", "2025-01-21T23:59:59Z")},
			tag:   "relative",
		},
		{
			name:  "bare id number",
			input: "order 1234567890",
			want:  nil,
			tag:   "none",
		},
		{
			name:  "first tuesday of october",
			input: "first tuesday of october",
			want:  []any{interval("2025-10-07T00:00:00Z", "2025-10-07T23:59:59Z")},
			tag:   "relative",
		},
	})
}

// Totality and determinism: arbitrary garbage never panics and repeated
// calls agree.
func TestExtractTotalityAndDeterminism(t *testing.T) {
	inputs := []string{
		"", " ", "！！！", "hello world", "9999999999999999999999",
		"明天明天明天", "from from to to", "点点点", "下", "between and",
		"2月30日", "25点", "the 0th century",
	}
	for _, lang := range []Language{Chinese, English} {
		ext := newExtractor(t, lang)
		for _, in := range inputs {
			r1, q1 := ext.Extract(in, seedBase)
			r2, q2 := ext.Extract(in, seedBase)
			require.Equal(t, q1, q2, "query tag determinism for %q", in)
			require.Equal(t, resolve.Encode(r1), resolve.Encode(r2), "result determinism for %q", in)
		}
	}
}

// Every returned interval is ordered and parses back as a UTC instant.
func TestIntervalValidity(t *testing.T) {
	ext := newExtractor(t, Chinese)
	inputs := []string{
		"明天", "下周", "上个月", "今年", "周末", "20世纪60年代前期",
		"从昨天到明天", "晚上", "凌晨", "去年3月",
	}
	for _, in := range inputs {
		results, _ := ext.Extract(in, seedBase)
		for _, r := range results {
			require.False(t, r.Start.After(r.End), "start ≤ end for %q", in)
			s := resolve.FormatInstant(r.Start)
			_, err := time.Parse(resolve.InstantLayout, s)
			require.NoError(t, err, "start parses for %q", in)
			e := resolve.FormatInstant(r.End)
			_, err = time.Parse(resolve.InstantLayout, e)
			require.NoError(t, err, "end parses for %q", in)
		}
	}
}

// Base-time linearity for day-level relative offsets.
func TestBaseTimeLinearity(t *testing.T) {
	ext := newExtractor(t, Chinese)
	for k := 0; k < 5; k++ {
		shifted := seedBase.AddDate(0, 0, k)
		results, _ := ext.Extract("明天", shifted)
		require.Len(t, results, 1)
		want := time.Date(2025, 1, 22+k, 0, 0, 0, 0, time.UTC)
		require.Equal(t, want, results[0].Start)
	}
}

func TestExtractISO(t *testing.T) {
	ext := newExtractor(t, Chinese)

	results, qt, err := ext.ExtractISO("明天上午9点", "2025-01-21T08:00:00Z")
	require.NoError(t, err)
	require.Equal(t, "relative", qt)
	require.Equal(t, []any{"2025-01-22T09:00:00Z"}, results)

	_, _, err = ext.ExtractISO("明天", "not-a-time")
	require.ErrorIs(t, err, ErrInvalidBaseTime)
}

func TestUnknownLanguage(t *testing.T) {
	_, err := New(Language("klingon"))
	require.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestGrammarCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ext1, err := New(Chinese, WithCacheDir(dir))
	require.NoError(t, err)
	r1, q1 := ext1.Extract("明天上午9点", seedBase)

	// second construction loads the artifact and must behave identically
	ext2, err := New(Chinese, WithCacheDir(dir))
	require.NoError(t, err)
	r2, q2 := ext2.Extract("明天上午9点", seedBase)

	require.Equal(t, q1, q2)
	require.Equal(t, resolve.Encode(r1), resolve.Encode(r2))
}
