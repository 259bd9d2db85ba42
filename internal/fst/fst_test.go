package fst

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuleSet() *RuleSet {
	return &RuleSet{
		Version: "test.1",
		Defs: map[string]Pattern{
			"clock": Seq(
				Cap("hour", Digits(1, 2)),
				Lit(":"),
				Cap("minute", Digits(2, 2)),
			),
		},
		Lexicons: map[string][]LexEntry{
			"rel": {
				{Surface: "tomorrow", Value: "1"},
				{Surface: "today", Value: "0"},
				{Surface: "the day after tomorrow", Value: "2"},
			},
		},
		Rules: []Rule{
			{Family: "REL", Weight: 20, Pat: Seq(Out("unit", "day"), Cap("offset", Lex("rel")))},
			{Family: "CLOCK", Weight: 26, Pat: Ref("clock")},
			{Family: "NOISE", Weight: 6, Pat: Digits(5, 32)},
		},
	}
}

func TestCompileAndScan(t *testing.T) {
	g, err := Compile(testRuleSet())
	require.NoError(t, err)

	ems := g.Scan("meet tomorrow at 9:30")
	require.Len(t, ems, 2)
	assert.Equal(t, "[REL offset=1 unit=day]", ems[0].Raw)
	assert.Equal(t, "[CLOCK hour=9 minute=30]", ems[1].Raw)
	// spans are rune offsets into the scanned text
	assert.Equal(t, 5, ems[0].Start)
	assert.Equal(t, 13, ems[0].End)
}

func TestScanPrefersLongestMatch(t *testing.T) {
	g, err := Compile(testRuleSet())
	require.NoError(t, err)

	ems := g.Scan("the day after tomorrow")
	require.Len(t, ems, 1)
	assert.Equal(t, "[REL offset=2 unit=day]", ems[0].Raw)
	assert.Equal(t, 0, ems[0].Start)
	assert.Equal(t, 22, ems[0].End)
}

func TestScanWordBoundary(t *testing.T) {
	g, err := Compile(testRuleSet())
	require.NoError(t, err)

	// "today" inside "todays" must not match
	ems := g.Scan("todays")
	assert.Empty(t, ems)

	// a digit run glued to a word is part of the word, not a number
	ems = g.Scan("id12345x")
	assert.Empty(t, ems)

	ems = g.Scan("see 12345 now")
	require.Len(t, ems, 1)
	assert.Equal(t, "[NOISE]", ems[0].Raw)
}

func TestScanLocksNoiseSpans(t *testing.T) {
	g, err := Compile(testRuleSet())
	require.NoError(t, err)

	ems := g.Scan("45901")
	require.Len(t, ems, 1)
	assert.Equal(t, "[NOISE]", ems[0].Raw)
	assert.Equal(t, 0, ems[0].Start)
	assert.Equal(t, 5, ems[0].End)
}

func TestCompileRejectsUndefinedRef(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = append(rs.Rules, Rule{Family: "X", Weight: 1, Pat: Ref("missing")})
	_, err := Compile(rs)
	require.Error(t, err)
}

func TestCompileRejectsCyclicRef(t *testing.T) {
	rs := testRuleSet()
	rs.Defs["a"] = Seq(Lit("x"), Ref("b"))
	rs.Defs["b"] = Ref("a")
	rs.Rules = append(rs.Rules, Rule{Family: "X", Weight: 1, Pat: Ref("a")})
	_, err := Compile(rs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestCompileRejectsUnknownLexicon(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = append(rs.Rules, Rule{Family: "X", Weight: 1, Pat: Lex("missing")})
	_, err := Compile(rs)
	require.Error(t, err)
}

func TestFingerprintStability(t *testing.T) {
	h1 := fingerprint(testRuleSet())
	h2 := fingerprint(testRuleSet())
	assert.Equal(t, h1, h2)

	changed := testRuleSet()
	changed.Rules[0].Weight = 21
	assert.NotEqual(t, h1, fingerprint(changed))
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rs := testRuleSet()

	g1, err := LoadOrCompile(dir, "test", rs, false)
	require.NoError(t, err)

	// the artifact must exist and load back to an equivalent grammar
	matches, err := filepath.Glob(filepath.Join(dir, "timenlu-test-*.fst"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	g2, err := loadArtifact(matches[0])
	require.NoError(t, err)
	assert.Equal(t, g1.Hash, g2.Hash)

	ems1 := g1.Scan("tomorrow 9:30")
	ems2 := g2.Scan("tomorrow 9:30")
	assert.Equal(t, ems1, ems2)
}

func TestLoadOrCompileInMemory(t *testing.T) {
	g, err := LoadOrCompile("", "test", testRuleSet(), false)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestRepGreedyBounded(t *testing.T) {
	rs := &RuleSet{
		Version:  "test.rep",
		Lexicons: map[string][]LexEntry{},
		Rules: []Rule{
			{Family: "REL", Weight: 1, Pat: Seq(Cap("chain", Rep(Lit("下"), 1, 4)), Lit("周"))},
		},
	}
	g, err := Compile(rs)
	require.NoError(t, err)

	ems := g.Scan("下下下周")
	require.Len(t, ems, 1)
	assert.Equal(t, "[REL chain=下下下]", ems[0].Raw)
}
