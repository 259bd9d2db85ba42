package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWidthFolding(t *testing.T) {
	got := Normalize("９点３０分", Options{TraditionalToSimple: true})
	assert.Equal(t, "9点30分", got.Norm)
}

func TestNormalizeTraditional(t *testing.T) {
	got := Normalize("下個禮拜一晚上８點", Options{TraditionalToSimple: true})
	assert.Equal(t, "下个礼拜一晚上8点", got.Norm)
}

func TestNormalizeLowercase(t *testing.T) {
	got := Normalize("Next MONDAY at 9AM", Options{Lowercase: true})
	assert.Equal(t, "next monday at 9am", got.Norm)
}

func TestNormalizeWhitespace(t *testing.T) {
	got := Normalize("  from   9:30\t to  11:00 \n", Options{Lowercase: true})
	assert.Equal(t, "from 9:30 to 11:00", got.Norm)
}

func TestNormalizeEmpty(t *testing.T) {
	got := Normalize("", Options{})
	assert.True(t, got.IsBlank())
	assert.Empty(t, got.Runes)
}

func TestSourceSpan(t *testing.T) {
	// two leading spaces are trimmed: normalized index 0 maps to source 2
	got := Normalize("  明天 上午", Options{TraditionalToSimple: true})
	assert.Equal(t, "明天 上午", got.Norm)

	start, end := got.SourceSpan(0, 2)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	// the span after the collapsed space still lands on the right source runes
	start, end = got.SourceSpan(3, 5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)
}

func TestSourceSpanClamps(t *testing.T) {
	got := Normalize("明天", Options{})
	start, end := got.SourceSpan(-1, 99)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	start, end = got.SourceSpan(5, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
