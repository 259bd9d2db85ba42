package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	in := "[REL offset=1 unit=day]"
	tg, err := Parse(in)
	require.NoError(t, err)
	assert.Equal(t, REL, tg.Family)
	assert.Equal(t, "1", tg.Get("offset"))
	assert.Equal(t, "day", tg.Get("unit"))
	assert.Equal(t, in, tg.String())
}

func TestParseNoFields(t *testing.T) {
	tg, err := Parse("[RANGE_OPEN]")
	require.NoError(t, err)
	assert.Equal(t, RANGEOPEN, tg.Family)
	assert.Empty(t, tg.Fields)
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"", "[", "[]", "REL unit=day", "[REL unit]", "[BOGUS x=1]", "[REL =day]",
	} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestIntFallback(t *testing.T) {
	tg, err := Parse("[CLOCK hour=9 minute=xx]")
	require.NoError(t, err)
	assert.Equal(t, 9, tg.Int("hour", -1))
	assert.Equal(t, -1, tg.Int("minute", -1))
	assert.Equal(t, -1, tg.Int("second", -1))
}

func TestSpecificityOrdering(t *testing.T) {
	// UTC > LUNAR > HOLIDAY > REL > WEEK > PERIOD > CLOCK > DELTA
	order := []Family{UTC, LUNAR, HOLIDAY, REL, WEEK, PERIOD, CLOCK, DELTA}
	for i := 0; i < len(order)-1; i++ {
		assert.Greater(t, order[i].Specificity(), order[i+1].Specificity(),
			"%s should dominate %s", order[i], order[i+1])
	}
	// NOISE dominates everything
	assert.Greater(t, NOISE.Specificity(), UTC.Specificity())
}

func TestIsDateLike(t *testing.T) {
	for _, f := range []Family{UTC, REL, WEEK, HOLIDAY, LUNAR} {
		assert.True(t, f.IsDateLike(), "%s", f)
	}
	for _, f := range []Family{PERIOD, CLOCK, DELTA, NOISE, RANGESEP} {
		assert.False(t, f.IsDateLike(), "%s", f)
	}
}
