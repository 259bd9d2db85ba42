package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu/internal/fst"
	"github.com/y00281951/fst-time-nlu/internal/tag"
	"github.com/y00281951/fst-time-nlu/internal/textnorm"
)

func norm(s string) textnorm.Text {
	return textnorm.Normalize(s, textnorm.Options{})
}

func TestProcessParsesAndSorts(t *testing.T) {
	n := norm("明天上午9点")
	ems := []fst.Emission{
		{Start: 2, End: 4, Raw: "[PERIOD kind=morning]"},
		{Start: 0, End: 2, Raw: "[REL offset=1 unit=day]"},
		{Start: 4, End: 6, Raw: "[CLOCK hour=9]"},
	}
	tags := Process(ems, n)
	require.Len(t, tags, 3)
	assert.Equal(t, tag.REL, tags[0].Family)
	assert.Equal(t, tag.PERIOD, tags[1].Family)
	assert.Equal(t, tag.CLOCK, tags[2].Family)
	assert.Equal(t, 0, tags[0].Start)
	assert.Equal(t, 2, tags[0].End)
}

func TestProcessSkipsUnparseable(t *testing.T) {
	n := norm("明天")
	ems := []fst.Emission{
		{Start: 0, End: 2, Raw: "[REL offset=1 unit=day]"},
		{Start: 0, End: 2, Raw: "not-a-tag"},
	}
	tags := Process(ems, n)
	require.Len(t, tags, 1)
	assert.Equal(t, tag.REL, tags[0].Family)
}

func TestProcessSuppressesNoise(t *testing.T) {
	n := norm("简洁一点")
	ems := []fst.Emission{
		{Start: 0, End: 4, Raw: "[NOISE]"},
		{Start: 2, End: 4, Raw: "[CLOCK hour=1]"},
	}
	tags := Process(ems, n)
	assert.Empty(t, tags)
}

func TestProcessDropsDominated(t *testing.T) {
	n := norm("2025年1月21日")
	ems := []fst.Emission{
		{Start: 0, End: 10, Raw: "[UTC day=21 month=1 year=2025]"},
		{Start: 5, End: 10, Raw: "[CLOCK hour=1]"},
	}
	tags := Process(ems, n)
	require.Len(t, tags, 1)
	assert.Equal(t, tag.UTC, tags[0].Family)
}

func TestProcessEmpty(t *testing.T) {
	assert.Empty(t, Process(nil, norm("")))
}
