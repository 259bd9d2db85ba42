package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayDefs(t *testing.T) {
	defs := HolidayDefs()
	require.NotEmpty(t, defs)

	nd, ok := defs["national_day"]
	require.True(t, ok)
	assert.Equal(t, "fixed", nd.Kind)
	assert.Equal(t, 10, nd.A)
	assert.Equal(t, 1, nd.B)

	tg, ok := defs["thanksgiving"]
	require.True(t, ok)
	assert.Equal(t, "nth", tg.Kind)
	assert.Equal(t, 11, tg.A)
	assert.Equal(t, 4, tg.B)
	assert.Equal(t, 4, tg.C)

	qm, ok := defs["qingming"]
	require.True(t, ok)
	assert.Equal(t, "term", qm.Kind)
	assert.Equal(t, "清明", qm.Term)
}

// Every alias must point at a defined holiday or a solar term.
func TestAliasesResolve(t *testing.T) {
	defs := HolidayDefs()
	for _, aliases := range []map[string]string{HolidayAliasesZH(), HolidayAliasesEN()} {
		for surface, id := range aliases {
			if len(id) > 5 && id[:5] == "term:" {
				continue
			}
			_, ok := defs[id]
			assert.True(t, ok, "alias %q points at undefined holiday %q", surface, id)
		}
	}
}

func TestTradToSimp(t *testing.T) {
	m := TradToSimp()
	require.NotEmpty(t, m)
	assert.Equal(t, '时', m['時'])
	assert.Equal(t, '点', m['點'])
}

func TestNoiseWords(t *testing.T) {
	words := NoiseWordsZH()
	require.NotEmpty(t, words)
	assert.Contains(t, words, "一日之计在于晨")
}
