package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSafeTypeEmptyPalette(t *testing.T) {
	_, err := SelectSafeType(NewBoard(3, 3), C(0, 0), nil, seeded(1))
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestSelectSafeTypeNeverUnsafe(t *testing.T) {
	types := DefaultPalette().Regular
	for seed := int64(1); seed <= 100; seed++ {
		rng := seeded(seed)
		b := randomBoard(rng, 6, 6)
		pos := C(rng.Intn(6), rng.Intn(6))
		b.Remove(pos)

		anySafe := false
		for _, tt := range types {
			if !b.WouldMatch(pos, tt.Color) {
				anySafe = true
			}
		}

		got, err := SelectSafeType(b, pos, types, rng)
		require.NoError(t, err)
		if anySafe {
			assert.False(t, b.WouldMatch(pos, got.Color), "seed %d: %s picked %s", seed, pos, got.Color)
		}
	}
}

func TestSelectSafeTypeFallsBackToFewestMatches(t *testing.T) {
	b := mustBoard(t,
		"..R",
		"..R",
		"RR.",
		"..G",
		"..G",
	)
	types := []TokenType{{Color: Red, ScoreValue: 10}, {Color: Green, ScoreValue: 10}}
	pos := C(2, 2)
	require.True(t, b.WouldMatch(pos, Red))
	require.True(t, b.WouldMatch(pos, Green))

	assert.Equal(t, 2, PotentialMatches(b, pos, Red))
	assert.Equal(t, 1, PotentialMatches(b, pos, Green))

	for seed := int64(1); seed <= 10; seed++ {
		got, err := SelectSafeType(b, pos, types, seeded(seed))
		require.NoError(t, err)
		assert.Equal(t, Green, got.Color)
	}
}

func TestPotentialMatchesStraddle(t *testing.T) {
	b := mustBoard(t, "Y.Y")
	assert.Equal(t, 1, PotentialMatches(b, C(1, 0), Yellow))
	assert.Equal(t, 0, PotentialMatches(b, C(1, 0), Red))
	assert.False(t, b.WouldMatch(C(1, 0), Yellow), "backward check misses straddles")
}
