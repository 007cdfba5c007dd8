package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column3 builds a 7x7 board whose column 3 holds colors bottom to top.
func column3(t *testing.T, colors ...ColorType) *Board {
	t.Helper()
	b := NewBoard(7, 7)
	for y, c := range colors {
		b.Set(3, y, &Token{ID: y + 1, Color: c, MatchColor: c, ScoreValue: 10, Pos: C(3, y)})
	}
	return b
}

func TestFindAllMatchesRunOfThree(t *testing.T) {
	b := column3(t, Red, Red, Blue, Green, Red, Red, Red)

	b.FindAllMatches()

	assert.ElementsMatch(t, []Coord{C(3, 4), C(3, 5), C(3, 6)}, matchedAt(b))
	assert.Empty(t, b.PendingBombs())
	assert.False(t, b.Get(3, 0).Matched)
	assert.False(t, b.Get(3, 1).Matched)
}

func TestFindAllMatchesRunOfFourQueuesBomb(t *testing.T) {
	b := column3(t, Red, Red, Blue, Red, Red, Red, Red)

	b.FindAllMatches()

	assert.ElementsMatch(t, []Coord{C(3, 3), C(3, 4), C(3, 5), C(3, 6)}, matchedAt(b))
	assert.Equal(t, []BombCreation{{Pos: C(3, 3), Color: Red}}, b.PendingBombs())
}

func TestFindAllMatchesCross(t *testing.T) {
	b := mustBoard(t,
		"..G..",
		"..G..",
		"GGGGP",
		"..G..",
		"..Y..",
	)

	b.FindAllMatches()

	assert.Len(t, b.Matches(), 7, "shared cell is counted once")
	assert.ElementsMatch(t, []BombCreation{
		{Pos: C(0, 2), Color: Green},
		{Pos: C(2, 1), Color: Green},
	}, b.PendingBombs())
}

func TestFindAllMatchesShortRuns(t *testing.T) {
	b := mustBoard(t,
		"RRGG",
		"GBBR",
		"RRBY",
	)
	b.FindAllMatches()
	assert.Empty(t, b.Matches())
}

func TestFindAllMatchesBombJoinsRun(t *testing.T) {
	b := mustBoard(t, "RrR")
	b.FindAllMatches()
	assert.Len(t, b.Matches(), 3)
}

func TestFindAllMatchesResetsPreviousCycle(t *testing.T) {
	b := mustBoard(t, "RRRG")
	b.FindAllMatches()
	require.Len(t, b.Matches(), 3)

	b.Set(1, 0, &Token{ID: 99, Color: Blue, Pos: C(1, 0)})
	b.FindAllMatches()

	assert.Empty(t, b.Matches())
	assert.False(t, b.Get(0, 0).Matched)
}

func TestAdjacentBombsMatch(t *testing.T) {
	b := NewBoard(7, 7)
	b.Set(4, 4, &Token{ID: 1, Color: Bomb, MatchColor: Red, Pos: C(4, 4)})
	b.Set(4, 5, &Token{ID: 2, Color: Bomb, MatchColor: Blue, Pos: C(4, 5)})

	b.FindAllMatches()

	assert.ElementsMatch(t, []Coord{C(4, 4), C(4, 5)}, matchedAt(b))
}

func TestMatchMinimumLaw(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		b := randomBoard(seeded(seed), 7, 7)
		b.FindAllMatches()

		for _, tok := range b.Matches() {
			if tok.IsBomb() {
				continue
			}
			h := runLength(b, tok.Pos, 1, 0)
			v := runLength(b, tok.Pos, 0, 1)
			assert.True(t, h >= MinRun || v >= MinRun, "seed %d: %s matched in runs %d/%d", seed, tok.Pos, h, v)
		}
	}
}

func TestBombMutualMatchLaw(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		b := randomBoard(seeded(seed), 7, 7)
		b.FindAllMatches()

		for _, tok := range b.Tokens() {
			if !tok.IsBomb() {
				continue
			}
			for _, n := range b.neighbors(tok.Pos) {
				if n.IsBomb() {
					assert.True(t, b.InMatches(tok), "seed %d: bomb %s", seed, tok.Pos)
				}
			}
		}
	}
}

func runLength(b *Board, c Coord, dx, dy int) int {
	color := b.GetAt(c).EffectiveColor()
	n := 1
	for p := c.Add(-dx, -dy); b.GetAt(p) != nil && b.GetAt(p).EffectiveColor() == color; p = p.Add(-dx, -dy) {
		n++
	}
	for p := c.Add(dx, dy); b.GetAt(p) != nil && b.GetAt(p).EffectiveColor() == color; p = p.Add(dx, dy) {
		n++
	}
	return n
}
