package match3

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, rows ...string) *Board {
	t.Helper()
	b, err := ParseBoard(rows, DefaultPalette())
	require.NoError(t, err)
	return b
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// loadEngine builds an engine whose board holds exactly rows.
func loadEngine(t *testing.T, opts Options, rows ...string) *Engine {
	t.Helper()
	src := mustBoard(t, rows...)
	opts.Width, opts.Height = src.Width(), src.Height()
	if opts.Rand == nil {
		opts.Rand = seeded(1)
	}
	e, err := NewEngine(opts)
	require.NoError(t, err)
	for _, tok := range src.Tokens() {
		e.Board().SetAt(tok.Pos, tok)
	}
	_, err = e.Populate(context.Background())
	require.NoError(t, err)
	return e
}

// randomBoard fills a board with uniformly random regular tokens and the
// occasional bomb.
func randomBoard(rng *rand.Rand, w, h int) *Board {
	b := NewBoard(w, h)
	colors := RegularColors()
	id := 0
	for x := range w {
		for y := range h {
			id++
			c := colors[rng.Intn(len(colors))]
			tok := &Token{ID: id, Color: c, MatchColor: c, ScoreValue: 10, Pos: C(x, y)}
			if rng.Intn(12) == 0 {
				tok.Color = Bomb
			}
			b.Set(x, y, tok)
		}
	}
	return b
}

func matchedAt(b *Board) []Coord {
	var out []Coord
	for _, tok := range b.Matches() {
		out = append(out, tok.Pos)
	}
	return out
}
