package match3

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCascader(b *Board, seed int64) *Cascader {
	return &Cascader{
		board:   b,
		types:   DefaultPalette().Regular,
		spawner: NewBoardSpawner(b),
		clock:   InstantClock{},
		timing:  DefaultTiming(),
		rng:     seeded(seed),
		log:     log.New(io.Discard),
	}
}

func TestPlanColumn(t *testing.T) {
	b := mustBoard(t,
		"B",
		".",
		"G",
		".",
		"R",
	)
	g, bl := b.Get(0, 2), b.Get(0, 4)

	assert.Equal(t, []Drop{
		{Token: g, FromY: 2, ToY: 1},
		{Token: bl, FromY: 4, ToY: 2},
	}, b.PlanColumn(0))
	assert.Equal(t, 2, b.EmptyInColumn(0))
}

func TestSimulateColumnLeavesLiveBoard(t *testing.T) {
	b := mustBoard(t,
		"G.",
		"..",
		"RB",
	)
	drops := b.PlanColumn(0)
	sim := b.SimulateColumn(0, drops)

	assert.Equal(t, Green, sim.Get(0, 1).Color)
	assert.Nil(t, sim.Get(0, 2))
	assert.Equal(t, Blue, sim.Get(1, 0).Color)
	assert.NotSame(t, b.Get(1, 0), sim.Get(1, 0))

	assert.Equal(t, Green, b.Get(0, 2).Color)
	assert.Nil(t, b.Get(0, 1))
}

func TestCascadeFillsAndPreservesOrder(t *testing.T) {
	b := mustBoard(t,
		"P.Y",
		"..G",
		"G..",
		"..Y",
		"R.B",
	)
	before := make([][]*Token, b.Width())
	for x := range b.Width() {
		for y := range b.Height() {
			if tok := b.Get(x, y); tok != nil {
				before[x] = append(before[x], tok)
			}
		}
	}
	empty := 0
	for x := range b.Width() {
		empty += b.EmptyInColumn(x)
	}

	res, err := newCascader(b, 7).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, b.Full())
	assert.Equal(t, empty, res.Spawned)
	assert.Equal(t, b.Width()*b.Height(), b.LiveCount())
	assert.Zero(t, res.Orphans)

	for x, col := range before {
		for y, tok := range col {
			assert.Same(t, tok, b.Get(x, y), "column %d keeps its order", x)
			assert.Equal(t, C(x, y), tok.Pos)
		}
	}
	assert.True(t, res.Moved.Has(before[0][1]))
	assert.False(t, res.Moved.Has(before[0][0]), "bottom token did not move")
}

func TestCascadeConservation(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rng := seeded(seed)
		b := randomBoard(rng, 7, 7)
		for range 12 {
			b.Remove(C(rng.Intn(7), rng.Intn(7)))
		}

		for x := range b.Width() {
			occupied := b.Height() - b.EmptyInColumn(x)
			drops := b.PlanColumn(x)
			for _, d := range drops {
				assert.Less(t, d.ToY, d.FromY)
				assert.GreaterOrEqual(t, d.ToY, 0)
				assert.Less(t, d.ToY, occupied, "seed %d: compaction stays within occupied cells", seed)
			}
		}

		res, err := newCascader(b, seed).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, b.Full(), "seed %d", seed)
		assert.Equal(t, 49, b.LiveCount(), "seed %d: %d spawned", seed, res.Spawned)
	}
}

func TestCascadeRefillIsSafe(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		b := NewBoard(7, 7)
		_, err := newCascader(b, seed).Run(context.Background())
		require.NoError(t, err)

		b.FindAllMatches()
		assert.Empty(t, b.Matches(), "seed %d:\n%s", seed, b)
	}
}

func TestReconcile(t *testing.T) {
	b := mustBoard(t, "RG")
	r := b.Get(0, 0)
	r.Pos = C(5, 5)

	ghost := &Token{ID: 42, Color: Blue, Pos: C(1, 0)}
	b.Set(1, 0, ghost)
	b.Set(1, 0, nil)

	assert.Equal(t, 1, b.Reconcile())
	assert.Equal(t, C(0, 0), r.Pos)
	assert.False(t, b.IsLive(ghost))
	assert.Equal(t, 1, b.LiveCount())
}
