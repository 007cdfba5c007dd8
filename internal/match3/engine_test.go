package match3

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noMatchRows has no match and exactly one known winning swap: (2,0)<->(3,0).
var noMatchRows = []string{
	"GBYP",
	"BGPY",
	"YPGB",
	"RRBR",
}

func TestNewEngineValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		target error
	}{
		{"tiny board", func(o *Options) { o.Width = 2 }, nil},
		{"empty palette", func(o *Options) { o.Palette.Regular = nil }, ErrEmptyPalette},
		{"bomb chance", func(o *Options) { o.BombChance = 120 }, nil},
		{"bomb in palette", func(o *Options) {
			o.Palette.Regular = append(o.Palette.Regular, TokenType{Color: Bomb})
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := NewEngine(opts)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr))
			}
		})
	}
}

func TestPopulate(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		opts := DefaultOptions()
		opts.Rand = seeded(seed)
		e, err := NewEngine(opts)
		require.NoError(t, err)

		res, err := e.Populate(context.Background())
		require.NoError(t, err)

		b := e.Board()
		assert.True(t, b.Full())
		assert.Equal(t, 49, res.Spawned)
		assert.Equal(t, 0, e.Score(), "populate does not award points")
		assert.Equal(t, StateIdle, e.State())

		b.FindAllMatches()
		assert.Empty(t, b.Matches(), "seed %d:\n%s", seed, b)
	}
}

func TestPopulateWithBombs(t *testing.T) {
	opts := DefaultOptions()
	opts.Rand = seeded(3)
	opts.BombChance = 100
	keeper := &ScoreKeeper{}
	opts.Scorer = keeper
	e, err := NewEngine(opts)
	require.NoError(t, err)

	_, err = e.Populate(context.Background())
	require.NoError(t, err)

	assert.True(t, e.Board().Full())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 0, keeper.Score(), "keeper is reset after the initial resolve")
}

func TestSwapRequiresPopulate(t *testing.T) {
	e, err := NewEngine(DefaultOptions())
	require.NoError(t, err)
	_, err = e.Swap(context.Background(), C(0, 0), C(1, 0))
	assert.ErrorIs(t, err, ErrNotPopulated)
}

func TestSwapInvalid(t *testing.T) {
	e := loadEngine(t, DefaultOptions(), noMatchRows...)
	for _, pair := range [][2]Coord{
		{C(0, 0), C(2, 0)},
		{C(0, 0), C(1, 1)},
		{C(3, 3), C(4, 3)},
	} {
		_, err := e.Swap(context.Background(), pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidSwap, "%v", pair)
	}
}

func TestSwapReverted(t *testing.T) {
	clock := &RecordingClock{}
	opts := DefaultOptions()
	opts.Clock = clock
	e := loadEngine(t, opts, noMatchRows...)
	before := e.Board().String()

	res, err := e.Swap(context.Background(), C(0, 3), C(1, 3))
	require.NoError(t, err)

	assert.True(t, res.Reverted)
	assert.False(t, res.Accepted)
	assert.Equal(t, before, e.Board().String())
	assert.Equal(t, C(0, 3), e.Board().Get(0, 3).Pos)
	assert.Equal(t, StateIdle, e.State())

	swap := opts.Timing.SwapCheck
	assert.Equal(t, []time.Duration{swap, swap}, clock.Waits())
}

func TestSwapResolves(t *testing.T) {
	clock := &RecordingClock{}
	opts := DefaultOptions()
	opts.Clock = clock
	e := loadEngine(t, opts, noMatchRows...)

	res, err := e.Swap(context.Background(), C(2, 0), C(3, 0))
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.False(t, res.Reverted)
	assert.GreaterOrEqual(t, res.Cycles, 1)
	assert.GreaterOrEqual(t, res.ScoreGained, 30)
	assert.Equal(t, res.ScoreGained, e.Score())
	assert.GreaterOrEqual(t, res.Destroyed, 3)

	b := e.Board()
	assert.True(t, b.Full())
	assert.Equal(t, 16, b.LiveCount())
	b.FindAllMatches()
	assert.Empty(t, b.Matches())

	waits := clock.Waits()
	require.GreaterOrEqual(t, len(waits), 2)
	assert.Equal(t, opts.Timing.SwapCheck, waits[0])
	assert.Equal(t, opts.Timing.PreCascade, waits[1])
}

func TestSwapCreatesBomb(t *testing.T) {
	e := loadEngine(t, DefaultOptions(),
		"PPYPP",
		"YGPYG",
		"BYGBY",
		"GBRGB",
		"RRBRR",
	)

	res, err := e.Swap(context.Background(), C(2, 0), C(2, 1))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.GreaterOrEqual(t, res.BombsCreated, 1)
	assert.GreaterOrEqual(t, res.ScoreGained, 50)
}

// settleRecorder is an instant clock and destroyer that notes how many
// settle waits had passed when each bomb was destroyed.
type settleRecorder struct {
	settle  time.Duration
	settles int
	inner   Destroyer
	bombs   map[Coord][]int
}

func (r *settleRecorder) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d == r.settle {
		r.settles++
	}
	return nil
}

func (r *settleRecorder) Destroy(pos Coord, pred func(*Token) bool) *Token {
	t := r.inner.Destroy(pos, pred)
	if t != nil && t.IsBomb() {
		r.bombs[pos] = append(r.bombs[pos], r.settles)
	}
	return t
}

func TestNewBombSurvivesItsCycle(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 4, 5
	opts.Rand = seeded(1)
	opts.Timing.Settle = 501 * time.Millisecond
	rec := &settleRecorder{settle: opts.Timing.Settle, bombs: map[Coord][]int{}}
	opts.Clock = rec
	opts.Destroyer = rec

	e, err := NewEngine(opts)
	require.NoError(t, err)
	rec.inner = NewBoardDestroyer(e.Board())

	// The red run queues a bomb at (0,0); the adjacent bombs at (1,1) and
	// (1,2) detonate in the same cycle and (1,1) reaches (0,0) diagonally.
	src := mustBoard(t,
		"GYPG",
		"BPYB",
		"YbGY",
		"PgBP",
		"RRRR",
	)
	for _, tok := range src.Tokens() {
		e.Board().SetAt(tok.Pos, tok)
	}

	res, err := e.Populate(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.BombsCreated, 1)
	require.GreaterOrEqual(t, res.Cycles, 1)

	for _, pos := range []Coord{C(1, 1), C(1, 2)} {
		require.NotEmpty(t, rec.bombs[pos], "%v", pos)
		assert.Equal(t, 0, rec.bombs[pos][0], "%v explodes in the first cycle", pos)
	}
	for _, at := range rec.bombs[C(0, 0)] {
		assert.Positive(t, at, "bomb created at (0,0) destroyed in its own cycle")
	}
}

func TestSwapDetonatesBombs(t *testing.T) {
	e := loadEngine(t, DefaultOptions(),
		"GBYP",
		"BGPY",
		"YPGB",
		"rRBR",
	)

	res, err := e.Swap(context.Background(), C(2, 0), C(3, 0))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.GreaterOrEqual(t, res.BombsExploded, 1)
	assert.True(t, e.Board().Full())
}

func TestSwapBusy(t *testing.T) {
	clock := NewStepClock()
	opts := DefaultOptions()
	opts.Clock = clock
	e := loadEngine(t, opts, noMatchRows...)
	ctx := context.Background()

	var res TurnResult
	var swapErr error
	clock.Go(func() { res, swapErr = e.Swap(ctx, C(2, 0), C(3, 0)) })
	require.True(t, clock.Busy())
	assert.Equal(t, StateWaiting, e.State())

	_, err := e.Swap(ctx, C(0, 3), C(1, 3))
	assert.ErrorIs(t, err, ErrBusy)
	_, err = e.Populate(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	clock.Advance(opts.Timing.SwapCheck)
	assert.Equal(t, StateResolving, e.State())

	// The red run is gone; an emptied cell still reports busy.
	require.Nil(t, e.Board().Get(0, 0))
	_, err = e.Swap(ctx, C(0, 0), C(0, 1))
	assert.ErrorIs(t, err, ErrBusy)

	clock.Flush()
	require.NoError(t, swapErr)
	assert.True(t, res.Accepted)
	assert.Equal(t, StateIdle, e.State())
}

func TestScoreKeeperCallback(t *testing.T) {
	var seen []int
	k := &ScoreKeeper{OnChange: func(total int) { seen = append(seen, total) }}
	k.AddScore(&Token{ScoreValue: 10})
	k.AddScore(&Token{ScoreValue: 20})
	k.AddScore(nil)
	k.Reset()
	assert.Equal(t, []int{10, 30, 0}, seen)
}
