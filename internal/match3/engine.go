package match3

import (
	"context"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// State is the turn state of an Engine.
type State int32

const (
	// StateIdle accepts a new swap.
	StateIdle State = iota
	// StateWaiting is the pause between a swap and its match check.
	StateWaiting
	// StateResolving covers destruction, explosions and cascades.
	StateResolving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Options configures an Engine. Zero-valued collaborators are replaced by
// the board-backed defaults.
type Options struct {
	Width  int
	Height int

	Palette Palette
	Timing  Timing

	// BombChance is the percentage chance (0-100) that a token placed by
	// Populate is a bomb.
	BombChance float64
	// MaxRerolls bounds the rerolls per cell during Populate.
	MaxRerolls int
	// CascadeFilter keeps only matches produced by the cascade itself.
	CascadeFilter bool

	Rand   *rand.Rand
	Clock  Clock
	Logger *log.Logger

	Spawner   Spawner
	Destroyer Destroyer
	Scorer    Scorer
}

// DefaultOptions returns a 7x7 board with the stock palette and timing.
func DefaultOptions() Options {
	return Options{
		Width:      7,
		Height:     7,
		Palette:    DefaultPalette(),
		Timing:     DefaultTiming(),
		MaxRerolls: 100,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if o.Width < MinRun || o.Height < MinRun {
		return &ValidationError{Field: "size", Message: "board must be at least 3x3"}
	}
	if err := o.Palette.Validate(); err != nil {
		return err
	}
	for _, tt := range o.Palette.Regular {
		if tt.Color == Bomb {
			return &ValidationError{Field: "palette", Message: "bomb is not a regular color"}
		}
	}
	if o.BombChance < 0 || o.BombChance > 100 {
		return &ValidationError{Field: "bomb_chance", Message: "must be between 0 and 100"}
	}
	if o.MaxRerolls < 0 {
		return &ValidationError{Field: "max_rerolls", Message: "must not be negative"}
	}
	return nil
}

// TurnResult summarizes one resolved swap or populate call.
type TurnResult struct {
	Accepted      bool
	Reverted      bool
	ScoreGained   int
	Cycles        int
	Destroyed     int
	BombsCreated  int
	BombsExploded int
	Spawned       int
}

// Engine owns a board and runs turns against it. A single turn runs at a
// time; calls made while one is in flight fail with ErrBusy.
type Engine struct {
	opts  Options
	board *Board

	spawner   Spawner
	destroyer Destroyer
	scorer    *tallyScorer
	clock     Clock
	rng       *rand.Rand
	log       *log.Logger

	bombs    *BombResolver
	cascader *Cascader

	state     atomic.Int32
	busy      atomic.Bool
	populated bool
}

// NewEngine validates opts and returns an engine with an empty board.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := NewBoard(opts.Width, opts.Height)
	e := &Engine{
		opts:      opts,
		board:     b,
		spawner:   opts.Spawner,
		destroyer: opts.Destroyer,
		scorer:    &tallyScorer{next: opts.Scorer},
		clock:     opts.Clock,
		rng:       opts.Rand,
		log:       opts.Logger,
	}
	if e.spawner == nil {
		e.spawner = NewBoardSpawner(b)
	}
	if e.destroyer == nil {
		e.destroyer = NewBoardDestroyer(b)
	}
	if e.clock == nil {
		e.clock = InstantClock{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}

	e.bombs = &BombResolver{
		board:     b,
		palette:   opts.Palette,
		spawner:   e.spawner,
		destroyer: e.destroyer,
		scorer:    e.scorer,
		clock:     e.clock,
		timing:    opts.Timing,
		log:       e.log,
	}
	e.cascader = &Cascader{
		board:   b,
		types:   opts.Palette.Regular,
		spawner: e.spawner,
		clock:   e.clock,
		timing:  opts.Timing,
		rng:     e.rng,
		log:     e.log,
	}
	return e, nil
}

// Board returns the engine's board. It must only be read while the engine
// is idle or parked on its clock.
func (e *Engine) Board() *Board { return e.board }

// State returns the current turn state.
func (e *Engine) State() State { return State(e.state.Load()) }

// Score returns the points earned since the last Populate.
func (e *Engine) Score() int { return e.scorer.total }

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

func (e *Engine) begin() bool {
	if !e.busy.CompareAndSwap(false, true) {
		return false
	}
	e.state.Store(int32(StateWaiting))
	return true
}

func (e *Engine) end() {
	e.state.Store(int32(StateIdle))
	e.busy.Store(false)
}

// Populate fills every empty cell. Each placement rerolls, up to MaxRerolls
// times, while it would complete a run; a BombChance percentage of
// placements become bombs. Matches left over are resolved and the score is
// reset afterwards.
func (e *Engine) Populate(ctx context.Context) (TurnResult, error) {
	if !e.begin() {
		return TurnResult{}, ErrBusy
	}
	defer e.end()

	var res TurnResult
	regular := e.opts.Palette.Regular
	for x := range e.board.Width() {
		for y := range e.board.Height() {
			pos := C(x, y)
			if e.board.GetAt(pos) != nil {
				continue
			}
			tt := regular[e.rng.Intn(len(regular))]
			for i := 0; i < e.opts.MaxRerolls && e.board.WouldMatch(pos, tt.Color); i++ {
				tt = regular[e.rng.Intn(len(regular))]
			}

			if e.opts.BombChance > 0 && e.rng.Float64()*100 < e.opts.BombChance {
				bomb := e.spawner.Spawn(pos, e.opts.Palette.Bomb)
				if bomb != nil {
					bomb.Color = Bomb
					bomb.MatchColor = tt.Color
				}
				e.board.SetAt(pos, bomb)
			} else {
				e.board.SetAt(pos, e.spawner.Spawn(pos, tt))
			}
			res.Spawned++
		}
	}
	e.populated = true

	e.board.FindAllMatches()
	if len(e.board.Matches()) > 0 {
		e.state.Store(int32(StateResolving))
		if err := e.resolve(ctx, &res); err != nil {
			return res, err
		}
	}

	e.scorer.total = 0
	if k, ok := e.opts.Scorer.(*ScoreKeeper); ok {
		k.Reset()
	}
	res.Accepted = true
	e.log.Debug("board populated", "spawned", res.Spawned, "cycles", res.Cycles)
	return res, nil
}

// Swap exchanges the tokens at a and b and resolves the turn. A swap that
// leaves neither token matched is reverted and reported with Reverted set.
func (e *Engine) Swap(ctx context.Context, a, b Coord) (TurnResult, error) {
	if !e.begin() {
		return TurnResult{}, ErrBusy
	}
	defer e.end()

	if !e.populated {
		return TurnResult{}, ErrNotPopulated
	}
	if !a.Adjacent(b) || e.board.GetAt(a) == nil || e.board.GetAt(b) == nil {
		return TurnResult{}, ErrInvalidSwap
	}

	var res TurnResult
	ta, tb := e.board.GetAt(a), e.board.GetAt(b)
	e.board.Exchange(a, b)

	if err := e.clock.Wait(ctx, e.opts.Timing.SwapCheck); err != nil {
		return res, err
	}

	e.board.FindAllMatches()
	if !ta.Matched && !tb.Matched {
		e.board.ClearMatches()
		e.board.Exchange(a, b)
		res.Reverted = true
		e.log.Debug("swap reverted", "a", a, "b", b)
		if err := e.clock.Wait(ctx, e.opts.Timing.SwapCheck); err != nil {
			return res, err
		}
		return res, nil
	}

	res.Accepted = true
	e.state.Store(int32(StateResolving))
	start := e.scorer.total
	err := e.resolve(ctx, &res)
	res.ScoreGained = e.scorer.total - start
	e.log.Debug("swap resolved", "a", a, "b", b, "cycles", res.Cycles, "score", res.ScoreGained)
	return res, err
}

// resolve destroys the current matches and repeats the
// destroy, create, explode, cascade, rescan cycle until no match remains.
func (e *Engine) resolve(ctx context.Context, res *TurnResult) error {
	for {
		res.Cycles++

		var bombs []*Token
		for _, t := range append([]*Token(nil), e.board.Matches()...) {
			if t.IsBomb() {
				bombs = append(bombs, t)
				continue
			}
			if !t.Matched || e.board.GetAt(t.Pos) != t {
				continue
			}
			e.scorer.AddScore(t)
			if e.destroyer.Destroy(t.Pos, isRegular) != nil {
				res.Destroyed++
			}
		}

		created := e.bombs.CreateBombs()
		e.bombs.ScrubCreated(created)
		res.BombsCreated += created.Size()

		if len(bombs) > 0 {
			stats, err := e.bombs.Explode(ctx, bombs, created)
			res.Destroyed += stats.Destroyed + stats.Exploded
			res.BombsExploded += stats.Exploded
			if err != nil {
				return err
			}
		}

		cascade, err := e.cascader.Run(ctx)
		res.Spawned += cascade.Spawned
		if err != nil {
			return err
		}

		e.board.FindAllMatches()
		if e.opts.CascadeFilter {
			e.board.ReplaceMatches(FilterCascadeMatches(e.board, cascade))
		}
		if len(e.board.Matches()) == 0 {
			e.board.ClearMatches()
			return nil
		}
		if err := e.clock.Wait(ctx, e.opts.Timing.Settle); err != nil {
			return err
		}
	}
}

// tallyScorer totals points and forwards every notification.
type tallyScorer struct {
	total int
	next  Scorer
}

func (s *tallyScorer) AddScore(t *Token) {
	if t == nil {
		return
	}
	s.total += t.ScoreValue
	if s.next != nil {
		s.next.AddScore(t)
	}
}
