package match3

import (
	"context"
	"math/rand"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
)

// Drop is one planned token movement within a column. FromY is at or above
// the board height for freshly spawned tokens.
type Drop struct {
	Token *Token
	FromY int
	ToY   int
}

// CascadeResult records what a cascade moved.
type CascadeResult struct {
	Moved     mapset.Set[*Token]
	Positions mapset.Set[Coord]
	Spawned   int
	Dropped   int
	Orphans   int
}

// Cascader compacts columns under gravity and refills them with safe tokens.
type Cascader struct {
	board   *Board
	types   []TokenType
	spawner Spawner
	clock   Clock
	timing  Timing
	rng     *rand.Rand
	log     *log.Logger
}

// PlanColumn returns the drops that compact column x: every token falls by
// the number of empty cells beneath it. Tokens that stay put are omitted.
func (b *Board) PlanColumn(x int) []Drop {
	var drops []Drop
	empty := 0
	for y := range b.height {
		t := b.Get(x, y)
		if t == nil {
			empty++
			continue
		}
		if empty > 0 {
			drops = append(drops, Drop{Token: t, FromY: y, ToY: y - empty})
		}
	}
	return drops
}

// EmptyInColumn counts the empty cells of column x.
func (b *Board) EmptyInColumn(x int) int {
	n := 0
	for y := range b.height {
		if b.Get(x, y) == nil {
			n++
		}
	}
	return n
}

// SimulateColumn returns a detached board showing column x as it will look
// once the given drops land. Other columns mirror the live board. In column
// x a cell shows the token planned to land there, else a live token that is
// not falling, else nothing.
func (b *Board) SimulateColumn(x int, drops []Drop) *Board {
	sim := NewBoard(b.width, b.height)
	for cx := range b.width {
		if cx == x {
			continue
		}
		for y := range b.height {
			if t := b.Get(cx, y); t != nil {
				sim.Set(cx, y, t.clone())
			}
		}
	}

	landing := make(map[int]*Token, len(drops))
	falling := mapset.New[*Token]()
	for _, d := range drops {
		if _, taken := landing[d.ToY]; !taken {
			landing[d.ToY] = d.Token
		}
		if d.FromY < b.height {
			falling.Put(d.Token)
		}
	}
	for y := range b.height {
		if t, ok := landing[y]; ok {
			sim.Set(x, y, t.clone())
			continue
		}
		if t := b.Get(x, y); t != nil && !falling.Has(t) {
			sim.Set(x, y, t.clone())
		}
	}
	return sim
}

// Run settles the whole board: every column is compacted and refilled, the
// board is reconciled and a result describing the moved tokens is returned.
func (c *Cascader) Run(ctx context.Context) (CascadeResult, error) {
	res := CascadeResult{
		Moved:     mapset.New[*Token](),
		Positions: mapset.New[Coord](),
	}
	if err := c.clock.Wait(ctx, c.timing.PreCascade); err != nil {
		return res, err
	}

	h := c.board.Height()
	for x := range c.board.Width() {
		drops := c.board.PlanColumn(x)
		res.Dropped += len(drops)

		empty := c.board.EmptyInColumn(x)
		for i := range empty {
			target := h - empty + i
			sim := c.board.SimulateColumn(x, drops)
			tt, err := SelectSafeType(sim, C(x, target), c.types, c.rng)
			if err != nil {
				return res, err
			}
			t := c.spawner.Spawn(C(x, h+i), tt)
			if t == nil {
				continue
			}
			drops = append(drops, Drop{Token: t, FromY: h + i, ToY: target})
			res.Spawned++
		}
		if len(drops) == 0 {
			continue
		}

		sort.SliceStable(drops, func(i, j int) bool { return drops[i].ToY < drops[j].ToY })
		for _, d := range drops {
			d.Token.Pos = C(x, d.ToY)
			c.board.Set(x, d.ToY, d.Token)
			if d.FromY < h {
				c.board.Set(x, d.FromY, nil)
			}
			res.Moved.Put(d.Token)
			res.Positions.Put(C(x, d.ToY))
		}

		for range len(drops) - 1 {
			if err := c.clock.Wait(ctx, c.timing.CascadeStep); err != nil {
				return res, err
			}
		}
	}

	if err := c.clock.Wait(ctx, c.timing.Settle); err != nil {
		return res, err
	}
	res.Orphans = c.board.Reconcile()
	if res.Orphans > 0 {
		c.log.Warn("cascade left orphaned tokens", "count", res.Orphans)
	}
	c.log.Debug("cascade settled", "dropped", res.Dropped, "spawned", res.Spawned)
	return res, nil
}

// Reconcile fixes every token's recorded position to match its slot and
// retires live tokens that no longer occupy any slot. It returns the number
// of tokens retired.
func (b *Board) Reconcile() int {
	onBoard := mapset.New[*Token]()
	for x := range b.width {
		for y := range b.height {
			t := b.Get(x, y)
			if t == nil {
				continue
			}
			onBoard.Put(t)
			t.Pos = C(x, y)
		}
	}

	var orphans []*Token
	b.active.Each(func(t *Token) {
		if !onBoard.Has(t) {
			orphans = append(orphans, t)
		}
	})
	for _, t := range orphans {
		b.active.Remove(t)
		b.dropMatch(t)
	}
	return len(orphans)
}
