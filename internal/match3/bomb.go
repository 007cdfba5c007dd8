package match3

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
)

// CheckBombMatch decides whether the unmarked bomb at (x, y) joins the
// match. A bomb triggers when at least one neighbouring bomb is matched or at
// least two neighbouring regular tokens of its match color are matched. A
// triggered bomb pulls its unmarked neighbouring bombs along, and when three
// or more regular tokens of its color are matched overall a bomb creation is
// queued at its own position.
func (b *Board) CheckBombMatch(x, y int) bool {
	bomb := b.Get(x, y)
	if !bomb.IsBomb() || bomb.Matched {
		return false
	}

	neighbors := b.neighbors(C(x, y))
	matchedBombs, sameColor := 0, 0
	for _, n := range neighbors {
		matched := n.Matched || b.InMatches(n)
		switch {
		case n.IsBomb():
			if matched {
				matchedBombs++
			}
		case n.Color == bomb.MatchColor:
			if matched {
				sameColor++
			}
		}
	}
	if matchedBombs < 1 && sameColor < 2 {
		return false
	}

	b.AddMatch(bomb)
	for _, n := range neighbors {
		if n.IsBomb() && !n.Matched {
			b.AddMatch(n)
		}
	}

	var tally []*Token
	for _, m := range b.matches {
		if !m.IsBomb() && m.Color == bomb.MatchColor {
			tally = append(tally, m)
		}
	}
	if len(tally) >= MinRun {
		b.QueueBomb(C(x, y), dominantColor(tally))
	}
	return true
}

// dominantColor returns the most frequent color of tokens; ties go to the
// lowest enum value.
func dominantColor(tokens []*Token) ColorType {
	var counts [Bomb + 1]int
	for _, t := range tokens {
		counts[t.EffectiveColor()]++
	}
	best := Blue
	for c := Blue; c < Bomb; c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// explosionOffsets is the blast pattern: the two cells on each side along
// each axis, then the four diagonals.
var explosionOffsets = [12][2]int{
	{-1, 0}, {-2, 0},
	{1, 0}, {2, 0},
	{0, -1}, {0, -2},
	{0, 1}, {0, 2},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// ExplosionPattern returns the in-bounds cells hit by a bomb at c.
func (b *Board) ExplosionPattern(c Coord) []Coord {
	out := make([]Coord, 0, len(explosionOffsets))
	for _, off := range explosionOffsets {
		p := c.Add(off[0], off[1])
		if b.InBounds(p) {
			out = append(out, p)
		}
	}
	return out
}

// BombResolver commits queued bomb creations and runs chained explosions.
type BombResolver struct {
	board     *Board
	palette   Palette
	spawner   Spawner
	destroyer Destroyer
	scorer    Scorer
	clock     Clock
	timing    Timing
	log       *log.Logger
}

// ExplosionStats summarizes one explosion sequence.
type ExplosionStats struct {
	Exploded  int
	Destroyed int
	Waves     int
}

// CreateBombs spawns every queued bomb creation and returns the coordinates
// that received a new bomb. Cells already holding a bomb are skipped; a
// regular occupant is destroyed first. The queue is cleared.
func (r *BombResolver) CreateBombs() mapset.Set[Coord] {
	created := mapset.New[Coord]()
	pending := r.board.PendingBombs()
	for _, pb := range pending {
		existing := r.board.GetAt(pb.Pos)
		if existing.IsBomb() {
			continue
		}
		if existing != nil {
			r.destroyer.Destroy(pb.Pos, isRegular)
		}

		bomb := r.spawner.Spawn(pb.Pos, r.palette.Bomb)
		if bomb == nil {
			continue
		}
		bomb.Color = Bomb
		bomb.MatchColor = pb.Color
		r.board.SetAt(pb.Pos, bomb)
		r.board.RemoveMatch(bomb)
		created.Put(pb.Pos)
		r.log.Debug("bomb created", "pos", pb.Pos, "color", pb.Color)
	}
	r.board.clearPendingBombs()
	return created
}

// ScrubCreated removes from the match set any bomb standing on a freshly
// created position, so a new bomb never detonates in the cycle that made it.
func (r *BombResolver) ScrubCreated(created mapset.Set[Coord]) {
	if created.Size() == 0 {
		return
	}
	var stale []*Token
	for _, t := range r.board.Matches() {
		if t.IsBomb() && created.Has(t.Pos) {
			stale = append(stale, t)
		}
	}
	for _, t := range stale {
		r.board.RemoveMatch(t)
	}
}

// Explode detonates bombs wave by wave. Each bomb destroys the regular tokens
// in its pattern, queues unprocessed bombs it reaches for the next wave and
// then destroys itself. Every bomb is processed at most once. Bombs standing
// on a created cell belong to this cycle and are left alone.
func (r *BombResolver) Explode(ctx context.Context, bombs []*Token, created mapset.Set[Coord]) (ExplosionStats, error) {
	var stats ExplosionStats
	processed := mapset.New[*Token]()
	wave := orderBombs(bombs)

	for len(wave) > 0 {
		stats.Waves++
		queued := mapset.New[*Token]()
		var next []*Token

		for _, bomb := range wave {
			if processed.Has(bomb) || r.board.GetAt(bomb.Pos) != bomb || created.Has(bomb.Pos) {
				continue
			}
			processed.Put(bomb)

			if err := r.clock.Wait(ctx, r.timing.BombNeighbor); err != nil {
				return stats, err
			}

			for _, p := range r.board.ExplosionPattern(bomb.Pos) {
				t := r.board.GetAt(p)
				if t == nil || t == bomb {
					continue
				}
				if t.IsBomb() {
					if !processed.Has(t) && !queued.Has(t) && !created.Has(p) {
						queued.Put(t)
						next = append(next, t)
					}
					continue
				}
				r.scorer.AddScore(t)
				if r.destroyer.Destroy(p, isRegular) != nil {
					stats.Destroyed++
				}
			}

			if err := r.clock.Wait(ctx, r.timing.BombSelf); err != nil {
				return stats, err
			}
			if r.board.GetAt(bomb.Pos) == bomb {
				r.scorer.AddScore(bomb)
				r.destroyer.Destroy(bomb.Pos, nil)
				stats.Exploded++
			}
		}

		r.log.Debug("explosion wave", "wave", stats.Waves, "next", len(next))
		wave = next
	}

	if err := r.clock.Wait(ctx, r.timing.PostExplosion); err != nil {
		return stats, err
	}
	return stats, nil
}

// orderBombs sorts a bomb list column-major so explosion order does not
// depend on how the list was collected.
func orderBombs(bombs []*Token) []*Token {
	out := append([]*Token(nil), bombs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pos.X != out[j].Pos.X {
			return out[i].Pos.X < out[j].Pos.X
		}
		return out[i].Pos.Y < out[j].Pos.Y
	})
	return out
}

func isRegular(t *Token) bool {
	return !t.IsBomb()
}
