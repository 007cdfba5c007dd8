package match3

import (
	"context"
	"time"
)

// Spawner realizes new tokens. Spawn must return a token whose Pos is pos and
// whose Color and ScoreValue come from tt. In-bounds tokens are expected to
// be placed on the board; tokens spawned above it are placed by the cascade.
type Spawner interface {
	Spawn(pos Coord, tt TokenType) *Token
}

// Destroyer retires the token at pos when pred accepts it (a nil pred
// accepts anything). It returns the removed token or nil.
type Destroyer interface {
	Destroy(pos Coord, pred func(*Token) bool) *Token
}

// Scorer is notified once for every token destroyed by resolution.
type Scorer interface {
	AddScore(t *Token)
}

// Clock suspends the resolution pipeline between steps.
type Clock interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Timing holds every delay the pipeline waits on.
type Timing struct {
	SwapCheck     time.Duration // after a swap, before checking for matches
	CascadeStep   time.Duration // between staggered drops
	BombNeighbor  time.Duration // before a bomb destroys its neighbours
	BombSelf      time.Duration // before a bomb destroys itself
	PreCascade    time.Duration
	Settle        time.Duration // before reconcile, rescan and destroy
	PostExplosion time.Duration
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		SwapCheck:     500 * time.Millisecond,
		CascadeStep:   50 * time.Millisecond,
		BombNeighbor:  300 * time.Millisecond,
		BombSelf:      500 * time.Millisecond,
		PreCascade:    200 * time.Millisecond,
		Settle:        500 * time.Millisecond,
		PostExplosion: 100 * time.Millisecond,
	}
}

// BoardSpawner is the default Spawner. It numbers tokens sequentially and
// places in-bounds tokens directly on the board.
type BoardSpawner struct {
	board  *Board
	nextID int
}

// NewBoardSpawner returns a spawner bound to b.
func NewBoardSpawner(b *Board) *BoardSpawner {
	return &BoardSpawner{board: b}
}

// Spawn implements Spawner.
func (s *BoardSpawner) Spawn(pos Coord, tt TokenType) *Token {
	s.nextID++
	t := &Token{
		ID:         s.nextID,
		Color:      tt.Color,
		MatchColor: tt.Color,
		ScoreValue: tt.ScoreValue,
		Pos:        pos,
	}
	s.board.SetAt(pos, t)
	return t
}

// BoardDestroyer is the default Destroyer.
type BoardDestroyer struct {
	board *Board
}

// NewBoardDestroyer returns a destroyer bound to b.
func NewBoardDestroyer(b *Board) *BoardDestroyer {
	return &BoardDestroyer{board: b}
}

// Destroy implements Destroyer.
func (d *BoardDestroyer) Destroy(pos Coord, pred func(*Token) bool) *Token {
	t := d.board.GetAt(pos)
	if t == nil || (pred != nil && !pred(t)) {
		return nil
	}
	d.board.Remove(pos)
	t.Matched = false
	return t
}

// ScoreKeeper is the default Scorer. OnChange, when set, receives the new
// total after every update.
type ScoreKeeper struct {
	total    int
	OnChange func(total int)
}

// AddScore implements Scorer.
func (k *ScoreKeeper) AddScore(t *Token) {
	if t == nil {
		return
	}
	k.total += t.ScoreValue
	if k.OnChange != nil {
		k.OnChange(k.total)
	}
}

// Score returns the running total.
func (k *ScoreKeeper) Score() int { return k.total }

// Reset sets the total back to zero.
func (k *ScoreKeeper) Reset() {
	k.total = 0
	if k.OnChange != nil {
		k.OnChange(0)
	}
}
