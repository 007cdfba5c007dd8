package match3

const (
	// MinRun is the shortest line of equal colors that counts as a match.
	MinRun = 3
	// BombRun is the run length that earns a bomb.
	BombRun = 4
)

// FindAllMatches rebuilds the match set for the current grid. It scans every
// cell horizontally and vertically, then lets bombs join the match: first
// bombs touching other bombs, then bombs triggered by matched neighbours.
// Runs of BombRun or more queue a bomb at the run's leftmost or bottommost
// cell.
func (b *Board) FindAllMatches() {
	b.ClearMatches()

	for x := range b.width {
		for y := range b.height {
			if b.Get(x, y) == nil {
				continue
			}
			b.scanRun(x, y, 1, 0)
			b.scanRun(x, y, 0, 1)
		}
	}

	b.matchAdjacentBombs()

	for x := range b.width {
		for y := range b.height {
			if t := b.Get(x, y); t.IsBomb() && !t.Matched {
				b.CheckBombMatch(x, y)
			}
		}
	}
}

// scanRun measures the maximal run through (x, y) along (dx, dy).
func (b *Board) scanRun(x, y, dx, dy int) {
	origin := b.Get(x, y)
	color := origin.EffectiveColor()

	start := C(x, y)
	for p := start.Add(-dx, -dy); ; p = p.Add(-dx, -dy) {
		t := b.GetAt(p)
		if t == nil || t.EffectiveColor() != color {
			break
		}
		start = p
	}

	var run []*Token
	for p := start; ; p = p.Add(dx, dy) {
		t := b.GetAt(p)
		if t == nil || t.EffectiveColor() != color {
			break
		}
		run = append(run, t)
	}

	if len(run) < MinRun {
		return
	}
	for _, t := range run {
		b.AddMatch(t)
	}
	if len(run) >= BombRun {
		b.QueueBomb(start, color)
	}
}

// matchAdjacentBombs marks every live bomb that touches another live bomb.
func (b *Board) matchAdjacentBombs() {
	for x := range b.width {
		for y := range b.height {
			t := b.Get(x, y)
			if !t.IsBomb() || t.Matched {
				continue
			}
			for _, n := range b.neighbors(C(x, y)) {
				if n.IsBomb() {
					b.AddMatch(t)
					break
				}
			}
		}
	}
}

// neighbors returns the occupied 4-neighbours of c.
func (b *Board) neighbors(c Coord) []*Token {
	out := make([]*Token, 0, 4)
	for _, off := range neighborOffsets {
		if t := b.GetAt(c.Add(off[0], off[1])); t != nil {
			out = append(out, t)
		}
	}
	return out
}
