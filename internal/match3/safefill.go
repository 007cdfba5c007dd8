package match3

import "math/rand"

// SelectSafeType picks a token type for pos that would not complete a run
// with the two cells to its left or below. When every type would, it falls
// back to the types with the fewest potential matches. Ties are broken with
// rng.
func SelectSafeType(b *Board, pos Coord, types []TokenType, rng *rand.Rand) (TokenType, error) {
	if len(types) == 0 {
		return TokenType{}, ErrEmptyPalette
	}

	safe := make([]TokenType, 0, len(types))
	for _, tt := range types {
		if !b.WouldMatch(pos, tt.Color) {
			safe = append(safe, tt)
		}
	}
	if len(safe) > 0 {
		return safe[rng.Intn(len(safe))], nil
	}

	best := make([]TokenType, 0, len(types))
	bestScore := 3
	for _, tt := range types {
		score := PotentialMatches(b, pos, tt.Color)
		switch {
		case score < bestScore:
			bestScore = score
			best = append(best[:0], tt)
		case score == bestScore:
			best = append(best, tt)
		}
	}
	return best[rng.Intn(len(best))], nil
}

// PotentialMatches counts the axes (0, 1 or 2) along which a token of color c
// at pos would complete a run of three, looking both ways and across.
func PotentialMatches(b *Board, pos Coord, c ColorType) int {
	n := 0
	if b.completesLine(pos, c, 1, 0) {
		n++
	}
	if b.completesLine(pos, c, 0, 1) {
		n++
	}
	return n
}

func (b *Board) completesLine(pos Coord, c ColorType, dx, dy int) bool {
	same := func(p Coord) bool {
		t := b.GetAt(p)
		return t != nil && t.EffectiveColor() == c
	}
	back1, back2 := pos.Add(-dx, -dy), pos.Add(-2*dx, -2*dy)
	fwd1, fwd2 := pos.Add(dx, dy), pos.Add(2*dx, 2*dy)
	switch {
	case same(back1) && same(back2):
		return true
	case same(fwd1) && same(fwd2):
		return true
	case same(back1) && same(fwd1):
		return true
	}
	return false
}
