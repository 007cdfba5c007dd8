package match3

// Swap is a pair of adjacent cells.
type Swap struct {
	A Coord
	B Coord
}

// ValidSwaps lists every adjacent swap that would produce a match involving
// one of the two swapped tokens. The board is not modified.
func ValidSwaps(b *Board) []Swap {
	var out []Swap
	for x := range b.Width() {
		for y := range b.Height() {
			a := C(x, y)
			for _, d := range []Direction{DirRight, DirUp} {
				o := a.Step(d)
				if b.SwapMatches(a, o) {
					out = append(out, Swap{A: a, B: o})
				}
			}
		}
	}
	return out
}

// SwapMatches reports whether swapping a and o would leave either token in a
// match. Empty or out-of-bounds cells never match.
func (b *Board) SwapMatches(a, o Coord) bool {
	if !b.InBounds(a) || !b.InBounds(o) || b.GetAt(a) == nil || b.GetAt(o) == nil {
		return false
	}
	sim := b.Clone()
	ta, to := sim.GetAt(a), sim.GetAt(o)
	sim.Exchange(a, o)
	sim.FindAllMatches()
	return ta.Matched || to.Matched
}
