package match3

import "github.com/zyedidia/generic/mapset"

// FilterCascadeMatches keeps only the match groups a cascade produced. A
// group is a 4-connected set of matched tokens of one match color (bombs
// group with bombs). It survives when any member moved or sits on a cell the
// cascade filled, or, for all-bomb groups, when a member touches such a cell.
// With nothing moved, nothing survives.
func FilterCascadeMatches(b *Board, res CascadeResult) []*Token {
	matches := b.Matches()
	if len(matches) == 0 || (res.Moved.Size() == 0 && res.Positions.Size() == 0) {
		return nil
	}

	touched := func(t *Token) bool {
		return res.Moved.Has(t) || res.Positions.Has(t.Pos)
	}

	var keep []*Token
	seen := mapset.New[*Token]()
	for _, start := range matches {
		if seen.Has(start) {
			continue
		}
		group := b.matchGroup(start)
		for _, t := range group {
			seen.Put(t)
		}
		if validCascadeGroup(b, group, touched) {
			keep = append(keep, group...)
		}
	}
	return keep
}

func validCascadeGroup(b *Board, group []*Token, touched func(*Token) bool) bool {
	allBombs := true
	for _, t := range group {
		if touched(t) {
			return true
		}
		if !t.IsBomb() {
			allBombs = false
		}
	}
	if !allBombs {
		return false
	}
	for _, t := range group {
		for _, n := range b.neighbors(t.Pos) {
			if touched(n) {
				return true
			}
		}
	}
	return false
}

// matchGroup collects the matched tokens connected to start.
func (b *Board) matchGroup(start *Token) []*Token {
	bombs := start.IsBomb()
	color := start.EffectiveColor()
	belongs := func(t *Token) bool {
		if !b.InMatches(t) {
			return false
		}
		if bombs {
			return t.IsBomb()
		}
		return t.EffectiveColor() == color
	}

	group := []*Token{start}
	in := mapset.New[*Token]()
	in.Put(start)
	for i := 0; i < len(group); i++ {
		for _, n := range b.neighbors(group[i].Pos) {
			if !in.Has(n) && belongs(n) {
				in.Put(n)
				group = append(group, n)
			}
		}
	}
	return group
}
