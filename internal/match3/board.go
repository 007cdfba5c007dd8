package match3

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zyedidia/generic/mapset"
)

// BombCreation is a queued request to spawn a bomb once the current matches
// have been cleared.
type BombCreation struct {
	Pos   Coord
	Color ColorType
}

// Board is the grid of token slots together with the live-token set, the
// match set of the current resolution cycle and the pending bomb creations.
//
// Board is not safe for concurrent use. The engine serializes every mutation
// behind its turn guard.
type Board struct {
	width  int
	height int
	cells  []*Token

	active mapset.Set[*Token]

	matches []*Token
	matched mapset.Set[*Token]

	pendingBombs []BombCreation
}

// NewBoard returns an empty board of the given dimensions.
func NewBoard(width, height int) *Board {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Board{
		width:   width,
		height:  height,
		cells:   make([]*Token, width*height),
		active:  mapset.New[*Token](),
		matched: mapset.New[*Token](),
	}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// InBounds reports whether c is a cell of the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// Get returns the token at (x, y), or nil for empty or out-of-bounds cells.
func (b *Board) Get(x, y int) *Token {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y*b.width+x]
}

// GetAt is Get for a Coord.
func (b *Board) GetAt(c Coord) *Token {
	return b.Get(c.X, c.Y)
}

// Set stores t at (x, y) and registers it as live. A token displaced by a
// different one leaves the live set. Setting nil only empties the slot, so a
// token that moved elsewhere stays live. Out-of-bounds writes are ignored.
func (b *Board) Set(x, y int, t *Token) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	if old := b.cells[idx]; old != nil && t != nil && old != t {
		b.active.Remove(old)
		b.dropMatch(old)
	}
	b.cells[idx] = t
	if t != nil {
		b.active.Put(t)
	}
}

// SetAt is Set for a Coord.
func (b *Board) SetAt(c Coord, t *Token) {
	b.Set(c.X, c.Y, t)
}

// Exchange swaps the contents of two in-bounds cells and updates the
// tokens' positions. The live set is unchanged.
func (b *Board) Exchange(a, o Coord) {
	if !b.InBounds(a) || !b.InBounds(o) {
		return
	}
	ia, io := a.Y*b.width+a.X, o.Y*b.width+o.X
	b.cells[ia], b.cells[io] = b.cells[io], b.cells[ia]
	if t := b.cells[ia]; t != nil {
		t.Pos = a
	}
	if t := b.cells[io]; t != nil {
		t.Pos = o
	}
}

// Remove empties the cell at c and retires its token from the live set and
// the match set. It returns the removed token, if any.
func (b *Board) Remove(c Coord) *Token {
	t := b.GetAt(c)
	if t == nil {
		return nil
	}
	b.cells[c.Y*b.width+c.X] = nil
	b.active.Remove(t)
	b.dropMatch(t)
	return t
}

// IsLive reports whether t is in the live-token set.
func (b *Board) IsLive(t *Token) bool {
	return t != nil && b.active.Has(t)
}

// LiveCount returns the size of the live-token set.
func (b *Board) LiveCount() int {
	return b.active.Size()
}

// Tokens returns every occupied cell's token in column-major order.
func (b *Board) Tokens() []*Token {
	out := make([]*Token, 0, b.active.Size())
	for x := range b.width {
		for y := range b.height {
			if t := b.Get(x, y); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// Full reports whether every cell holds a token.
func (b *Board) Full() bool {
	for _, t := range b.cells {
		if t == nil {
			return false
		}
	}
	return true
}

// WouldMatch reports whether placing a token of color c at pos would
// complete a run of three with the two cells to its left or the two cells
// below it. Only those directions are checked, which is all that is needed
// while filling column by column from the bottom-left corner.
func (b *Board) WouldMatch(pos Coord, c ColorType) bool {
	if pos.X > 1 {
		l1, l2 := b.Get(pos.X-1, pos.Y), b.Get(pos.X-2, pos.Y)
		if l1 != nil && l2 != nil && l1.EffectiveColor() == c && l2.EffectiveColor() == c {
			return true
		}
	}
	if pos.Y > 1 {
		d1, d2 := b.Get(pos.X, pos.Y-1), b.Get(pos.X, pos.Y-2)
		if d1 != nil && d2 != nil && d1.EffectiveColor() == c && d2.EffectiveColor() == c {
			return true
		}
	}
	return false
}

// Matches returns the match set in insertion order. Callers must not modify
// the returned slice.
func (b *Board) Matches() []*Token {
	return b.matches
}

// InMatches reports whether t belongs to the current match set.
func (b *Board) InMatches(t *Token) bool {
	return t != nil && b.matched.Has(t)
}

// AddMatch marks t and adds it to the match set once.
func (b *Board) AddMatch(t *Token) {
	if t == nil {
		return
	}
	t.Matched = true
	if b.matched.Has(t) {
		return
	}
	b.matched.Put(t)
	b.matches = append(b.matches, t)
}

// RemoveMatch unmarks t and takes it out of the match set.
func (b *Board) RemoveMatch(t *Token) {
	if t == nil {
		return
	}
	t.Matched = false
	b.dropMatch(t)
}

func (b *Board) dropMatch(t *Token) {
	if !b.matched.Has(t) {
		return
	}
	b.matched.Remove(t)
	for i, m := range b.matches {
		if m == t {
			b.matches = append(b.matches[:i], b.matches[i+1:]...)
			break
		}
	}
}

// ReplaceMatches swaps the match set for keep. Tokens that are dropped lose
// their mark.
func (b *Board) ReplaceMatches(keep []*Token) {
	kept := mapset.New[*Token]()
	for _, t := range keep {
		kept.Put(t)
	}
	for _, t := range b.matches {
		if !kept.Has(t) {
			t.Matched = false
		}
	}
	b.matches = nil
	b.matched = mapset.New[*Token]()
	for _, t := range keep {
		b.AddMatch(t)
	}

	var pending []BombCreation
	for _, pb := range b.pendingBombs {
		if kept.Has(b.GetAt(pb.Pos)) {
			pending = append(pending, pb)
		}
	}
	b.pendingBombs = pending
}

// ClearMatches empties the match set and the pending bomb creations and
// unmarks every token on the board.
func (b *Board) ClearMatches() {
	for _, t := range b.cells {
		if t != nil {
			t.Matched = false
		}
	}
	for _, t := range b.matches {
		t.Matched = false
	}
	b.matches = nil
	b.matched = mapset.New[*Token]()
	b.pendingBombs = nil
}

// PendingBombs returns the queued bomb creations in registration order.
func (b *Board) PendingBombs() []BombCreation {
	return b.pendingBombs
}

// QueueBomb registers a bomb creation at pos. The first registration for a
// coordinate wins; later ones are ignored.
func (b *Board) QueueBomb(pos Coord, c ColorType) bool {
	for _, p := range b.pendingBombs {
		if p.Pos == pos {
			return false
		}
	}
	b.pendingBombs = append(b.pendingBombs, BombCreation{Pos: pos, Color: c})
	return true
}

func (b *Board) clearPendingBombs() {
	b.pendingBombs = nil
}

// Clone returns an independent copy of the board. Tokens are copied, so
// scanning the clone never marks tokens of the original. The match set and
// pending bombs are not carried over.
func (b *Board) Clone() *Board {
	c := NewBoard(b.width, b.height)
	for i, t := range b.cells {
		if t == nil {
			continue
		}
		cp := t.clone()
		cp.Matched = false
		c.cells[i] = cp
		c.active.Put(cp)
	}
	return c
}

// String renders the board top row first using ColorType.Char, with '.' for
// empty cells and lower-case letters for bombs.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.height - 1; y >= 0; y-- {
		for x := range b.width {
			sb.WriteRune(cellChar(b.Get(x, y)))
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellChar(t *Token) rune {
	if t == nil {
		return '.'
	}
	if t.IsBomb() {
		return unicode.ToLower(t.MatchColor.Char())
	}
	return t.Color.Char()
}

// ParseBoard builds a board from rows listed top row first, the inverse of
// Board.String. Upper-case letters are regular tokens, lower-case letters are
// bombs matching as that color and '.' is an empty cell. Token score values
// come from palette.
func ParseBoard(rows []string, palette Palette) (*Board, error) {
	if len(rows) == 0 {
		return NewBoard(0, 0), nil
	}
	width := len([]rune(rows[0]))
	height := len(rows)
	b := NewBoard(width, height)
	id := 0
	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("match3: row %d has %d cells, want %d", i, len(runes), width)
		}
		y := height - 1 - i
		for x, r := range runes {
			if r == '.' {
				continue
			}
			c, ok := ParseColor(string(unicode.ToUpper(r)))
			if !ok || c == Bomb {
				return nil, fmt.Errorf("match3: unknown cell %q at %s", r, C(x, y))
			}
			id++
			t := &Token{ID: id, Color: c, Pos: C(x, y)}
			if unicode.IsLower(r) {
				t.Color = Bomb
				t.MatchColor = c
				t.ScoreValue = palette.Bomb.ScoreValue
			} else if tt, ok := palette.TypeFor(c); ok {
				t.ScoreValue = tt.ScoreValue
			}
			b.Set(x, y, t)
		}
	}
	return b, nil
}
