// Package match3 implements the rules engine of a tile-matching puzzle:
// run detection, bomb resolution, safe refill and the gravity cascade that
// follows every removal. The package is UI-agnostic; rendering, timing and
// token realization reach it only through the collaborator interfaces.
package match3

import "strings"

// ColorType is the base color of a token. Bomb is a category rather than a
// color; a bomb matches as its MatchColor.
type ColorType uint8

const (
	Blue ColorType = iota
	Green
	Red
	Yellow
	Purple
	Bomb
)

// String returns the lower-case name of the color.
func (c ColorType) String() string {
	switch c {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Purple:
		return "purple"
	case Bomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Char returns a single character used by snapshots and ASCII boards.
func (c ColorType) Char() rune {
	switch c {
	case Blue:
		return 'B'
	case Green:
		return 'G'
	case Red:
		return 'R'
	case Yellow:
		return 'Y'
	case Purple:
		return 'P'
	case Bomb:
		return '*'
	default:
		return '?'
	}
}

// ParseColor converts a name or single-letter abbreviation to a ColorType.
func ParseColor(s string) (ColorType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue", "b":
		return Blue, true
	case "green", "g":
		return Green, true
	case "red", "r":
		return Red, true
	case "yellow", "y":
		return Yellow, true
	case "purple", "p":
		return Purple, true
	case "bomb", "*":
		return Bomb, true
	default:
		return Blue, false
	}
}

// RegularColors returns every non-bomb color in enum order.
func RegularColors() []ColorType {
	return []ColorType{Blue, Green, Red, Yellow, Purple}
}

// Token is the occupant of one grid cell.
type Token struct {
	ID         int
	Color      ColorType
	MatchColor ColorType // meaningful for bombs only
	Matched    bool
	ScoreValue int
	Pos        Coord
}

// IsBomb reports whether t is a live bomb token.
func (t *Token) IsBomb() bool {
	return t != nil && t.Color == Bomb
}

// EffectiveColor returns the color t counts as when matching.
func (t *Token) EffectiveColor() ColorType {
	if t.Color == Bomb {
		return t.MatchColor
	}
	return t.Color
}

// clone returns a detached copy used by simulated boards.
func (t *Token) clone() *Token {
	c := *t
	return &c
}

// TokenType describes a kind of token the palette can produce.
type TokenType struct {
	Color      ColorType
	ScoreValue int
}

// Palette is the set of token types available to a board: the ordered regular
// types plus the single bomb descriptor.
type Palette struct {
	Regular []TokenType
	Bomb    TokenType
}

// DefaultPalette returns the five regular colors worth 10 points each and a
// bomb worth 20.
func DefaultPalette() Palette {
	regular := make([]TokenType, 0, 5)
	for _, c := range RegularColors() {
		regular = append(regular, TokenType{Color: c, ScoreValue: 10})
	}
	return Palette{
		Regular: regular,
		Bomb:    TokenType{Color: Bomb, ScoreValue: 20},
	}
}

// Validate returns ErrEmptyPalette when no regular types are configured.
func (p Palette) Validate() error {
	if len(p.Regular) == 0 {
		return ErrEmptyPalette
	}
	return nil
}

// TypeFor returns the regular type with the given color.
func (p Palette) TypeFor(c ColorType) (TokenType, bool) {
	for _, tt := range p.Regular {
		if tt.Color == c {
			return tt, true
		}
	}
	return TokenType{}, false
}
