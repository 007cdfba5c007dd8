package gemfall

import (
	"fmt"

	"github.com/vovakirdan/gemfall/internal/core"
	"github.com/vovakirdan/gemfall/internal/match3"
)

const (
	cellWidth = 3 // bracket, token, bracket
	hudHeight = 3
)

// layoutSize returns the smallest screen that fits a w x h board, the HUD
// and the control line.
func layoutSize(w, h int) (int, int) {
	minW := core.Max(w*cellWidth+2, 34)
	minH := hudHeight + h + 2 + 1
	return minW, minH
}

var tokenColors = map[match3.ColorType]core.Color{
	match3.Blue:   core.ColorBrightBlue,
	match3.Green:  core.ColorBrightGreen,
	match3.Red:    core.ColorBrightRed,
	match3.Yellow: core.ColorBrightYellow,
	match3.Purple: core.ColorBrightMagenta,
}

// Each color also gets its own glyph so the board reads without color.
var tokenGlyphs = map[match3.ColorType]rune{
	match3.Blue:   '◆',
	match3.Green:  '▲',
	match3.Red:    '●',
	match3.Yellow: '■',
	match3.Purple: '★',
}

const (
	bombGlyph    = '✹'
	matchedGlyph = '✧'
)

// tokenCell returns the glyph and color for a token.
func tokenCell(t *match3.Token) (rune, core.Color) {
	color, ok := tokenColors[t.EffectiveColor()]
	if !ok {
		color = core.ColorWhite
	}
	switch {
	case t.Matched:
		return matchedGlyph, color
	case t.IsBomb():
		return bombGlyph, color
	}
	glyph, ok := tokenGlyphs[t.Color]
	if !ok {
		glyph = t.Color.Char()
	}
	return glyph, color
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	b := g.engine.Board()
	boardW := b.Width()*cellWidth + 2
	boardH := b.Height() + 2
	area := core.NewRect(core.Max((g.screenW-boardW)/2, 0), hudHeight, boardW, boardH)

	g.renderHUD(dst)
	g.renderBoard(dst, area.X, area.Y)
	g.renderOverlays(dst, area)

	dst.DrawTextCenteredColored(area.Bottom(), g.Controls(), core.ColorGray)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws score, progress and the last message.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextCenteredColored(0, "GEMFALL", core.ColorBrightCyan)

	var info string
	if g.mode == ModeCampaign {
		info = fmt.Sprintf("Score: %d  L%d/%d %d  Moves %d", g.score, g.levelIndex+1, len(g.cfg.Levels), g.target, g.movesLeft)
	} else {
		info = fmt.Sprintf("Score: %d  Stage %d  Goal %d", g.score, g.stage, g.target)
	}
	dst.DrawTextCentered(1, info)

	if g.message != "" {
		dst.DrawTextCenteredColored(2, g.message, core.ColorYellow)
	}
}

// renderBoard draws the frame, tokens, cursor, selection and hint. Row 0 of
// the board is drawn at the bottom.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	b := g.engine.Board()
	frame := core.ColorGray
	if g.pending {
		frame = core.ColorWhite
	}
	dst.DrawBox(core.NewRect(boardX, boardY, b.Width()*cellWidth+2, b.Height()+2), frame)

	for x := range b.Width() {
		for y := range b.Height() {
			t := b.Get(x, y)
			if t == nil {
				continue
			}
			sx, sy := g.cellOrigin(boardX, boardY, match3.C(x, y))
			glyph, color := tokenCell(t)
			dst.SetColored(sx+1, sy, glyph, color)
		}
	}

	if g.hint != nil {
		g.drawBrackets(dst, boardX, boardY, g.hint.A, '{', '}', core.ColorCyan)
		g.drawBrackets(dst, boardX, boardY, g.hint.B, '{', '}', core.ColorCyan)
	}
	if g.selected {
		g.drawBrackets(dst, boardX, boardY, g.anchor, '<', '>', core.ColorBrightYellow)
	}
	if !g.pending && !(g.selected && g.anchor == g.cursor) {
		g.drawBrackets(dst, boardX, boardY, g.cursor, '[', ']', core.ColorBrightWhite)
	}
}

// cellOrigin returns the screen position of the left bracket of a cell.
func (g *Game) cellOrigin(boardX, boardY int, c match3.Coord) (int, int) {
	h := g.engine.Board().Height()
	return boardX + 1 + c.X*cellWidth, boardY + 1 + (h - 1 - c.Y)
}

func (g *Game) drawBrackets(dst *core.Screen, boardX, boardY int, c match3.Coord, left, right rune, color core.Color) {
	sx, sy := g.cellOrigin(boardX, boardY, c)
	dst.SetColored(sx, sy, left, color)
	dst.SetColored(sx+2, sy, right, color)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, area core.Rect) {
	if g.paused {
		g.drawOverlay(dst, area, "PAUSED", "P to resume")
		return
	}

	if g.levelCleared {
		reached := fmt.Sprintf("%d reached!", g.target)
		if g.levelIndex >= len(g.cfg.Levels)-1 {
			g.drawOverlay(dst, area, reached, "Final level!")
		} else {
			g.drawOverlay(dst, area, reached, fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
		return
	}

	if g.won {
		g.drawOverlay(dst, area, "ALL CLEAR!", fmt.Sprintf("Score %d", g.score), "R to restart")
		return
	}

	if g.gameOver {
		reason := "No moves left"
		if g.outOfMoves {
			reason = "Out of moves"
		}
		g.drawOverlay(dst, area, "GAME OVER", reason, "R to restart")
	}
}

// drawOverlay draws a text box centered on area.
func (g *Game) drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, len(line))
	}
	box := area.Centered(maxLen+4, len(lines)+2)

	// Clear area behind overlay
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}

	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawText(box.X+(box.W-len(line))/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Move: arrows  Pick: space  Hint: ?"
}
