package match3

import (
	"fmt"
	"math"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/engine"
)

const (
	cellWidth = 3 // Bracket, glyph, bracket
	hudHeight = 2 // Title and score lines above the board
	footLines = 3 // Status, banner and controls below the board
)

// glyph is how one tile kind is drawn.
type glyph struct {
	r     rune
	color core.Color
}

var kindGlyphs = map[engine.Kind]glyph{
	engine.KindRed:     {'●', core.ColorRed},
	engine.KindGreen:   {'▲', core.ColorGreen},
	engine.KindBlue:    {'■', core.ColorBlue},
	engine.KindYellow:  {'◆', core.ColorYellow},
	engine.KindPurple:  {'★', core.ColorMagenta},
	engine.KindOrange:  {'♥', core.ColorOrange},
	engine.KindBomb:    {'✸', core.ColorBrightWhite},
	engine.KindRocket:  {'↕', core.ColorBrightWhite},
	engine.KindRainbow: {'✦', core.ColorCyan},
}

func glyphFor(k engine.Kind) glyph {
	if gl, ok := kindGlyphs[k]; ok {
		return gl
	}
	return glyph{'?', core.ColorGray}
}

// minSize returns the smallest screen that fits board, HUD and footer.
func (g *Game) minSize() (w, h int) {
	box := g.boardBox(0, 0)
	return max(box.W, len(g.Controls())), box.H + hudHeight + footLines
}

// boardBox returns the framed board area for a screen of the given size.
func (g *Game) boardBox(screenW, screenH int) core.Rect {
	w := g.cfg.Board.Cols*cellWidth + 2
	h := g.cfg.Board.Rows + 2
	x := max((screenW-w)/2, 0)
	y := max((screenH-h-hudHeight-footLines)/2, 0) + hudHeight
	return core.NewRect(x, y, w, h)
}

// cellAt maps a screen position to a board cell.
func (g *Game) cellAt(p core.Point) (engine.Coord, bool) {
	box := g.boardBox(g.screenW, g.screenH)
	inner := core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2)
	if !inner.Contains(p) {
		return engine.Coord{}, false
	}
	return engine.At(p.Y-inner.Y, (p.X-inner.X)/cellWidth), true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	box := g.boardBox(dst.Width(), dst.Height())
	g.renderHUD(dst, box)
	dst.DrawBox(box, core.ColorGray)
	g.renderBursts(dst, box)
	g.renderTiles(dst, box)
	g.renderFooter(dst, box)
	g.renderOverlays(dst, box)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := g.minSize()
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", w, h), core.ColorGray)
}

// renderHUD draws the title and the score line.
func (g *Game) renderHUD(dst *core.Screen, box core.Rect) {
	dst.DrawTextCentered(box.Y-hudHeight, g.Title(), core.ColorBrightYellow)

	s := g.session
	score := fmt.Sprintf("Score %d", s.Score())
	if target := s.Config().ScoreToWin; target > 0 {
		score = fmt.Sprintf("Score %d/%d", s.Score(), target)
	}
	dst.DrawText(box.X, box.Y-1, score)

	if s.Config().TurnsPerGame > 0 {
		turns := fmt.Sprintf("Turns %d", s.TurnsLeft())
		color := core.ColorDefault
		if s.TurnsLeft() <= 3 {
			color = core.ColorRed
		}
		dst.DrawTextWithColor(box.Right()-len(turns), box.Y-1, turns, color)
	}
}

// renderTiles draws every sprite at its interpolated position. Tiles that
// are still above the board while dropping in are clipped.
func (g *Game) renderTiles(dst *core.Screen, box core.Rect) {
	sel, hasSel := g.session.Selected()
	hint := g.forced

	for _, sp := range g.anim.sprites {
		if sp.kind == engine.KindNone {
			continue
		}
		row, col := sp.position()
		r := int(math.Round(row))
		if r < 0 || r >= g.cfg.Board.Rows {
			continue
		}
		x := box.X + 1 + int(math.Round(col*cellWidth))
		y := box.Y + 1 + r

		gl := glyphFor(sp.kind)
		cell := core.Cell{Rune: gl.r, Color: gl.color}
		left, right := ' ', ' '
		bracket := core.ColorDefault

		if !sp.moving() {
			at := sp.to
			switch {
			case hasSel && at == sel:
				left, right, bracket = '[', ']', core.ColorBrightYellow
				cell.Attr |= core.AttrBold
			case g.anim.lit[at], hint != nil && (hint.A == at || hint.B == at):
				left, right, bracket = '(', ')', core.ColorCyan
			}
			if at == g.cursor && !g.session.State().Terminal() {
				cell.Attr |= core.AttrReverse
			}
		}

		dst.SetCell(x, y, core.Cell{Rune: left, Color: bracket})
		dst.SetCell(x+1, y, cell)
		dst.SetCell(x+2, y, core.Cell{Rune: right, Color: bracket})
	}

	// Keep the cursor visible over an empty slot
	if g.session.Grid().Tile(g.cursor) == nil && !g.session.State().Terminal() {
		x := box.X + 1 + g.cursor.Col*cellWidth
		dst.SetCell(x+1, box.Y+1+g.cursor.Row, core.Cell{Rune: '·', Attr: core.AttrReverse})
	}
}

func (g *Game) renderBursts(dst *core.Screen, box core.Rect) {
	for _, b := range g.anim.bursts {
		gl := glyphFor(b.kind)
		r := '✶'
		if b.ticks <= burstTicks/2 {
			r = '·'
		}
		dst.SetWithColor(box.X+2+b.at.Col*cellWidth, box.Y+1+b.at.Row, r, gl.color)
	}
}

// renderFooter draws the status line, the latest banner and the controls.
func (g *Game) renderFooter(dst *core.Screen, box core.Rect) {
	y := box.Bottom()

	var status string
	switch st := g.session.State(); {
	case g.anim.popupTicks > 0 && g.anim.popup > 0:
		status = fmt.Sprintf("+%d", g.anim.popup)
	case st == engine.StateIdle && g.hintVisible():
		status = "Hint: swap the tiles in ( )"
	case st == engine.StateIdle:
		if _, ok := g.session.Selected(); ok {
			status = "Pick a neighbor to swap"
		}
	}
	dst.DrawTextWithColor(box.X, y, status, core.ColorBrightYellow)

	if g.anim.bannerTicks > 0 {
		dst.DrawTextCentered(y+1, g.anim.banner, core.ColorCyan)
	}
	dst.DrawTextCentered(y+2, g.Controls(), core.ColorGray)
}

func (g *Game) hintVisible() bool {
	if g.forced != nil {
		return true
	}
	_, ok := g.session.CurrentHint()
	return ok
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, box core.Rect) {
	s := g.session
	switch {
	case g.paused:
		g.drawOverlay(dst, box, "PAUSED", "Press P to resume")
	case s.Won():
		g.drawOverlay(dst, box, "YOU WIN!", fmt.Sprintf("Score: %d", s.Score()), "Press R to restart")
	case s.Lost():
		g.drawOverlay(dst, box, "GAME OVER", fmt.Sprintf("Score: %d", s.Score()), "Press R to restart")
	}
}

// drawOverlay draws a framed message centered on the board.
func (g *Game) drawOverlay(dst *core.Screen, box core.Rect, lines ...string) {
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	frame := box.Centered(width+4, len(lines)+2)
	dst.FillRect(frame, core.Cell{Rune: ' '})
	dst.DrawBox(frame, core.ColorBrightWhite)
	for i, line := range lines {
		x := frame.X + (frame.W-len([]rune(line)))/2
		dst.DrawTextWithColor(x, frame.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows Move  Enter Select  H Hint  P Pause  Q Quit"
}
