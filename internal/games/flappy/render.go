package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	BirdBody      = '█'
	BirdRising    = '▲'
	BirdLevel     = '►'
	BirdFalling   = '▼'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	GroundChar    = '▒'
	GroundEdge    = '═'
	GroundStripe  = '╱'
)

// tiltThreshold is the velocity beyond which the bird is drawn tilted.
const tiltThreshold = 2.0

// viewport maps world pixels to terminal cells.
type viewport struct {
	sx, sy float64
}

func newViewport(dst *core.Screen, worldW, worldH int) viewport {
	return viewport{
		sx: float64(dst.Width()) / float64(worldW),
		sy: float64(dst.Height()) / float64(worldH),
	}
}

// rect converts a world rectangle to the cells it covers. Non-empty world
// rectangles always cover at least one cell.
func (v viewport) rect(r core.Rect) core.Rect {
	if r.Empty() {
		return core.Rect{}
	}
	x0 := int(math.Floor(float64(r.X) * v.sx))
	y0 := int(math.Floor(float64(r.Y) * v.sy))
	x1 := int(math.Ceil(float64(r.Right()) * v.sx))
	y1 := int(math.Ceil(float64(r.Bottom()) * v.sy))
	return core.NewRect(x0, y0, core.Max(1, x1-x0), core.Max(1, y1-y0))
}

func (v viewport) row(y int) int {
	return int(math.Floor(float64(y) * v.sy))
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.episode == nil || dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	s := g.Snapshot()
	vp := newViewport(dst, s.WorldW, s.WorldH)

	for _, p := range s.Pipes {
		drawPipe(dst, vp, p)
	}
	drawGround(dst, vp, s)
	drawBird(dst, vp, s)
	drawHUD(dst, s)

	switch {
	case s.Phase == PhaseWaiting:
		drawCenteredMessage(dst, "FLAPPY BIRD", "Press SPACE to start")
	case s.Phase == PhaseTerminated:
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  Best: %d", s.Score, s.HighScore),
			"R: play again  |  Esc: home")
	}
}

func drawPipe(dst *core.Screen, vp viewport, p PipeRects) {
	top := vp.rect(p.Top)
	bottom := vp.rect(p.Bottom)

	dst.DrawRectColored(top, PipeChar, core.ColorGreen)
	dst.DrawRectColored(bottom, PipeChar, core.ColorGreen)

	if !top.Empty() {
		dst.DrawHLine(top.X, top.Bottom()-1, top.W, PipeCapTop, core.ColorBrightGreen)
	}
	if !bottom.Empty() {
		dst.DrawHLine(bottom.X, bottom.Y, bottom.W, PipeCapBottom, core.ColorBrightGreen)
	}
}

// drawGround fills everything below the floor and scrolls a stripe pattern
// along its top edge at pipe speed.
func drawGround(dst *core.Screen, vp viewport, s Snapshot) {
	floorRow := core.Min(vp.row(s.FloorY), dst.Height()-1)
	dst.DrawHLine(0, floorRow, dst.Width(), GroundEdge, core.ColorBrightYellow)

	offset := int(s.Distance * vp.sx)
	for y := floorRow + 1; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			if (x+offset)%4 == 0 && y == floorRow+1 {
				dst.SetColored(x, y, GroundStripe, core.ColorOrange)
				continue
			}
			dst.SetColored(x, y, GroundChar, core.ColorBrown)
		}
	}
}

func drawBird(dst *core.Screen, vp viewport, s Snapshot) {
	r := vp.rect(s.Avatar)
	dst.DrawRectColored(r, BirdBody, core.ColorYellow)

	_, cy := r.Center()
	dst.SetColored(r.Right()-1, cy, birdGlyph(s.AvatarVel), core.ColorOrange)
}

// birdGlyph picks the beak glyph from the vertical velocity so the bird
// appears to tilt.
func birdGlyph(vel float64) rune {
	switch {
	case vel < -tiltThreshold:
		return BirdRising
	case vel > tiltThreshold:
		return BirdFalling
	default:
		return BirdLevel
	}
}

func drawHUD(dst *core.Screen, s Snapshot) {
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d  Best: %d ", s.Score, s.HighScore), core.ColorWhite)

	if s.Mode == ModeAuto {
		label := fmt.Sprintf(" AUTO %s  |  Esc: exit auto mode ", s.Strategy)
		dst.DrawTextColored(dst.Width()-len([]rune(label))-2, 0, label, core.ColorBrightCyan)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := 4 + len(lines)
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightYellow)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+i, l)
	}
}
