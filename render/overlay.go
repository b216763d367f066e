package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/codecravings/game-builder/engine"
)

var (
	hudColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	lostColor = color.NRGBA{R: 255, A: 255}
	wonColor  = color.NRGBA{G: 255, A: 255}
)

// drawOverlay paints score, health and elapsed time in the top left
// corner, plus a centered banner once the session reaches a terminal
// state. A lost game outranks a won one if both flags are somehow set.
func drawOverlay(frame *image.RGBA, e *engine.Engine) {
	state := e.State()

	drawText(frame, fmt.Sprintf("Score: %d", state.Score), 10, 10, hudColor)
	if p := e.Player(); p != nil {
		drawText(frame, fmt.Sprintf("Health: %d", p.Health), 10, 50, hudColor)
	}
	drawText(frame, fmt.Sprintf("Time: %d", int(state.Time)), 10, 90, hudColor)

	b := frame.Bounds()
	cx, cy := b.Dx()/2, b.Dy()/2
	if state.GameOver {
		drawTextCentered(frame, "GAME OVER", cx, cy, lostColor)
	} else if state.Win {
		drawTextCentered(frame, "YOU WIN!", cx, cy, wonColor)
	}
}

// drawText draws s with its top left corner at (x, y).
func drawText(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(s)
}

func drawTextCentered(dst *image.RGBA, s string, cx, cy int, col color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Round()
	drawText(dst, s, cx-w/2, cy-basicfont.Face7x13.Height/2, col)
}
