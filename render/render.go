// Package render rasterizes engine state into frames. Rendering is
// read-only with respect to the simulation: a frame can be produced at
// any point without mutating game state.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/codecravings/game-builder/engine"
)

// skyColor clears every frame before anything else is painted.
var skyColor = color.NRGBA{R: 135, G: 206, B: 235, A: 255}

// Frame paints one complete frame: sky clear, background, every active
// object offset by the camera, then the HUD overlay.
func Frame(e *engine.Engine) *image.RGBA {
	params := e.Params()
	w, h := int(params.ViewportWidth), int(params.ViewportHeight)

	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(skyColor), image.Point{}, draw.Src)

	// The background is pinned to the viewport, not the world.
	if bg := e.Background(); bg != nil {
		draw.Draw(frame, frame.Bounds(), bg, bg.Bounds().Min, draw.Over)
	}

	camX, camY := e.CameraOffset()
	for _, obj := range e.Objects() {
		if !obj.Active {
			continue
		}
		drawObject(frame, obj, camX, camY)
	}

	drawOverlay(frame, e)
	return frame
}

func drawObject(dst *image.RGBA, obj *engine.Object, camX, camY float64) {
	x := int(obj.Rect.X - camX)
	y := int(obj.Rect.Y - camY)

	if obj.Image != nil {
		b := obj.Image.Bounds()
		draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), obj.Image, b.Min, draw.Over)
		return
	}

	r := image.Rect(x, y, x+int(obj.Rect.Width), y+int(obj.Rect.Height))
	draw.Draw(dst, r, image.NewUniform(obj.Color), image.Point{}, draw.Over)
}
