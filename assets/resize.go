package assets

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleImage resamples img to w by h with Catmull-Rom interpolation.
// The source is left untouched. Returns img as-is when it already has
// the requested size, nil when img is nil or the size is non-positive.
func ScaleImage(img image.Image, w, h int) image.Image {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	src := img.Bounds()
	if src.Dx() == w && src.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
