package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultFallbackColor fills stand-in sprites for entities that did not
// declare a color of their own.
var DefaultFallbackColor = color.NRGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 0xFF}

var borderColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// FallbackKey derives the cache identity for an entity's stand-in
// sprite. It hashes name and color rather than the prompt, so the same
// entity reuses its artifact across runs without ever being generated.
func FallbackKey(name string, c color.Color) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("fallback|%s|%s", name, hexString(c))))
	return hex.EncodeToString(sum[:])
}

// FallbackSprite draws the deterministic stand-in used when no artwork
// was generated for an entity: a solid square in the entity's color
// with a one pixel white border. Same color in, same pixels out.
func FallbackSprite(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	for x := 0; x < SpriteSize; x++ {
		img.Set(x, 0, borderColor)
		img.Set(x, SpriteSize-1, borderColor)
	}
	for y := 0; y < SpriteSize; y++ {
		img.Set(0, y, borderColor)
		img.Set(SpriteSize-1, y, borderColor)
	}
	return img
}

func hexString(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}
