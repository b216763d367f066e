// Package assets resolves artwork for a game description. Art comes from
// an external image model while the per-game budget lasts, from the
// on-disk cache when an earlier run already paid for it, and from
// deterministic fallback sprites otherwise. The engine never starts
// without a full name to image mapping.
package assets

// Category identifies what a piece of artwork is for. Prompt wording,
// cache identity and stored size all key off it.
type Category string

const (
	CategoryPlayer      Category = "player"
	CategoryBackground  Category = "background"
	CategoryEnemy       Category = "enemy"
	CategoryCollectible Category = "collectible"
	CategoryPlatform    Category = "platform"

	// CategoryFallback labels synthesized stand-in sprites in the cache
	// index. It is never prompted for or generated.
	CategoryFallback Category = "fallback"
)

// Stored artwork sizes per category, in pixels.
const (
	SpriteSize       = 32
	CollectibleSize  = 24
	PlatformTileW    = 64
	PlatformTileH    = 32
	BackgroundWidth  = 800
	BackgroundHeight = 600
)

// TargetSize returns the pixel size artwork of the given category is
// stored at. Generated images are resampled to this before caching.
func TargetSize(cat Category) (w, h int) {
	switch cat {
	case CategoryBackground:
		return BackgroundWidth, BackgroundHeight
	case CategoryCollectible:
		return CollectibleSize, CollectibleSize
	case CategoryPlatform:
		return PlatformTileW, PlatformTileH
	default:
		return SpriteSize, SpriteSize
	}
}
