package assets

import (
	"fmt"

	"github.com/codecravings/game-builder/gamespec"
)

// BuildPrompt renders the generation prompt for one artwork category.
// It is a pure function of the description's metadata: identical theme,
// art style and game type always yield the identical string. The prompt
// text is part of the cache key, so the wording here is frozen and any
// change invalidates previously stored artwork.
func BuildPrompt(desc *gamespec.GameDescription, cat Category) string {
	switch cat {
	case CategoryPlayer:
		return playerPrompt(desc)
	case CategoryBackground:
		return backgroundPrompt(desc)
	case CategoryEnemy:
		return fmt.Sprintf("%s art style, %s theme, enemy creature, menacing appearance, detailed features, hostile design, video game quality, transparent background, 32x32 pixels",
			desc.ArtStyle, desc.Theme)
	case CategoryCollectible:
		return fmt.Sprintf("%s art style, %s theme, collectible item, shiny treasure, magical glow, valuable object, game pickup, transparent background, 24x24 pixels",
			desc.ArtStyle, desc.Theme)
	case CategoryPlatform:
		return fmt.Sprintf("%s art style, %s theme, platform texture, tileable surface, detailed texture, game environment, seamless tile, 64x32 pixels",
			desc.ArtStyle, desc.Theme)
	}
	return fmt.Sprintf("%s art style, %s theme, game asset, transparent background", desc.ArtStyle, desc.Theme)
}

func playerPrompt(desc *gamespec.GameDescription) string {
	base := fmt.Sprintf("%s art style, %s theme, mobile game sprite", desc.ArtStyle, desc.Theme)

	switch desc.GameType {
	case gamespec.GameTypeRacing:
		return base + ", top-down racing car, sleek design, bright colors, Formula 1 style, detailed wheels, transparent background, 32x32 pixels"
	case gamespec.GameTypeFlappy:
		return base + ", cute flying bird character, colorful feathers, expressive eyes, wings spread, cartoon style, transparent background, 32x32 pixels"
	case gamespec.GameTypeShooter:
		return base + ", futuristic spaceship, detailed hull, engine thrusters, sci-fi design, metallic finish, transparent background, 32x32 pixels"
	default:
		return base + ", heroic character, detailed armor, determined expression, action pose, RPG quality, transparent background, 32x32 pixels"
	}
}

func backgroundPrompt(desc *gamespec.GameDescription) string {
	base := fmt.Sprintf("%s art style, %s theme, mobile game background", desc.ArtStyle, desc.Theme)

	switch desc.GameType {
	case gamespec.GameTypeRacing:
		return base + ", professional racing track, asphalt surface, white lane markings, grandstands, aerial view, detailed track, 800x600 resolution"
	case gamespec.GameTypeFlappy:
		return base + ", beautiful sky environment, fluffy clouds, gradient blue sky, distant mountains, parallax layers, bright atmosphere, 800x600 resolution"
	case gamespec.GameTypeShooter:
		return base + ", deep space environment, star field, nebulae, cosmic dust, sci-fi atmosphere, 800x600 resolution"
	default:
		return base + ", detailed platformer environment, lush forest, rocky platforms, atmospheric lighting, adventure game quality, 800x600 resolution"
	}
}
