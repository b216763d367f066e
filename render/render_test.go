package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"

	"github.com/codecravings/game-builder/engine"
	"github.com/codecravings/game-builder/gamespec"
	"github.com/codecravings/game-builder/prefabs"
)

func newTestEngine(t *testing.T, desc *gamespec.GameDescription) *engine.Engine {
	t.Helper()
	defaults, err := prefabs.LoadDefaults()
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	params := engine.Params{
		ViewportWidth:  800,
		ViewportHeight: 600,
		FPS:            60,
		Gravity:        981,
		Friction:       0.7,
		MoveSpeed:      200,
		JumpForce:      -500,
	}
	e, err := engine.New(params, defaults, desc, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func baseDesc() *gamespec.GameDescription {
	return &gamespec.GameDescription{
		Title:    "Render Test",
		GameType: gamespec.GameTypePlatformer,
		Entities: []gamespec.EntityDescriptor{
			{Name: "hero", Type: "player", X: 100, Y: 400, Width: 32, Height: 32},
		},
	}
}

func containsColor(t *testing.T, f *image.RGBA, want color.NRGBA, x0, y0, x1, y1 int) bool {
	t.Helper()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, a := f.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B && uint8(a>>8) == want.A {
				return true
			}
		}
	}
	return false
}

func TestFrameSizeAndSky(t *testing.T) {
	e := newTestEngine(t, baseDesc())
	f := Frame(e)

	if b := f.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("frame size = %v, want 800x600", b)
	}

	// Top right corner holds neither HUD nor objects, so it stays sky.
	got := f.RGBAAt(799, 0)
	want := color.RGBA{R: 135, G: 206, B: 235, A: 255}
	if got != want {
		t.Fatalf("sky pixel = %v, want %v", got, want)
	}
}

func TestFrameDrawsColorRect(t *testing.T) {
	e := newTestEngine(t, baseDesc())
	f := Frame(e)

	// Before any camera movement the player rect lands at its world
	// position, filled with the default entity white.
	got := f.RGBAAt(116, 416)
	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got != want {
		t.Fatalf("player pixel = %v, want %v", got, want)
	}
}

func TestFrameSkipsInactiveObjects(t *testing.T) {
	desc := baseDesc()
	desc.Levels = []gamespec.LevelDescriptor{{
		Collectibles: []gamespec.CollectibleDescriptor{
			{X: 600, Y: 100, Width: 20, Height: 20},
		},
	}}
	e := newTestEngine(t, desc)

	var collectible *engine.Object
	for _, o := range e.Objects() {
		if o.Kind == engine.KindCollectible {
			collectible = o
		}
	}
	if collectible == nil {
		t.Fatalf("collectible object missing")
	}

	f := Frame(e)
	gold := color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 255}
	if !containsColor(t, f, gold, 595, 95, 625, 125) {
		t.Fatalf("active collectible not painted")
	}

	collectible.Active = false
	f = Frame(e)
	if containsColor(t, f, gold, 595, 95, 625, 125) {
		t.Fatalf("inactive collectible still painted")
	}
}

func TestHUDShowsScoreText(t *testing.T) {
	e := newTestEngine(t, baseDesc())
	f := Frame(e)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if !containsColor(t, f, white, 10, 10, 120, 30) {
		t.Fatalf("no HUD text pixels in the score area")
	}
}

func TestGameOverBanner(t *testing.T) {
	desc := baseDesc()
	desc.Entities = append(desc.Entities, gamespec.EntityDescriptor{
		Name: "enemy_blob", Type: "enemy", X: 100, Y: 400, Width: 32, Height: 32,
		Color: gamespec.HexColor{Color: color.NRGBA{R: 0, G: 0, B: 128, A: 255}},
	})
	e := newTestEngine(t, desc)

	for i := 0; i < 10; i++ {
		if err := e.Advance(1.0 / 60.0); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	if !e.Snapshot().GameOver {
		t.Fatalf("setup failed: game not over")
	}

	f := Frame(e)
	red := color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	if !containsColor(t, f, red, 0, 0, 800, 600) {
		t.Fatalf("no banner pixels after game over")
	}
}

func TestWinBanner(t *testing.T) {
	desc := baseDesc()
	desc.Levels = []gamespec.LevelDescriptor{{
		Collectibles: []gamespec.CollectibleDescriptor{
			{X: 100, Y: 400, Width: 20, Height: 20},
		},
	}}
	e := newTestEngine(t, desc)

	if err := e.Advance(1.0 / 60.0); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !e.Snapshot().Win {
		t.Fatalf("setup failed: game not won")
	}

	f := Frame(e)
	green := color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	red := color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	if !containsColor(t, f, green, 0, 0, 800, 600) {
		t.Fatalf("no win banner pixels")
	}
	if containsColor(t, f, red, 0, 0, 800, 600) {
		t.Fatalf("lost banner painted on a won game")
	}
}
