package engine

import (
	"image"
	"image/color"

	"github.com/codecravings/game-builder/common"
	"github.com/codecravings/game-builder/physics"
)

// Kind tags the variant of a game object. One struct carries the shared
// record plus per-kind fields; the update loop dispatches on the tag.
type Kind int

const (
	KindProp Kind = iota
	KindPlayer
	KindEnemy
	KindCollectible
	KindPlatform
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindCollectible:
		return "collectible"
	case KindPlatform:
		return "platform"
	default:
		return "prop"
	}
}

type Object struct {
	Name   string
	Kind   Kind
	Rect   common.Rect
	VelX   float64
	VelY   float64
	Color  color.Color
	Image  image.Image
	Active bool

	// player
	Health   int
	OnGround bool
	Body     physics.BodyHandle

	// enemy patrol
	Speed       float64
	Direction   float64
	PatrolRange float64
	StartX      float64

	// collectible
	Points    int
	Collected bool

	// platform
	Solid bool
}

// Collect marks a collectible taken and returns its points exactly once.
func (o *Object) Collect() int {
	if o == nil || o.Kind != KindCollectible || o.Collected {
		return 0
	}
	o.Collected = true
	o.Active = false
	return o.Points
}

func (o *Object) integrate(dt float64) {
	o.Rect.X += o.VelX * dt
	o.Rect.Y += o.VelY * dt
}

// patrol reverses direction at the range edges and sets horizontal velocity
// before kinematic integration.
func (o *Object) patrol() {
	if o.Rect.X >= o.StartX+o.PatrolRange {
		o.Direction = -1
	} else if o.Rect.X <= o.StartX {
		o.Direction = 1
	}
	o.VelX = o.Speed * o.Direction
}
