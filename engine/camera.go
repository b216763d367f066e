package engine

import "github.com/codecravings/game-builder/common"

// Camera is the world-space offset subtracted from every object when a frame
// is painted. It converges on its target a fixed fraction per frame, so
// convergence speed follows the caller's tick rate rather than elapsed time.
type Camera struct {
	X float64
	Y float64

	smooth float64
}

func NewCamera() *Camera {
	return &Camera{smooth: common.CameraSmoothing}
}

// Update moves the camera toward the target offset.
func (c *Camera) Update(targetX, targetY float64) {
	if c == nil {
		return
	}
	if c.smooth <= 0 {
		c.X = targetX
		c.Y = targetY
		return
	}
	c.X += (targetX - c.X) * c.smooth
	c.Y += (targetY - c.Y) * c.smooth
}
