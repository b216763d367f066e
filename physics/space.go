// Package physics wraps the chipmunk rigid-body space. The Space owns every
// body; callers hold opaque BodyHandles and never touch cp types directly, so
// nothing dangles across session resets.
package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/codecravings/game-builder/common"
)

// BodyHandle refers to a dynamic body owned by a Space. The zero value refers
// to nothing.
type BodyHandle int

type Space struct {
	space    *cp.Space
	friction float64

	bodies []*cp.Body
}

func NewSpace(gravity, friction float64) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &Space{space: space, friction: friction}
}

// AddStaticBox adds one immovable solid box for a platform rectangle. Static
// geometry lives on the space's static body and is never mutated afterward.
func (s *Space) AddStaticBox(r common.Rect) {
	if s == nil || s.space == nil {
		return
	}
	bb := cp.BB{L: r.X, B: r.Y, R: r.X + r.Width, T: r.Y + r.Height}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(s.friction)
	s.space.AddShape(shape)
}

// AddDynamicBox creates a dynamic body centered on the rectangle, with moment
// derived from the box dimensions.
func (s *Space) AddDynamicBox(r common.Rect, mass float64) BodyHandle {
	if s == nil || s.space == nil {
		return 0
	}

	moment := cp.MomentForBox(mass, r.Width, r.Height)
	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: r.X + r.Width/2, Y: r.Y + r.Height/2})

	shape := cp.NewBox(body, r.Width, r.Height, 0)
	shape.SetFriction(s.friction)

	s.space.AddBody(body)
	s.space.AddShape(shape)

	s.bodies = append(s.bodies, body)
	return BodyHandle(len(s.bodies))
}

func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil {
		return
	}
	s.space.Step(dt)
}

// Position returns the body's center.
func (s *Space) Position(h BodyHandle) (x, y float64, ok bool) {
	body := s.body(h)
	if body == nil {
		return 0, 0, false
	}
	pos := body.Position()
	return pos.X, pos.Y, true
}

// SetPosition teleports the body's center. Velocity is untouched.
func (s *Space) SetPosition(h BodyHandle, x, y float64) {
	if body := s.body(h); body != nil {
		body.SetPosition(cp.Vector{X: x, Y: y})
	}
}

func (s *Space) Velocity(h BodyHandle) (vx, vy float64, ok bool) {
	body := s.body(h)
	if body == nil {
		return 0, 0, false
	}
	v := body.Velocity()
	return v.X, v.Y, true
}

func (s *Space) SetVelocity(h BodyHandle, vx, vy float64) {
	if body := s.body(h); body != nil {
		body.SetVelocity(vx, vy)
	}
}

// SetVelocityX writes the horizontal component, preserving vertical motion.
func (s *Space) SetVelocityX(h BodyHandle, vx float64) {
	if body := s.body(h); body != nil {
		body.SetVelocity(vx, body.Velocity().Y)
	}
}

// SetVelocityY writes the vertical component, preserving horizontal motion.
func (s *Space) SetVelocityY(h BodyHandle, vy float64) {
	if body := s.body(h); body != nil {
		body.SetVelocity(body.Velocity().X, vy)
	}
}

func (s *Space) body(h BodyHandle) *cp.Body {
	if s == nil || h <= 0 || int(h) > len(s.bodies) {
		return nil
	}
	return s.bodies[h-1]
}
