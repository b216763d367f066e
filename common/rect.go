package common

type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r *Rect) Intersects(other *Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r *Rect) CenterX() float64 {
	return r.X + r.Width/2
}

func (r *Rect) CenterY() float64 {
	return r.Y + r.Height/2
}
