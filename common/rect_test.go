package common

import "testing"

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 100, Y: 100, Width: 50, Height: 50}

	cases := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"full_overlap", Rect{X: 100, Y: 100, Width: 50, Height: 50}, true},
		{"partial_overlap", Rect{X: 140, Y: 140, Width: 50, Height: 50}, true},
		{"contained", Rect{X: 110, Y: 110, Width: 10, Height: 10}, true},
		{"touching_edge", Rect{X: 150, Y: 100, Width: 50, Height: 50}, false},
		{"disjoint_right", Rect{X: 200, Y: 100, Width: 50, Height: 50}, false},
		{"disjoint_below", Rect{X: 100, Y: 200, Width: 50, Height: 50}, false},
		{"one_pixel_in", Rect{X: 149, Y: 149, Width: 50, Height: 50}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := base.Intersects(&c.other); got != c.want {
				t.Fatalf("Intersects(%+v) = %v, want %v", c.other, got, c.want)
			}
			// Intersection is symmetric.
			if got := c.other.Intersects(&base); got != c.want {
				t.Fatalf("reverse Intersects(%+v) = %v, want %v", c.other, got, c.want)
			}
		})
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if got := r.CenterX(); got != 25 {
		t.Fatalf("CenterX = %v, want 25", got)
	}
	if got := r.CenterY(); got != 40 {
		t.Fatalf("CenterY = %v, want 40", got)
	}
}
