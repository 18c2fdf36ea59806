// Package entity defines domain entities for the browser shell.
package entity

// Point is a 2D coordinate, used for scroll offsets.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect represents a surface's position and size inside the host window.
type Rect struct {
	X, Y int // Top-left position relative to the window
	W, H int // Width and height
}

// Inset returns a copy of the rectangle with the given band removed from the top.
// Used to carve the chrome band out of the window bounds.
func (r Rect) Inset(top int) Rect {
	if top < 0 {
		top = 0
	}
	if top > r.H {
		top = r.H
	}
	return Rect{X: r.X, Y: r.Y + top, W: r.W, H: r.H - top}
}

// IsZero reports whether the rectangle has no area.
func (r Rect) IsZero() bool {
	return r.W <= 0 || r.H <= 0
}
