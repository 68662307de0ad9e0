package geom

import "math"

// Rect is an axis-aligned rectangle. Width and Height may be negative while a
// rectangle is being dragged out; call Normalize before comparing.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}.Normalize()
}

// Normalize returns r with non-negative width and height.
func (r Rect) Normalize() Rect {
	return Rect{
		X:      math.Min(r.X, r.X+r.Width),
		Y:      math.Min(r.Y, r.Y+r.Height),
		Width:  math.Abs(r.Width),
		Height: math.Abs(r.Height),
	}
}

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap or touch. Both must be normalized.
func (r Rect) Intersects(other Rect) bool {
	return !(other.X > r.X+r.Width ||
		other.X+other.Width < r.X ||
		other.Y > r.Y+r.Height ||
		other.Y+other.Height < r.Y)
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects. Unlike a pure area
// union it keeps degenerate rects (a horizontal stroke has zero height).
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// BoundsOf returns the bounding rect of pts. ok is false for an empty slice.
func BoundsOf(pts []Point) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Remap moves p from its fractional position inside from to the same
// fractional position inside to. A zero-sized axis of from keeps p's offset
// on that axis unchanged relative to the origin.
func Remap(p Point, from, to Rect) Point {
	out := Point{X: to.X + (p.X - from.X), Y: to.Y + (p.Y - from.Y)}
	if from.Width != 0 {
		out.X = to.X + (p.X-from.X)/from.Width*to.Width
	}
	if from.Height != 0 {
		out.Y = to.Y + (p.Y-from.Y)/from.Height*to.Height
	}
	return out
}
