package drawing

import (
	"fmt"
	"math"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// ShapeKind names a parametric shape. The set is closed; each kind has an
// outline registered below.
type ShapeKind string

const (
	Rectangle ShapeKind = "rectangle"
	Circle    ShapeKind = "circle"
	Line      ShapeKind = "line"
	Arrow     ShapeKind = "arrow"
	Hexagon   ShapeKind = "hexagon"
	Star      ShapeKind = "star"
)

// ShapeKinds lists every supported kind in tool order.
var ShapeKinds = []ShapeKind{Rectangle, Circle, Line, Arrow, Hexagon, Star}

// outline builds the path of one shape kind.
type outline interface {
	path(s Shape) geom.Path
}

var outlines = map[ShapeKind]outline{
	Rectangle: rectangleOutline{},
	Circle:    circleOutline{},
	Line:      lineOutline{},
	Arrow:     arrowOutline{},
	Hexagon:   hexagonOutline{},
	Star:      starOutline{},
}

// Valid reports whether k is a known shape kind.
func (k ShapeKind) Valid() bool {
	_, ok := outlines[k]
	return ok
}

// Shape is a single parametric element. X, Y is the anchor corner where the
// drag started; Width and Height keep the drag direction and may be negative.
type Shape struct {
	Kind      ShapeKind `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Stroke    string    `json:"color"`
	LineWidth float64   `json:"thickness"`
	Filled    bool      `json:"isFilled"`
}

func (Shape) isEntity() {}

// Bounds is the normalized box spanned by the anchor and the drag end.
func (s Shape) Bounds() geom.Rect {
	return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}.Normalize()
}

func (s Shape) Color() string      { return s.Stroke }
func (s Shape) Thickness() float64 { return s.LineWidth }

func (s Shape) Translate(dx, dy float64) Entity {
	s.X += dx
	s.Y += dy
	return s
}

// Remap moves both the anchor and the drag end, so the drag direction (sign
// of Width and Height) survives a resize.
func (s Shape) Remap(from, to geom.Rect) Entity {
	anchor := geom.Remap(geom.Pt(s.X, s.Y), from, to)
	end := geom.Remap(geom.Pt(s.X+s.Width, s.Y+s.Height), from, to)
	s.X, s.Y = anchor.X, anchor.Y
	s.Width, s.Height = end.X-anchor.X, end.Y-anchor.Y
	return s
}

func (s Shape) WithColor(color string) Entity {
	s.Stroke = color
	return s
}

func (s Shape) WithThickness(thickness float64) Entity {
	s.LineWidth = thickness
	return s
}

// WithFill returns a copy of s with the fill flag set.
func (s Shape) WithFill(filled bool) Shape {
	s.Filled = filled
	return s
}

func (s Shape) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
	for _, v := range []float64{s.X, s.Y, s.Width, s.Height, s.LineWidth} {
		if !geom.IsFinite(v) {
			return ErrBadGeometry
		}
	}
	return nil
}

// Center returns the midpoint between anchor and drag end.
func (s Shape) Center() geom.Point {
	return geom.Pt(s.X+s.Width/2, s.Y+s.Height/2)
}

// Radius is half the drag diagonal; circles, hexagons and stars are
// inscribed in it.
func (s Shape) Radius() float64 {
	return math.Hypot(s.Width, s.Height) / 2
}

// Path returns the outline of s in logical coordinates.
func (s Shape) Path() (geom.Path, error) {
	o, ok := outlines[s.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
	return o.path(s), nil
}

type rectangleOutline struct{}

func (rectangleOutline) path(s Shape) geom.Path {
	var p geom.Path
	p.Rect(s.X, s.Y, s.Width, s.Height)
	return p
}

type circleOutline struct{}

func (circleOutline) path(s Shape) geom.Path {
	c := s.Center()
	r := s.Radius()
	var p geom.Path
	p.Ellipse(c.X, c.Y, r, r)
	return p
}

type lineOutline struct{}

func (lineOutline) path(s Shape) geom.Path {
	var p geom.Path
	p.MoveTo(s.X, s.Y)
	p.LineTo(s.X+s.Width, s.Y+s.Height)
	return p
}

type arrowOutline struct{}

const arrowHeadAngle = math.Pi / 6

func (arrowOutline) path(s Shape) geom.Path {
	var p geom.Path
	x2, y2 := s.X+s.Width, s.Y+s.Height
	p.MoveTo(s.X, s.Y)
	p.LineTo(x2, y2)

	angle := math.Atan2(s.Height, s.Width)
	head := math.Min(20, math.Hypot(s.Width, s.Height)/3)
	p.MoveTo(x2, y2)
	p.LineTo(x2-head*math.Cos(angle-arrowHeadAngle), y2-head*math.Sin(angle-arrowHeadAngle))
	p.MoveTo(x2, y2)
	p.LineTo(x2-head*math.Cos(angle+arrowHeadAngle), y2-head*math.Sin(angle+arrowHeadAngle))
	return p
}

type hexagonOutline struct{}

func (hexagonOutline) path(s Shape) geom.Path {
	c := s.Center()
	var p geom.Path
	p.Polygon(c.X, c.Y, s.Radius(), 6, math.Pi/6)
	return p
}

type starOutline struct{}

func (starOutline) path(s Shape) geom.Path {
	c := s.Center()
	r := s.Radius()
	var p geom.Path
	p.Star(c.X, c.Y, r, r/2, 5)
	return p
}
