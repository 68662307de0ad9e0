// Package drawing is the drawing model: the committed entities of a field
// drawing and the history store that records every reversible mutation.
//
// Entities are values. Once an Entity has been handed to the Store it is never
// modified in place; edits produce new values. This lets the renderer hold a
// snapshot of the entity slice for a whole frame without copying points.
package drawing

import (
	"errors"
	"fmt"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

var (
	ErrEmptyStroke  = errors.New("stroke needs at least two points")
	ErrUnknownShape = errors.New("unknown shape type")
	ErrBadGeometry  = errors.New("non-finite coordinates")
)

// Entity is a committed stroke or shape. The set of implementations is closed:
// Stroke and Shape.
type Entity interface {
	Bounds() geom.Rect
	Color() string
	Thickness() float64

	Translate(dx, dy float64) Entity
	// Remap moves every coordinate from its fractional position inside from
	// to the same position inside to.
	Remap(from, to geom.Rect) Entity
	WithColor(color string) Entity
	WithThickness(thickness float64) Entity

	Validate() error

	isEntity()
}

// Point is one recorded input sample in logical coordinates.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Pressure  float64 `json:"pressure,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Pos returns the point's position.
func (p Point) Pos() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// Stroke is one freehand gesture.
type Stroke struct {
	Points []Point
}

// NewStroke copies pts into a new Stroke.
func NewStroke(pts []Point) Stroke {
	return Stroke{Points: append([]Point(nil), pts...)}
}

func (Stroke) isEntity() {}

// Positions returns the stroke's points as plain geometry.
func (s Stroke) Positions() []geom.Point {
	out := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Pos()
	}
	return out
}

func (s Stroke) Bounds() geom.Rect {
	r, _ := geom.BoundsOf(s.Positions())
	return r
}

// Color is the color of the first point; every point of a committed stroke
// shares it.
func (s Stroke) Color() string {
	if len(s.Points) == 0 {
		return ""
	}
	return s.Points[0].Color
}

func (s Stroke) Thickness() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[0].Thickness
}

func (s Stroke) mapPoints(fn func(Point) Point) Stroke {
	out := make([]Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = fn(p)
	}
	return Stroke{Points: out}
}

func (s Stroke) Translate(dx, dy float64) Entity {
	return s.mapPoints(func(p Point) Point {
		p.X += dx
		p.Y += dy
		return p
	})
}

func (s Stroke) Remap(from, to geom.Rect) Entity {
	return s.mapPoints(func(p Point) Point {
		moved := geom.Remap(p.Pos(), from, to)
		p.X, p.Y = moved.X, moved.Y
		return p
	})
}

func (s Stroke) WithColor(color string) Entity {
	return s.mapPoints(func(p Point) Point {
		p.Color = color
		return p
	})
}

func (s Stroke) WithThickness(thickness float64) Entity {
	return s.mapPoints(func(p Point) Point {
		p.Thickness = thickness
		return p
	})
}

func (s Stroke) Validate() error {
	if len(s.Points) < 2 {
		return ErrEmptyStroke
	}
	for i, p := range s.Points {
		if !p.Pos().IsFinite() {
			return fmt.Errorf("point %d: %w", i, ErrBadGeometry)
		}
	}
	return nil
}
