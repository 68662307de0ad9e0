// Package render paints a frame of the drawing onto a Canvas. The browser
// build records draw commands for a Canvas2D executor; the server rasterizes
// the same frame into a PNG.
package render

import "github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"

// Style describes how one path is painted.
type Style struct {
	Color     string
	LineWidth float64
	// Alpha is the global alpha; zero means opaque.
	Alpha float64
	Dash  []float64
	// Round selects round caps and joins.
	Round bool
}

func (s Style) opacity() float64 {
	if s.Alpha <= 0 || s.Alpha > 1 {
		return 1
	}
	return s.Alpha
}

// Image refers to a raster asset the canvas knows how to draw.
type Image struct {
	ID     string
	Width  float64
	Height float64
}

// Canvas is the subset of a 2D drawing context the renderer needs. Paths are
// in the coordinates of the current transform.
type Canvas interface {
	// Clear resets the transform to identity and fills the whole surface.
	Clear(color string)
	SetTransform(m geom.Matrix2D)
	StrokePath(p geom.Path, st Style)
	FillPath(p geom.Path, st Style)
	DrawImage(img Image, dst geom.Rect)
}
