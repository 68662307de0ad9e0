// Package smooth turns the raw samples of a freehand stroke into cubic Bézier
// segments whose width follows the speed of the pen.
package smooth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// Options tunes the curve. Both values are in [0, 1].
type Options struct {
	// Smoothing is how far the control points reach along the segment,
	// as a fraction of its length.
	Smoothing float64
	// Thinning is how much a fast segment loses of its thickness.
	Thinning float64
}

// DefaultOptions matches the look of the scouting canvas.
func DefaultOptions() Options {
	return Options{Smoothing: 0.5, Thinning: 0.5}
}

// RenderPoint is a stroke point ready to be drawn. When HasControls is set,
// the segment to the next point is a cubic with controls Ctrl1 and Ctrl2.
type RenderPoint struct {
	drawing.Point
	Ctrl1       geom.Point
	Ctrl2       geom.Point
	HasControls bool
}

// Smooth computes render points for pts. Points with non-finite coordinates
// are skipped. Fewer than two usable points are returned as they are, without
// controls. The result depends only on pts and opt, so it can be recomputed on
// every frame.
func Smooth(pts []drawing.Point, opt Options) []RenderPoint {
	valid := make([]drawing.Point, 0, len(pts))
	for _, p := range pts {
		if p.Pos().IsFinite() {
			valid = append(valid, p)
		}
	}

	out := make([]RenderPoint, 0, len(valid))
	if len(valid) < 2 {
		for _, p := range valid {
			out = append(out, RenderPoint{Point: p})
		}
		return out
	}

	for i := 0; i+1 < len(valid); i++ {
		p0, p1 := valid[i], valid[i+1]
		v := r2.Sub(p1.Pos().Vec(), p0.Pos().Vec())
		mag := r2.Norm(v)
		angle := math.Atan2(v.Y, v.X)

		velocity := math.Min(mag/2, 4)
		pressure := math.Max(0.1, 1-velocity/4)

		reach := r2.Scale(mag*opt.Smoothing, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)})

		rp := RenderPoint{
			Point:       p0,
			Ctrl1:       geom.FromVec(r2.Add(p0.Pos().Vec(), reach)),
			Ctrl2:       geom.FromVec(r2.Sub(p1.Pos().Vec(), reach)),
			HasControls: true,
		}
		rp.Pressure = pressure
		rp.Thickness = p0.Thickness * (1 - opt.Thinning*(1-pressure))
		out = append(out, rp)
	}

	last := valid[len(valid)-1]
	last.Pressure = 1
	return append(out, RenderPoint{Point: last})
}

// Path returns the outline of the smoothed stroke. Segments without controls
// fall back to a quadratic through the midpoint.
func Path(rps []RenderPoint) geom.Path {
	var p geom.Path
	if len(rps) == 0 {
		return p
	}
	p.MoveTo(rps[0].X, rps[0].Y)
	for i := 0; i+1 < len(rps); i++ {
		cur, next := rps[i], rps[i+1]
		if cur.HasControls {
			p.CubicTo(cur.Ctrl1.X, cur.Ctrl1.Y, cur.Ctrl2.X, cur.Ctrl2.Y, next.X, next.Y)
			continue
		}
		p.QuadTo(cur.X, cur.Y, (cur.X+next.X)/2, (cur.Y+next.Y)/2)
	}
	return p
}

// LineWidth is the width the whole stroke is painted with: the thickness of
// the last segment, or fallback when the points carry none.
func LineWidth(rps []RenderPoint, fallback float64) float64 {
	for i := len(rps) - 2; i >= 0; i-- {
		if rps[i].Thickness > 0 {
			return rps[i].Thickness
		}
	}
	return fallback
}
