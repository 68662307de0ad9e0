package geom

import "math"

// PathOp is a single Canvas2D-style path verb.
type PathOp uint8

const (
	OpMoveTo PathOp = iota
	OpLineTo
	OpQuadTo
	OpCubicTo
	OpClose
)

// String returns the single-letter SVG/Canvas mnemonic for the verb.
func (op PathOp) String() string {
	switch op {
	case OpMoveTo:
		return "M"
	case OpLineTo:
		return "L"
	case OpQuadTo:
		return "Q"
	case OpCubicTo:
		return "C"
	case OpClose:
		return "Z"
	default:
		return "?"
	}
}

// Segment is one path verb with its points. MoveTo and LineTo use Pts[0],
// QuadTo uses Pts[0] (control) and Pts[1] (end), CubicTo uses all three.
type Segment struct {
	Op  PathOp
	Pts [3]Point
}

// Path is an ordered list of segments in logical coordinates.
type Path []Segment

func (p *Path) MoveTo(x, y float64) {
	*p = append(*p, Segment{Op: OpMoveTo, Pts: [3]Point{{X: x, Y: y}}})
}

func (p *Path) LineTo(x, y float64) {
	*p = append(*p, Segment{Op: OpLineTo, Pts: [3]Point{{X: x, Y: y}}})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	*p = append(*p, Segment{Op: OpQuadTo, Pts: [3]Point{{X: cx, Y: cy}, {X: x, Y: y}}})
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	*p = append(*p, Segment{Op: OpCubicTo, Pts: [3]Point{{X: c1x, Y: c1y}, {X: c2x, Y: c2y}, {X: x, Y: y}}})
}

func (p *Path) Close() {
	*p = append(*p, Segment{Op: OpClose})
}

// Rect appends a closed rectangle. Negative sizes are drawn as given.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Ellipse appends an ellipse centred on (cx, cy) built from four cubic
// Béziers.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Polygon appends a closed regular polygon with the first vertex at startAngle.
func (p *Path) Polygon(cx, cy, radius float64, sides int, startAngle float64) {
	if sides < 3 {
		return
	}
	for i := 0; i < sides; i++ {
		angle := startAngle + float64(i)*2*math.Pi/float64(sides)
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
}

// Star appends a closed star with the given number of points, tip up.
func (p *Path) Star(cx, cy, outer, inner float64, points int) {
	if points < 2 {
		return
	}
	for i := 0; i < points*2; i++ {
		angle := float64(i)*math.Pi/float64(points) - math.Pi/2
		r := outer
		if i%2 == 1 {
			r = inner
		}
		x := cx + r*math.Cos(angle)
		y := cy + r*math.Sin(angle)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
}

// Bounds returns the bounding box of every point in the path, control points
// included. ok is false for a path without points.
func (p Path) Bounds() (Rect, bool) {
	var pts []Point
	for _, seg := range p {
		switch seg.Op {
		case OpMoveTo, OpLineTo:
			pts = append(pts, seg.Pts[0])
		case OpQuadTo:
			pts = append(pts, seg.Pts[0], seg.Pts[1])
		case OpCubicTo:
			pts = append(pts, seg.Pts[:]...)
		}
	}
	return BoundsOf(pts)
}

// Finite reports whether every coordinate in the path is finite.
func (p Path) Finite() bool {
	for _, seg := range p {
		for _, pt := range seg.Pts {
			if !pt.IsFinite() {
				return false
			}
		}
	}
	return true
}
