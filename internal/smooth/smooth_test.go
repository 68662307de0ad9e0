package smooth

import (
	"math"
	"testing"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSmoothSegment(t *testing.T) {
	pts := []drawing.Point{
		{X: 0, Y: 0, Thickness: 4, Color: "#000000"},
		{X: 10, Y: 0, Thickness: 4, Color: "#000000"},
	}
	got := Smooth(pts, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if !first.HasControls {
		t.Fatal("first point should carry controls")
	}
	if !near(first.Ctrl1.X, 5) || !near(first.Ctrl1.Y, 0) {
		t.Errorf("ctrl1 = %+v, want (5,0)", first.Ctrl1)
	}
	if !near(first.Ctrl2.X, 5) || !near(first.Ctrl2.Y, 0) {
		t.Errorf("ctrl2 = %+v, want (5,0)", first.Ctrl2)
	}
	// magnitude 10 -> velocity 4 -> pressure clamps at 0.1
	if !near(first.Pressure, 0.1) {
		t.Errorf("pressure = %v, want 0.1", first.Pressure)
	}
	if !near(first.Thickness, 4*(1-0.5*0.9)) {
		t.Errorf("thickness = %v", first.Thickness)
	}

	last := got[1]
	if last.HasControls || last.Pressure != 1 || last.Thickness != 4 {
		t.Errorf("last point = %+v", last)
	}
}

func TestSmoothSlowSegmentKeepsThickness(t *testing.T) {
	pts := []drawing.Point{{X: 0, Y: 0, Thickness: 3}, {X: 0, Y: 0.0001, Thickness: 3}}
	got := Smooth(pts, DefaultOptions())
	if got[0].Thickness < 2.99 {
		t.Errorf("slow segment thinned to %v", got[0].Thickness)
	}
}

func TestSmoothDegenerateInput(t *testing.T) {
	if got := Smooth(nil, DefaultOptions()); len(got) != 0 {
		t.Errorf("nil input gave %d points", len(got))
	}

	one := []drawing.Point{{X: 1, Y: 2, Thickness: 3}}
	got := Smooth(one, DefaultOptions())
	if len(got) != 1 || got[0].HasControls || got[0].Point != one[0] {
		t.Errorf("single point = %+v", got)
	}
}

func TestSmoothSkipsInvalidPoints(t *testing.T) {
	pts := []drawing.Point{
		{X: 0, Y: 0, Thickness: 3},
		{X: math.NaN(), Y: 4, Thickness: 3},
		{X: 10, Y: 0, Thickness: 3},
		{X: 20, Y: math.Inf(1), Thickness: 3},
	}
	got := Smooth(pts, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 valid points", len(got))
	}
	if got[1].X != 10 {
		t.Errorf("last point = %+v", got[1])
	}
}

func TestPathUsesCubics(t *testing.T) {
	pts := []drawing.Point{{X: 0, Y: 0, Thickness: 3}, {X: 10, Y: 0, Thickness: 3}, {X: 10, Y: 10, Thickness: 3}}
	p := Path(Smooth(pts, DefaultOptions()))
	if len(p) != 3 {
		t.Fatalf("segments = %d, want 3", len(p))
	}
	if p[0].Op != geom.OpMoveTo || p[1].Op != geom.OpCubicTo || p[2].Op != geom.OpCubicTo {
		t.Errorf("ops = %v %v %v", p[0].Op, p[1].Op, p[2].Op)
	}
	if end := p[2].Pts[2]; end != geom.Pt(10, 10) {
		t.Errorf("path ends at %+v", end)
	}
}

func TestLineWidthFallback(t *testing.T) {
	if got := LineWidth(nil, 3); got != 3 {
		t.Errorf("LineWidth(nil) = %v", got)
	}
}
