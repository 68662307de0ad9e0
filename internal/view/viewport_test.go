package view

import (
	"math"
	"testing"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestViewport() *Viewport {
	v := New(DefaultFieldWidth, DefaultFieldHeight)
	v.Resize(800, 400, 2)
	return v
}

func TestResizeResetsView(t *testing.T) {
	v := newTestViewport()
	if v.CanvasWidth != 1600 || v.CanvasHeight != 800 {
		t.Fatalf("canvas = %vx%v, want 1600x800", v.CanvasWidth, v.CanvasHeight)
	}
	if !near(v.Scale, 2*0.95, 1e-12) {
		t.Errorf("Scale = %v, want 1.9", v.Scale)
	}
	if v.OffsetX != 800 || v.OffsetY != 400 {
		t.Errorf("offset = (%v,%v), want canvas centre", v.OffsetX, v.OffsetY)
	}
}

func TestToLogicalRoundTrip(t *testing.T) {
	v := newTestViewport()
	v.ZoomAt(300, 120, 1.7)

	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: -400, Y: 200}, {X: 123.456, Y: -78.9}} {
		back := v.ToLogical(v.ToScreen(p).X, v.ToScreen(p).Y)
		if !near(back.X, p.X, 1e-9) || !near(back.Y, p.Y, 1e-9) {
			t.Errorf("round trip of %+v = %+v", p, back)
		}
	}
}

func TestToLogicalNonFinite(t *testing.T) {
	v := newTestViewport()
	for _, in := range [][2]float64{{math.NaN(), 1}, {1, math.Inf(1)}, {math.Inf(-1), math.NaN()}} {
		if got := v.ToLogical(in[0], in[1]); got != (geom.Point{}) {
			t.Errorf("ToLogical(%v) = %+v, want origin", in, got)
		}
	}

	v.OffsetX = math.NaN()
	if got := v.ToLogical(10, 10); !got.IsFinite() {
		t.Errorf("NaN offset leaked: %+v", got)
	}
}

func TestZoomKeepsCursorPoint(t *testing.T) {
	v := New(DefaultFieldWidth, DefaultFieldHeight)
	v.Resize(800, 400, 1)
	v.Scale = 1

	tests := []struct {
		name   string
		sx, sy float64
	}{
		{"container centre", 400, 200},
		{"off centre", 450, 220},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.Scale = 1
			v.OffsetX, v.OffsetY = 400, 200
			before := v.ToLogical(tt.sx, tt.sy)

			v.ZoomAt(tt.sx, tt.sy, 1.1)

			if !near(v.Scale, 1.1, 1e-12) {
				t.Errorf("Scale = %v, want 1.1", v.Scale)
			}
			after := v.ToLogical(tt.sx, tt.sy)
			if !near(before.X, after.X, 1e-6) || !near(before.Y, after.Y, 1e-6) {
				t.Errorf("point under cursor moved from %+v to %+v", before, after)
			}
		})
	}
}

func TestZoomInverse(t *testing.T) {
	v := newTestViewport()
	scale, ox, oy := v.Scale, v.OffsetX, v.OffsetY

	v.ZoomAt(350, 180, 1.25)
	v.ZoomAt(350, 180, 1/1.25)

	if !near(v.Scale, scale, 1e-9) || !near(v.OffsetX, ox, 1e-9) || !near(v.OffsetY, oy, 1e-9) {
		t.Errorf("after zoom in/out: scale %v offset (%v,%v), want %v (%v,%v)", v.Scale, v.OffsetX, v.OffsetY, scale, ox, oy)
	}
}

func TestZoomClampsScale(t *testing.T) {
	v := newTestViewport()
	for i := 0; i < 100; i++ {
		v.ZoomAt(400, 200, 1.1)
	}
	if v.Scale != DefaultMaxScale {
		t.Errorf("Scale = %v, want %v", v.Scale, DefaultMaxScale)
	}
	for i := 0; i < 200; i++ {
		v.ZoomAt(400, 200, 0.9)
	}
	if v.Scale != DefaultMinScale {
		t.Errorf("Scale = %v, want %v", v.Scale, DefaultMinScale)
	}
}

func TestApplyPanLimits(t *testing.T) {
	v := newTestViewport()
	c := v.Center()
	v.OffsetX = c.X + 3000
	v.OffsetY = c.Y + 4000

	v.ApplyPanLimits()
	once := geom.Pt(v.OffsetX, v.OffsetY)
	if d := once.Distance(c); !near(d, DefaultMaxPanDistance, 1e-9) {
		t.Errorf("distance after limit = %v", d)
	}
	// direction preserved
	if !near(once.X-c.X, 300, 1e-9) || !near(once.Y-c.Y, 400, 1e-9) {
		t.Errorf("offset = %+v", once)
	}

	v.ApplyPanLimits()
	if v.OffsetX != once.X || v.OffsetY != once.Y {
		t.Errorf("second application moved offset to (%v,%v)", v.OffsetX, v.OffsetY)
	}
}

func TestClampScale(t *testing.T) {
	v := newTestViewport()
	v.Scale = 40
	if !v.ClampScale() || v.Scale != DefaultMaxScale {
		t.Errorf("ClampScale: scale = %v", v.Scale)
	}
	if v.ClampScale() {
		t.Error("second ClampScale should report no change")
	}
}

func TestRestoreRescalesOffset(t *testing.T) {
	v := newTestViewport()
	adjusted := v.Restore(State{Scale: 1.5, OffsetX: 400, OffsetY: 200, CanvasWidth: 800, CanvasHeight: 400})
	if !adjusted {
		t.Fatal("expected size adjustment")
	}
	if v.OffsetX != 800 || v.OffsetY != 400 || v.Scale != 1.5 {
		t.Errorf("restored view = %+v", v.Snapshot())
	}

	if v.Restore(State{Scale: 2, OffsetX: 810, OffsetY: 390}) {
		t.Error("no stored size should not adjust")
	}
	if v.OffsetX != 810 || v.OffsetY != 390 {
		t.Errorf("offset = (%v,%v)", v.OffsetX, v.OffsetY)
	}
}

func TestRestoreClampsScale(t *testing.T) {
	v := newTestViewport()
	v.Restore(State{Scale: 50, OffsetX: 400, OffsetY: 200})
	if v.Scale != DefaultMaxScale {
		t.Errorf("scale = %v, want %v", v.Scale, DefaultMaxScale)
	}
	v.Restore(State{Scale: 0.001, OffsetX: 400, OffsetY: 200})
	if v.Scale != DefaultMinScale {
		t.Errorf("scale = %v, want %v", v.Scale, DefaultMinScale)
	}
	if v.Snapshot().Scale != v.Scale {
		t.Error("snapshot disagrees with the clamped scale")
	}
}

func TestPinchFactor(t *testing.T) {
	if got := PinchFactor(2); !near(got, 1.1, 1e-12) {
		t.Errorf("PinchFactor(2) = %v", got)
	}
	if got := PinchFactor(math.NaN()); got != 1 {
		t.Errorf("PinchFactor(NaN) = %v", got)
	}
}
