// Package view holds the transform context of the canvas: the pan offset and
// zoom scale that map the fixed logical field onto device pixels.
package view

import (
	"math"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

const (
	DefaultFieldWidth     = 800
	DefaultFieldHeight    = 400
	DefaultMinScale       = 0.1
	DefaultMaxScale       = 10
	DefaultMaxPanDistance = 500

	// fitMargin leaves a small border around the field after a reset.
	fitMargin = 0.95

	// pinchDamping is the share of a two-finger distance change that is
	// applied to the scale.
	pinchDamping = 0.1
)

// Viewport maps between three spaces: CSS pixels of the canvas element
// (screen), device pixels of its backing store (canvas) and logical field
// units. canvas = logical*Scale + Offset.
type Viewport struct {
	// Logical field size
	FieldWidth  float64
	FieldHeight float64

	// Element size in CSS pixels and the device pixel ratio
	CSSWidth  float64
	CSSHeight float64
	DPR       float64

	// Backing store size in device pixels
	CanvasWidth  float64
	CanvasHeight float64

	// Pan and zoom, in device pixels
	Scale   float64
	OffsetX float64
	OffsetY float64

	MinScale       float64
	MaxScale       float64
	MaxPanDistance float64
}

// New creates a viewport for a field of the given size. It has no screen
// size until Resize is called.
func New(fieldWidth, fieldHeight float64) *Viewport {
	if fieldWidth <= 0 || !geom.IsFinite(fieldWidth) {
		fieldWidth = DefaultFieldWidth
	}
	if fieldHeight <= 0 || !geom.IsFinite(fieldHeight) {
		fieldHeight = DefaultFieldHeight
	}
	return &Viewport{
		FieldWidth:     fieldWidth,
		FieldHeight:    fieldHeight,
		DPR:            1,
		Scale:          1,
		MinScale:       DefaultMinScale,
		MaxScale:       DefaultMaxScale,
		MaxPanDistance: DefaultMaxPanDistance,
	}
}

// Resize sets the element size and pixel ratio, recomputes the backing store
// size and resets the view.
func (v *Viewport) Resize(cssWidth, cssHeight, dpr float64) {
	if dpr <= 0 || !geom.IsFinite(dpr) {
		dpr = 1
	}
	v.CSSWidth = math.Max(0, geom.Finite(cssWidth, 0))
	v.CSSHeight = math.Max(0, geom.Finite(cssHeight, 0))
	v.DPR = dpr
	// The backing store has integer dimensions.
	v.CanvasWidth = math.Floor(v.CSSWidth * dpr)
	v.CanvasHeight = math.Floor(v.CSSHeight * dpr)

	v.ResetView()
	v.ApplyPanLimits()
}

// ResetView fits the field into the element and centres the origin.
func (v *Viewport) ResetView() {
	w := v.CSSWidth * v.DPR
	h := v.CSSHeight * v.DPR
	scale := math.Min(w/v.FieldWidth, h/v.FieldHeight) * fitMargin
	if !geom.IsFinite(scale) || scale <= 0 {
		scale = 1
	}
	v.Scale = scale
	v.OffsetX = w / 2
	v.OffsetY = h / 2
}

// cssScale is CSS pixels per device pixel.
func (v *Viewport) cssScale() float64 {
	if v.CanvasWidth <= 0 || v.CSSWidth <= 0 {
		return 1 / v.DPR
	}
	return v.CSSWidth / v.CanvasWidth
}

func (v *Viewport) safeScale() float64 {
	return geom.Clamp(geom.Finite(v.Scale, 1), v.MinScale, v.MaxScale)
}

func (v *Viewport) safeOffset() (float64, float64) {
	return geom.Finite(v.OffsetX, 0), geom.Finite(v.OffsetY, 0)
}

// ScreenToCanvas converts CSS pixels to device pixels.
func (v *Viewport) ScreenToCanvas(sx, sy float64) geom.Point {
	k := v.cssScale()
	return geom.Pt(sx/k, sy/k)
}

// ToLogical converts a position in CSS pixels, relative to the canvas
// element, to logical field coordinates. Non-finite input or output yields
// the origin.
func (v *Viewport) ToLogical(sx, sy float64) geom.Point {
	if !geom.IsFinite(sx) || !geom.IsFinite(sy) {
		return geom.Point{}
	}
	c := v.ScreenToCanvas(sx, sy)
	ox, oy := v.safeOffset()
	s := v.safeScale()
	return geom.Pt(geom.Finite((c.X-ox)/s, 0), geom.Finite((c.Y-oy)/s, 0))
}

// ToScreen converts logical field coordinates to CSS pixels.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	ox, oy := v.safeOffset()
	s := v.safeScale()
	k := v.cssScale()
	return geom.Pt((p.X*s+ox)*k, (p.Y*s+oy)*k)
}

// ZoomAt multiplies the scale by factor, keeping the logical point under
// (sx, sy) in place, then reapplies the pan limits.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	if !geom.IsFinite(sx) || !geom.IsFinite(sy) || !geom.IsFinite(factor) || factor <= 0 {
		return
	}
	anchor := v.ToLogical(sx, sy)
	c := v.ScreenToCanvas(sx, sy)

	v.Scale = geom.Clamp(v.safeScale()*factor, v.MinScale, v.MaxScale)
	v.OffsetX = c.X - anchor.X*v.Scale
	v.OffsetY = c.Y - anchor.Y*v.Scale
	v.ApplyPanLimits()
}

// PinchFactor damps the ratio between two successive finger distances.
func PinchFactor(ratio float64) float64 {
	if !geom.IsFinite(ratio) || ratio <= 0 {
		return 1
	}
	return 1 + (ratio-1)*pinchDamping
}

// PanBy moves the view by (dx, dy) CSS pixels.
func (v *Viewport) PanBy(dx, dy float64) {
	if !geom.IsFinite(dx) || !geom.IsFinite(dy) {
		return
	}
	d := v.ScreenToCanvas(dx, dy)
	v.OffsetX += d.X
	v.OffsetY += d.Y
	v.ApplyPanLimits()
}

// SetOffset places the logical origin at (x, y) device pixels.
func (v *Viewport) SetOffset(x, y float64) {
	v.OffsetX = geom.Finite(x, v.OffsetX)
	v.OffsetY = geom.Finite(y, v.OffsetY)
	v.ApplyPanLimits()
}

// Center is the middle of the backing store.
func (v *Viewport) Center() geom.Point {
	return geom.Pt(v.CanvasWidth/2, v.CanvasHeight/2)
}

// ApplyPanLimits pulls the offset back along its direction from the canvas
// centre until it is at most MaxPanDistance away.
func (v *Viewport) ApplyPanLimits() {
	ox, oy := v.safeOffset()
	c := v.Center()
	dx, dy := ox-c.X, oy-c.Y
	dist := math.Hypot(dx, dy)
	if dist > v.MaxPanDistance {
		ratio := v.MaxPanDistance / dist
		ox = c.X + dx*ratio
		oy = c.Y + dy*ratio
	}
	v.OffsetX, v.OffsetY = ox, oy
}

// ClampScale forces Scale into [MinScale, MaxScale]. It reports whether the
// scale had to change.
func (v *Viewport) ClampScale() bool {
	s := v.safeScale()
	if s == v.Scale {
		return false
	}
	v.Scale = s
	return true
}

// Matrix is the logical-to-canvas transform.
func (v *Viewport) Matrix() geom.Matrix2D {
	ox, oy := v.safeOffset()
	s := v.safeScale()
	return geom.Translate(ox, oy).Multiply(geom.Scale(s, s))
}

// FieldRect is the field in logical coordinates, centred on the origin.
func (v *Viewport) FieldRect() geom.Rect {
	return geom.Rect{X: -v.FieldWidth / 2, Y: -v.FieldHeight / 2, Width: v.FieldWidth, Height: v.FieldHeight}
}

// State is the persisted part of the view.
type State struct {
	Scale        float64
	OffsetX      float64
	OffsetY      float64
	CanvasWidth  float64
	CanvasHeight float64
}

// Snapshot returns the current view state.
func (v *Viewport) Snapshot() State {
	return State{
		Scale:        v.Scale,
		OffsetX:      v.OffsetX,
		OffsetY:      v.OffsetY,
		CanvasWidth:  v.CanvasWidth,
		CanvasHeight: v.CanvasHeight,
	}
}

// Restore applies a saved view. When the saved canvas size is known the
// offset is rescaled by the ratio of the current size to the saved one, and
// adjusted reports true. The scale is clamped and pan limits are reapplied
// either way.
func (v *Viewport) Restore(st State) (adjusted bool) {
	v.Scale = st.Scale
	if v.Scale == 0 || !geom.IsFinite(v.Scale) {
		v.Scale = 1
	}
	v.ClampScale()
	if st.CanvasWidth > 0 && st.CanvasHeight > 0 && geom.IsFinite(st.CanvasWidth) && geom.IsFinite(st.CanvasHeight) {
		v.OffsetX = geom.Finite(st.OffsetX, 0) * (v.CanvasWidth / st.CanvasWidth)
		v.OffsetY = geom.Finite(st.OffsetY, 0) * (v.CanvasHeight / st.CanvasHeight)
		adjusted = true
	} else {
		v.OffsetX = geom.Finite(st.OffsetX, 0)
		v.OffsetY = geom.Finite(st.OffsetY, 0)
	}
	v.ApplyPanLimits()
	return adjusted
}
