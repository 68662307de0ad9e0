package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/selection"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/smooth"
)

const (
	BackgroundColor = "#ffffff"
	SelectionColor  = "#0066ff"
	HighlightColor  = "#ffffff"
	GridColor       = "#e0e0e0"
	AxisColor       = "#a0a0a0"
	GridSpacing     = 50

	DefaultColor     = "#000000"
	DefaultThickness = 3
)

var dash = []float64{5, 5}

var errNonFinite = errors.New("non-finite path")

// Frame is everything one repaint needs. The engine builds a new Frame for
// every repaint and never changes it afterwards.
type Frame struct {
	View         geom.Matrix2D
	CanvasWidth  float64
	CanvasHeight float64

	// Field is where the background image goes, in logical coordinates.
	Field      geom.Rect
	Background *Image
	Grid       bool

	Entities []drawing.Entity
	Selected []int

	// InProgress is the stroke being drawn, Preview the shape being dragged.
	InProgress []drawing.Point
	Preview    *drawing.Shape

	// Marquee is the rectangle being dragged out. SelectionBox is the box of
	// a settled selection and gets resize handles.
	Marquee      *geom.Rect
	SelectionBox *geom.Rect
}

// Renderer paints frames. It keeps no per-frame state.
type Renderer struct {
	Smoothing smooth.Options
	logger    *slog.Logger
}

// NewRenderer creates a renderer with the default smoothing.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{Smoothing: smooth.DefaultOptions(), logger: logger}
}

// Render paints f onto c: background, grid, field image, unselected
// entities, selected entities with highlight, the gesture in progress, the
// marquee or selection box and its handles. An entity that fails to draw is
// logged and skipped. It returns the number of entities that failed.
func (r *Renderer) Render(c Canvas, f Frame) (failed int) {
	c.Clear(BackgroundColor)
	c.SetTransform(f.View)

	if f.Grid {
		r.guard("grid", -1, func() error { return r.drawGrid(c, f) })
	}
	if f.Background != nil {
		c.DrawImage(*f.Background, f.Field)
	}

	selected := make(map[int]bool, len(f.Selected))
	for _, i := range f.Selected {
		selected[i] = true
	}

	for i, e := range f.Entities {
		if selected[i] {
			continue
		}
		if !r.guard("entity", i, func() error { return r.drawEntity(c, e, false) }) {
			failed++
		}
	}
	for _, i := range f.Selected {
		if i < 0 || i >= len(f.Entities) {
			continue
		}
		e := f.Entities[i]
		if !r.guard("selected entity", i, func() error { return r.drawEntity(c, e, true) }) {
			failed++
		}
	}

	if len(f.InProgress) > 1 {
		r.guard("stroke in progress", -1, func() error { return r.drawStroke(c, f.InProgress, false) })
	}
	if f.Preview != nil {
		r.guard("preview", -1, func() error { return r.drawShape(c, *f.Preview, false, true) })
	}

	switch {
	case f.Marquee != nil:
		r.drawBox(c, *f.Marquee)
	case f.SelectionBox != nil && len(f.Selected) > 0:
		r.drawBox(c, *f.SelectionBox)
		r.drawHandles(c, *f.SelectionBox)
	}
	return failed
}

// guard runs fn and turns both errors and panics into a log line.
func (r *Renderer) guard(what string, index int, fn func() error) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("draw failed", "what", what, "index", index, "panic", rec)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		r.logger.Warn("draw skipped", "what", what, "index", index, "error", err)
		return false
	}
	return true
}

func (r *Renderer) drawEntity(c Canvas, e drawing.Entity, selected bool) error {
	switch v := e.(type) {
	case drawing.Stroke:
		return r.drawStroke(c, v.Points, selected)
	case drawing.Shape:
		return r.drawShape(c, v, selected, false)
	case nil:
		return fmt.Errorf("nil entity")
	}
	return fmt.Errorf("unknown entity %T", e)
}

// halos returns the selection highlight styles: a translucent blue halo
// under the entity and a translucent white one on top of it.
func halos(thickness float64) (outer, inner Style) {
	outer = Style{Color: SelectionColor, LineWidth: math.Min(thickness+4, thickness*1.2), Alpha: 0.3, Round: true}
	inner = Style{Color: HighlightColor, LineWidth: math.Min(thickness+2, thickness*1.1), Alpha: 0.5, Round: true}
	return outer, inner
}

func (r *Renderer) drawStroke(c Canvas, pts []drawing.Point, selected bool) error {
	rps := smooth.Smooth(pts, r.Smoothing)
	if len(rps) < 2 {
		return nil
	}
	path := smooth.Path(rps)
	if !path.Finite() {
		return errNonFinite
	}

	base := rps[0].Point
	color := base.Color
	if color == "" {
		color = DefaultColor
	}
	thickness := base.Thickness
	if thickness <= 0 {
		thickness = DefaultThickness
	}

	outer, inner := halos(thickness)
	if selected {
		c.StrokePath(path, outer)
	}
	c.StrokePath(path, Style{Color: color, LineWidth: smooth.LineWidth(rps, thickness), Round: true})
	if selected {
		c.StrokePath(path, inner)
	}
	return nil
}

func (r *Renderer) drawShape(c Canvas, s drawing.Shape, selected, preview bool) error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if !path.Finite() {
		return errNonFinite
	}

	outer, inner := halos(s.LineWidth)
	if selected {
		c.StrokePath(path, outer)
	}

	st := Style{Color: s.Stroke, LineWidth: s.LineWidth}
	if preview {
		st.Dash = dash
		st.Alpha = 0.6
		if s.Filled {
			st.Alpha = 0.3
		}
	}
	if s.Filled {
		c.FillPath(path, st)
	}
	c.StrokePath(path, st)

	if selected {
		c.StrokePath(path, inner)
	}
	return nil
}

func (r *Renderer) drawBox(c Canvas, box geom.Rect) {
	var p geom.Path
	p.Rect(box.X, box.Y, box.Width, box.Height)
	if !p.Finite() {
		return
	}
	c.StrokePath(p, Style{Color: SelectionColor, LineWidth: 1, Dash: dash})
}

func (r *Renderer) drawHandles(c Canvas, box geom.Rect) {
	for _, h := range selection.Handles(box.Normalize()) {
		var p geom.Path
		p.Rect(h.Rect.X, h.Rect.Y, h.Rect.Width, h.Rect.Height)
		c.FillPath(p, Style{Color: HighlightColor})
		c.StrokePath(p, Style{Color: SelectionColor, LineWidth: 2})
	}
}

// drawGrid rules the visible part of the plane every GridSpacing units and
// draws the two axes through the origin.
func (r *Renderer) drawGrid(c Canvas, f Frame) error {
	if f.CanvasWidth <= 0 || f.CanvasHeight <= 0 {
		return nil
	}
	vis := f.View.Invert().ApplyRect(geom.Rect{Width: f.CanvasWidth, Height: f.CanvasHeight})
	if !vis.Min().IsFinite() || !vis.Max().IsFinite() {
		return errNonFinite
	}

	left := math.Floor(vis.X/GridSpacing) * GridSpacing
	top := math.Floor(vis.Y/GridSpacing) * GridSpacing
	right := vis.X + vis.Width
	bottom := vis.Y + vis.Height

	var grid geom.Path
	for x := left; x <= right; x += GridSpacing {
		grid.MoveTo(x, top)
		grid.LineTo(x, bottom)
	}
	for y := top; y <= bottom; y += GridSpacing {
		grid.MoveTo(left, y)
		grid.LineTo(right, y)
	}
	c.StrokePath(grid, Style{Color: GridColor, LineWidth: 1})

	var axes geom.Path
	axes.MoveTo(left, 0)
	axes.LineTo(right, 0)
	axes.MoveTo(0, top)
	axes.LineTo(0, bottom)
	c.StrokePath(axes, Style{Color: AxisColor, LineWidth: 2})
	return nil
}
