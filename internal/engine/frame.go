package engine

import (
	"slices"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/render"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/selection"
)

// Frame takes the snapshot the renderer paints.
func (e *Engine) Frame() render.Frame {
	entities := e.store.Entities()
	f := render.Frame{
		View:         e.view.Matrix(),
		CanvasWidth:  e.view.CanvasWidth,
		CanvasHeight: e.view.CanvasHeight,
		Field:        e.view.FieldRect(),
		Background:   e.background,
		Grid:         e.grid,
		Entities:     entities,
		Selected:     e.selection.Indices(),
	}

	switch e.g.mode {
	case ModeFreehand:
		f.InProgress = slices.Clone(e.g.points)
	case ModeShapePreview:
		if e.g.preview != nil {
			p := *e.g.preview
			f.Preview = &p
		}
	case ModeMarquee:
		m := e.g.marquee
		f.Marquee = &m
	}
	if f.Marquee == nil {
		if box, ok := selection.BoundingBox(entities, f.Selected); ok {
			f.SelectionBox = &box
		}
	}
	return f
}

// RenderTo paints the current frame onto c and returns the number of
// entities that could not be drawn.
func (e *Engine) RenderTo(c render.Canvas) (failed int) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render failed", "panic", r)
			failed = -1
		}
	}()
	return e.renderer.Render(c, e.Frame())
}

// Render paints the current frame and returns the draw commands as JSON for
// the page's Canvas2D executor.
func (e *Engine) Render() string {
	e.recorder.Reset()
	if e.RenderTo(e.recorder) < 0 {
		return "[]"
	}
	out, err := render.DrawCommandsToJSON(e.recorder.Commands())
	if err != nil {
		e.logger.Error("encode draw commands failed", "error", err)
		return "[]"
	}
	return out
}
