package engine

import (
	"math"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/selection"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/view"
)

// Mouse buttons as reported by the browser.
const (
	ButtonPrimary = 0
	ButtonMiddle  = 1
)

// Wheel zoom steps.
const (
	zoomIn  = 1.1
	zoomOut = 0.9
)

// Modifiers are the modifier keys held during an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

// command reports whether the platform command key is held.
func (m Modifiers) command() bool { return m.Ctrl || m.Meta }

// PointerEvent is a mouse event. X and Y are CSS pixels relative to the
// canvas element.
type PointerEvent struct {
	X, Y   float64
	Button int
	Modifiers
}

// Touch is one finger, in CSS pixels relative to the canvas element.
type Touch struct {
	X, Y float64
}

// --- Mouse ---

// PointerDown starts a gesture. Shift or the middle button pans with any
// tool; in read-only mode nothing else is allowed.
func (e *Engine) PointerDown(ev PointerEvent) {
	defer e.guard("pointer down")

	pan := ev.Shift || ev.Button == ButtonMiddle
	if e.readonly && !pan {
		return
	}
	if e.g.mode != ModeIdle {
		e.finishGesture()
	}
	if pan {
		e.startPan(ev.X, ev.Y)
		return
	}
	e.begin(e.view.ToLogical(ev.X, ev.Y), ev.Modifiers)
}

// PointerMove advances the gesture in progress. With the select tool and no
// gesture it updates the cursor over resize handles.
func (e *Engine) PointerMove(ev PointerEvent) {
	defer e.guard("pointer move")

	if e.readonly && e.g.mode != ModePanning {
		return
	}
	if e.g.mode == ModePanning {
		c := e.view.ScreenToCanvas(ev.X, ev.Y)
		e.view.SetOffset(c.X-e.g.panOrigin.X, c.Y-e.g.panOrigin.Y)
		return
	}
	e.advance(e.view.ToLogical(ev.X, ev.Y))
}

// PointerUp finishes the gesture in progress.
func (e *Engine) PointerUp(ev PointerEvent) {
	defer e.guard("pointer up")

	if e.readonly && e.g.mode != ModePanning {
		return
	}
	e.finishGesture()
}

// PointerLeave commits a freehand stroke in progress and stops panning.
// Other gestures continue until the pointer is released.
func (e *Engine) PointerLeave() {
	defer e.guard("pointer leave")

	switch e.g.mode {
	case ModeFreehand:
		pts := e.g.points
		e.g = gesture{}
		e.commitStroke(pts)
	case ModePanning:
		e.g = gesture{}
		e.cursor = "default"
	}
}

// Wheel zooms around the pointer: in for a negative deltaY, out otherwise.
// It works in read-only mode.
func (e *Engine) Wheel(x, y, deltaY float64) {
	defer e.guard("wheel")

	if !geom.IsFinite(deltaY) || deltaY == 0 {
		return
	}
	factor := zoomOut
	if deltaY < 0 {
		factor = zoomIn
	}
	e.view.ZoomAt(x, y, factor)
}

// --- Touch ---

// TouchStart handles new fingers. Two fingers pan and pinch-zoom with any
// tool and abandon a one-finger gesture in progress; one finger acts like
// the primary mouse button.
func (e *Engine) TouchStart(touches []Touch) {
	defer e.guard("touch start")

	switch len(touches) {
	case 1:
		if e.readonly {
			return
		}
		if e.g.mode != ModeIdle {
			e.finishGesture()
		}
		e.begin(e.view.ToLogical(touches[0].X, touches[0].Y), Modifiers{})
	case 2:
		e.startPinch(touches[0], touches[1])
	}
}

// TouchMove advances the touch gesture.
func (e *Engine) TouchMove(touches []Touch) {
	defer e.guard("touch move")

	switch len(touches) {
	case 1:
		if e.readonly || e.g.mode == ModePanning {
			return
		}
		e.advance(e.view.ToLogical(touches[0].X, touches[0].Y))
	case 2:
		if e.g.mode != ModePanning || e.g.touchDist == 0 {
			e.startPinch(touches[0], touches[1])
			return
		}
		mid, dist := pinch(touches[0], touches[1])
		e.view.PanBy(mid.X-e.g.touchMid.X, mid.Y-e.g.touchMid.Y)
		if dist > 0 {
			e.view.ZoomAt(mid.X, mid.Y, view.PinchFactor(dist/e.g.touchDist))
			e.g.touchDist = dist
		}
		e.g.touchMid = mid
	}
}

// TouchEnd is called with the number of fingers still down. The gesture is
// finished when the last one lifts.
func (e *Engine) TouchEnd(remaining int) {
	defer e.guard("touch end")

	if remaining > 0 {
		return
	}
	if e.readonly && e.g.mode != ModePanning {
		return
	}
	e.finishGesture()
}

func pinch(a, b Touch) (mid geom.Point, dist float64) {
	return geom.Pt((a.X+b.X)/2, (a.Y+b.Y)/2), math.Hypot(a.X-b.X, a.Y-b.Y)
}

func (e *Engine) startPinch(a, b Touch) {
	e.abortGesture()
	mid, dist := pinch(a, b)
	if !mid.IsFinite() || !geom.IsFinite(dist) {
		return
	}
	e.g.mode = ModePanning
	e.g.touchMid = mid
	e.g.touchDist = dist
}

// --- Gestures ---

func (e *Engine) startPan(x, y float64) {
	c := e.view.ScreenToCanvas(x, y)
	e.g = gesture{mode: ModePanning}
	e.g.panOrigin = geom.Pt(c.X-e.view.OffsetX, c.Y-e.view.OffsetY)
	e.cursor = "grabbing"
}

// begin starts a tool gesture at logical position p.
func (e *Engine) begin(p geom.Point, mods Modifiers) {
	e.g = gesture{last: p}
	switch {
	case e.tool == ToolSelect:
		e.beginSelect(p, mods)
	case e.tool == ToolPen:
		e.g.mode = ModeFreehand
		e.g.points = []drawing.Point{{X: p.X, Y: p.Y, Color: e.color, Thickness: e.thickness}}
	default:
		e.g.mode = ModeShapePreview
		e.g.anchor = p
	}
}

// beginSelect resolves a press with the select tool, in order: a resize
// handle, the inside of the selection box, an entity, empty space.
func (e *Engine) beginSelect(p geom.Point, mods Modifiers) {
	entities := e.store.Entities()
	sel := e.selection.Indices()

	if box, ok := selection.BoundingBox(entities, sel); ok {
		if h, ok := selection.HandleAt(box, p); ok {
			e.g.mode = ModeResizing
			e.g.corner = h.Corner
			e.g.box = box
			e.g.edit = e.store.BeginResize(sel, box)
			e.cursor = h.Corner.Cursor()
			return
		}
		if box.Contains(p) {
			e.startMove()
			return
		}
	}

	i, hit := selection.HitTest(entities, p, sel)
	if !hit {
		if !mods.command() {
			e.selection.Clear()
			e.g.mode = ModeMarquee
			e.g.marquee = geom.Rect{X: p.X, Y: p.Y}
		}
		return
	}

	switch {
	case mods.command():
		e.selection.Toggle(i)
	case !e.selection.Contains(i):
		e.selection.Replace(i)
	}
	e.syncStyle()
	if e.selection.Contains(i) {
		e.startMove()
	}
}

func (e *Engine) startMove() {
	e.g.mode = ModeMoving
	e.g.edit = e.store.BeginMove(e.selection.Indices())
	e.cursor = "move"
}

// advance moves the gesture in progress to logical position p.
func (e *Engine) advance(p geom.Point) {
	switch e.g.mode {
	case ModeIdle:
		if e.tool == ToolSelect {
			e.hover(p)
		}
		return
	case ModeFreehand:
		e.addPoint(p)
	case ModeShapePreview:
		kind, ok := e.tool.ShapeKind()
		if !ok {
			return
		}
		e.g.preview = &drawing.Shape{
			Kind:      kind,
			X:         e.g.anchor.X,
			Y:         e.g.anchor.Y,
			Width:     p.X - e.g.anchor.X,
			Height:    p.Y - e.g.anchor.Y,
			Stroke:    e.color,
			LineWidth: e.thickness,
			Filled:    e.filled,
		}
	case ModeMarquee:
		e.g.marquee.Width = p.X - e.g.marquee.X
		e.g.marquee.Height = p.Y - e.g.marquee.Y
	case ModeMoving:
		e.g.edit.Translate(p.X-e.g.last.X, p.Y-e.g.last.Y)
	case ModeResizing:
		e.g.box = selection.DragHandle(e.g.corner, e.g.box, p.X-e.g.last.X, p.Y-e.g.last.Y)
		e.g.edit.ResizeTo(e.g.box)
	}
	e.g.last = p
}

func (e *Engine) hover(p geom.Point) {
	e.cursor = "default"
	box, ok := selection.BoundingBox(e.store.Entities(), e.selection.Indices())
	if !ok {
		return
	}
	if h, ok := selection.HandleAt(box, p); ok {
		e.cursor = h.Corner.Cursor()
	}
}

// addPoint records a pen sample. Pressure falls with the filtered pointer
// speed.
func (e *Engine) addPoint(p geom.Point) {
	v := p.Distance(e.g.last)
	if e.g.velocity != 0 {
		v = e.g.velocity*velocityWeight + v*(1-velocityWeight)
	}
	e.g.velocity = v
	e.g.points = append(e.g.points, drawing.Point{
		X:         p.X,
		Y:         p.Y,
		Pressure:  math.Max(0.1, 1-v/4),
		Thickness: e.thickness,
		Color:     e.color,
	})
}

// finishGesture commits whatever the gesture produced and returns to idle.
func (e *Engine) finishGesture() {
	g := e.g
	e.g = gesture{}
	e.cursor = "default"

	switch g.mode {
	case ModeFreehand:
		e.commitStroke(g.points)
	case ModeShapePreview:
		if g.preview != nil {
			e.commit(*g.preview)
		}
	case ModeMarquee:
		e.selection.Replace(selection.RectSelect(e.store.Entities(), g.marquee)...)
		e.syncStyle()
	case ModeMoving, ModeResizing:
		if g.edit != nil && g.edit.Commit() {
			e.logger.Debug("selection edited", "mode", g.mode, "count", e.selection.Len())
		}
		e.selection.Prune(e.store.Len())
	}
}

// commitStroke stores a freehand stroke when it has at least two points.
func (e *Engine) commitStroke(pts []drawing.Point) {
	if len(pts) < 2 {
		return
	}
	e.commit(drawing.NewStroke(pts))
}

func (e *Engine) commit(ent drawing.Entity) {
	before := e.store.Len()
	if err := e.store.Commit(ent); err != nil {
		e.logger.Debug("entity discarded", "error", err)
		return
	}
	// The cap evicted old entities and shifted every index.
	if e.store.Len() <= before {
		e.selection.Clear()
	}
}
