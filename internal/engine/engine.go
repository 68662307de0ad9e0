// Package engine is the interaction layer of the field canvas. It turns
// pointer, touch, wheel and keyboard input into changes of the view, the
// drawing and the selection, and builds the frame the renderer paints.
//
// An Engine is driven from a single event loop and is not safe for
// concurrent use.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/render"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/selection"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/view"
)

const (
	DefaultColor     = render.DefaultColor
	DefaultThickness = render.DefaultThickness

	// velocityWeight is the share of the previous velocity kept when a new
	// pen sample arrives.
	velocityWeight = 0.7
)

// Engine owns the drawing, the view and the selection of one canvas.
type Engine struct {
	logger    *slog.Logger
	status    func(msg string)
	styleSync func(color string, thickness float64)
	now       func() time.Time

	view      *view.Viewport
	store     *drawing.Store
	selection selection.Set
	renderer  *render.Renderer
	recorder  *render.Recorder

	tool       Tool
	color      string
	thickness  float64
	filled     bool
	readonly   bool
	grid       bool
	background *render.Image

	clipboard []drawing.Entity
	cursor    string

	g gesture
}

// gesture is the state of the pointer gesture in progress.
type gesture struct {
	mode Mode

	// last pointer position in logical units
	last geom.Point

	// freehand
	points   []drawing.Point
	velocity float64

	// shape preview
	anchor  geom.Point
	preview *drawing.Shape

	// marquee, kept unnormalized so it follows the drag direction
	marquee geom.Rect

	// move and resize
	edit   *drawing.Edit
	corner selection.Corner
	box    geom.Rect

	// panning, in device pixels
	panOrigin geom.Point
	touchMid  geom.Point
	touchDist float64
}

type config struct {
	logger      *slog.Logger
	status      func(string)
	styleSync   func(string, float64)
	now         func() time.Time
	fieldWidth  float64
	fieldHeight float64
	maxEntities int
	readonly    bool
	color       string
	thickness   float64
	maxPan      float64
	grid        bool
}

// Option configures an Engine.
type Option func(*config)

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStatus sets the callback for short user-visible messages.
func WithStatus(fn func(msg string)) Option {
	return func(c *config) { c.status = fn }
}

// WithStyleSync sets the callback that mirrors the style of the selection
// into the page controls.
func WithStyleSync(fn func(color string, thickness float64)) Option {
	return func(c *config) { c.styleSync = fn }
}

// WithFieldSize sets the logical field size.
func WithFieldSize(width, height float64) Option {
	return func(c *config) { c.fieldWidth, c.fieldHeight = width, height }
}

// WithMaxEntities overrides the entity cap.
func WithMaxEntities(n int) Option {
	return func(c *config) { c.maxEntities = n }
}

// WithMaxPanDistance overrides how far the origin may be dragged from the
// canvas centre, in device pixels.
func WithMaxPanDistance(d float64) Option {
	return func(c *config) { c.maxPan = d }
}

// WithReadonly starts the engine in read-only mode.
func WithReadonly(readonly bool) Option {
	return func(c *config) { c.readonly = readonly }
}

// WithStyle sets the initial pen color and thickness.
func WithStyle(color string, thickness float64) Option {
	return func(c *config) { c.color, c.thickness = color, thickness }
}

// WithGrid turns the grid and axes on or off.
func WithGrid(on bool) Option {
	return func(c *config) { c.grid = on }
}

// WithClock replaces time.Now for save timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates an engine with an empty drawing and the pen tool.
func New(opts ...Option) *Engine {
	cfg := config{
		fieldWidth:  view.DefaultFieldWidth,
		fieldHeight: view.DefaultFieldHeight,
		maxEntities: drawing.DefaultMaxEntities,
		color:       DefaultColor,
		thickness:   DefaultThickness,
		grid:        true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.thickness <= 0 || !geom.IsFinite(cfg.thickness) {
		cfg.thickness = DefaultThickness
	}
	if cfg.color == "" {
		cfg.color = DefaultColor
	}

	e := &Engine{
		logger:    cfg.logger,
		status:    cfg.status,
		styleSync: cfg.styleSync,
		now:       cfg.now,
		view:      view.New(cfg.fieldWidth, cfg.fieldHeight),
		renderer:  render.NewRenderer(cfg.logger),
		recorder:  render.NewRecorder(),
		tool:      ToolPen,
		color:     cfg.color,
		thickness: cfg.thickness,
		readonly:  cfg.readonly,
		grid:      cfg.grid,
		cursor:    "default",
	}
	if cfg.maxPan > 0 {
		e.view.MaxPanDistance = cfg.maxPan
	}
	e.store = drawing.NewStore(
		drawing.WithMaxEntities(cfg.maxEntities),
		drawing.WithNotifier(e.notify),
		drawing.WithLogger(cfg.logger),
	)
	return e
}

// --- Queries ---

func (e *Engine) Tool() Tool         { return e.tool }
func (e *Engine) Mode() Mode         { return e.g.mode }
func (e *Engine) Color() string      { return e.color }
func (e *Engine) Thickness() float64 { return e.thickness }
func (e *Engine) Filled() bool       { return e.filled }
func (e *Engine) Readonly() bool     { return e.readonly }
func (e *Engine) Cursor() string     { return e.cursor }
func (e *Engine) CanUndo() bool      { return e.store.CanUndo() }
func (e *Engine) CanRedo() bool      { return e.store.CanRedo() }

// Len returns the number of committed entities.
func (e *Engine) Len() int { return e.store.Len() }

// Entities returns a snapshot of the committed entities.
func (e *Engine) Entities() []drawing.Entity { return e.store.Entities() }

// Selection returns the selected indices in selection order.
func (e *Engine) Selection() []int { return e.selection.Indices() }

// ViewState returns the current pan and zoom.
func (e *Engine) ViewState() view.State { return e.view.Snapshot() }

// ToLogical converts a position in CSS pixels to field coordinates.
func (e *Engine) ToLogical(sx, sy float64) geom.Point { return e.view.ToLogical(sx, sy) }

// HitTest returns the index of the entity under the CSS pixel position, or
// -1.
func (e *Engine) HitTest(sx, sy float64) int {
	i, ok := selection.HitTest(e.store.Entities(), e.view.ToLogical(sx, sy), e.selection.Indices())
	if !ok {
		return -1
	}
	return i
}

// SelectionBounds returns the bounding box of the selection in field
// coordinates.
func (e *Engine) SelectionBounds() (geom.Rect, bool) {
	if e.selection.IsEmpty() {
		return geom.Rect{}, false
	}
	return selection.BoundingBox(e.store.Entities(), e.selection.Indices())
}

// --- View ---

// Resize tells the engine the element size in CSS pixels and the device
// pixel ratio. The view is reset to fit the field.
func (e *Engine) Resize(cssWidth, cssHeight, dpr float64) {
	e.view.Resize(cssWidth, cssHeight, dpr)
}

// ResetView fits the field into the canvas again.
func (e *Engine) ResetView() {
	e.view.ResetView()
	e.view.ApplyPanLimits()
}

// SetBackground registers the loaded field image and resets the view.
func (e *Engine) SetBackground(img render.Image) {
	e.background = &img
	e.ResetView()
}

// SetGrid turns the grid and axes on or off.
func (e *Engine) SetGrid(on bool) { e.grid = on }

// --- Tool and style ---

// SetTool switches tools. The selection is dropped and any gesture in
// progress is abandoned.
func (e *Engine) SetTool(t Tool) {
	defer e.guard("tool change")

	if e.readonly {
		e.notify("Cannot change tool in read-only mode")
		return
	}
	if _, ok := ParseTool(string(t)); !ok {
		e.logger.Warn("unknown tool", "tool", t)
		return
	}
	e.abortGesture()
	e.tool = t
	e.selection.Clear()
	e.cursor = "default"
}

// SetColor sets the pen color and recolors the selection.
func (e *Engine) SetColor(color string) {
	defer e.guard("color change")

	if e.readonly {
		e.notify("Cannot change color in read-only mode")
		return
	}
	if color == "" {
		return
	}
	e.settleDrag()
	e.color = color
	if !e.selection.IsEmpty() && e.store.ApplyColor(e.selection.Indices(), color) {
		e.notify("Color updated for selection")
	}
}

// SetThickness sets the pen thickness and applies it to the selection.
func (e *Engine) SetThickness(thickness float64) {
	defer e.guard("thickness change")

	if e.readonly {
		e.notify("Cannot change thickness in read-only mode")
		return
	}
	if !geom.IsFinite(thickness) || thickness <= 0 {
		return
	}
	e.settleDrag()
	e.thickness = thickness
	if !e.selection.IsEmpty() && e.store.ApplyThickness(e.selection.Indices(), thickness) {
		e.notify("Thickness updated for selection")
	}
}

// SetFill sets whether new shapes are filled and applies it to the selected
// shapes.
func (e *Engine) SetFill(filled bool) {
	defer e.guard("fill change")

	if e.readonly {
		e.notify("Cannot change fill in read-only mode")
		return
	}
	e.settleDrag()
	e.filled = filled
	if !e.selection.IsEmpty() && e.store.ApplyFill(e.selection.Indices(), filled) {
		e.notify("Fill updated for selection")
	}
}

// SetReadonly switches read-only mode. Entering it abandons the gesture in
// progress and drops the selection.
func (e *Engine) SetReadonly(readonly bool) {
	defer e.guard("read-only change")

	e.readonly = readonly
	if readonly {
		e.abortGesture()
		e.selection.Clear()
		e.cursor = "default"
		e.notify("Read-only mode enabled")
		return
	}
	e.notify("Edit mode enabled")
}

// --- History ---

func (e *Engine) Undo() bool {
	defer e.guard("undo")

	if e.readonly {
		e.notify("Cannot undo in read-only mode")
		return false
	}
	if !e.store.CanUndo() {
		e.notify("Nothing to undo")
		return false
	}
	e.abortGesture()
	ch, ok := e.store.Undo()
	if !ok {
		e.selection.Prune(e.store.Len())
		return false
	}
	e.applyChange(ch)
	e.notify("Undo successful")
	return true
}

func (e *Engine) Redo() bool {
	defer e.guard("redo")

	if e.readonly {
		e.notify("Cannot redo in read-only mode")
		return false
	}
	if !e.store.CanRedo() {
		e.notify("Nothing to redo")
		return false
	}
	e.abortGesture()
	ch, ok := e.store.Redo()
	if !ok {
		e.selection.Prune(e.store.Len())
		return false
	}
	e.applyChange(ch)
	e.notify("Redo successful")
	return true
}

func (e *Engine) applyChange(ch drawing.Change) {
	if ch.Reselect {
		e.selection.Replace(ch.Selection...)
	} else {
		e.selection.Prune(e.store.Len())
	}
	e.syncStyle()
}

// --- Clipboard and selection commands ---

// Copy keeps the selected entities for a later Paste.
func (e *Engine) Copy() bool {
	defer e.guard("copy")

	if e.readonly {
		return false
	}
	if e.selection.IsEmpty() {
		e.notify("Nothing to copy")
		return false
	}
	e.clipboard = e.store.Copy(e.selection.Indices())
	e.notify("Selection copied")
	return true
}

// Cut copies the selection and deletes it.
func (e *Engine) Cut() bool {
	defer e.guard("cut")

	if !e.Copy() {
		return false
	}
	e.deleteSelection()
	e.notify("Selection cut")
	return true
}

// Paste inserts the clipboard shifted by PasteOffset and selects the copies.
func (e *Engine) Paste() bool {
	defer e.guard("paste")

	if e.readonly {
		return false
	}
	if len(e.clipboard) == 0 {
		e.notify("Nothing to paste")
		return false
	}
	e.abortGesture()
	indices := e.store.Paste(e.clipboard, drawing.PasteOffset, drawing.PasteOffset)
	if len(indices) == 0 {
		return false
	}
	e.selection.Replace(indices...)
	e.syncStyle()
	e.notify("Selection pasted")
	return true
}

// Delete removes the selected entities.
func (e *Engine) Delete() bool {
	defer e.guard("delete")

	if e.readonly || e.selection.IsEmpty() {
		return false
	}
	if !e.deleteSelection() {
		return false
	}
	e.notify("Selection deleted")
	return true
}

func (e *Engine) deleteSelection() bool {
	e.abortGesture()
	ok := e.store.Delete(e.selection.Indices())
	e.selection.Clear()
	return ok
}

// Clear removes every entity. It can be undone.
func (e *Engine) Clear() bool {
	defer e.guard("clear")

	if e.readonly {
		e.notify("Cannot clear in read-only mode")
		return false
	}
	e.abortGesture()
	e.selection.Clear()
	if !e.store.Clear() {
		return false
	}
	e.notify("Canvas cleared")
	return true
}

// --- internals ---

func (e *Engine) notify(msg string) {
	e.logger.Debug("status", "message", msg)
	if e.status != nil {
		e.status(msg)
	}
}

// syncStyle mirrors the style of the most recently selected entity into the
// page controls.
func (e *Engine) syncStyle() {
	if e.styleSync == nil {
		return
	}
	i, ok := e.selection.Last()
	if !ok {
		return
	}
	ent, ok := e.store.At(i)
	if !ok {
		return
	}
	e.styleSync(ent.Color(), ent.Thickness())
}

// abortGesture drops the gesture in progress without committing anything.
// A live move or resize is put back where it started.
// settleDrag commits a move or resize in progress, so a style edit made
// mid-drag is recorded after it.
func (e *Engine) settleDrag() {
	if e.g.mode == ModeMoving || e.g.mode == ModeResizing {
		e.finishGesture()
	}
}

func (e *Engine) abortGesture() {
	if e.g.edit != nil {
		e.g.edit.Cancel()
	}
	e.g = gesture{}
}

// guard keeps a panic in an event handler from reaching the host. The
// gesture is dropped and the failure logged.
func (e *Engine) guard(what string) {
	if r := recover(); r != nil {
		e.logger.Error("event handler failed", "event", what, "panic", r)
		e.abortGesture()
		e.notify(fmt.Sprintf("Could not handle %s", what))
	}
}
