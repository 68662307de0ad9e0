package drawing

import "github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"

// Edit is a live move or resize gesture. Entities are updated on every
// pointer move so the canvas follows the pointer, and the whole gesture is
// recorded as one operation on Commit. Each update is computed from the values
// captured at Begin, so rounding does not accumulate over a long drag.
type Edit struct {
	s       *Store
	op      OpKind
	gen     int
	indices []int
	before  []Entity

	dx, dy float64

	from geom.Rect
	to   geom.Rect

	done bool
}

// BeginMove starts a move gesture over indices.
func (s *Store) BeginMove(indices []int) *Edit {
	return s.begin(OpMove, indices, geom.Rect{})
}

// BeginResize starts a resize gesture over indices whose bounding box is box.
func (s *Store) BeginResize(indices []int, box geom.Rect) *Edit {
	return s.begin(OpResize, indices, box)
}

func (s *Store) begin(op OpKind, indices []int, box geom.Rect) *Edit {
	ed := &Edit{s: s, op: op, gen: s.gen, from: box, to: box}
	ed.indices = s.validIndices(indices)
	ed.before = make([]Entity, len(ed.indices))
	for j, i := range ed.indices {
		ed.before[j] = s.entities[i]
	}
	return ed
}

func (ed *Edit) live() bool {
	return ed != nil && !ed.done && ed.gen == ed.s.gen && len(ed.indices) > 0
}

// Translate adds (dx, dy) to the accumulated offset of a move gesture.
func (ed *Edit) Translate(dx, dy float64) {
	if !ed.live() || ed.op != OpMove || !geom.IsFinite(dx) || !geom.IsFinite(dy) {
		return
	}
	ed.dx += dx
	ed.dy += dy
	for j, i := range ed.indices {
		ed.s.entities[i] = ed.before[j].Translate(ed.dx, ed.dy)
	}
}

// ResizeTo remaps the entities of a resize gesture into box.
func (ed *Edit) ResizeTo(box geom.Rect) {
	if !ed.live() || ed.op != OpResize {
		return
	}
	if !box.Min().IsFinite() || !box.Max().IsFinite() {
		return
	}
	ed.to = box
	for j, i := range ed.indices {
		ed.s.entities[i] = ed.before[j].Remap(ed.from, box)
	}
}

// Offset returns the accumulated translation of a move gesture.
func (ed *Edit) Offset() (dx, dy float64) {
	return ed.dx, ed.dy
}

// Box returns the current box of a resize gesture.
func (ed *Edit) Box() geom.Rect {
	return ed.to
}

func (ed *Edit) changed() bool {
	switch ed.op {
	case OpMove:
		return ed.dx != 0 || ed.dy != 0
	case OpResize:
		return ed.to != ed.from
	}
	return false
}

// Commit records the gesture. It reports false when nothing moved or the
// drawing changed underneath the gesture.
func (ed *Edit) Commit() bool {
	if !ed.live() {
		return false
	}
	if !ed.changed() {
		ed.Cancel()
		return false
	}
	ed.done = true
	op := &editOp{
		op:      ed.op,
		indices: ed.indices,
		before:  ed.before,
		after:   make([]Entity, len(ed.indices)),
		dx:      ed.dx,
		dy:      ed.dy,
	}
	for j, i := range ed.indices {
		op.after[j] = ed.s.entities[i]
	}
	ed.s.push(op)
	return true
}

// Cancel puts the entities back where they were when the gesture began.
func (ed *Edit) Cancel() {
	if !ed.live() {
		return
	}
	ed.done = true
	for j, i := range ed.indices {
		ed.s.entities[i] = ed.before[j]
	}
}
