package drawing

import (
	"errors"
	"fmt"
	"sort"
)

// ErrStaleOperation means a recorded operation no longer matches the model,
// usually because the oldest entities were evicted by the entity cap.
var ErrStaleOperation = errors.New("history operation does not match the drawing")

// OpKind names a history operation.
type OpKind string

const (
	OpAppend    OpKind = "append"
	OpColor     OpKind = "colorChange"
	OpThickness OpKind = "thicknessChange"
	OpFill      OpKind = "fillChange"
	OpMove      OpKind = "move"
	OpResize    OpKind = "resize"
	OpDelete    OpKind = "delete"
	OpPaste     OpKind = "paste"
	OpClear     OpKind = "clear"
)

// Change describes what an undo or redo did, so the caller can fix up its
// selection. When Reselect is set the selection becomes exactly Selection.
type Change struct {
	Op        OpKind
	Selection []int
	Reselect  bool
}

// operation is one reversible mutation. Both directions validate before they
// touch anything and return a fresh slice, so a failing operation leaves the
// model as it was.
type operation interface {
	kind() OpKind
	redo(es []Entity) ([]Entity, Change, error)
	undo(es []Entity) ([]Entity, Change, error)
	// rebase shifts recorded indices down after the first k entities were
	// evicted. It reports false when the operation referred to one of them.
	rebase(k int) bool
}

func stale(op OpKind, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), ErrStaleOperation)
}

// placed is an entity together with the index it occupies.
type placed struct {
	index  int
	entity Entity
}

func placedIndices(ps []placed) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.index
	}
	return out
}

func rebasePlaced(ps []placed, k int) bool {
	for _, p := range ps {
		if p.index < k {
			return false
		}
	}
	for i := range ps {
		ps[i].index -= k
	}
	return true
}

// insertPlaced inserts ps, sorted ascending, into es.
func insertPlaced(op OpKind, es []Entity, ps []placed) ([]Entity, error) {
	out := make([]Entity, 0, len(es)+len(ps))
	out = append(out, es...)
	for _, p := range ps {
		if p.index < 0 || p.index > len(out) {
			return nil, stale(op, "insert at %d of %d", p.index, len(out))
		}
		out = append(out, nil)
		copy(out[p.index+1:], out[p.index:])
		out[p.index] = p.entity
	}
	return out, nil
}

// removePlaced removes the indices of ps, sorted ascending, from es, walking
// from the highest index down so earlier removals do not shift later ones.
func removePlaced(op OpKind, es []Entity, ps []placed) ([]Entity, error) {
	for _, p := range ps {
		if p.index < 0 || p.index >= len(es) {
			return nil, stale(op, "remove %d of %d", p.index, len(es))
		}
	}
	out := append([]Entity(nil), es...)
	for i := len(ps) - 1; i >= 0; i-- {
		idx := ps[i].index
		out = append(out[:idx], out[idx+1:]...)
	}
	return out, nil
}

func sortPlaced(ps []placed) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].index < ps[j].index })
}

// --- append ---

type appendOp struct {
	index  int
	entity Entity
}

func (o *appendOp) kind() OpKind { return OpAppend }

func (o *appendOp) redo(es []Entity) ([]Entity, Change, error) {
	if o.index != len(es) {
		return nil, Change{}, stale(OpAppend, "append at %d of %d", o.index, len(es))
	}
	out := make([]Entity, len(es), len(es)+1)
	copy(out, es)
	return append(out, o.entity), Change{Op: OpAppend}, nil
}

func (o *appendOp) undo(es []Entity) ([]Entity, Change, error) {
	if o.index != len(es)-1 {
		return nil, Change{}, stale(OpAppend, "entity %d is not the last of %d", o.index, len(es))
	}
	return append([]Entity(nil), es[:o.index]...), Change{Op: OpAppend}, nil
}

func (o *appendOp) rebase(k int) bool {
	o.index -= k
	return o.index >= 0
}

// --- colorChange, thicknessChange, fillChange, move, resize ---

// editOp swaps whole entity values. Keeping both sides restores exact values
// in either direction without replaying floating point arithmetic.
type editOp struct {
	op      OpKind
	indices []int
	before  []Entity
	after   []Entity

	// Set for move only.
	dx, dy float64
}

func (o *editOp) kind() OpKind { return o.op }

func (o *editOp) swap(es []Entity, from, to []Entity) ([]Entity, error) {
	for j, idx := range o.indices {
		if idx < 0 || idx >= len(es) {
			return nil, stale(o.op, "index %d of %d", idx, len(es))
		}
		if !sameVariant(es[idx], from[j]) {
			return nil, stale(o.op, "entity %d changed type", idx)
		}
	}
	out := append([]Entity(nil), es...)
	for j, idx := range o.indices {
		out[idx] = to[j]
	}
	return out, nil
}

func (o *editOp) redo(es []Entity) ([]Entity, Change, error) {
	out, err := o.swap(es, o.before, o.after)
	return out, Change{Op: o.op}, err
}

func (o *editOp) undo(es []Entity) ([]Entity, Change, error) {
	out, err := o.swap(es, o.after, o.before)
	return out, Change{Op: o.op}, err
}

func (o *editOp) rebase(k int) bool {
	for _, idx := range o.indices {
		if idx < k {
			return false
		}
	}
	for i := range o.indices {
		o.indices[i] -= k
	}
	return true
}

func sameVariant(a, b Entity) bool {
	switch a.(type) {
	case Stroke:
		_, ok := b.(Stroke)
		return ok
	case Shape:
		_, ok := b.(Shape)
		return ok
	}
	return false
}

// --- delete ---

type deleteOp struct {
	removed []placed
}

func (o *deleteOp) kind() OpKind { return OpDelete }

func (o *deleteOp) redo(es []Entity) ([]Entity, Change, error) {
	out, err := removePlaced(OpDelete, es, o.removed)
	return out, Change{Op: OpDelete, Reselect: true}, err
}

func (o *deleteOp) undo(es []Entity) ([]Entity, Change, error) {
	out, err := insertPlaced(OpDelete, es, o.removed)
	return out, Change{Op: OpDelete, Selection: placedIndices(o.removed), Reselect: true}, err
}

func (o *deleteOp) rebase(k int) bool { return rebasePlaced(o.removed, k) }

// --- paste ---

type pasteOp struct {
	inserted []placed
}

func (o *pasteOp) kind() OpKind { return OpPaste }

func (o *pasteOp) redo(es []Entity) ([]Entity, Change, error) {
	out, err := insertPlaced(OpPaste, es, o.inserted)
	return out, Change{Op: OpPaste, Selection: placedIndices(o.inserted), Reselect: true}, err
}

func (o *pasteOp) undo(es []Entity) ([]Entity, Change, error) {
	out, err := removePlaced(OpPaste, es, o.inserted)
	return out, Change{Op: OpPaste, Reselect: true}, err
}

func (o *pasteOp) rebase(k int) bool { return rebasePlaced(o.inserted, k) }

// --- clear ---

type clearOp struct {
	removed []Entity
}

func (o *clearOp) kind() OpKind { return OpClear }

func (o *clearOp) redo(es []Entity) ([]Entity, Change, error) {
	if len(es) != len(o.removed) {
		return nil, Change{}, stale(OpClear, "expected %d entities, have %d", len(o.removed), len(es))
	}
	return nil, Change{Op: OpClear, Reselect: true}, nil
}

func (o *clearOp) undo(es []Entity) ([]Entity, Change, error) {
	if len(es) != 0 {
		return nil, Change{}, stale(OpClear, "drawing not empty (%d)", len(es))
	}
	return append([]Entity(nil), o.removed...), Change{Op: OpClear, Reselect: true}, nil
}

// A clear covers every index, so any eviction reaches it.
func (o *clearOp) rebase(k int) bool { return k == 0 }
