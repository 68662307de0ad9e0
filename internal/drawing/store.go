package drawing

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// DefaultMaxEntities is the hard cap on committed entities.
const DefaultMaxEntities = 10000

// PasteOffset is how far pasted entities are shifted from their source.
const PasteOffset = 20

// Store is the history store: the ordered committed entities plus a linear
// undo/redo log. An entity's index is its identity; all index rewriting
// (splicing, reinsertion, eviction) happens here.
//
// Store is not safe for concurrent use. The engine drives it from a single
// event loop.
type Store struct {
	entities []Entity

	undoLog []operation
	redoLog []operation

	maxEntities int

	// gen changes with every recorded or replayed operation, so a live Edit
	// can tell that its indices are no longer meaningful.
	gen int

	notify func(msg string)
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxEntities overrides the entity cap. n <= 0 disables it.
func WithMaxEntities(n int) Option {
	return func(s *Store) { s.maxEntities = n }
}

// WithNotifier sets the callback for user-visible notices such as cap
// eviction.
func WithNotifier(fn func(msg string)) Option {
	return func(s *Store) { s.notify = fn }
}

// WithLogger sets the logger used for history inconsistencies.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{maxEntities: DefaultMaxEntities}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// --- Queries ---

// Len returns the number of committed entities.
func (s *Store) Len() int { return len(s.entities) }

// At returns the entity at index i.
func (s *Store) At(i int) (Entity, bool) {
	if i < 0 || i >= len(s.entities) {
		return nil, false
	}
	return s.entities[i], true
}

// Entities returns a snapshot of the committed entities. The entity values
// are shared and must not be modified.
func (s *Store) Entities() []Entity {
	return append([]Entity(nil), s.entities...)
}

func (s *Store) CanUndo() bool { return len(s.undoLog) > 0 }
func (s *Store) CanRedo() bool { return len(s.redoLog) > 0 }

// UndoDepth returns the number of operations that can be undone.
func (s *Store) UndoDepth() int { return len(s.undoLog) }

// --- Mutations ---

// Commit appends a finished stroke or shape.
func (s *Store) Commit(e Entity) error {
	if e == nil {
		return ErrMalformedEntity
	}
	if err := e.Validate(); err != nil {
		return err
	}
	op := &appendOp{index: len(s.entities), entity: e}
	s.entities = append(s.entities, e)
	s.push(op)
	s.enforceLimit()
	return nil
}

// ApplyColor recolors the entities at indices. It reports whether anything
// was recorded.
func (s *Store) ApplyColor(indices []int, color string) bool {
	return s.edit(OpColor, indices, func(e Entity) (Entity, bool) {
		return e.WithColor(color), true
	})
}

// ApplyThickness changes the line thickness of the entities at indices.
func (s *Store) ApplyThickness(indices []int, thickness float64) bool {
	if !geom.IsFinite(thickness) || thickness <= 0 {
		return false
	}
	return s.edit(OpThickness, indices, func(e Entity) (Entity, bool) {
		return e.WithThickness(thickness), true
	})
}

// ApplyFill sets the fill flag of the shapes at indices. Strokes are left
// alone.
func (s *Store) ApplyFill(indices []int, filled bool) bool {
	return s.edit(OpFill, indices, func(e Entity) (Entity, bool) {
		sh, ok := e.(Shape)
		if !ok {
			return e, false
		}
		return sh.WithFill(filled), true
	})
}

// Move translates the entities at indices as a single recorded operation.
func (s *Store) Move(indices []int, dx, dy float64) bool {
	ed := s.BeginMove(indices)
	ed.Translate(dx, dy)
	return ed.Commit()
}

// Resize remaps the entities at indices from box from to box to as a single
// recorded operation.
func (s *Store) Resize(indices []int, from, to geom.Rect) bool {
	ed := s.BeginResize(indices, from)
	ed.ResizeTo(to)
	return ed.Commit()
}

// Delete removes the entities at indices.
func (s *Store) Delete(indices []int) bool {
	idx := s.validIndices(indices)
	if len(idx) == 0 {
		return false
	}
	removed := make([]placed, len(idx))
	for i, n := range idx {
		removed[i] = placed{index: n, entity: s.entities[n]}
	}
	op := &deleteOp{removed: removed}
	out, _, err := op.redo(s.entities)
	if err != nil {
		return false
	}
	s.entities = out
	s.push(op)
	return true
}

// Copy returns the entities at indices in drawing order.
func (s *Store) Copy(indices []int) []Entity {
	idx := s.validIndices(indices)
	out := make([]Entity, len(idx))
	for i, n := range idx {
		out[i] = s.entities[n]
	}
	return out
}

// Paste appends copied shifted by (dx, dy) and returns the new indices.
func (s *Store) Paste(copied []Entity, dx, dy float64) []int {
	if len(copied) == 0 {
		return nil
	}
	inserted := make([]placed, 0, len(copied))
	for _, e := range copied {
		if e == nil {
			continue
		}
		moved := e.Translate(dx, dy)
		if moved.Validate() != nil {
			continue
		}
		inserted = append(inserted, placed{index: len(s.entities) + len(inserted), entity: moved})
	}
	if len(inserted) == 0 {
		return nil
	}
	op := &pasteOp{inserted: inserted}
	out, _, err := op.redo(s.entities)
	if err != nil {
		return nil
	}
	s.entities = out
	s.push(op)

	before := len(s.entities)
	s.enforceLimit()
	evicted := before - len(s.entities)

	indices := make([]int, 0, len(inserted))
	for _, p := range inserted {
		if n := p.index - evicted; n >= 0 {
			indices = append(indices, n)
		}
	}
	return indices
}

// Clear removes every entity as one undoable operation.
func (s *Store) Clear() bool {
	if len(s.entities) == 0 {
		return false
	}
	op := &clearOp{removed: s.entities}
	s.entities = nil
	s.push(op)
	return true
}

// Replace swaps in a loaded drawing and forgets all history.
func (s *Store) Replace(es []Entity) error {
	for i, e := range es {
		if e == nil {
			return fmt.Errorf("entity %d: %w", i, ErrMalformedEntity)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	s.entities = append([]Entity(nil), es...)
	s.undoLog = nil
	s.redoLog = nil
	s.gen++
	s.enforceLimit()
	return nil
}

// --- Undo / redo ---

// Undo reverts the most recent operation. ok is false when there is nothing
// to undo or the operation no longer matched the drawing, in which case it is
// discarded and the drawing is unchanged.
func (s *Store) Undo() (ch Change, ok bool) {
	if len(s.undoLog) == 0 {
		return Change{}, false
	}
	op := s.undoLog[len(s.undoLog)-1]
	s.undoLog = s.undoLog[:len(s.undoLog)-1]

	out, ch, err := op.undo(s.entities)
	if err != nil {
		s.reportStale("undo", op, err)
		return Change{}, false
	}
	s.entities = out
	s.gen++
	s.redoLog = append(s.redoLog, op)
	return ch, true
}

// Redo reapplies the most recently undone operation.
func (s *Store) Redo() (ch Change, ok bool) {
	if len(s.redoLog) == 0 {
		return Change{}, false
	}
	op := s.redoLog[len(s.redoLog)-1]
	s.redoLog = s.redoLog[:len(s.redoLog)-1]

	out, ch, err := op.redo(s.entities)
	if err != nil {
		s.reportStale("redo", op, err)
		return Change{}, false
	}
	s.entities = out
	s.gen++
	s.undoLog = append(s.undoLog, op)
	return ch, true
}

// --- internals ---

func (s *Store) push(op operation) {
	s.undoLog = append(s.undoLog, op)
	s.redoLog = nil
	s.gen++
}

func (s *Store) report(msg string) {
	if s.notify != nil {
		s.notify(msg)
	}
}

func (s *Store) reportStale(dir string, op operation, err error) {
	s.logger.Warn("discarding history operation", "direction", dir, "op", op.kind(), "error", err)
	s.report(fmt.Sprintf("Could not %s %s: drawing history is out of sync", dir, op.kind()))
}

// enforceLimit drops the oldest entities beyond the cap. Recorded operations
// are shifted down with the surviving entities; the newest operation that
// referred to an evicted entity is dropped together with everything older,
// so undo never reaches across the eviction.
func (s *Store) enforceLimit() {
	k := len(s.entities) - s.maxEntities
	if s.maxEntities <= 0 || k <= 0 {
		return
	}
	s.entities = append([]Entity(nil), s.entities[k:]...)
	s.gen++
	s.redoLog = nil

	for i := len(s.undoLog) - 1; i >= 0; i-- {
		if !s.undoLog[i].rebase(k) {
			s.logger.Info("pruned history across entity eviction", "dropped_ops", i+1)
			s.undoLog = append([]operation(nil), s.undoLog[i+1:]...)
			break
		}
	}

	s.logger.Warn("entity cap reached", "evicted", k, "limit", s.maxEntities)
	s.report(fmt.Sprintf("Drawing history limited to %d strokes", s.maxEntities))
}

// validIndices returns the distinct in-range indices, ascending.
func (s *Store) validIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(s.entities) || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *Store) edit(kind OpKind, indices []int, fn func(Entity) (Entity, bool)) bool {
	op := &editOp{op: kind}
	for _, i := range s.validIndices(indices) {
		next, ok := fn(s.entities[i])
		if !ok {
			continue
		}
		op.indices = append(op.indices, i)
		op.before = append(op.before, s.entities[i])
		op.after = append(op.after, next)
	}
	if len(op.indices) == 0 {
		return false
	}
	out, _, err := op.redo(s.entities)
	if err != nil {
		return false
	}
	s.entities = out
	s.push(op)
	return true
}
