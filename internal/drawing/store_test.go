package drawing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

func testStroke(pts ...geom.Point) Stroke {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y, Thickness: 3, Color: "#000000"}
	}
	return Stroke{Points: out}
}

func testShape(kind ShapeKind, x, y, w, h float64) Shape {
	return Shape{Kind: kind, X: x, Y: y, Width: w, Height: h, Stroke: "#000000", LineWidth: 3}
}

func TestCommitUndoRedo(t *testing.T) {
	s := NewStore()
	stroke := testStroke(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))

	if err := s.Commit(stroke); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	if _, ok := s.Undo(); !ok {
		t.Fatal("Undo reported nothing to undo")
	}
	if s.Len() != 0 {
		t.Fatalf("Len after undo = %d, want 0", s.Len())
	}

	if _, ok := s.Redo(); !ok {
		t.Fatal("Redo reported nothing to redo")
	}
	got, _ := s.At(0)
	if !reflect.DeepEqual(got, stroke) {
		t.Errorf("restored stroke = %+v, want %+v", got, stroke)
	}
}

func TestCommitRejectsDegenerate(t *testing.T) {
	s := NewStore()
	if err := s.Commit(testStroke(geom.Pt(1, 1))); !errors.Is(err, ErrEmptyStroke) {
		t.Errorf("single point stroke: err = %v", err)
	}
	if err := s.Commit(Shape{Kind: "blob"}); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("unknown shape: err = %v", err)
	}
	if s.Len() != 0 || s.CanUndo() {
		t.Error("rejected entities must not be recorded")
	}
}

func TestUndoRoundTrip(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Commit(testStroke(geom.Pt(float64(i), 0), geom.Pt(float64(i), 10)))
	}
	s.Commit(testShape(Circle, 0, 0, 10, 10))
	want := s.Entities()

	for i := 0; i < 3; i++ {
		s.Commit(testShape(Rectangle, float64(i), 0, 5, 5))
	}
	for i := 0; i < 3; i++ {
		s.Undo()
	}
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("commits followed by the same number of undos changed the drawing")
	}
}

func TestEmptyUndoRedo(t *testing.T) {
	s := NewStore()
	if _, ok := s.Undo(); ok {
		t.Error("Undo on empty store reported success")
	}
	if _, ok := s.Redo(); ok {
		t.Error("Redo on empty store reported success")
	}
}

func TestNewCommitClearsRedo(t *testing.T) {
	s := NewStore()
	s.Commit(testStroke(geom.Pt(0, 0), geom.Pt(1, 1)))
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	s.Commit(testStroke(geom.Pt(2, 2), geom.Pt(3, 3)))
	if s.CanRedo() {
		t.Error("commit should clear redo")
	}
}

func TestDeleteUndoRestoresOrder(t *testing.T) {
	s := NewStore()
	var all []Entity
	for i := 0; i < 5; i++ {
		e := testStroke(geom.Pt(float64(i), 0), geom.Pt(float64(i), 10))
		all = append(all, e)
		s.Commit(e)
	}

	if !s.Delete([]int{3, 1, 3}) {
		t.Fatal("Delete returned false")
	}
	want := []Entity{all[0], all[2], all[4]}
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Fatalf("after delete = %+v", s.Entities())
	}

	ch, ok := s.Undo()
	if !ok {
		t.Fatal("Undo failed")
	}
	if !reflect.DeepEqual(s.Entities(), all) {
		t.Errorf("undo did not restore original order")
	}
	if !ch.Reselect || !reflect.DeepEqual(ch.Selection, []int{1, 3}) {
		t.Errorf("undo change = %+v, want reselect [1 3]", ch)
	}

	if _, ok := s.Redo(); !ok || s.Len() != 3 {
		t.Errorf("redo delete: len = %d", s.Len())
	}
}

func TestPasteScenario(t *testing.T) {
	s := NewStore()
	orig := testStroke(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	other := testShape(Star, 50, 50, 10, 10)
	s.Commit(orig)
	s.Commit(other)

	copied := s.Copy([]int{0})
	idx := s.Paste(copied, PasteOffset, PasteOffset)
	if !reflect.DeepEqual(idx, []int{2}) {
		t.Fatalf("pasted indices = %v", idx)
	}

	got, _ := s.At(2)
	pasted := got.(Stroke)
	for i, p := range pasted.Points {
		if p.X != orig.Points[i].X+20 || p.Y != orig.Points[i].Y+20 {
			t.Errorf("point %d = (%v,%v), want shifted by 20", i, p.X, p.Y)
		}
	}

	ch, ok := s.Undo()
	if !ok {
		t.Fatal("Undo paste failed")
	}
	if !reflect.DeepEqual(s.Entities(), []Entity{orig, other}) {
		t.Errorf("undo paste left %+v", s.Entities())
	}
	if !ch.Reselect || len(ch.Selection) != 0 {
		t.Errorf("undo paste should clear selection, got %+v", ch)
	}
}

func TestStyleChangesAreExactlyReversible(t *testing.T) {
	s := NewStore()
	st := testStroke(geom.Pt(0, 0), geom.Pt(5, 5))
	sh := testShape(Hexagon, 10, 10, -20, 30)
	s.Commit(st)
	s.Commit(sh)
	want := s.Entities()

	if !s.ApplyColor([]int{0, 1}, "#ff0000") {
		t.Fatal("ApplyColor returned false")
	}
	if !s.ApplyThickness([]int{0, 1}, 9) {
		t.Fatal("ApplyThickness returned false")
	}
	if !s.ApplyFill([]int{0, 1}, true) {
		t.Fatal("ApplyFill returned false")
	}
	if s.ApplyFill([]int{0}, true) {
		t.Error("fill on a stroke alone should record nothing")
	}

	got, _ := s.At(1)
	if shape := got.(Shape); shape.Stroke != "#ff0000" || shape.LineWidth != 9 || !shape.Filled {
		t.Errorf("shape after edits = %+v", shape)
	}

	for i := 0; i < 3; i++ {
		if _, ok := s.Undo(); !ok {
			t.Fatalf("undo %d failed", i)
		}
	}
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("style undo did not restore exact values")
	}
}

func TestMoveAndResize(t *testing.T) {
	s := NewStore()
	s.Commit(testShape(Rectangle, 10, 10, 20, 20))
	s.Commit(testStroke(geom.Pt(10, 10), geom.Pt(30, 30)))
	want := s.Entities()

	if !s.Move([]int{0, 1}, 5, -5) {
		t.Fatal("Move returned false")
	}
	got, _ := s.At(0)
	if sh := got.(Shape); sh.X != 15 || sh.Y != 5 {
		t.Errorf("moved shape = %+v", sh)
	}
	s.Undo()
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Fatal("undo move did not restore")
	}

	from := geom.Rect{X: 10, Y: 10, Width: 20, Height: 20}
	to := geom.Rect{X: 10, Y: 10, Width: 40, Height: 10}
	if !s.Resize([]int{0, 1}, from, to) {
		t.Fatal("Resize returned false")
	}
	got, _ = s.At(1)
	if last := got.(Stroke).Points[1]; last.X != 50 || last.Y != 20 {
		t.Errorf("resized stroke end = (%v,%v), want (50,20)", last.X, last.Y)
	}
	s.Undo()
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("undo resize did not restore")
	}
}

func TestEditCancelRestores(t *testing.T) {
	s := NewStore()
	s.Commit(testShape(Line, 0, 0, 10, 10))
	want := s.Entities()

	ed := s.BeginMove([]int{0})
	ed.Translate(3, 3)
	ed.Translate(4, 4)
	if dx, dy := ed.Offset(); dx != 7 || dy != 7 {
		t.Errorf("Offset = (%v,%v)", dx, dy)
	}
	ed.Cancel()
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("Cancel did not restore")
	}
	if s.UndoDepth() != 1 {
		t.Error("cancelled gesture must not be recorded")
	}
}

func TestClearIsUndoable(t *testing.T) {
	s := NewStore()
	s.Commit(testStroke(geom.Pt(0, 0), geom.Pt(1, 1)))
	s.Commit(testShape(Arrow, 0, 0, 5, 5))
	want := s.Entities()

	if !s.Clear() || s.Len() != 0 {
		t.Fatal("Clear did not empty the drawing")
	}
	s.Undo()
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("undo clear did not restore")
	}
}

func TestCapEvictionPrunesHistory(t *testing.T) {
	var notices []string
	s := NewStore(WithMaxEntities(3), WithNotifier(func(msg string) { notices = append(notices, msg) }))

	for i := 0; i < 3; i++ {
		s.Commit(testStroke(geom.Pt(float64(i), 0), geom.Pt(float64(i), 1)))
	}
	s.ApplyColor([]int{2}, "#00ff00")
	s.Commit(testStroke(geom.Pt(9, 0), geom.Pt(9, 1)))

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if len(notices) != 1 || notices[0] != "Drawing history limited to 3 strokes" {
		t.Errorf("notices = %q", notices)
	}
	first, _ := s.At(0)
	if first.(Stroke).Points[0].X != 1 {
		t.Errorf("oldest entity was not evicted: %+v", first)
	}

	// Only the append of the evicted entity is pruned; everything newer is
	// shifted down by one.
	if s.UndoDepth() != 4 {
		t.Fatalf("UndoDepth = %d, want 4", s.UndoDepth())
	}
	s.Undo()
	s.Undo()
	recolored, _ := s.At(1)
	if recolored.Color() != "#000000" {
		t.Errorf("color change undone at wrong index: %+v", recolored)
	}
	s.Undo()
	s.Undo()
	if s.Len() != 0 {
		t.Errorf("Len = %d after undoing surviving appends", s.Len())
	}
	if _, ok := s.Undo(); ok {
		t.Error("undo must not reach across the eviction")
	}
}

func TestStaleOperationLeavesModelUntouched(t *testing.T) {
	s := NewStore()
	s.Commit(testStroke(geom.Pt(0, 0), geom.Pt(1, 1)))
	s.Commit(testStroke(geom.Pt(2, 2), geom.Pt(3, 3)))

	// Simulate a drifted log: the last append no longer points at the tail.
	s.undoLog[len(s.undoLog)-1].(*appendOp).index = 0
	want := s.Entities()

	if _, ok := s.Undo(); ok {
		t.Fatal("stale undo reported success")
	}
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("stale undo modified the drawing")
	}
	if s.CanRedo() {
		t.Error("stale operation should be discarded, not moved to redo")
	}
}

func TestReplaceValidates(t *testing.T) {
	s := NewStore()
	s.Commit(testStroke(geom.Pt(0, 0), geom.Pt(1, 1)))
	want := s.Entities()

	err := s.Replace([]Entity{testStroke(geom.Pt(0, 0))})
	if !errors.Is(err, ErrEmptyStroke) {
		t.Fatalf("Replace err = %v", err)
	}
	if !reflect.DeepEqual(s.Entities(), want) {
		t.Error("failed Replace modified the drawing")
	}

	if err := s.Replace([]Entity{testShape(Circle, 0, 0, 1, 1)}); err != nil {
		t.Fatal(err)
	}
	if s.CanUndo() {
		t.Error("Replace should reset history")
	}
}
