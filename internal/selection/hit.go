// Package selection decides which entities lie under a point or inside a
// marquee, and computes the selection box and its resize handles.
package selection

import (
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// StrokeTolerance is how close, in logical units, a point must be to a
// stroke segment to hit it.
const StrokeTolerance = 5

// Hit reports whether p touches e. Strokes are hit near any segment, shapes
// anywhere inside their normalized bounding box.
func Hit(e drawing.Entity, p geom.Point) bool {
	switch v := e.(type) {
	case drawing.Stroke:
		return geom.NearPolyline(p, v.Positions(), StrokeTolerance)
	case drawing.Shape:
		return v.Bounds().Contains(p)
	}
	return false
}

// HitTest returns the index of the entity under p. The indices in first are
// tried before the rest, so an already selected entity wins over one drawn on
// top of it; after that the topmost entity wins.
func HitTest(entities []drawing.Entity, p geom.Point, first []int) (int, bool) {
	if !p.IsFinite() {
		return -1, false
	}
	for _, i := range first {
		if i >= 0 && i < len(entities) && Hit(entities[i], p) {
			return i, true
		}
	}
	for i := len(entities) - 1; i >= 0; i-- {
		if Hit(entities[i], p) {
			return i, true
		}
	}
	return -1, false
}

// InRect reports whether e is caught by the marquee r, which must be
// normalized. A stroke is caught when any of its points lies in r, a shape
// when its bounding box touches r.
func InRect(e drawing.Entity, r geom.Rect) bool {
	switch v := e.(type) {
	case drawing.Stroke:
		for _, pt := range v.Points {
			if r.Contains(pt.Pos()) {
				return true
			}
		}
		return false
	case drawing.Shape:
		return r.Intersects(v.Bounds())
	}
	return false
}

// RectSelect returns the indices of every entity caught by r, ascending.
func RectSelect(entities []drawing.Entity, r geom.Rect) []int {
	r = r.Normalize()
	var out []int
	for i, e := range entities {
		if InRect(e, r) {
			out = append(out, i)
		}
	}
	return out
}

// BoundingBox returns the box enclosing the entities at indices. ok is false
// when no index is valid.
func BoundingBox(entities []drawing.Entity, indices []int) (box geom.Rect, ok bool) {
	for _, i := range indices {
		if i < 0 || i >= len(entities) {
			continue
		}
		b := entities[i].Bounds()
		if !ok {
			box, ok = b, true
			continue
		}
		box = box.Union(b)
	}
	return box, ok
}
