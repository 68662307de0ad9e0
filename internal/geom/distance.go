package geom

import "gonum.org/v1/gonum/spatial/r2"

// SegmentDistance returns the distance from p to the closest point of the
// segment a-b. A zero-length segment degrades to the distance to a.
func SegmentDistance(p, a, b Point) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	ap := r2.Sub(p.Vec(), a.Vec())

	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return r2.Norm(ap)
	}

	t := r2.Dot(ap, ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}

	closest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), closest))
}

// NearPolyline reports whether p lies within tol of any segment of pts.
func NearPolyline(p Point, pts []Point, tol float64) bool {
	for i := 0; i+1 < len(pts); i++ {
		if SegmentDistance(p, pts[i], pts[i+1]) < tol {
			return true
		}
	}
	return false
}
