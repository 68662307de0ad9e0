package selection

import "github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"

// HandleSize is the side of a resize handle in logical units.
const HandleSize = 8

// Corner identifies a resize handle.
type Corner int

const (
	NorthWest Corner = iota
	NorthEast
	SouthEast
	SouthWest
)

func (c Corner) String() string {
	switch c {
	case NorthWest:
		return "nw"
	case NorthEast:
		return "ne"
	case SouthEast:
		return "se"
	case SouthWest:
		return "sw"
	}
	return "?"
}

// Cursor is the CSS cursor the host shows over the handle.
func (c Corner) Cursor() string {
	return c.String() + "-resize"
}

// Handle is one square resize handle centred on a corner of the selection
// box.
type Handle struct {
	Corner Corner
	Rect   geom.Rect
}

// Handles returns the four corner handles of box in nw, ne, se, sw order.
func Handles(box geom.Rect) [4]Handle {
	corners := [4]geom.Point{
		{X: box.X, Y: box.Y},
		{X: box.X + box.Width, Y: box.Y},
		{X: box.X + box.Width, Y: box.Y + box.Height},
		{X: box.X, Y: box.Y + box.Height},
	}
	var hs [4]Handle
	for i, c := range corners {
		hs[i] = Handle{
			Corner: Corner(i),
			Rect:   geom.Rect{X: c.X - HandleSize/2, Y: c.Y - HandleSize/2, Width: HandleSize, Height: HandleSize},
		}
	}
	return hs
}

// HandleAt returns the handle of box under p.
func HandleAt(box geom.Rect, p geom.Point) (Handle, bool) {
	for _, h := range Handles(box) {
		if h.Rect.Contains(p) {
			return h, true
		}
	}
	return Handle{}, false
}

// DragHandle returns box with the given corner moved by (dx, dy); the
// opposite corner stays put. The result may have negative size when a
// corner is dragged across its opposite.
func DragHandle(c Corner, box geom.Rect, dx, dy float64) geom.Rect {
	switch c {
	case NorthWest:
		box.X += dx
		box.Y += dy
		box.Width -= dx
		box.Height -= dy
	case NorthEast:
		box.Y += dy
		box.Width += dx
		box.Height -= dy
	case SouthEast:
		box.Width += dx
		box.Height += dy
	case SouthWest:
		box.X += dx
		box.Width -= dx
		box.Height += dy
	}
	return box
}
