package document

import (
	"time"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
)

// NewSample returns a small auto-path drawing: a starting zone, a curved
// route and an arrow to the scoring position.
func NewSample(now time.Time) *Drawing {
	const (
		route = "#ff3b30"
		zone  = "#0066ff"
	)

	path := make([]drawing.Point, 0, 9)
	for i, xy := range [][2]float64{
		{-300, 120}, {-260, 90}, {-210, 70}, {-150, 60}, {-90, 55},
		{-30, 40}, {20, 10}, {60, -30}, {90, -80},
	} {
		path = append(path, drawing.Point{
			X:         xy[0],
			Y:         xy[1],
			Pressure:  1 - float64(i)*0.05,
			Thickness: 4,
			Color:     route,
		})
	}

	d := New(now, []drawing.Entity{
		drawing.Shape{Kind: drawing.Rectangle, X: -360, Y: 80, Width: 90, Height: 90, Stroke: zone, LineWidth: 3},
		drawing.NewStroke(path),
		drawing.Shape{Kind: drawing.Arrow, X: 90, Y: -80, Width: 120, Height: -60, Stroke: route, LineWidth: 4},
		drawing.Shape{Kind: drawing.Star, X: 200, Y: -150, Width: 30, Height: 30, Stroke: "#ffcc00", LineWidth: 2, Filled: true},
	})
	return d
}
