package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

func quietRenderer() *Renderer {
	return NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func line(x0, y0, x1, y1 float64) drawing.Stroke {
	return drawing.Stroke{Points: []drawing.Point{
		{X: x0, Y: y0, Thickness: 4, Color: "#ff0000"},
		{X: x1, Y: y1, Thickness: 4, Color: "#ff0000"},
	}}
}

func box(x, y, w, h float64) drawing.Shape {
	return drawing.Shape{Kind: drawing.Rectangle, X: x, Y: y, Width: w, Height: h, Stroke: "#00ff00", LineWidth: 10}
}

func TestRenderOrder(t *testing.T) {
	sel := geom.Rect{X: 20, Y: 20, Width: 10, Height: 10}
	f := Frame{
		View:         geom.Identity(),
		Entities:     []drawing.Entity{line(0, 0, 10, 0), box(20, 20, 10, 10)},
		Selected:     []int{1},
		SelectionBox: &sel,
	}
	rec := NewRecorder()
	if failed := quietRenderer().Render(rec, f); failed != 0 {
		t.Fatalf("failed = %d", failed)
	}
	cmds := rec.Commands()

	// clear, stroke, three passes for the selected box, dashed box, 4 handles
	if len(cmds) != 1+1+3+1+8 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if cmds[0].Op != "clear" || cmds[0].Fill != BackgroundColor {
		t.Errorf("first command = %+v", cmds[0])
	}
	if cmds[1].Stroke != "#ff0000" || cmds[1].LineCap != "round" {
		t.Errorf("stroke command = %+v", cmds[1])
	}

	outer, main, inner := cmds[2], cmds[3], cmds[4]
	if outer.Stroke != SelectionColor || outer.Opacity != 0.3 || outer.StrokeWidth != 12 {
		t.Errorf("outer halo = %+v", outer)
	}
	if main.Stroke != "#00ff00" || main.StrokeWidth != 10 || main.Opacity != 1 {
		t.Errorf("shape = %+v", main)
	}
	if inner.Stroke != HighlightColor || inner.Opacity != 0.5 || inner.StrokeWidth != 11 {
		t.Errorf("inner halo = %+v", inner)
	}

	if d := cmds[5]; d.Stroke != SelectionColor || len(d.Dash) != 2 || d.StrokeWidth != 1 {
		t.Errorf("selection box = %+v", d)
	}
	if h := cmds[6]; h.Fill != HighlightColor {
		t.Errorf("handle fill = %+v", h)
	}
	if h := cmds[7]; h.Stroke != SelectionColor || h.StrokeWidth != 2 {
		t.Errorf("handle border = %+v", h)
	}
}

func TestRenderSkipsBrokenEntity(t *testing.T) {
	broken := drawing.Shape{Kind: "blob", Width: 5, Height: 5, Stroke: "#000000", LineWidth: 2}
	f := Frame{
		View:     geom.Identity(),
		Entities: []drawing.Entity{line(0, 0, 10, 0), broken, box(0, 0, 5, 5)},
	}
	rec := NewRecorder()
	if failed := quietRenderer().Render(rec, f); failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if n := len(rec.Commands()); n != 3 {
		t.Errorf("got %d commands, want clear plus two entities", n)
	}
}

func TestRenderPreviewAndMarquee(t *testing.T) {
	preview := box(0, 0, 30, 30)
	preview.Filled = true
	marquee := geom.Rect{X: 1, Y: 1, Width: 5, Height: 5}
	sel := geom.Rect{X: 0, Y: 0, Width: 1, Height: 1}
	f := Frame{
		View:         geom.Identity(),
		Preview:      &preview,
		Marquee:      &marquee,
		Selected:     []int{0},
		SelectionBox: &sel,
	}
	rec := NewRecorder()
	quietRenderer().Render(rec, f)
	cmds := rec.Commands()

	// clear, preview fill and stroke, marquee; the marquee hides the handles
	if len(cmds) != 4 {
		t.Fatalf("got %d commands", len(cmds))
	}
	for _, c := range cmds[1:3] {
		if c.Opacity != 0.3 || len(c.Dash) != 2 {
			t.Errorf("filled preview should be faint and dashed: %+v", c)
		}
	}
	if cmds[1].Fill == "" || cmds[2].Stroke == "" {
		t.Error("preview should fill before stroking")
	}
}

func TestRenderGridFollowsView(t *testing.T) {
	f := Frame{
		View:         geom.Translate(100, 100).Multiply(geom.Scale(2, 2)),
		CanvasWidth:  200,
		CanvasHeight: 200,
		Grid:         true,
	}
	rec := NewRecorder()
	quietRenderer().Render(rec, f)
	cmds := rec.Commands()
	if len(cmds) != 3 {
		t.Fatalf("got %d commands", len(cmds))
	}
	grid, axes := cmds[1], cmds[2]
	if grid.Stroke != GridColor || axes.Stroke != AxisColor || axes.StrokeWidth != 2 {
		t.Errorf("grid = %+v axes = %+v", grid.Stroke, axes.Stroke)
	}
	// visible area is [-50,50] on both axes: three vertical and three
	// horizontal lines, each a move and a line
	if len(grid.Path) != 12 {
		t.Errorf("grid has %d path verbs", len(grid.Path))
	}
	if !slices.Equal(grid.Transform, f.View.ToSlice()) {
		t.Errorf("grid transform = %v", grid.Transform)
	}
}

func TestRenderBackground(t *testing.T) {
	bg := Image{ID: "field", Width: 800, Height: 400}
	f := Frame{
		View:       geom.Identity(),
		Field:      geom.Rect{X: -400, Y: -200, Width: 800, Height: 400},
		Background: &bg,
	}
	rec := NewRecorder()
	quietRenderer().Render(rec, f)
	cmds := rec.Commands()
	if len(cmds) != 2 || cmds[1].Op != "image" || cmds[1].ImageAssetID != "field" || cmds[1].X != -400 {
		t.Errorf("commands = %+v", cmds)
	}
}

func TestDrawCommandsToJSON(t *testing.T) {
	rec := NewRecorder()
	quietRenderer().Render(rec, Frame{View: geom.Identity(), Entities: []drawing.Entity{box(0, 0, 1, 1)}})
	out, err := DrawCommandsToJSON(rec.Commands())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"path":[["M",0,0],["L",1,0]`) {
		t.Errorf("json = %s", out)
	}

	if _, err := DrawCommandsToJSON([]DrawCommand{{Op: "path", StrokeWidth: math.NaN()}}); err == nil {
		t.Error("NaN should not serialize")
	}
}

func TestRasterPaints(t *testing.T) {
	r := NewRaster(40, 40)
	defer r.Close()

	mark := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			mark.Set(x, y, color.Black)
		}
	}
	r.AddImage("mark", mark)
	f := Frame{
		View:       geom.Scale(2, 2),
		Field:      geom.Rect{X: 15, Y: 0, Width: 4, Height: 4},
		Background: &Image{ID: "mark", Width: 4, Height: 4},
		Entities: []drawing.Entity{drawing.Shape{Kind: drawing.Rectangle, X: 2, Y: 2, Width: 10, Height: 10, Stroke: "#0000ff", LineWidth: 1, Filled: true}},
	}
	quietRenderer().Render(r, f)
	if err := r.Err(); err != nil {
		t.Fatalf("paint errors: %v", err)
	}

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
	_, _, b, _ := img.At(14, 14).RGBA()
	if b < 0xf000 {
		t.Errorf("inside of the filled rect is not blue")
	}
	rr, g, _, _ := img.At(35, 35).RGBA()
	if rr < 0xf000 || g < 0xf000 {
		t.Errorf("outside of the rect is not white")
	}
	if rr, _, _, _ := img.At(34, 4).RGBA(); rr > 0x4000 {
		t.Errorf("background image was not drawn")
	}
}
