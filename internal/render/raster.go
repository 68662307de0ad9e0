package render

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// Raster is a Canvas that paints into an in-memory bitmap. Paths are mapped
// through the current transform point by point and line widths are scaled by
// the transform's scale factor, so the bitmap matches what the browser draws.
type Raster struct {
	dc        *gg.Context
	transform geom.Matrix2D
	images    map[string]*gg.ImageBuf
	err       error
}

// NewRaster allocates a width x height bitmap.
func NewRaster(width, height int) *Raster {
	return &Raster{
		dc:        gg.NewContext(width, height),
		transform: geom.Identity(),
		images:    make(map[string]*gg.ImageBuf),
	}
}

// AddImage registers img under id for later DrawImage calls.
func (r *Raster) AddImage(id string, img image.Image) {
	r.images[id] = gg.ImageBufFromImage(img)
}

func (r *Raster) Width() int  { return r.dc.Width() }
func (r *Raster) Height() int { return r.dc.Height() }

func (r *Raster) Clear(color string) {
	r.transform = geom.Identity()
	r.dc.ClearWithColor(gg.Hex(color))
}

func (r *Raster) SetTransform(m geom.Matrix2D) {
	r.transform = m
}

func (r *Raster) StrokePath(p geom.Path, st Style) {
	r.setPaint(st)
	scale := r.transform.ScaleFactor()
	r.dc.SetLineWidth(st.LineWidth * scale)
	if st.Round {
		r.dc.SetLineCap(gg.LineCapRound)
		r.dc.SetLineJoin(gg.LineJoinRound)
	} else {
		r.dc.SetLineCap(gg.LineCapButt)
		r.dc.SetLineJoin(gg.LineJoinMiter)
	}
	if len(st.Dash) > 0 {
		dashes := make([]float64, len(st.Dash))
		for i, d := range st.Dash {
			dashes[i] = d * scale
		}
		r.dc.SetDash(dashes...)
	} else {
		r.dc.ClearDash()
	}
	r.trace(p)
	if err := r.dc.Stroke(); err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("stroke: %w", err))
	}
}

func (r *Raster) FillPath(p geom.Path, st Style) {
	r.setPaint(st)
	r.trace(p)
	if err := r.dc.Fill(); err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("fill: %w", err))
	}
}

func (r *Raster) DrawImage(img Image, dst geom.Rect) {
	buf, ok := r.images[img.ID]
	if !ok {
		return
	}
	box := r.transform.ApplyRect(dst)
	r.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         box.X,
		Y:         box.Y,
		DstWidth:  box.Width,
		DstHeight: box.Height,
		Opacity:   1,
	})
}

// Err reports every stroke or fill the bitmap failed to paint.
func (r *Raster) Err() error { return r.err }

// EncodePNG writes the bitmap as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// Image returns the bitmap.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) setPaint(st Style) {
	c := gg.Hex(st.Color)
	r.dc.SetRGBA(c.R, c.G, c.B, c.A*st.opacity())
}

func (r *Raster) trace(p geom.Path) {
	r.dc.ClearPath()
	m := r.transform
	for _, seg := range p {
		switch seg.Op {
		case geom.OpMoveTo:
			q := m.Apply(seg.Pts[0])
			r.dc.MoveTo(q.X, q.Y)
		case geom.OpLineTo:
			q := m.Apply(seg.Pts[0])
			r.dc.LineTo(q.X, q.Y)
		case geom.OpQuadTo:
			c, q := m.Apply(seg.Pts[0]), m.Apply(seg.Pts[1])
			r.dc.QuadraticTo(c.X, c.Y, q.X, q.Y)
		case geom.OpCubicTo:
			c1, c2, q := m.Apply(seg.Pts[0]), m.Apply(seg.Pts[1]), m.Apply(seg.Pts[2])
			r.dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
		case geom.OpClose:
			r.dc.ClosePath()
		}
	}
}
