// Package export renders saved drawings to PNG on the server, using the same
// engine and renderer as the browser.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/document"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/engine"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/render"
)

const backgroundID = "background"

var ErrRender = errors.New("render failed")

type Options struct {
	Background image.Image
	Grid       bool
}

// Renderer paints drawings at a fixed multiple of the field size.
type Renderer struct {
	fieldWidth  float64
	fieldHeight float64
	scale       float64
	maxEntities int
	logger      *slog.Logger
}

func NewRenderer(fieldWidth, fieldHeight, scale float64, maxEntities int, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	gg.SetLogger(logger.With("component", "raster"))
	return &Renderer{
		fieldWidth:  fieldWidth,
		fieldHeight: fieldHeight,
		scale:       scale,
		maxEntities: maxEntities,
		logger:      logger,
	}
}

// Size returns the pixel size of exported images.
func (r *Renderer) Size() (int, int) {
	return int(math.Round(r.fieldWidth * r.scale)), int(math.Round(r.fieldHeight * r.scale))
}

// PNG writes d as a PNG image, fitted to the field regardless of the view
// it was saved with.
func (r *Renderer) PNG(w io.Writer, d *document.Drawing, opts Options) error {
	width, height := r.Size()

	e := engine.New(
		engine.WithLogger(r.logger),
		engine.WithFieldSize(r.fieldWidth, r.fieldHeight),
		engine.WithMaxEntities(r.maxEntities),
		engine.WithGrid(opts.Grid),
		engine.WithReadonly(true),
	)
	e.Resize(float64(width), float64(height), 1)
	if !e.LoadDocument(d) {
		return fmt.Errorf("%w: drawing rejected", ErrRender)
	}

	raster := render.NewRaster(width, height)
	defer raster.Close()

	if opts.Background != nil {
		b := opts.Background.Bounds()
		raster.AddImage(backgroundID, opts.Background)
		e.SetBackground(render.Image{ID: backgroundID, Width: float64(b.Dx()), Height: float64(b.Dy())})
	}
	e.ResetView()

	failed := e.RenderTo(raster)
	if failed < 0 {
		return ErrRender
	}
	if failed > 0 {
		r.logger.Warn("entities skipped during export", "count", failed)
	}
	if err := raster.Err(); err != nil {
		r.logger.Warn("paths not painted during export", "error", err)
	}
	return raster.EncodePNG(w)
}
