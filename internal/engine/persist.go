package engine

import (
	"fmt"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/document"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/view"
)

// Document returns the drawing and view in saved form.
func (e *Engine) Document() *document.Drawing {
	d := document.New(e.now(), e.store.Entities())
	st := e.view.Snapshot()
	d.Scale = st.Scale
	d.OffsetX = st.OffsetX
	d.OffsetY = st.OffsetY
	d.CanvasWidth = st.CanvasWidth
	d.CanvasHeight = st.CanvasHeight
	return d
}

// Save encodes the drawing and view.
func (e *Engine) Save() ([]byte, error) {
	data, err := e.Document().Encode()
	if err != nil {
		e.logger.Error("save drawing failed", "error", err)
		return nil, err
	}
	return data, nil
}

// Load replaces the drawing and view with a saved one. History and
// selection are reset. On failure the current drawing is left as it was and
// false is returned.
func (e *Engine) Load(data []byte) (ok bool) {
	defer e.guard("load")

	d, err := document.Decode(data)
	if err != nil {
		e.loadFailed(err)
		return false
	}
	return e.LoadDocument(d)
}

// LoadDocument is Load for an already decoded drawing.
func (e *Engine) LoadDocument(d *document.Drawing) bool {
	if err := e.store.Replace(d.Strokes); err != nil {
		e.loadFailed(err)
		return false
	}
	e.abortGesture()
	e.selection.Clear()
	e.clipboard = nil

	adjusted := e.view.Restore(view.State{
		Scale:        d.Scale,
		OffsetX:      d.OffsetX,
		OffsetY:      d.OffsetY,
		CanvasWidth:  d.CanvasWidth,
		CanvasHeight: d.CanvasHeight,
	})
	if geom.IsFinite(d.Scale) && d.Scale != 0 && e.view.Scale != d.Scale {
		e.notify(fmt.Sprintf("Scale limited to %.2f", e.view.Scale))
	}
	if adjusted {
		e.notify("Drawing loaded with size adjustment")
	} else {
		e.notify("Drawing loaded successfully")
	}
	return true
}

// LoadSample replaces the drawing with the built-in example.
func (e *Engine) LoadSample() {
	d := document.NewSample(e.now())
	st := e.view.Snapshot()
	d.Scale = st.Scale
	d.OffsetX, d.OffsetY = st.OffsetX, st.OffsetY
	e.LoadDocument(d)
}

func (e *Engine) loadFailed(err error) {
	e.logger.Warn("load drawing failed", "error", err)
	e.notify(fmt.Sprintf("Error loading file: %v", err))
}
