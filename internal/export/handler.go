package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/asset"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/board"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/document"
)

type Documents interface {
	Document(ctx context.Context, id string) (*document.Drawing, error)
}

type Backgrounds interface {
	Open(id string) (image.Image, error)
}

type Handler struct {
	renderer    *Renderer
	docs        Documents
	backgrounds Backgrounds
}

func NewHandler(renderer *Renderer, docs Documents, backgrounds Backgrounds) *Handler {
	return &Handler{renderer: renderer, docs: docs, backgrounds: backgrounds}
}

// PNG handles GET /api/drawings/{drawingId}/export.png?background=<asset>&grid=1.
func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["drawingId"]

	d, err := h.docs.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, board.ErrNotFound) {
			http.Error(w, "drawing not found", http.StatusNotFound)
			return
		}
		slog.Error("load drawing for export", "error", err, "drawing", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	var opts Options
	if on, err := strconv.ParseBool(q.Get("grid")); err == nil {
		opts.Grid = on
	}
	if bg := q.Get("background"); bg != "" {
		img, err := h.backgrounds.Open(bg)
		if err != nil {
			if errors.Is(err, asset.ErrNotFound) {
				http.Error(w, "background not found", http.StatusBadRequest)
				return
			}
			slog.Error("open background", "error", err, "asset", bg)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		opts.Background = img
	}

	var buf bytes.Buffer
	if err := h.renderer.PNG(&buf, d, opts); err != nil {
		slog.Error("export drawing", "error", err, "drawing", id)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
