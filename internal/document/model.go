// Package document is the saved form of a drawing: the committed entities
// plus the view they were drawn in.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
)

// Version is the only schema version this package reads and writes.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported file version")
	ErrMalformed          = errors.New("malformed drawing")
)

// Drawing is a saved drawing. Offsets and canvas size are in device pixels
// of the canvas that saved it.
type Drawing struct {
	Version      int              `json:"version"`
	Timestamp    string           `json:"timestamp"`
	Scale        float64          `json:"scale"`
	OffsetX      float64          `json:"offsetX"`
	OffsetY      float64          `json:"offsetY"`
	CanvasWidth  float64          `json:"canvasWidth"`
	CanvasHeight float64          `json:"canvasHeight"`
	Strokes      drawing.Entities `json:"strokes"`
}

// New stamps a drawing with the current version and time.
func New(now time.Time, entities []drawing.Entity) *Drawing {
	if entities == nil {
		entities = []drawing.Entity{}
	}
	return &Drawing{
		Version:   Version,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Scale:     1,
		Strokes:   entities,
	}
}

// HasCanvasSize reports whether the saving canvas size was recorded.
func (d *Drawing) HasCanvasSize() bool {
	return d.CanvasWidth > 0 && d.CanvasHeight > 0
}

// Encode marshals the drawing.
func (d *Drawing) Encode() ([]byte, error) {
	if d.Strokes == nil {
		d.Strokes = drawing.Entities{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}
	return data, nil
}

// Decode parses a saved drawing. The version is checked before the entities
// are looked at, and every entity must be well formed.
func Decode(data []byte) (*Drawing, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Version == nil || *head.Version != Version {
		return nil, ErrUnsupportedVersion
	}

	var d Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d.Strokes == nil {
		d.Strokes = drawing.Entities{}
	}
	return &d, nil
}
