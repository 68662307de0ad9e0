package render

import (
	"encoding/json"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op           string        `json:"op"`                     // Operation: "clear", "path", "image"
	Transform    []float64     `json:"transform,omitempty"`    // [a, b, c, d, e, f] affine matrix
	Path         []PathCommand `json:"path,omitempty"`         // Path data for "path" ops
	Fill         string        `json:"fill,omitempty"`         // Fill color
	Stroke       string        `json:"stroke,omitempty"`       // Stroke color
	StrokeWidth  float64       `json:"strokeWidth,omitempty"`  // Stroke width
	Opacity      float64       `json:"opacity,omitempty"`      // Global alpha
	Dash         []float64     `json:"dash,omitempty"`         // Line dash pattern
	LineCap      string        `json:"lineCap,omitempty"`      // "round" or default
	ImageAssetID string        `json:"imageAssetId,omitempty"` // Asset ID for image lookup
	X            float64       `json:"x,omitempty"`            // Image destination
	Y            float64       `json:"y,omitempty"`
	Width        float64       `json:"width,omitempty"`
	Height       float64       `json:"height,omitempty"`
}

// PathCommand is one path verb followed by its coordinates, e.g. ["M", x, y]
// or ["C", c1x, c1y, c2x, c2y, x, y].
type PathCommand []any

// PathCommands converts a path to its wire form.
func PathCommands(p geom.Path) []PathCommand {
	out := make([]PathCommand, 0, len(p))
	for _, seg := range p {
		switch seg.Op {
		case geom.OpMoveTo, geom.OpLineTo:
			out = append(out, PathCommand{seg.Op.String(), seg.Pts[0].X, seg.Pts[0].Y})
		case geom.OpQuadTo:
			out = append(out, PathCommand{"Q", seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y})
		case geom.OpCubicTo:
			out = append(out, PathCommand{"C",
				seg.Pts[0].X, seg.Pts[0].Y,
				seg.Pts[1].X, seg.Pts[1].Y,
				seg.Pts[2].X, seg.Pts[2].Y,
			})
		case geom.OpClose:
			out = append(out, PathCommand{"Z"})
		}
	}
	return out
}

// Recorder is a Canvas that records draw commands instead of painting.
type Recorder struct {
	transform geom.Matrix2D
	commands  []DrawCommand
}

// NewRecorder returns an empty recorder with the identity transform.
func NewRecorder() *Recorder {
	return &Recorder{transform: geom.Identity()}
}

// Commands returns the recorded commands in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.transform = geom.Identity()
}

func (r *Recorder) Clear(color string) {
	r.transform = geom.Identity()
	r.commands = append(r.commands, DrawCommand{Op: "clear", Fill: color})
}

func (r *Recorder) SetTransform(m geom.Matrix2D) {
	r.transform = m
}

func (r *Recorder) pathCommand(p geom.Path, st Style) DrawCommand {
	cmd := DrawCommand{
		Op:        "path",
		Transform: r.transform.ToSlice(),
		Path:      PathCommands(p),
		Opacity:   st.opacity(),
	}
	if len(st.Dash) > 0 {
		cmd.Dash = append([]float64(nil), st.Dash...)
	}
	if st.Round {
		cmd.LineCap = "round"
	}
	return cmd
}

func (r *Recorder) StrokePath(p geom.Path, st Style) {
	cmd := r.pathCommand(p, st)
	cmd.Stroke = st.Color
	cmd.StrokeWidth = st.LineWidth
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) FillPath(p geom.Path, st Style) {
	cmd := r.pathCommand(p, st)
	cmd.Fill = st.Color
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) DrawImage(img Image, dst geom.Rect) {
	r.commands = append(r.commands, DrawCommand{
		Op:           "image",
		Transform:    r.transform.ToSlice(),
		ImageAssetID: img.ID,
		X:            dst.X,
		Y:            dst.Y,
		Width:        dst.Width,
		Height:       dst.Height,
	})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
