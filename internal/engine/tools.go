package engine

import "github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"

// Tool is the active drawing tool.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolRectangle Tool = Tool(drawing.Rectangle)
	ToolCircle    Tool = Tool(drawing.Circle)
	ToolLine      Tool = Tool(drawing.Line)
	ToolArrow     Tool = Tool(drawing.Arrow)
	ToolHexagon   Tool = Tool(drawing.Hexagon)
	ToolStar      Tool = Tool(drawing.Star)
	ToolSelect    Tool = "select"
)

// ParseTool resolves a tool name sent by the page.
func ParseTool(name string) (Tool, bool) {
	t := Tool(name)
	switch t {
	case ToolPen, ToolSelect:
		return t, true
	}
	if _, ok := t.ShapeKind(); ok {
		return t, true
	}
	return "", false
}

// ShapeKind returns the shape a shape tool places.
func (t Tool) ShapeKind() (drawing.ShapeKind, bool) {
	k := drawing.ShapeKind(t)
	return k, k.Valid()
}

// Mode is the gesture in progress. Only one is active at a time; pan and
// zoom through the wheel work in every mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeFreehand
	ModeShapePreview
	ModeMarquee
	ModeMoving
	ModeResizing
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeFreehand:
		return "freehandDrawing"
	case ModeShapePreview:
		return "shapePreview"
	case ModeMarquee:
		return "marqueeSelecting"
	case ModeMoving:
		return "movingSelection"
	case ModeResizing:
		return "resizingSelection"
	case ModePanning:
		return "panning"
	}
	return "unknown"
}
