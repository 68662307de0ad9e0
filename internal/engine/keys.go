package engine

import "strings"

// KeyEvent is a keydown from the page.
type KeyEvent struct {
	Key string
	Modifiers
}

// KeyDown runs the keyboard command for ev. It reports whether the key was
// used, so the page can suppress the browser default. Every shortcut is off
// in read-only mode.
func (e *Engine) KeyDown(ev KeyEvent) (handled bool) {
	defer e.guard("key down")

	if e.readonly {
		return false
	}

	switch ev.Key {
	case "Escape":
		if e.Cancel() {
			e.notify("Operation cancelled")
			return true
		}
		return false
	case "Delete", "Backspace":
		if ev.command() || e.selection.IsEmpty() {
			return false
		}
		e.Delete()
		return true
	}

	if !ev.command() {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Shift {
			e.Redo()
		} else {
			e.Undo()
		}
	case "y":
		e.Redo()
	case "a":
		e.SetTool(ToolSelect)
	case "p":
		e.SetTool(ToolPen)
	case "r":
		e.SetTool(ToolRectangle)
	case "c":
		if ev.Shift {
			return false
		}
		if ev.Alt {
			e.SetTool(ToolCircle)
		} else {
			e.Copy()
		}
	case "x":
		e.Cut()
	case "v":
		e.Paste()
	case "l":
		e.SetTool(ToolLine)
	case "h":
		e.SetTool(ToolHexagon)
	case "s":
		if ev.Shift {
			return false
		}
		e.SetTool(ToolStar)
	case "f":
		e.SetFill(!e.filled)
	default:
		return false
	}
	return true
}

// Cancel abandons the gesture in progress and drops the selection without
// touching the drawing. It reports whether there was anything to cancel.
func (e *Engine) Cancel() bool {
	if e.g.mode == ModeIdle && e.selection.IsEmpty() {
		return false
	}
	e.abortGesture()
	e.selection.Clear()
	e.cursor = "default"
	return true
}
