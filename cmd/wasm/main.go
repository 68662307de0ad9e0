//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/engine"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/render"
)

var eng = engine.New()

func main() {
	api := js.Global().Get("Object").New()

	// --- Setup ---
	api.Set("init", js.FuncOf(initEngine))
	api.Set("resize", js.FuncOf(resize))
	api.Set("resetView", js.FuncOf(resetView))
	api.Set("setBackground", js.FuncOf(setBackground))
	api.Set("setGrid", js.FuncOf(setGrid))

	// --- Input ---
	api.Set("pointerDown", js.FuncOf(pointer((*engine.Engine).PointerDown)))
	api.Set("pointerMove", js.FuncOf(pointer((*engine.Engine).PointerMove)))
	api.Set("pointerUp", js.FuncOf(pointer((*engine.Engine).PointerUp)))
	api.Set("pointerLeave", js.FuncOf(pointerLeave))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("touchStart", js.FuncOf(touches((*engine.Engine).TouchStart)))
	api.Set("touchMove", js.FuncOf(touches((*engine.Engine).TouchMove)))
	api.Set("touchEnd", js.FuncOf(touchEnd))
	api.Set("keyDown", js.FuncOf(keyDown))

	// --- Commands ---
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setColor", js.FuncOf(setColor))
	api.Set("setThickness", js.FuncOf(setThickness))
	api.Set("setFill", js.FuncOf(setFill))
	api.Set("setReadonly", js.FuncOf(setReadonly))
	api.Set("undo", js.FuncOf(command((*engine.Engine).Undo)))
	api.Set("redo", js.FuncOf(command((*engine.Engine).Redo)))
	api.Set("copy", js.FuncOf(command((*engine.Engine).Copy)))
	api.Set("cut", js.FuncOf(command((*engine.Engine).Cut)))
	api.Set("paste", js.FuncOf(command((*engine.Engine).Paste)))
	api.Set("delete", js.FuncOf(command((*engine.Engine).Delete)))
	api.Set("clear", js.FuncOf(command((*engine.Engine).Clear)))
	api.Set("cancel", js.FuncOf(command((*engine.Engine).Cancel)))
	api.Set("save", js.FuncOf(save))
	api.Set("load", js.FuncOf(load))
	api.Set("loadSample", js.FuncOf(loadSample))

	// --- Queries ---
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getState", js.FuncOf(getState))

	js.Global().Set("scoutingCanvas", api)
	js.Global().Set("scoutingCanvasWasmReady", js.ValueOf(true))

	select {}
}

// --- Setup ---

// initEngine replaces the engine. Options: fieldWidth, fieldHeight,
// maxEntities, readonly, grid, color, thickness, onStatus(msg),
// onStyleSync(color, thickness).
func initEngine(this js.Value, args []js.Value) any {
	opts := []engine.Option{
		engine.WithLogger(slog.Default().With("component", "canvas")),
	}
	if len(args) > 0 && args[0].Type() == js.TypeObject {
		o := args[0]
		if w, h := o.Get("fieldWidth"), o.Get("fieldHeight"); w.Type() == js.TypeNumber && h.Type() == js.TypeNumber {
			opts = append(opts, engine.WithFieldSize(w.Float(), h.Float()))
		}
		if n := o.Get("maxEntities"); n.Type() == js.TypeNumber {
			opts = append(opts, engine.WithMaxEntities(n.Int()))
		}
		if ro := o.Get("readonly"); ro.Type() == js.TypeBoolean {
			opts = append(opts, engine.WithReadonly(ro.Bool()))
		}
		if g := o.Get("grid"); g.Type() == js.TypeBoolean {
			opts = append(opts, engine.WithGrid(g.Bool()))
		}
		if c, t := o.Get("color"), o.Get("thickness"); c.Type() == js.TypeString && t.Type() == js.TypeNumber {
			opts = append(opts, engine.WithStyle(c.String(), t.Float()))
		}
		if fn := o.Get("onStatus"); fn.Type() == js.TypeFunction {
			opts = append(opts, engine.WithStatus(func(msg string) { fn.Invoke(msg) }))
		}
		if fn := o.Get("onStyleSync"); fn.Type() == js.TypeFunction {
			opts = append(opts, engine.WithStyleSync(func(color string, thickness float64) {
				fn.Invoke(color, thickness)
			}))
		}
	}
	eng = engine.New(opts...)
	return nil
}

func resize(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func resetView(this js.Value, args []js.Value) any {
	eng.ResetView()
	return nil
}

// setBackground takes the image ID the page draws with and its natural size.
func setBackground(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.SetBackground(render.Image{
		ID:     args[0].String(),
		Width:  args[1].Float(),
		Height: args[2].Float(),
	})
	return nil
}

func setGrid(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetGrid(args[0].Truthy())
	return nil
}

// --- Input ---

func modifiers(ev js.Value) engine.Modifiers {
	return engine.Modifiers{
		Shift: ev.Get("shiftKey").Truthy(),
		Ctrl:  ev.Get("ctrlKey").Truthy(),
		Meta:  ev.Get("metaKey").Truthy(),
		Alt:   ev.Get("altKey").Truthy(),
	}
}

// pointer adapts an event object {x, y, button, shiftKey, ctrlKey, metaKey,
// altKey} with coordinates relative to the canvas element.
func pointer(fn func(*engine.Engine, engine.PointerEvent)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		ev := args[0]
		fn(eng, engine.PointerEvent{
			X:         ev.Get("x").Float(),
			Y:         ev.Get("y").Float(),
			Button:    ev.Get("button").Int(),
			Modifiers: modifiers(ev),
		})
		return js.ValueOf(eng.Cursor())
	}
}

func pointerLeave(this js.Value, args []js.Value) any {
	eng.PointerLeave()
	return nil
}

func wheel(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.Wheel(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

// touches adapts an array of {x, y} points.
func touches(fn func(*engine.Engine, []engine.Touch)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		list := args[0]
		ts := make([]engine.Touch, list.Length())
		for i := range ts {
			t := list.Index(i)
			ts[i] = engine.Touch{X: t.Get("x").Float(), Y: t.Get("y").Float()}
		}
		fn(eng, ts)
		return nil
	}
}

func touchEnd(this js.Value, args []js.Value) any {
	remaining := 0
	if len(args) > 0 {
		remaining = args[0].Int()
	}
	eng.TouchEnd(remaining)
	return nil
}

func keyDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	ev := args[0]
	return js.ValueOf(eng.KeyDown(engine.KeyEvent{
		Key:       ev.Get("key").String(),
		Modifiers: modifiers(ev),
	}))
}

// --- Commands ---

func command(fn func(*engine.Engine) bool) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		return js.ValueOf(fn(eng))
	}
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	t, ok := engine.ParseTool(args[0].String())
	if ok {
		eng.SetTool(t)
	}
	return js.ValueOf(ok)
}

func setColor(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetColor(args[0].String())
	return nil
}

func setThickness(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetThickness(args[0].Float())
	return nil
}

func setFill(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetFill(args[0].Truthy())
	return nil
}

func setReadonly(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetReadonly(args[0].Truthy())
	return nil
}

func save(this js.Value, args []js.Value) any {
	data, err := eng.Save()
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true, "data": string(data)})
}

func load(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Load([]byte(args[0].String())))
}

func loadSample(this js.Value, args []js.Value) any {
	eng.LoadSample()
	return nil
}

// --- Queries ---

func renderFrame(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(-1)
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

type state struct {
	Tool      string  `json:"tool"`
	Mode      string  `json:"mode"`
	Color     string  `json:"color"`
	Thickness float64 `json:"thickness"`
	Filled    bool    `json:"filled"`
	Readonly  bool    `json:"readonly"`
	Cursor    string  `json:"cursor"`
	CanUndo   bool    `json:"canUndo"`
	CanRedo   bool    `json:"canRedo"`
	Count     int     `json:"count"`
	Selection []int   `json:"selection"`
	Scale     float64 `json:"scale"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
}

func getState(this js.Value, args []js.Value) any {
	v := eng.ViewState()
	out, err := json.Marshal(state{
		Tool:      string(eng.Tool()),
		Mode:      eng.Mode().String(),
		Color:     eng.Color(),
		Thickness: eng.Thickness(),
		Filled:    eng.Filled(),
		Readonly:  eng.Readonly(),
		Cursor:    eng.Cursor(),
		CanUndo:   eng.CanUndo(),
		CanRedo:   eng.CanRedo(),
		Count:     eng.Len(),
		Selection: eng.Selection(),
		Scale:     v.Scale,
		OffsetX:   v.OffsetX,
		OffsetY:   v.OffsetY,
	})
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(out))
}
