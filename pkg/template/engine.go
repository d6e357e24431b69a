package template

import (
	"errors"
	"fmt"
	"sync"

	"github.com/storemon/storemon-go/pkg/expr"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/widget"
)

// Engine renders a Template. It owns the widget instances of every display
// slot, so widget state advances per slot and survives between ticks.
type Engine struct {
	tpl   *Template
	depth int

	fg       screen.Color
	bg       screen.Color
	errColor screen.Color

	mu    sync.Mutex
	slots map[string][]widget.Widget
}

// NewEngine creates an engine for tpl drawing at the given color depth.
func NewEngine(tpl *Template, depth int) *Engine {
	p := tpl.env.Palette
	return &Engine{
		tpl:      tpl,
		depth:    depth,
		fg:       p.Lookup(screen.PaletteForeground, screen.White),
		bg:       p.Lookup(screen.PaletteBackground, screen.Black),
		errColor: p.Lookup(screen.PaletteError, 0xFF0000),
		slots:    make(map[string][]widget.Widget),
	}
}

// Template returns the compiled template.
func (e *Engine) Template() *Template { return e.tpl }

// Depth returns the color depth the engine draws for.
func (e *Engine) Depth() int { return e.depth }

// Colors returns the default foreground and background.
func (e *Engine) Colors() (fg, bg screen.Color) { return e.fg, e.bg }

// Forget drops the widget state of slot.
func (e *Engine) Forget(slot string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.slots, slot)
}

// Render draws every template line for rec. Problems with individual fields
// are drawn inline and returned joined; the lines are always complete.
func (e *Engine) Render(slot string, rec Values) ([]Line, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &renderer{
		engine:  e,
		rec:     rec,
		widgets: e.instances(slot),
	}
	lines := make([]Line, 0, len(e.tpl.lines))
	for i, nodes := range e.tpl.lines {
		r.line = i + 1
		r.cells = nil
		r.fg, r.bg = e.fg, e.bg
		r.walk(nodes)
		lines = append(lines, Line(r.cells))
	}
	return lines, errors.Join(r.errs...)
}

func (e *Engine) instances(slot string) []widget.Widget {
	ws, ok := e.slots[slot]
	if ok {
		return ws
	}
	ws = make([]widget.Widget, len(e.tpl.widgets))
	for i, n := range e.tpl.widgets {
		// Compile already instantiated each widget once; a failure here
		// leaves a nil entry that renders as a marker.
		w, err := e.tpl.env.Widgets.New(n.name, n.args)
		if err == nil {
			ws[i] = w
		}
	}
	e.slots[slot] = ws
	return ws
}

type renderer struct {
	engine  *Engine
	rec     Values
	widgets []widget.Widget

	line  int
	cells []screen.Cell
	fg    screen.Color
	bg    screen.Color
	errs  []error
}

func (r *renderer) walk(nodes []node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			r.text(n.text, r.fg)

		case *varNode:
			v, ok := r.rec[n.name]
			if !ok {
				r.fail(n.name, fmt.Errorf("%w: %q", ErrUndefinedField, n.name))
				continue
			}
			s, err := n.fn(v, n.args)
			if err != nil {
				r.fail(n.name, fmt.Errorf("field %q: %s: %w", n.name, n.formatter, err))
				continue
			}
			r.text(s, r.fg)

		case *widgetNode:
			w := r.widgets[n.index]
			if w == nil {
				r.fail("@"+n.name, fmt.Errorf("%w: %q", widget.ErrUnknownWidget, n.name))
				continue
			}
			r.cells = append(r.cells, w.Draw(r.rec, r.engine.depth)...)

		case styleNode:
			switch {
			case n.bg && n.reset:
				r.bg = r.engine.bg
			case n.bg:
				r.bg = n.color
			case n.reset:
				r.fg = r.engine.fg
			default:
				r.fg = n.color
			}

		case *condNode:
			ok, err := n.cond.Eval(r.lookup)
			if err != nil {
				r.fail(r.missing(n.cond), fmt.Errorf("condition %q: %w", n.cond, err))
				continue
			}
			if ok {
				r.walk(n.then)
			} else {
				r.walk(n.els)
			}
		}
	}
}

func (r *renderer) lookup(name string) (any, bool) {
	v, ok := r.rec[name]
	return v, ok
}

// missing names the first field of cond absent from the record, or the
// expression itself.
func (r *renderer) missing(cond *expr.Expr) string {
	for _, id := range cond.Idents() {
		if _, ok := r.rec[id]; !ok {
			return id
		}
	}
	return cond.String()
}

func (r *renderer) text(s string, fg screen.Color) {
	for _, ch := range s {
		r.cells = append(r.cells, screen.Cell{Ch: ch, FG: fg, BG: r.bg})
	}
}

func (r *renderer) fail(name string, err error) {
	r.text("!"+name+"?", r.engine.errColor)
	r.errs = append(r.errs, fmt.Errorf("line %d: %w", r.line, err))
}
