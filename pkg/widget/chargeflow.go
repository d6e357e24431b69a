package widget

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/storemon/storemon-go/pkg/screen"
)

// Default ChargeFlow parameters.
const (
	DefaultWidth  = 20
	DefaultArrows = 5

	ArrowRight = '>'
	ArrowLeft  = '<'
)

// Record fields ChargeFlow reads unless the template names others.
const (
	FieldPercent = "percent"
	FieldNet     = "net"
)

// Threshold colors the filled part of the bar from Start percent upward.
type Threshold struct {
	Start float64
	Color screen.Color
}

// ChargeFlowConfig holds the parameters shared by all ChargeFlow instances
// of one widget definition.
type ChargeFlowConfig struct {
	Width      int
	Arrows     int
	Thresholds []Threshold
	Empty      screen.Color
	ArrowFG    screen.Color
}

// DefaultChargeFlowConfig returns a red/yellow/green bar.
func DefaultChargeFlowConfig() ChargeFlowConfig {
	return ChargeFlowConfig{
		Width:  DefaultWidth,
		Arrows: DefaultArrows,
		Thresholds: []Threshold{
			{Start: 0, Color: 0xFF0000},
			{Start: 25, Color: 0xFFFF00},
			{Start: 50, Color: 0x00FF00},
		},
		Empty:   0x303030,
		ArrowFG: screen.White,
	}
}

// Validate checks the configuration.
func (c ChargeFlowConfig) Validate() error {
	if c.Width < 1 {
		return fmt.Errorf("%w: width %d", ErrInvalidConfig, c.Width)
	}
	if c.Arrows < 1 {
		return fmt.Errorf("%w: arrows %d", ErrInvalidConfig, c.Arrows)
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("%w: no thresholds", ErrInvalidConfig)
	}
	for _, t := range c.Thresholds {
		if math.IsNaN(t.Start) {
			return fmt.Errorf("%w: threshold start is NaN", ErrInvalidConfig)
		}
	}
	return nil
}

// ChargeFlow is a horizontal charge bar. The filled part shows the charge
// level; arrows spreading from the center show the direction of net flow.
type ChargeFlow struct {
	cfg          ChargeFlowConfig
	percentField string
	netField     string

	mu    sync.Mutex
	phase int
}

// NewChargeFlow creates a ChargeFlow reading the default record fields.
func NewChargeFlow(cfg ChargeFlowConfig) (*ChargeFlow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	th := make([]Threshold, len(cfg.Thresholds))
	copy(th, cfg.Thresholds)
	sort.SliceStable(th, func(i, j int) bool { return th[i].Start < th[j].Start })
	cfg.Thresholds = th

	return &ChargeFlow{
		cfg:          cfg,
		percentField: FieldPercent,
		netField:     FieldNet,
	}, nil
}

// ChargeFlowFactory returns a Factory for cfg. Template arguments optionally
// name the percent and net fields: {@flow:percent,net}.
func ChargeFlowFactory(cfg ChargeFlowConfig) Factory {
	return func(args []string) (Widget, error) {
		if len(args) > 2 {
			return nil, fmt.Errorf("%w: chargeflow takes at most 2 arguments, got %d", ErrInvalidConfig, len(args))
		}
		w, err := NewChargeFlow(cfg)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 && args[0] != "" {
			w.percentField = args[0]
		}
		if len(args) > 1 && args[1] != "" {
			w.netField = args[1]
		}
		return w, nil
	}
}

// Phase returns the current animation phase, 0 before the first Draw.
func (w *ChargeFlow) Phase() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// FillColor returns the color of the highest threshold whose Start is at or
// below percent. Below every threshold the lowest one is used.
func (w *ChargeFlow) FillColor(percent float64) screen.Color {
	c := w.cfg.Thresholds[0].Color
	for _, t := range w.cfg.Thresholds {
		if t.Start <= percent {
			c = t.Color
		}
	}
	return c
}

// Fill returns the number of filled columns for percent.
func (w *ChargeFlow) Fill(percent float64) int {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	n := int(math.Ceil(float64(w.cfg.Width) * percent / 100))
	return min(n, w.cfg.Width)
}

// Draw advances the phase and renders the bar.
func (w *ChargeFlow) Draw(rec Values, depth int) []screen.Cell {
	w.mu.Lock()
	w.phase = w.phase%w.cfg.Arrows + 1
	phase := w.phase
	w.mu.Unlock()

	percent := number(rec, w.percentField)
	net := number(rec, w.netField)

	fillBG := w.FillColor(percent)
	emptyBG := w.cfg.Empty
	arrowFG := w.cfg.ArrowFG
	mono := depth <= 1
	if mono {
		fillBG, emptyBG = screen.White, screen.Black
	}

	fill := w.Fill(percent)
	center := w.cfg.Width / 2
	cells := make([]screen.Cell, w.cfg.Width)
	for x := range cells {
		bg := emptyBG
		if x < fill {
			bg = fillBG
		}
		fg := arrowFG
		if mono {
			fg = bg.Contrast()
		}

		ch := ' '
		switch {
		case net > 0 && x > center && x <= center+phase:
			ch = ArrowRight
		case net < 0 && x > center-phase && x <= center:
			ch = ArrowLeft
		}
		cells[x] = screen.Cell{Ch: ch, FG: fg, BG: bg}
	}
	return cells
}

// Compile-time interface satisfaction check.
var _ Widget = (*ChargeFlow)(nil)
