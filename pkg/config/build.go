package config

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/discovery"
	"github.com/storemon/storemon-go/pkg/extract"
	"github.com/storemon/storemon-go/pkg/format"
	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/sensor/sim"
	"github.com/storemon/storemon-go/pkg/template"
	"github.com/storemon/storemon-go/pkg/widget"
)

// ScreenPalette returns the default palette with the configured colors
// applied.
func (c Config) ScreenPalette() (screen.Palette, error) {
	p := screen.DefaultPalette()
	names := make([]string, 0, len(c.Palette))
	for name := range c.Palette {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := c.Palette[name]
		col, err := p.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("%w: palette %q: %v", ErrInvalid, name, err)
		}
		p[name] = col
	}
	return p, nil
}

// WidgetRegistry creates the configured widgets with colors resolved
// against p.
func (c Config) WidgetRegistry(p screen.Palette) (*widget.Registry, error) {
	reg := widget.NewRegistry()
	for name, w := range c.Widgets {
		cfg, err := w.widgetConfig(p)
		if err != nil {
			return nil, fmt.Errorf("%w: widget %q: %v", ErrInvalid, name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: widget %q: %v", ErrInvalid, name, err)
		}
		reg.Register(name, widget.ChargeFlowFactory(cfg))
	}
	return reg, nil
}

func (w ChargeFlow) widgetConfig(p screen.Palette) (widget.ChargeFlowConfig, error) {
	cfg := widget.DefaultChargeFlowConfig()
	if w.Width != 0 {
		cfg.Width = w.Width
	}
	if w.Arrows != 0 {
		cfg.Arrows = w.Arrows
	}
	if len(w.Thresholds) > 0 {
		cfg.Thresholds = make([]widget.Threshold, len(w.Thresholds))
		for i, t := range w.Thresholds {
			col, err := p.Resolve(t.Color)
			if err != nil {
				return cfg, err
			}
			cfg.Thresholds[i] = widget.Threshold{Start: t.Start, Color: col}
		}
	}
	var err error
	if w.Empty != "" {
		if cfg.Empty, err = p.Resolve(w.Empty); err != nil {
			return cfg, err
		}
	}
	if w.Arrow != "" {
		if cfg.ArrowFG, err = p.Resolve(w.Arrow); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// FormatOptions returns the formatter settings.
func (c Config) FormatOptions() format.Options {
	return format.Options{TimeParts: c.TimeParts, Prefixes: c.Prefixes}
}

// TemplateEnv builds the formatter and widget registries and the palette
// the template compiles against.
func (c Config) TemplateEnv() (template.Env, error) {
	p, err := c.ScreenPalette()
	if err != nil {
		return template.Env{}, err
	}
	widgets, err := c.WidgetRegistry(p)
	if err != nil {
		return template.Env{}, err
	}
	return template.Env{
		Formatters: format.NewRegistry(c.FormatOptions()),
		Widgets:    widgets,
		Palette:    p,
	}, nil
}

// StatusLayouts converts the layout overrides.
func (c Config) StatusLayouts() (map[device.Kind]device.Layout, error) {
	out := make(map[device.Kind]device.Layout, len(c.Layouts))
	for name, l := range c.Layouts {
		kind, err := device.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: layouts: %v", ErrInvalid, err)
		}
		if !kind.IsStatus() {
			return nil, fmt.Errorf("%w: layouts: %s does not report status text", ErrInvalid, kind)
		}
		layout := device.Layout{HalveCapacity: l.HalveCapacity}
		for _, f := range []struct {
			dst  *extract.Rule
			src  Rule
			name string
		}{
			{&layout.Stored, l.Stored, "stored"},
			{&layout.Capacity, l.Capacity, "capacity"},
			{&layout.Input, l.Input, "input"},
			{&layout.Output, l.Output, "output"},
		} {
			pattern := f.src.Pattern
			if pattern == "" {
				pattern = device.NumberPattern
			}
			r, err := extract.NewRule(f.src.Line, pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: layouts.%s.%s: %v", ErrInvalid, name, f.name, err)
			}
			*f.dst = r
		}
		out[kind] = layout
	}
	return out, nil
}

// DeviceOptions returns the sampler settings.
func (c Config) DeviceOptions(logger *slog.Logger, trace log.Logger) (device.Options, error) {
	layouts, err := c.StatusLayouts()
	if err != nil {
		return device.Options{}, err
	}
	return device.Options{
		HistoryLength: c.HistoryLength,
		PollInterval:  c.PollInterval.Std(),
		Mode:          c.Statistic,
		RateConstant:  c.RateConstant,
		Logger:        logger,
		Trace:         trace,
		Layouts:       layouts,
	}, nil
}

// Entries returns the configured devices for discovery.
func (c Config) Entries() []discovery.Entry {
	entries := make([]discovery.Entry, len(c.Devices))
	for i, d := range c.Devices {
		entries[i] = discovery.Entry{Address: d.Address, Kind: d.Kind}
	}
	return entries
}

// Profile returns the simulation profile of a device.
func (d Device) Profile() sim.Profile {
	return sim.Profile{
		Capacity: d.Capacity,
		Stored:   d.Stored,
		Input:    d.Input,
		Output:   d.Output,
		Cost:     d.Cost,
		Swing:    d.Swing,
		Period:   d.Period,
	}
}
