package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/format"
	"github.com/storemon/storemon-go/pkg/monitor"
	"github.com/storemon/storemon-go/pkg/stats"
	"github.com/storemon/storemon-go/pkg/widget"
)

var (
	// ErrInvalid is matched by every validation error.
	ErrInvalid = errors.New("invalid configuration")

	// ErrUnknownFormat is returned by Load for unsupported file extensions.
	ErrUnknownFormat = errors.New("unsupported config file format")
)

// Config is the complete monitor configuration.
type Config struct {
	// HistoryLength is the number of rate samples kept per direction.
	HistoryLength int `yaml:"history_length" toml:"history_length"`

	// PollInterval is the sampling cadence of every device.
	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval"`

	// RefreshInterval is the render cadence.
	RefreshInterval Duration `yaml:"refresh_interval" toml:"refresh_interval"`

	// Statistic selects mean or median reduction of the rate histories.
	Statistic stats.Mode `yaml:"statistic" toml:"statistic"`

	// RateConstant is the number of device ticks per second.
	RateConstant float64 `yaml:"rate_constant" toml:"rate_constant"`

	// TimeParts is the default component count of the time formatter.
	TimeParts int `yaml:"time_parts" toml:"time_parts"`

	// Prefixes are the SI magnitude symbols.
	Prefixes format.Prefixes `yaml:"prefixes" toml:"prefixes"`

	// Palette adds or overrides named colors ("#rrggbb", "0xrrggbb" or
	// decimal).
	Palette map[string]string `yaml:"palette" toml:"palette"`

	// Names maps device addresses or address prefixes to display names.
	Names map[string]string `yaml:"names" toml:"names"`

	Display Display `yaml:"display" toml:"display"`

	// Template is the display template, one entry per line.
	Template []string `yaml:"template" toml:"template"`

	// Widgets defines the widgets the template can reference.
	Widgets map[string]ChargeFlow `yaml:"widgets" toml:"widgets"`

	// Devices lists the simulated devices to monitor.
	Devices []Device `yaml:"devices" toml:"devices"`

	// Layouts overrides status text layouts, keyed by device kind name.
	Layouts map[string]Layout `yaml:"layouts" toml:"layouts"`
}

// Display configures the output surface.
type Display struct {
	Mode monitor.Mode `yaml:"mode" toml:"mode"`

	// Index selects the device in single mode.
	Index int `yaml:"index" toml:"index"`

	// Depth overrides the detected color depth when non-zero.
	Depth int `yaml:"depth" toml:"depth"`
}

// ChargeFlow configures one charge bar widget.
type ChargeFlow struct {
	Width      int         `yaml:"width" toml:"width"`
	Arrows     int         `yaml:"arrows" toml:"arrows"`
	Thresholds []Threshold `yaml:"thresholds" toml:"thresholds"`
	Empty      string      `yaml:"empty" toml:"empty"`
	Arrow      string      `yaml:"arrow" toml:"arrow"`
}

// Threshold colors the bar from Start percent upward.
type Threshold struct {
	Start float64 `yaml:"start" toml:"start"`
	Color string  `yaml:"color" toml:"color"`
}

// Device is one simulated device.
type Device struct {
	Address string      `yaml:"address" toml:"address"`
	Kind    device.Kind `yaml:"kind" toml:"kind"`

	Capacity float64 `yaml:"capacity" toml:"capacity"`
	Stored   float64 `yaml:"stored" toml:"stored"`
	Input    float64 `yaml:"input" toml:"input"`
	Output   float64 `yaml:"output" toml:"output"`
	Cost     float64 `yaml:"cost" toml:"cost"`
	Swing    float64 `yaml:"swing" toml:"swing"`
	Period   int     `yaml:"period" toml:"period"`
}

// Layout maps status text lines to fields.
type Layout struct {
	Stored        Rule `yaml:"stored" toml:"stored"`
	Capacity      Rule `yaml:"capacity" toml:"capacity"`
	Input         Rule `yaml:"input" toml:"input"`
	Output        Rule `yaml:"output" toml:"output"`
	HalveCapacity bool `yaml:"halve_capacity" toml:"halve_capacity"`
}

// Rule selects a number from one status line.
type Rule struct {
	Line    int    `yaml:"line" toml:"line"`
	Pattern string `yaml:"pattern" toml:"pattern"`
}

// DefaultTemplate is the built-in display template.
var DefaultTemplate = []string{
	"&cyan;{name}&; [status == 'full'|&green;full&;|{percent:string,%.1f}%]",
	"{@flow}",
	"{stored:si,EU} / {capacity:si,EU}",
	"in  &green;{input:si,EU/t}&;",
	"out &red;{output:si,EU/t}&;",
	"[status == 'charging'|full in {eta:time,2}|[status == 'discharging'|empty in {eta:time,2}|{status}]]",
}

// Default returns the built-in configuration. It has no devices.
func Default() Config {
	return Config{
		HistoryLength:   device.DefaultHistoryLength,
		PollInterval:    Duration(device.DefaultPollInterval),
		RefreshInterval: Duration(monitor.DefaultRefreshInterval),
		Statistic:       stats.ModeMean,
		RateConstant:    device.DefaultRateConstant,
		TimeParts:       format.DefaultTimeParts,
		Prefixes:        format.DefaultPrefixes(),
		Palette:         map[string]string{},
		Names:           map[string]string{},
		Display:         Display{Mode: monitor.ModeTile},
		Template:        append([]string(nil), DefaultTemplate...),
		Widgets: map[string]ChargeFlow{
			"flow": {
				Width:  widget.DefaultWidth,
				Arrows: widget.DefaultArrows,
				Thresholds: []Threshold{
					{Start: 0, Color: "red"},
					{Start: 25, Color: "yellow"},
					{Start: 50, Color: "green"},
				},
				Empty: "#303030",
				Arrow: "white",
			},
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file keeps every default.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks ranges and references. Palette and widget colors are
// resolved so bad names fail here rather than at render time.
func (c Config) Validate() error {
	var errs []error
	add := func(msg string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+msg, append([]any{ErrInvalid}, args...)...))
	}

	if c.HistoryLength < 1 {
		add("history_length must be at least 1, got %d", c.HistoryLength)
	}
	if c.PollInterval.Std() < time.Millisecond {
		add("poll_interval too short: %s", c.PollInterval)
	}
	if c.RefreshInterval.Std() < time.Millisecond {
		add("refresh_interval too short: %s", c.RefreshInterval)
	}
	if c.RateConstant <= 0 {
		add("rate_constant must be positive, got %v", c.RateConstant)
	}
	if c.TimeParts < 1 {
		add("time_parts must be at least 1, got %d", c.TimeParts)
	}
	if len(c.Template) == 0 {
		add("template has no lines")
	}
	if c.Display.Index < 0 {
		add("display.index must not be negative")
	}
	switch c.Display.Depth {
	case 0, 1, 4, 8, 24:
	default:
		add("display.depth must be 1, 4, 8 or 24, got %d", c.Display.Depth)
	}
	if c.Display.Mode == monitor.ModeSingle && len(c.Devices) > 0 && c.Display.Index >= len(c.Devices) {
		add("display.index %d out of range for %d devices", c.Display.Index, len(c.Devices))
	}

	palette, err := c.ScreenPalette()
	if err != nil {
		errs = append(errs, err)
	} else if _, err := c.WidgetRegistry(palette); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.StatusLayouts(); err != nil {
		errs = append(errs, err)
	}
	for i, d := range c.Devices {
		if !d.Kind.Valid() {
			add("devices[%d]: missing or unknown kind", i)
		}
		if d.Capacity < 0 || d.Stored < 0 || d.Stored > d.Capacity {
			add("devices[%d]: stored %v must be within capacity %v", i, d.Stored, d.Capacity)
		}
	}
	return errors.Join(errs...)
}
