package device

import (
	"context"
	"fmt"

	"github.com/storemon/storemon-go/pkg/extract"
	"github.com/storemon/storemon-go/pkg/sensor"
)

// Layout maps status text lines to fields.
type Layout struct {
	Stored   extract.Rule
	Capacity extract.Rule
	Input    extract.Rule
	Output   extract.Rule

	// HalveCapacity corrects devices that report twice their capacity.
	HalveCapacity bool
}

// NumberPattern captures a digit run that may contain thousands separators.
const NumberPattern = `([0-9][0-9,]*)`

// DefaultLayouts returns the built-in status text layouts. They share the
// number pattern and differ only in line numbers.
func DefaultLayouts() map[Kind]Layout {
	rule := func(line int) extract.Rule { return extract.MustRule(line, NumberPattern) }
	return map[Kind]Layout{
		KindStatusBuffer: {
			Stored:   rule(2),
			Capacity: rule(3),
			Input:    rule(4),
			Output:   rule(5),
		},
		KindStatusBank: {
			Stored:   rule(3),
			Capacity: rule(2),
			Input:    rule(5),
			Output:   rule(6),
		},
		KindStatusSubstation: {
			Stored:        rule(2),
			Capacity:      rule(3),
			Input:         rule(6),
			Output:        rule(7),
			HalveCapacity: true,
		},
	}
}

func (l Layout) rules() map[string]extract.Rule {
	return map[string]extract.Rule{
		"stored":   l.Stored,
		"capacity": l.Capacity,
		"input":    l.Input,
		"output":   l.Output,
	}
}

// Status samples a device that reports a multi-line status text.
type Status struct {
	base
	src      sensor.StatusReader
	layout   Layout
	stored   gauge
	capacity gauge
}

// NewStatus creates a Status sampler with an explicit layout.
func NewStatus(kind Kind, name string, src sensor.StatusReader, layout Layout, opts Options) *Status {
	return &Status{base: newBase(kind, name, opts), src: src, layout: layout}
}

// Stored returns the value extracted by the last successful tick.
func (s *Status) Stored() float64 { return s.stored.Load() }

// Capacity returns the value extracted by the last successful tick.
func (s *Status) Capacity() float64 { return s.capacity.Load() }

// Tick extracts all four fields. Any malformed field skips the whole tick.
func (s *Status) Tick() error {
	return s.observe(s.tick())
}

func (s *Status) tick() error {
	lines, err := s.src.StatusLines()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}
	values, err := extract.ExtractAll(lines, s.layout.rules())
	if err != nil {
		return err
	}

	capacity := values["capacity"]
	if s.layout.HalveCapacity {
		capacity /= 2
	}
	s.stored.Store(values["stored"])
	s.capacity.Store(capacity)
	s.push(values["input"], values["output"], values["stored"], capacity)
	return nil
}

// Run samples until ctx is done.
func (s *Status) Run(ctx context.Context) {
	s.run(ctx, s.Tick)
}
