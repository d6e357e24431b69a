package device

import (
	"context"
	"fmt"

	"github.com/storemon/storemon-go/pkg/sensor"
)

// Delta samples a device that only reports stored energy. A rise between
// ticks is input, a fall is output.
type Delta struct {
	base
	src      sensor.EnergyReader
	stored   gauge
	capacity gauge

	// prev and hasPrev are only touched by the polling goroutine.
	prev    float64
	hasPrev bool
}

// NewDelta creates a Delta sampler.
func NewDelta(name string, src sensor.EnergyReader, opts Options) *Delta {
	return &Delta{base: newBase(KindDelta, name, opts), src: src}
}

// Stored returns the reading of the last successful tick.
func (d *Delta) Stored() float64 { return d.stored.Load() }

// Capacity reads the sensor, falling back to the last good reading.
func (d *Delta) Capacity() float64 {
	v, err := d.src.Capacity()
	if err != nil {
		return d.capacity.Load()
	}
	d.capacity.Store(v)
	return v
}

// Tick compares stored energy against the previous tick.
func (d *Delta) Tick() error {
	return d.observe(d.tick())
}

func (d *Delta) tick() error {
	cur, err := d.src.Stored()
	if err != nil {
		return fmt.Errorf("reading stored: %w", err)
	}
	d.stored.Store(cur)

	prev, hadPrev := d.prev, d.hasPrev
	d.prev, d.hasPrev = cur, true
	if !hadPrev {
		d.baseline()
		return nil
	}

	scale := d.opts.rateScale()
	switch diff := cur - prev; {
	case diff > 0:
		d.push(diff/scale, 0, cur, 0)
	case diff < 0:
		d.push(0, -diff/scale, cur, 0)
	default:
		d.push(0, 0, cur, 0)
	}
	return nil
}

// Run samples until ctx is done.
func (d *Delta) Run(ctx context.Context) {
	d.run(ctx, d.Tick)
}
