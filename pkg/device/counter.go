package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/storemon/storemon-go/pkg/sensor"
)

// Counter samples a device that reports instantaneous rates. Stored and
// capacity are read live and are not historized.
type Counter struct {
	base
	src      sensor.RateReader
	stored   gauge
	capacity gauge
}

// NewCounter creates a Counter sampler.
func NewCounter(name string, src sensor.RateReader, opts Options) *Counter {
	return &Counter{base: newBase(KindCounter, name, opts), src: src}
}

// Stored reads the sensor, falling back to the last good reading.
func (c *Counter) Stored() float64 {
	v, err := c.src.Stored()
	if err != nil {
		c.logger.Debug("reading stored", "error", err)
		return c.stored.Load()
	}
	c.stored.Store(v)
	return v
}

// Capacity reads the sensor, falling back to the last good reading.
func (c *Counter) Capacity() float64 {
	v, err := c.src.Capacity()
	if err != nil {
		c.logger.Debug("reading capacity", "error", err)
		return c.capacity.Load()
	}
	c.capacity.Store(v)
	return v
}

// Tick pushes the current input and output rates.
func (c *Counter) Tick() error {
	return c.observe(c.tick())
}

func (c *Counter) tick() error {
	in, errIn := c.src.InputRate()
	out, errOut := c.src.OutputRate()
	if err := errors.Join(errIn, errOut); err != nil {
		return fmt.Errorf("reading rates: %w", err)
	}
	c.push(in, out, 0, 0)
	return nil
}

// Run samples until ctx is done.
func (c *Counter) Run(ctx context.Context) {
	c.run(ctx, c.Tick)
}
