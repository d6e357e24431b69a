package device

import (
	"context"
	"fmt"

	"github.com/storemon/storemon-go/pkg/sensor"
)

// Totals samples a device that reports running transfer totals. Rates are
// the difference between two ticks divided by poll seconds times the rate
// constant; transfer cost counts as output.
type Totals struct {
	base
	src      sensor.TotalsReader
	stored   gauge
	capacity gauge

	// prev and hasPrev are only touched by the polling goroutine.
	prev    sensor.Totals
	hasPrev bool
}

// NewTotals creates a Totals sampler.
func NewTotals(name string, src sensor.TotalsReader, opts Options) *Totals {
	return &Totals{base: newBase(KindTotals, name, opts), src: src}
}

// Stored reads the sensor, falling back to the last good reading.
func (t *Totals) Stored() float64 {
	v, err := t.src.Stored()
	if err != nil {
		return t.stored.Load()
	}
	t.stored.Store(v)
	return v
}

// Capacity reads the sensor, falling back to the last good reading.
func (t *Totals) Capacity() float64 {
	v, err := t.src.Capacity()
	if err != nil {
		return t.capacity.Load()
	}
	t.capacity.Store(v)
	return v
}

// Tick reads the totals and pushes the derived rates. The first tick only
// records the baseline.
func (t *Totals) Tick() error {
	return t.observe(t.tick())
}

func (t *Totals) tick() error {
	cur, err := t.src.Totals()
	if err != nil {
		return fmt.Errorf("reading totals: %w", err)
	}

	prev, hadPrev := t.prev, t.hasPrev
	t.prev, t.hasPrev = cur, true
	if !hadPrev {
		t.baseline()
		return nil
	}

	dIn := cur.Input - prev.Input
	dOut := cur.Output - prev.Output
	dCost := cur.Cost - prev.Cost
	if dIn < 0 || dOut < 0 || dCost < 0 {
		// Counters went backwards: the device restarted. Start over.
		t.baseline()
		return nil
	}

	scale := t.opts.rateScale()
	t.push(dIn/scale, (dOut+dCost)/scale, 0, 0)
	return nil
}

// Run samples until ctx is done.
func (t *Totals) Run(ctx context.Context) {
	t.run(ctx, t.Tick)
}
