package sim

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/storemon/storemon-go/pkg/sensor"
)

// Profile describes a simulated device. Rates are per device tick.
type Profile struct {
	Capacity float64
	Stored   float64
	Input    float64
	Output   float64
	Cost     float64

	// Swing is the relative amplitude of the input oscillation (0..1).
	Swing float64

	// Period is the number of steps per input oscillation.
	Period int
}

// Battery is a simulated storage device. It is safe for concurrent use.
type Battery struct {
	mu      sync.Mutex
	profile Profile
	stored  float64
	input   float64
	output  float64
	totals  sensor.Totals
	step    int
}

// NewBattery creates a battery in the state described by p.
func NewBattery(p Profile) *Battery {
	b := &Battery{profile: p, stored: p.Stored}
	b.input, b.output = p.Input, p.Output
	return b
}

// Step advances the simulation by ticks device ticks.
func (b *Battery) Step(ticks float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.step++
	b.input = b.profile.Input
	if b.profile.Period > 0 && b.profile.Swing != 0 {
		phase := 2 * math.Pi * float64(b.step) / float64(b.profile.Period)
		b.input *= 1 + b.profile.Swing*math.Sin(phase)
	}
	b.output = b.profile.Output

	in := b.input * ticks
	out := b.output * ticks
	next := b.stored + in - out
	switch {
	case next > b.profile.Capacity:
		in -= next - b.profile.Capacity
		next = b.profile.Capacity
	case next < 0:
		out += next
		next = 0
	}
	b.stored = next
	b.totals.Input += in
	b.totals.Output += out
	b.totals.Cost += b.profile.Cost * ticks
}

// Run steps the battery every interval until ctx is done. ticksPerSecond is
// the device tick rate.
func (b *Battery) Run(ctx context.Context, interval time.Duration, ticksPerSecond float64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Step(interval.Seconds() * ticksPerSecond)
		}
	}
}

// Stored implements sensor.EnergyReader.
func (b *Battery) Stored() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stored, nil
}

// Capacity implements sensor.EnergyReader.
func (b *Battery) Capacity() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profile.Capacity, nil
}

// InputRate implements sensor.RateReader.
func (b *Battery) InputRate() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input, nil
}

// OutputRate implements sensor.RateReader.
func (b *Battery) OutputRate() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.output, nil
}

// Totals implements sensor.TotalsReader.
func (b *Battery) Totals() (sensor.Totals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totals, nil
}

// snapshot returns a consistent copy of the readable state.
func (b *Battery) snapshot() (stored, capacity, input, output float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stored, b.profile.Capacity, b.input, b.output
}

// Compile-time interface satisfaction checks.
var (
	_ sensor.RateReader   = (*Battery)(nil)
	_ sensor.TotalsReader = (*Battery)(nil)
)
