package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/sensor"
	"github.com/storemon/storemon-go/pkg/stats"
)

// ErrUnsupportedSensor is returned by New when the sensor does not provide
// the interface its kind needs.
var ErrUnsupportedSensor = errors.New("sensor does not support device kind")

// Sampler is one polled energy-storage device.
type Sampler interface {
	// Name returns the display name.
	Name() string

	// Kind returns the variant.
	Kind() Kind

	// Stored returns the current energy content.
	Stored() float64

	// Capacity returns the maximum energy content.
	Capacity() float64

	// Input returns the reduced input rate history.
	Input() float64

	// Output returns the reduced output rate history.
	Output() float64

	// Tick performs one sampling step. Errors are transient: the tick was
	// skipped and the next one may succeed.
	Tick() error

	// Run ticks immediately and then every poll interval until ctx is done.
	Run(ctx context.Context)
}

// New creates the sampler variant for kind. src must implement the sensor
// interface the variant reads from.
func New(kind Kind, name string, src any, opts Options) (Sampler, error) {
	switch kind {
	case KindCounter:
		r, ok := src.(sensor.RateReader)
		if !ok {
			return nil, unsupported(kind, "sensor.RateReader")
		}
		return NewCounter(name, r, opts), nil

	case KindStatusBuffer, KindStatusBank, KindStatusSubstation:
		r, ok := src.(sensor.StatusReader)
		if !ok {
			return nil, unsupported(kind, "sensor.StatusReader")
		}
		return NewStatus(kind, name, r, opts.layout(kind), opts), nil

	case KindTotals:
		r, ok := src.(sensor.TotalsReader)
		if !ok {
			return nil, unsupported(kind, "sensor.TotalsReader")
		}
		return NewTotals(name, r, opts), nil

	case KindDelta:
		r, ok := src.(sensor.EnergyReader)
		if !ok {
			return nil, unsupported(kind, "sensor.EnergyReader")
		}
		return NewDelta(name, r, opts), nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

func unsupported(kind Kind, want string) error {
	return fmt.Errorf("%w: %s needs %s", ErrUnsupportedSensor, kind, want)
}

// gauge is a float64 safe for one writer and many readers.
type gauge struct {
	bits atomic.Uint64
}

func (g *gauge) Load() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *gauge) Store(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// base holds what every variant shares: identity, histories, and the
// polling loop.
type base struct {
	name   string
	kind   Kind
	opts   Options
	input  *stats.Window
	output *stats.Window
	logger *slog.Logger
	trace  log.Logger
}

func newBase(kind Kind, name string, opts Options) base {
	opts = opts.withDefaults()
	return base{
		name:   name,
		kind:   kind,
		opts:   opts,
		input:  stats.NewWindow(opts.HistoryLength),
		output: stats.NewWindow(opts.HistoryLength),
		logger: opts.Logger.With("device", name, "kind", kind.String()),
		trace:  opts.Trace,
	}
}

func (b *base) Name() string { return b.name }

func (b *base) Kind() Kind { return b.kind }

func (b *base) Input() float64 { return b.input.Reduce(b.opts.Mode) }

func (b *base) Output() float64 { return b.output.Reduce(b.opts.Mode) }

// push records one pair of rates and traces it.
func (b *base) push(in, out, stored, capacity float64) {
	b.input.Push(in)
	b.output.Push(out)
	b.trace.Log(log.Event{
		Timestamp: time.Now(),
		Device:    b.name,
		Kind:      b.kind.String(),
		Category:  log.CategorySample,
		Input:     in,
		Output:    out,
		Stored:    stored,
		Capacity:  capacity,
	})
}

// baseline traces a tick that only established a reference reading.
func (b *base) baseline() {
	b.trace.Log(log.Event{
		Timestamp: time.Now(),
		Device:    b.name,
		Kind:      b.kind.String(),
		Category:  log.CategoryBaseline,
	})
}

// observe traces and logs a failed tick. It returns err unchanged.
func (b *base) observe(err error) error {
	if err == nil {
		return nil
	}
	b.logger.Debug("sampling tick skipped", "error", err)
	b.trace.Log(log.Event{
		Timestamp: time.Now(),
		Device:    b.name,
		Kind:      b.kind.String(),
		Category:  log.CategorySkip,
		Error:     err.Error(),
	})
	return err
}

// safeTick runs tick, turning a panic in a sensor adapter into an error so
// the loop keeps going.
func (b *base) safeTick(tick func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = b.observe(fmt.Errorf("sensor panic: %v", r))
		}
	}()
	return tick()
}

func (b *base) run(ctx context.Context, tick func() error) {
	ticker := time.NewTicker(b.opts.PollInterval)
	defer ticker.Stop()

	b.logger.Debug("sampling started", "interval", b.opts.PollInterval)
	for {
		_ = b.safeTick(tick)

		select {
		case <-ctx.Done():
			b.logger.Debug("sampling stopped")
			return
		case <-ticker.C:
		}
	}
}
