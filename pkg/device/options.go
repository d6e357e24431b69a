package device

import (
	"log/slog"
	"time"

	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/stats"
)

// Default sampling settings.
const (
	DefaultHistoryLength = 10
	DefaultPollInterval  = time.Second

	// DefaultRateConstant is the number of device ticks per real second.
	DefaultRateConstant = 20
)

// Options configures a sampler.
type Options struct {
	// HistoryLength is the number of samples kept per direction.
	HistoryLength int

	// PollInterval is the time between sampling ticks.
	PollInterval time.Duration

	// Mode selects the reduction exposed by Input and Output.
	Mode stats.Mode

	// RateConstant converts per-second differences into per-tick rates.
	RateConstant float64

	// Logger receives operational messages. Defaults to slog.Default().
	Logger *slog.Logger

	// Trace receives one event per sampling tick. Defaults to a no-op.
	Trace log.Logger

	// Layouts replaces the built-in status text layouts per kind.
	Layouts map[Kind]Layout
}

// DefaultOptions returns the default sampler options.
func DefaultOptions() Options {
	return Options{
		HistoryLength: DefaultHistoryLength,
		PollInterval:  DefaultPollInterval,
		Mode:          stats.ModeMean,
		RateConstant:  DefaultRateConstant,
	}
}

func (o Options) withDefaults() Options {
	if o.HistoryLength < 1 {
		o.HistoryLength = DefaultHistoryLength
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.RateConstant <= 0 {
		o.RateConstant = DefaultRateConstant
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Trace == nil {
		o.Trace = log.NoopLogger{}
	}
	return o
}

// layout returns the status layout for kind, preferring Layouts.
func (o Options) layout(kind Kind) Layout {
	if l, ok := o.Layouts[kind]; ok {
		return l
	}
	return DefaultLayouts()[kind]
}

// rateScale is the divisor turning a per-poll difference into a per-tick rate.
func (o Options) rateScale() float64 {
	return o.PollInterval.Seconds() * o.RateConstant
}
