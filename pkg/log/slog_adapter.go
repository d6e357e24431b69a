package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn for skipped ticks.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("device", event.Device),
		slog.String("kind", event.Kind),
		slog.String("category", event.Category.String()),
	}

	level := slog.LevelDebug
	switch event.Category {
	case CategorySample:
		attrs = append(attrs,
			slog.Float64("input", event.Input),
			slog.Float64("output", event.Output),
		)
	case CategorySkip:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error))
	}
	if event.Capacity != 0 {
		attrs = append(attrs,
			slog.Float64("stored", event.Stored),
			slog.Float64("capacity", event.Capacity),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "sample", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
