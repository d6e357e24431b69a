package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/template"
)

// DefaultRefreshInterval is the render cadence.
const DefaultRefreshInterval = 200 * time.Millisecond

// tileGap is the number of blank columns between tiles.
const tileGap = 1

var (
	// ErrNoSamplers is returned by New without any sampler.
	ErrNoSamplers = errors.New("no samplers")

	// ErrInvalidOptions is returned by New for unusable options.
	ErrInvalidOptions = errors.New("invalid monitor options")
)

// Options configures a Monitor.
type Options struct {
	Samplers []device.Sampler
	Engine   *template.Engine
	Surface  screen.Surface

	Mode Mode

	// Index selects the device shown in ModeSingle.
	Index int

	// RefreshInterval is the render cadence. Defaults to 200ms.
	RefreshInterval time.Duration

	// RateConstant converts per-tick rates to per-second for time estimates.
	RateConstant float64

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Slot is one record to render with the key its widget state lives under.
type Slot struct {
	Key    string
	Record template.Values
}

// Frame is the rendered output of one slot.
type Frame struct {
	Slot  string
	Lines []template.Line
}

// Width returns the widest line.
func (f Frame) Width() int {
	w := 0
	for _, l := range f.Lines {
		w = max(w, len(l))
	}
	return w
}

// Monitor renders sampler state to a surface.
type Monitor struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	lastErr string
}

// New creates a Monitor.
func New(opts Options) (*Monitor, error) {
	if len(opts.Samplers) == 0 {
		return nil, ErrNoSamplers
	}
	if opts.Engine == nil || opts.Surface == nil {
		return nil, fmt.Errorf("%w: engine and surface are required", ErrInvalidOptions)
	}
	if opts.Mode == ModeSingle && (opts.Index < 0 || opts.Index >= len(opts.Samplers)) {
		return nil, fmt.Errorf("%w: device index %d out of range [0, %d)", ErrInvalidOptions, opts.Index, len(opts.Samplers))
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.RateConstant <= 0 {
		opts.RateConstant = device.DefaultRateConstant
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Monitor{opts: opts, logger: opts.Logger}, nil
}

// Slots snapshots the samplers into the records of the current mode.
func (m *Monitor) Slots() []Slot {
	switch m.opts.Mode {
	case ModeSummary:
		return []Slot{{Key: SummaryName, Record: Summary(m.opts.Samplers, m.opts.RateConstant)}}
	case ModeSingle:
		s := m.opts.Samplers[m.opts.Index]
		return []Slot{{Key: slotKey(m.opts.Index, s), Record: Record(s, m.opts.RateConstant)}}
	default:
		slots := make([]Slot, len(m.opts.Samplers))
		for i, s := range m.opts.Samplers {
			slots[i] = Slot{Key: slotKey(i, s), Record: Record(s, m.opts.RateConstant)}
		}
		return slots
	}
}

func slotKey(i int, s device.Sampler) string {
	return strconv.Itoa(i) + ":" + s.Name()
}

// Render renders each slot through the engine. Frames are complete even
// when an error is returned.
func (m *Monitor) Render(slots []Slot) ([]Frame, error) {
	frames := make([]Frame, 0, len(slots))
	var errs []error
	for _, s := range slots {
		lines, err := m.opts.Engine.Render(s.Key, s.Record)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Record[FieldName], err))
		}
		frames = append(frames, Frame{Slot: s.Key, Lines: lines})
	}
	return frames, errors.Join(errs...)
}

// RenderTick snapshots, renders and draws one frame.
func (m *Monitor) RenderTick() ([]Frame, error) {
	frames, renderErr := m.Render(m.Slots())
	if err := m.draw(frames); err != nil {
		return frames, errors.Join(renderErr, err)
	}
	return frames, renderErr
}

// Run renders every refresh interval until ctx is done, then resets the
// surface to a blank full-resolution screen.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.RefreshInterval)
	defer ticker.Stop()

	m.logger.Info("monitor started",
		"devices", len(m.opts.Samplers),
		"mode", m.opts.Mode.String(),
		"refresh", m.opts.RefreshInterval)

	for {
		_, err := m.RenderTick()
		m.report(err)

		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping")
			return m.cleanup()
		case <-ticker.C:
		}
	}
}

// report logs render errors once per distinct message.
func (m *Monitor) report(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == m.lastErr {
		return
	}
	m.lastErr = msg
	if err != nil {
		m.logger.Warn("render failed", "error", err)
	} else {
		m.logger.Info("render recovered")
	}
}

// layout returns the tile grid for n tiles of the given size.
func layout(n, tileW, tileH, maxW, maxH int) (cols, w, h int) {
	tileW = max(tileW, 1)
	tileH = max(tileH, 1)
	cols = max(1, min(n, (maxW+tileGap)/(tileW+tileGap)))
	rows := (n + cols - 1) / cols
	w = min(maxW, cols*tileW+(cols-1)*tileGap)
	h = min(maxH, rows*tileH)
	return cols, max(w, 1), max(h, 1)
}

// draw tiles the frames onto the surface through offscreen buffers.
func (m *Monitor) draw(frames []Frame) error {
	surf := m.opts.Surface
	_, bg := m.opts.Engine.Colors()
	blank := screen.Blank(screen.White, bg)

	tileW, tileH := 1, m.opts.Engine.Template().Len()
	for _, f := range frames {
		tileW = max(tileW, f.Width())
	}

	maxW, maxH := surf.MaxSize()
	cols, w, h := layout(len(frames), tileW, tileH, maxW, maxH)
	if cw, ch := surf.Size(); cw != w || ch != h {
		if err := surf.SetSize(w, h); err != nil {
			return fmt.Errorf("set resolution %dx%d: %w", w, h, err)
		}
	}
	surf.Fill(0, 0, w, h, blank)

	for i, f := range frames {
		x := (i % cols) * (tileW + tileGap)
		y := (i / cols) * tileH
		if y >= h {
			break
		}
		buf := screen.NewMemory(tileW, max(tileH, 1), surf.Depth())
		buf.Fill(0, 0, tileW, tileH, blank)
		for row, line := range f.Lines {
			screen.WriteLine(buf, 0, row, line)
		}
		buf.CopyTo(surf, x, y)
	}
	return surf.Flush()
}

func (m *Monitor) cleanup() error {
	surf := m.opts.Surface
	_, bg := m.opts.Engine.Colors()

	w, h := surf.MaxSize()
	if err := surf.SetSize(w, h); err != nil {
		return fmt.Errorf("reset resolution: %w", err)
	}
	surf.Fill(0, 0, w, h, screen.Blank(screen.White, bg))
	return surf.Flush()
}

// StartSamplers runs every sampler in its own goroutine until ctx is done.
// The returned function waits for all of them to stop.
func StartSamplers(ctx context.Context, samplers []device.Sampler) (wait func()) {
	var wg sync.WaitGroup
	for _, s := range samplers {
		wg.Add(1)
		go func(s device.Sampler) {
			defer wg.Done()
			s.Run(ctx)
		}(s)
	}
	return wg.Wait
}
