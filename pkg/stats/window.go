package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidMode is returned by ParseMode for unknown reduction names.
var ErrInvalidMode = errors.New("invalid statistic mode")

// Mode selects the reduction a sampler exposes.
type Mode uint8

const (
	// ModeMean reduces to the arithmetic mean.
	ModeMean Mode = iota
	// ModeMedian reduces to the statistical median.
	ModeMedian
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeMean:
		return "mean"
	case ModeMedian:
		return "median"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses a configuration name ("mean", "average", "median").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "average", "avg":
		return ModeMean, nil
	case "median":
		return ModeMedian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Window is a fixed-capacity ring of samples.
type Window struct {
	mu    sync.RWMutex
	data  []float64
	head  int // next write position
	count int // number of retained samples
}

// NewWindow creates a Window retaining at most capacity samples.
// A capacity below 1 is treated as 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{data: make([]float64, capacity)}
}

// Push appends a sample, evicting the oldest once the window is full.
func (w *Window) Push(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.data[w.head] = v
	w.head = (w.head + 1) % len(w.data)
	if w.count < len(w.data) {
		w.count++
	}
}

// Len returns the number of retained samples.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.data)
}

// Samples returns the retained samples, oldest first.
func (w *Window) Samples() []float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.samplesLocked()
}

func (w *Window) samplesLocked() []float64 {
	if w.count == 0 {
		return nil
	}
	size := len(w.data)
	out := make([]float64, w.count)
	start := (w.head - w.count + size) % size
	for i := 0; i < w.count; i++ {
		out[i] = w.data[(start+i)%size]
	}
	return out
}

// finite returns the retained samples that are real numbers.
func (w *Window) finite() []float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]float64, 0, w.count)
	for _, v := range w.samplesLocked() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Average returns the arithmetic mean of the retained samples, or 0.
func (w *Window) Average() float64 {
	vals := w.finite()
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Median returns the median of the retained samples, or 0. For an even
// count it is the mean of the two central sorted values.
func (w *Window) Median() float64 {
	vals := w.finite()
	n := len(vals)
	if n == 0 {
		return 0
	}
	sort.Float64s(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// Reduce applies the given reduction.
func (w *Window) Reduce(m Mode) float64 {
	if m == ModeMedian {
		return w.Median()
	}
	return w.Average()
}
