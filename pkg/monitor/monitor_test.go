package monitor

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/template"
)

type fakeSampler struct {
	name                            string
	stored, capacity, input, output float64
	runs                            atomic.Int32
	stopped                         atomic.Int32
}

func (f *fakeSampler) Name() string        { return f.name }
func (f *fakeSampler) Kind() device.Kind   { return device.KindCounter }
func (f *fakeSampler) Stored() float64     { return f.stored }
func (f *fakeSampler) Capacity() float64   { return f.capacity }
func (f *fakeSampler) Input() float64      { return f.input }
func (f *fakeSampler) Output() float64     { return f.output }
func (f *fakeSampler) Tick() error         { return nil }
func (f *fakeSampler) Run(ctx context.Context) {
	f.runs.Add(1)
	<-ctx.Done()
	f.stopped.Add(1)
}

func TestRecord(t *testing.T) {
	tests := []struct {
		name     string
		s        *fakeSampler
		percent  float64
		status   string
		timeLeft float64
	}{
		{"charging", &fakeSampler{stored: 500, capacity: 1000, input: 10, output: 5}, 50, StatusCharging, 5},
		{"discharging", &fakeSampler{stored: 400, capacity: 1000, input: 0, output: 2}, 40, StatusDischarging, -10},
		{"idle", &fakeSampler{stored: 400, capacity: 1000, input: 3, output: 3}, 40, StatusIdle, 0},
		{"full", &fakeSampler{stored: 1000, capacity: 1000, input: 3, output: 1}, 100, StatusFull, 0},
		{"zero capacity", &fakeSampler{stored: 10, capacity: 0, input: 3, output: 1}, 0, StatusIdle, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record(tt.s, 20)
			assert.InDelta(t, tt.percent, rec[FieldPercent], 1e-9)
			assert.Equal(t, tt.status, rec[FieldStatus])
			assert.InDelta(t, tt.timeLeft, rec[FieldTimeLeft], 1e-9)
			assert.InDelta(t, math.Abs(tt.timeLeft), rec[FieldETA], 1e-9)
			assert.InDelta(t, tt.s.input-tt.s.output, rec[FieldNet], 1e-9)
			assert.False(t, math.IsNaN(rec[FieldPercent].(float64)))
			assert.False(t, math.IsInf(rec[FieldTimeLeft].(float64), 0))
		})
	}
}

func TestSummary(t *testing.T) {
	samplers := []device.Sampler{
		&fakeSampler{name: "a", stored: 100, capacity: 400, input: 4, output: 1},
		&fakeSampler{name: "b", stored: 300, capacity: 600, input: 0, output: 1},
	}
	rec := Summary(samplers, 20)

	assert.Equal(t, SummaryName, rec[FieldName])
	assert.Equal(t, 400.0, rec[FieldStored])
	assert.Equal(t, 1000.0, rec[FieldCapacity])
	assert.InDelta(t, 40.0, rec[FieldPercent], 1e-9)
	assert.Equal(t, 2.0, rec[FieldNet])
	assert.Equal(t, 2, rec[FieldCount])
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeTile, ModeSummary, ModeSingle} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("grid")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func newTestMonitor(t *testing.T, mode Mode, samplers ...device.Sampler) (*Monitor, *screen.Memory) {
	t.Helper()
	tpl, err := template.Compile([]string{"{name}", "[percent>=99.9|full|{percent:string,%.0f}%]"}, template.Env{})
	require.NoError(t, err)
	surf := screen.NewMemory(20, 6, 24)
	m, err := New(Options{
		Samplers: samplers,
		Engine:   template.NewEngine(tpl, surf.Depth()),
		Surface:  surf,
		Mode:     mode,
	})
	require.NoError(t, err)
	return m, surf
}

func TestRenderTickTiles(t *testing.T) {
	m, surf := newTestMonitor(t, ModeTile,
		&fakeSampler{name: "Cell", stored: 10, capacity: 10},
		&fakeSampler{name: "Bank", stored: 5, capacity: 10},
		&fakeSampler{name: "Sub", stored: 1, capacity: 4},
	)

	frames, err := m.RenderTick()
	require.NoError(t, err)
	require.Len(t, frames, 3)

	w, h := surf.Size()
	assert.Equal(t, 14, w, "three 4-wide tiles with gaps")
	assert.Equal(t, 2, h)
	assert.Equal(t, "Cell Bank Sub", surf.Row(0)[:13])
	assert.Equal(t, "full 50%  25%", surf.Row(1)[:13])
	assert.Equal(t, 1, surf.Flushes())
}

func TestRenderTickWrapsTiles(t *testing.T) {
	samplers := []device.Sampler{
		&fakeSampler{name: "AAAAAAAA", capacity: 1},
		&fakeSampler{name: "BBBBBBBB", capacity: 1},
		&fakeSampler{name: "CCCCCCCC", capacity: 1},
	}
	m, surf := newTestMonitor(t, ModeTile, samplers...)

	_, err := m.RenderTick()
	require.NoError(t, err)

	w, h := surf.Size()
	assert.Equal(t, 17, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, "AAAAAAAA BBBBBBBB", surf.Row(0))
	assert.Equal(t, "CCCCCCCC", strings.TrimRight(surf.Row(2), " "))
}

func TestRenderTickSummaryAndSingle(t *testing.T) {
	a := &fakeSampler{name: "a", stored: 1, capacity: 2}
	b := &fakeSampler{name: "b", stored: 1, capacity: 2}

	m, surf := newTestMonitor(t, ModeSummary, a, b)
	_, err := m.RenderTick()
	require.NoError(t, err)
	assert.Equal(t, "Total", strings.TrimSpace(surf.Row(0)))

	m, err = New(Options{Samplers: []device.Sampler{a, b}, Engine: m.opts.Engine, Surface: surf, Mode: ModeSingle, Index: 1})
	require.NoError(t, err)
	frames, err := m.RenderTick()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "b", frames[0].Lines[0].String())
}

func TestRenderErrorStillDraws(t *testing.T) {
	tpl, err := template.Compile([]string{"{name} {bogus}"}, template.Env{})
	require.NoError(t, err)
	surf := screen.NewMemory(20, 2, 24)
	m, err := New(Options{
		Samplers: []device.Sampler{&fakeSampler{name: "x", capacity: 1}},
		Engine:   template.NewEngine(tpl, 24),
		Surface:  surf,
	})
	require.NoError(t, err)

	_, err = m.RenderTick()
	assert.ErrorIs(t, err, template.ErrUndefinedField)
	assert.Equal(t, "x !bogus?", surf.Row(0))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoSamplers)

	_, err = New(Options{Samplers: []device.Sampler{&fakeSampler{}}})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	tpl := template.MustCompile([]string{"x"}, template.Env{})
	_, err = New(Options{
		Samplers: []device.Sampler{&fakeSampler{}},
		Engine:   template.NewEngine(tpl, 24),
		Surface:  screen.NewMemory(1, 1, 24),
		Mode:     ModeSingle,
		Index:    3,
	})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestRunCleansUp(t *testing.T) {
	m, surf := newTestMonitor(t, ModeTile, &fakeSampler{name: "Cell", stored: 1, capacity: 2})
	m.opts.RefreshInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return surf.Flushes() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	w, h := surf.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 6, h)
	assert.Empty(t, strings.TrimSpace(surf.Text()))
}

func TestStartSamplers(t *testing.T) {
	a, b := &fakeSampler{name: "a"}, &fakeSampler{name: "b"}
	ctx, cancel := context.WithCancel(context.Background())

	wait := StartSamplers(ctx, []device.Sampler{a, b})
	require.Eventually(t, func() bool {
		return a.runs.Load() == 1 && b.runs.Load() == 1
	}, time.Second, time.Millisecond)

	cancel()
	wait()
	assert.Equal(t, int32(1), a.stopped.Load())
	assert.Equal(t, int32(1), b.stopped.Load())
}
