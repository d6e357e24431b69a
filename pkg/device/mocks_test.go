package device

import (
	"sync"

	"github.com/storemon/storemon-go/pkg/log"
	"github.com/storemon/storemon-go/pkg/sensor"
	"github.com/stretchr/testify/mock"
)

type mockRateReader struct{ mock.Mock }

func (m *mockRateReader) Stored() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRateReader) Capacity() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRateReader) InputRate() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRateReader) OutputRate() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

type mockStatusReader struct{ mock.Mock }

func (m *mockStatusReader) StatusLines() ([]string, error) {
	args := m.Called()
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

type mockTotalsReader struct{ mock.Mock }

func (m *mockTotalsReader) Stored() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockTotalsReader) Capacity() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockTotalsReader) Totals() (sensor.Totals, error) {
	args := m.Called()
	return args.Get(0).(sensor.Totals), args.Error(1)
}

type mockEnergyReader struct{ mock.Mock }

func (m *mockEnergyReader) Stored() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockEnergyReader) Capacity() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

// recordingTrace collects trace events.
type recordingTrace struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingTrace) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingTrace) categories() []log.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]log.Category, len(r.events))
	for i, e := range r.events {
		out[i] = e.Category
	}
	return out
}
