package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	mu     sync.Mutex
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func createTestTraceFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.slog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, event)
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	event := Event{
		Timestamp: ts,
		Device:    "Main Bank",
		Kind:      "totals",
		Category:  CategorySample,
		Input:     2.5,
		Output:    1.5,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Device != "Main Bank" || got.Input != 2.5 || got.Output != 1.5 {
		t.Errorf("decoded event = %+v", got)
	}
}

func TestFileLoggerIgnoresLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.slog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned %v, want nil", err)
	}
	logger.Log(Event{Device: "late"})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	now := time.Now()
	path := createTestTraceFile(t, []Event{
		{Timestamp: now, Device: "a", Category: CategoryBaseline},
		{Timestamp: now, Device: "b", Category: CategorySample, Input: 4},
		{Timestamp: now, Device: "a", Category: CategorySkip, Error: "line out of range"},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[2].Error != "line out of range" {
		t.Errorf("last event Error = %q", read[2].Error)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestTraceFile(t, []Event{
		{Timestamp: base, Device: "a", Kind: "counter", Category: CategorySample},
		{Timestamp: base.Add(time.Second), Device: "b", Kind: "delta", Category: CategorySkip},
		{Timestamp: base.Add(2 * time.Second), Device: "a", Kind: "counter", Category: CategorySkip},
	})

	skip := CategorySkip
	start := base.Add(time.Second)
	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"device", Filter{Device: "a"}, 2},
		{"kind", Filter{Kind: "delta"}, 1},
		{"category", Filter{Category: &skip}, 2},
		{"time start", Filter{TimeStart: &start}, 2},
		{"combined", Filter{Device: "a", Category: &skip}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}

	multi := NewMultiLogger(mock1, nil, mock2)
	multi.Log(Event{Device: "dev-1"})

	for i, mock := range []*mockLogger{mock1, mock2} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].Device != "dev-1" {
			t.Errorf("logger %d: Device = %q, want %q", i, mock.events[0].Device, "dev-1")
		}
	}
}

func TestSlogAdapterLogsSkipAtWarn(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Timestamp: time.Now(),
		Device:    "Buffer@1a2b",
		Kind:      "status-buffer",
		Category:  CategorySkip,
		Error:     "pattern did not match",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", entry["level"])
	}
	if entry["device"] != "Buffer@1a2b" {
		t.Errorf("device: got %v", entry["device"])
	}
	if entry["error"] != "pattern did not match" {
		t.Errorf("error: got %v", entry["error"])
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{CategorySample, CategoryBaseline, CategorySkip} {
		got, err := ParseCategory(c.String())
		if err != nil {
			t.Errorf("ParseCategory(%q) error = %v", c.String(), err)
			continue
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if _, err := ParseCategory("frame"); err == nil {
		t.Error("ParseCategory(frame) should fail")
	}
}
