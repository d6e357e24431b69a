package commands

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/storemon/storemon-go/pkg/log"
)

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		events = append(events, e)
	}
}

func TestFilterByDevice(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.trace")

	count, err := RunFilter(path, FilterOptions{Output: out, Device: "Main Bank"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 events, got %d", count)
	}

	for _, e := range readAll(t, out) {
		if e.Device != "Main Bank" {
			t.Errorf("unexpected device %q in output", e.Device)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.trace")

	count, err := RunFilter(path, FilterOptions{Output: out, Category: "skip"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event, got %d", count)
	}

	events := readAll(t, out)
	if events[0].Error != "read stored: connection reset" {
		t.Errorf("unexpected error text %q", events[0].Error)
	}
}

func TestFilterByTimeRange(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.trace")

	count, err := RunFilter(path, FilterOptions{
		Output:    out,
		TimeStart: "2026-10-19T10:15:33Z",
		TimeEnd:   "2026-10-19T10:15:35Z",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestTraceFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.trace")

	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"bad category", FilterOptions{Output: out, Category: "bogus"}},
		{"bad start", FilterOptions{Output: out, TimeStart: "yesterday"}},
		{"bad end", FilterOptions{Output: out, TimeEnd: "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunFilter(path, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFilterMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.trace")
	if _, err := RunFilter(filepath.Join(t.TempDir(), "missing.trace"), FilterOptions{Output: out}); err == nil {
		t.Error("expected error for missing input")
	}
}
