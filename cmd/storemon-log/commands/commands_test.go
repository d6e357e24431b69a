package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/storemon/storemon-go/pkg/log"
)

var baseTime = time.Date(2026, 10, 19, 10, 15, 32, 123456000, time.UTC)

func createTestTraceFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleEvents() []log.Event {
	return []log.Event{
		{Timestamp: baseTime, Device: "Main Bank", Kind: "counter", Category: log.CategoryBaseline},
		{Timestamp: baseTime.Add(time.Second), Device: "Main Bank", Kind: "counter", Category: log.CategorySample,
			Input: 12, Output: 4, Stored: 500, Capacity: 1000},
		{Timestamp: baseTime.Add(2 * time.Second), Device: "Main Bank", Kind: "counter", Category: log.CategorySkip,
			Error: "read stored: connection reset"},
		{Timestamp: baseTime.Add(3 * time.Second), Device: "Cellar", Kind: "totals", Category: log.CategorySample,
			Input: 2, Output: 8},
	}
}
