package commands

import (
	"fmt"
	"io"

	"github.com/storemon/storemon-go/pkg/log"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s %-8s %-18s %s\n", ts, event.Category, event.Kind, event.Device)

	switch event.Category {
	case log.CategorySample:
		fmt.Fprintf(w, "  In: %g  Out: %g  Net: %g\n", event.Input, event.Output, event.Input-event.Output)
		if event.Capacity > 0 {
			fmt.Fprintf(w, "  Stored: %g / %g (%.1f%%)\n", event.Stored, event.Capacity, event.Stored/event.Capacity*100)
		} else if event.Stored != 0 {
			fmt.Fprintf(w, "  Stored: %g\n", event.Stored)
		}
	case log.CategorySkip:
		fmt.Fprintf(w, "  Error: %s\n", event.Error)
	}

	fmt.Fprintln(w)
}

// RunView prints every event matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
