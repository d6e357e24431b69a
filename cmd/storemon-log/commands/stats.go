package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/storemon/storemon-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Devices          map[string]*DeviceStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single device.
type DeviceStats struct {
	Kind      string
	Samples   int
	Baselines int
	Skips     int
	InputSum  float64
	OutputSum float64
	LastError string
	FirstSeen time.Time
	LastSeen  time.Time
}

// AverageInput returns the mean input rate over all samples.
func (d *DeviceStats) AverageInput() float64 {
	if d.Samples == 0 {
		return 0
	}
	return d.InputSum / float64(d.Samples)
}

// AverageOutput returns the mean output rate over all samples.
func (d *DeviceStats) AverageOutput() float64 {
	if d.Samples == 0 {
		return 0
	}
	return d.OutputSum / float64(d.Samples)
}

// Collect reads every event from r.
func Collect(r *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Devices:          make(map[string]*DeviceStats),
	}

	for {
		event, err := r.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		dev, ok := stats.Devices[event.Device]
		if !ok {
			dev = &DeviceStats{Kind: event.Kind, FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Devices[event.Device] = dev
		}
		if event.Timestamp.After(dev.LastSeen) {
			dev.LastSeen = event.Timestamp
		}

		switch event.Category {
		case log.CategorySample:
			dev.Samples++
			dev.InputSum += event.Input
			dev.OutputSum += event.Output
		case log.CategoryBaseline:
			dev.Baselines++
		case log.CategorySkip:
			dev.Skips++
			dev.LastError = event.Error
		}
	}
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats, err := Collect(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== storemon Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategorySample, log.CategoryBaseline, log.CategorySkip} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	names := make([]string, 0, len(stats.Devices))
	for name := range stats.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := stats.Devices[name]
		fmt.Fprintf(w, "\n  [%s] %s\n", name, d.Kind)
		fmt.Fprintf(w, "           Samples: %d  Baselines: %d  Skips: %d\n", d.Samples, d.Baselines, d.Skips)
		if d.Samples > 0 {
			fmt.Fprintf(w, "           Avg in: %.2f  Avg out: %.2f\n", d.AverageInput(), d.AverageOutput())
		}
		if d.LastError != "" {
			fmt.Fprintf(w, "           Last error: %s\n", d.LastError)
		}
	}
}
