package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/storemon/storemon-go/pkg/log"
)

// exportRecord is the JSON shape of one event.
type exportRecord struct {
	Timestamp string  `json:"timestamp"`
	Device    string  `json:"device"`
	Kind      string  `json:"kind"`
	Category  string  `json:"category"`
	Input     float64 `json:"input"`
	Output    float64 `json:"output"`
	Stored    float64 `json:"stored,omitempty"`
	Capacity  float64 `json:"capacity,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func toRecord(e log.Event) exportRecord {
	return exportRecord{
		Timestamp: e.Timestamp.UTC().Format(timestampLayout),
		Device:    e.Device,
		Kind:      e.Kind,
		Category:  e.Category.String(),
		Input:     e.Input,
		Output:    e.Output,
		Stored:    e.Stored,
		Capacity:  e.Capacity,
		Error:     e.Error,
	}
}

// RunExport writes the events matching filter as JSONL or CSV to output,
// or stdout when output is empty.
func RunExport(path string, filter log.Filter, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "device", "kind", "category", "input", "output", "stored", "capacity", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	num := func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		r := toRecord(event)
		row := []string{r.Timestamp, r.Device, r.Kind, r.Category,
			num(r.Input), num(r.Output), num(r.Stored), num(r.Capacity), r.Error}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
