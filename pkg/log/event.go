package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is one sampling tick of one device.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the tick ran.
	Timestamp time.Time `cbor:"1,keyasint"`

	// Device is the resolved display name.
	Device string `cbor:"2,keyasint"`

	// Kind is the sampler variant name (e.g. "counter", "totals").
	Kind string `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Input and Output are the rates pushed this tick (CategorySample).
	Input  float64 `cbor:"5,keyasint,omitempty"`
	Output float64 `cbor:"6,keyasint,omitempty"`

	// Stored and Capacity as read this tick, when the variant reads them.
	Stored   float64 `cbor:"7,keyasint,omitempty"`
	Capacity float64 `cbor:"8,keyasint,omitempty"`

	// Error is the reason a tick was skipped (CategorySkip).
	Error string `cbor:"9,keyasint,omitempty"`
}

// Category classifies trace events.
type Category uint8

const (
	// CategorySample is a tick that pushed rates into the histories.
	CategorySample Category = 0
	// CategoryBaseline is a first tick that only recorded a baseline.
	CategoryBaseline Category = 1
	// CategorySkip is a tick skipped because of a transient failure.
	CategorySkip Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySample:
		return "SAMPLE"
	case CategoryBaseline:
		return "BASELINE"
	case CategorySkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "sample":
		return CategorySample, nil
	case "baseline":
		return CategoryBaseline, nil
	case "skip":
		return CategorySkip, nil
	default:
		return 0, fmt.Errorf("unknown category: %s", s)
	}
}
