package format

import (
	"fmt"
	"math"
	"strings"
)

// Prefixes are the magnitude symbols for positive (k, M, ...) and negative
// (m, μ, ...) powers of 1000, smallest magnitude first.
type Prefixes struct {
	Positive []string `yaml:"positive" toml:"positive"`
	Negative []string `yaml:"negative" toml:"negative"`
}

// DefaultPrefixes returns the SI prefixes from kilo/milli to yotta/yocto.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		Positive: []string{"k", "M", "G", "T", "P", "E", "Z", "Y"},
		Negative: []string{"m", "μ", "n", "p", "f", "a", "z", "y"},
	}
}

// Scale returns v scaled into [1, 1000) where the table allows, and the
// matching prefix. Zero is returned unscaled with no prefix.
func (p Prefixes) Scale(v float64) (float64, string) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v, ""
	}

	degree := int(math.Floor(math.Log10(math.Abs(v)) / 3))
	// Log10 is not exact at powers of ten.
	for math.Abs(v*math.Pow(1000, float64(-degree))) >= 1000 {
		degree++
	}
	for math.Abs(v*math.Pow(1000, float64(-degree))) < 1 {
		degree--
	}
	switch {
	case degree > len(p.Positive):
		degree = len(p.Positive)
	case -degree > len(p.Negative):
		degree = -len(p.Negative)
	}

	prefix := ""
	switch {
	case degree > 0:
		prefix = p.Positive[degree-1]
	case degree < 0:
		prefix = p.Negative[-degree-1]
	}
	return v * math.Pow(1000, float64(-degree)), prefix
}

// SI returns the "si" formatter: args are [unit[, format]]. Number, prefix
// and unit are joined by single spaces, skipping empty pieces.
func SI(prefixes Prefixes) Func {
	return func(v any, args []string) (string, error) {
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("%w: %v", ErrNotNumeric, v)
		}

		unit := ""
		if len(args) > 0 {
			unit = args[0]
		}
		format := DefaultNumberFormat
		if len(args) > 1 && args[1] != "" {
			format = args[1]
		}

		scaled, prefix := prefixes.Scale(f)
		parts := []string{sprintfNumber(format, scaled)}
		if prefix != "" {
			parts = append(parts, prefix)
		}
		if unit != "" {
			parts = append(parts, unit)
		}
		return strings.Join(parts, " "), nil
	}
}
