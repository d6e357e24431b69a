package format

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a numeric formatter gets a non-number.
var ErrNotNumeric = errors.New("value is not numeric")

// DefaultNumberFormat is used by "string" and "si" when no format is given.
const DefaultNumberFormat = "%.2f"

// integerVerb matches format strings whose verb expects an integer.
var integerVerb = regexp.MustCompile(`%[-+ #0]*[0-9]*[dxXob]`)

// toFloat converts the numeric value kinds found in display records.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sprintfNumber formats f with a user format string, rounding to an
// integer for integer verbs.
func sprintfNumber(format string, f float64) string {
	if integerVerb.MatchString(format) {
		return fmt.Sprintf(format, int64(math.Round(f)))
	}
	return fmt.Sprintf(format, f)
}

// Fixed formats a number with args[0] as format string (default "%.2f").
// Non-numeric strings are passed through unchanged.
func Fixed(v any, args []string) (string, error) {
	format := DefaultNumberFormat
	if len(args) > 0 && args[0] != "" {
		format = args[0]
	}

	if s, ok := v.(string); ok {
		if f, ok := toFloat(s); ok {
			return sprintfNumber(format, f), nil
		}
		return s, nil
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b), nil
	}

	f, ok := toFloat(v)
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrNotNumeric, v)
	}
	return sprintfNumber(format, f), nil
}
