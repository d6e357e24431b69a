package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var durationUnits = []struct {
	seconds int64
	label   string
}{
	{86400, "day"},
	{3600, "hr"},
	{60, "min"},
	{1, "sec"},
}

// SplitDuration renders seconds as at most parts non-zero components,
// largest unit first. Fractions of a second are truncated.
func SplitDuration(seconds float64, parts int) string {
	if parts < 1 {
		parts = 1
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "-"
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	rest := int64(seconds)

	var out []string
	for _, u := range durationUnits {
		if len(out) == parts {
			break
		}
		n := rest / u.seconds
		rest %= u.seconds
		if n == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d %s", n, u.label))
	}
	if len(out) == 0 {
		return "0 sec"
	}
	return sign + strings.Join(out, " ")
}

// Duration returns the "time" formatter: args are [parts].
func Duration(defaultParts int) Func {
	return func(v any, args []string) (string, error) {
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("%w: %v", ErrNotNumeric, v)
		}

		parts := defaultParts
		if len(args) > 0 && args[0] != "" {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return "", fmt.Errorf("invalid time parts %q", args[0])
			}
			parts = n
		}
		return SplitDuration(f, parts), nil
	}
}
