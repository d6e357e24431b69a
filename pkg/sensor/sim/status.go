package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/sensor"
)

// StatusText renders a Battery as the status text of a status device kind.
type StatusText struct {
	battery *Battery
	kind    device.Kind
}

// NewStatusText creates the status text view of b for kind.
func NewStatusText(b *Battery, kind device.Kind) *StatusText {
	return &StatusText{battery: b, kind: kind}
}

// StatusLines implements sensor.StatusReader.
func (s *StatusText) StatusLines() ([]string, error) {
	stored, capacity, input, output := s.battery.snapshot()
	st, cp, in, out := group(stored), group(capacity), group(input), group(output)

	switch s.kind {
	case device.KindStatusBuffer:
		return []string{
			"Energy Buffer",
			"Stored: " + st + " EU",
			"Capacity: " + cp + " EU",
			"Input: " + in + " EU/t",
			"Output: " + out + " EU/t",
		}, nil
	case device.KindStatusBank:
		return []string{
			"Battery Bank",
			"Capacity: " + cp + " EU",
			"Stored: " + st + " EU",
			"Status: online",
			"Average input: " + in + " EU/t",
			"Average output: " + out + " EU/t",
		}, nil
	case device.KindStatusSubstation:
		return []string{
			"Power Substation",
			"Stored: " + st + " EU",
			"Capacity: " + group(capacity*2) + " EU",
			"Cells: 4",
			"Net: " + group(math.Abs(input-output)) + " EU/t",
			"Input: " + in + " EU/t",
			"Output: " + out + " EU/t",
		}, nil
	default:
		return nil, fmt.Errorf("no status text for %s", s.kind)
	}
}

// group formats v as an integer with comma thousands separators.
func group(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// Sensor returns the view of b that a sampler of kind reads from.
func Sensor(b *Battery, kind device.Kind) any {
	if kind.IsStatus() {
		return NewStatusText(b, kind)
	}
	return b
}

// Compile-time interface satisfaction check.
var _ sensor.StatusReader = (*StatusText)(nil)
