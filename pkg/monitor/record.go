package monitor

import (
	"math"

	"github.com/storemon/storemon-go/pkg/device"
	"github.com/storemon/storemon-go/pkg/template"
)

// Record fields.
const (
	FieldName     = "name"
	FieldKind     = "kind"
	FieldStored   = "stored"
	FieldCapacity = "capacity"
	FieldInput    = "input"
	FieldOutput   = "output"
	FieldPercent  = "percent"
	FieldNet      = "net"
	FieldStatus   = "status"
	FieldTimeLeft = "timeleft"
	FieldETA      = "eta"
	FieldCount    = "count"
)

// Status values.
const (
	StatusCharging    = "charging"
	StatusDischarging = "discharging"
	StatusIdle        = "idle"
	StatusFull        = "full"
)

// SummaryName is the name of the aggregated record.
const SummaryName = "Total"

// Record snapshots one sampler. Rates are per device tick; rateConstant
// converts them to per-second for the time estimate.
func Record(s device.Sampler, rateConstant float64) template.Values {
	rec := values(s.Name(), s.Stored(), s.Capacity(), s.Input(), s.Output(), rateConstant)
	rec[FieldKind] = s.Kind().String()
	rec[FieldCount] = 1
	return rec
}

// Summary aggregates all samplers into one record named Total.
func Summary(samplers []device.Sampler, rateConstant float64) template.Values {
	var stored, capacity, input, output float64
	for _, s := range samplers {
		stored += s.Stored()
		capacity += s.Capacity()
		input += s.Input()
		output += s.Output()
	}
	rec := values(SummaryName, stored, capacity, input, output, rateConstant)
	rec[FieldKind] = "summary"
	rec[FieldCount] = len(samplers)
	return rec
}

func values(name string, stored, capacity, input, output, rateConstant float64) template.Values {
	net := input - output
	left := timeLeft(stored, capacity, net, rateConstant)
	return template.Values{
		FieldName:     name,
		FieldStored:   stored,
		FieldCapacity: capacity,
		FieldInput:    input,
		FieldOutput:   output,
		FieldPercent:  percent(stored, capacity),
		FieldNet:      net,
		FieldStatus:   status(stored, capacity, net),
		FieldTimeLeft: left,
		FieldETA:      math.Abs(left),
	}
}

// percent is 0 for devices without capacity.
func percent(stored, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return stored / capacity * 100
}

func status(stored, capacity, net float64) string {
	switch {
	case capacity <= 0:
		return StatusIdle
	case net < 0:
		return StatusDischarging
	case stored >= capacity:
		return StatusFull
	case net > 0:
		return StatusCharging
	default:
		return StatusIdle
	}
}

// timeLeft is seconds until full while charging and the negated seconds
// until empty while discharging. It is 0 when nothing is moving.
func timeLeft(stored, capacity, net, rateConstant float64) float64 {
	if capacity <= 0 || net == 0 || rateConstant <= 0 {
		return 0
	}
	perSecond := net * rateConstant
	if net > 0 {
		if stored >= capacity {
			return 0
		}
		return (capacity - stored) / perSecond
	}
	return stored / perSecond
}
