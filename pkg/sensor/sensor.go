// Package sensor defines the raw device interfaces the samplers read from.
//
// Devices come in several shapes: some expose instantaneous rates, some
// only a multi-line status text, some running totals, and some only the
// stored energy. Each shape is its own small interface so a sampler variant
// can require exactly what it uses.
package sensor

// EnergyReader exposes the current and maximum energy content.
type EnergyReader interface {
	Stored() (float64, error)
	Capacity() (float64, error)
}

// RateReader is a device reporting instantaneous input and output rates.
type RateReader interface {
	EnergyReader
	InputRate() (float64, error)
	OutputRate() (float64, error)
}

// StatusReader is a device reporting its state as lines of text.
type StatusReader interface {
	StatusLines() ([]string, error)
}

// Totals are running counters since the device started.
type Totals struct {
	Input  float64
	Output float64
	Cost   float64
}

// TotalsReader is a device reporting cumulative transfer totals.
type TotalsReader interface {
	EnergyReader
	Totals() (Totals, error)
}
