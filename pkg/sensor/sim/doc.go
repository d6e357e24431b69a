// Package sim provides simulated energy-storage devices.
//
// A Battery integrates its input and output rates into a stored amount and
// running totals. Sensor returns the view of a Battery that a given device
// kind reads: direct getters, totals, or a status text in the layout of
// that kind. The monitor uses these when no hardware backend is configured
// and the tests use them as realistic sensors.
package sim
