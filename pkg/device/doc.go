// Package device implements the samplers that turn raw device readings into
// rolling input/output statistics.
//
// # Variants
//
// The set of device kinds is closed; New picks the variant once from the
// discovered Kind:
//
//   - KindCounter: the device reports instantaneous input/output rates.
//   - KindStatusBuffer, KindStatusBank, KindStatusSubstation: the device
//     reports a multi-line status text; values are extracted by line number
//     and pattern. The substation layout reports twice its real capacity and
//     is halved.
//   - KindTotals: the device reports running input/output/cost totals; rates
//     are derived from the difference between ticks.
//   - KindDelta: the device reports only stored energy; the change between
//     ticks becomes an input or output rate.
//
// Variants that derive rates from differences ignore their first tick, which
// only records a baseline.
//
// # Concurrency
//
// Each sampler's Run loop is the only writer of its histories. Getters may
// be called concurrently from the render loop at any time.
package device
