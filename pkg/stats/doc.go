// Package stats implements the rolling sample windows that back every
// device sampler.
//
// A Window keeps the N most recent samples in a ring. Reductions (mean,
// median) only see retained samples and return 0 for an empty window.
// Entries that are not finite numbers (NaN, ±Inf) are stored like any other
// sample but skipped when reducing, so a glitching sensor never poisons a
// displayed average.
//
// A Window has a single writer (the owning sampler's polling loop) and any
// number of readers (the render loop).
package stats
