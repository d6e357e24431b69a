// Package monitor turns sampler state into display records and drives the
// render loop.
//
// Every refresh tick the monitor snapshots the samplers into records
// (one per device, or one aggregate in summary mode), renders each record
// through the template engine into its own offscreen buffer, tiles the
// buffers onto the display, and flushes. Samplers run independently; the
// monitor only reads their getters.
package monitor
