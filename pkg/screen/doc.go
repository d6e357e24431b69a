// Package screen is the character-cell drawing surface the monitor renders
// onto.
//
// Surface is the small set of primitives the renderer needs: per-cell
// writes, rectangle fills, a logical resolution, the color depth, and a
// flush. Memory is an in-process surface used as an offscreen buffer and in
// tests; Terminal draws to an ANSI terminal.
package screen
