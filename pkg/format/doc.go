// Package format holds the value formatters that template variables use.
//
// A template variable names its formatter explicitly ("{input:si,EU/t}") or
// gets the default "string" formatter. Formatter names are resolved once,
// when a template is compiled, through Registry.Lookup; an unknown name is a
// configuration error, never a render-time failure.
//
// Built-in formatters:
//
//   - string: numeric format string, default "%.2f".
//   - si: metric magnitude prefix plus optional unit ("1.50 k EU/t").
//   - time: signed seconds as days/hours/minutes/seconds ("1 hr 2 min").
package format
