// Package template compiles and renders the display templates.
//
// A template is a sequence of lines. Each line may contain:
//
//	[cond|true text|false text]   conditional on a boolean expression
//	{name}                        record field, "string" formatter
//	{name:si,EU/t}                record field through a named formatter
//	{@flow}                       widget drawn in place
//	&green; &&#202020;            foreground / background color
//	&; &&;                        restore the default colors
//
// Conditionals are resolved first, then variables, then widgets, then color
// escapes. A backslash makes the next character literal, and an '&' that
// does not form an escape is printed as is.
//
// Compile validates every formatter, widget and color name eagerly and
// reports problems as *ConfigError. Rendering never fails outright: a field
// that is missing at render time is drawn as an inline !name? marker and
// reported in the returned error.
package template
