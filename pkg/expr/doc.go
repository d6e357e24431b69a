// Package expr parses and evaluates the boolean conditions used in display
// templates.
//
// Conditions are configuration, not code: the grammar only allows literals,
// record field names, arithmetic, comparisons and the logical connectives
// and/or/not. Evaluation reads fields through an Env callback and has no
// other access to the caller.
//
//	percent >= 99.9
//	input > output and not (status == "idle")
//	(stored + 1000) / capacity < 0.5 or name ~= "Main"
//
// Both "~=" and "!=" mean not-equal. Division by zero yields 0.
package expr
