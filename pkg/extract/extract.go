// Package extract pulls numeric fields out of the free-form status text some
// devices report instead of numeric getters.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrExtraction marks a status line that could not be turned into a number.
// Callers treat it as a transient failure and skip the sampling tick.
var ErrExtraction = errors.New("extraction failed")

// Error describes why a rule did not yield a value.
type Error struct {
	Field   string
	Line    int
	Pattern string
	Reason  string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("extract %s (line %d, /%s/): %s", e.Field, e.Line, e.Pattern, e.Reason)
	}
	return fmt.Sprintf("extract line %d (/%s/): %s", e.Line, e.Pattern, e.Reason)
}

// Is reports ErrExtraction so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	return target == ErrExtraction
}

// Rule locates one value: a 1-based line number and a pattern. When the
// pattern has a capture group the first group is used, otherwise the whole
// match.
type Rule struct {
	Line    int
	Pattern *regexp.Regexp
}

// NewRule compiles pattern into a Rule.
func NewRule(line int, pattern string) (Rule, error) {
	if line < 1 {
		return Rule{}, fmt.Errorf("line must be >= 1, got %d", line)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Rule{Line: line, Pattern: re}, nil
}

// MustRule is like NewRule but panics on error. Intended for built-in tables.
func MustRule(line int, pattern string) Rule {
	r, err := NewRule(line, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns "line:pattern".
func (r Rule) String() string {
	if r.Pattern == nil {
		return fmt.Sprintf("%d:", r.Line)
	}
	return fmt.Sprintf("%d:%s", r.Line, r.Pattern.String())
}

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Extract applies rule to lines. Every non-digit character of the matched
// text is dropped before parsing, so "1,234,567 EU" yields 1234567.
func Extract(lines []string, rule Rule) (float64, error) {
	pattern := ""
	if rule.Pattern != nil {
		pattern = rule.Pattern.String()
	}
	fail := func(reason string) (float64, error) {
		return 0, &Error{Line: rule.Line, Pattern: pattern, Reason: reason}
	}

	if rule.Line < 1 || rule.Line > len(lines) {
		return fail(fmt.Sprintf("line out of range (have %d lines)", len(lines)))
	}
	if rule.Pattern == nil {
		return fail("no pattern")
	}

	m := rule.Pattern.FindStringSubmatch(lines[rule.Line-1])
	if m == nil {
		return fail("pattern did not match")
	}
	text := m[0]
	if len(m) > 1 {
		text = m[1]
	}

	digits := nonDigit.ReplaceAllString(text, "")
	if digits == "" {
		return fail(fmt.Sprintf("no digits in %q", strings.TrimSpace(text)))
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return fail(err.Error())
	}
	return v, nil
}

// ExtractAll applies every rule and stops at the first failure. Fields are
// processed in name order so errors are deterministic.
func ExtractAll(lines []string, rules map[string]Rule) (map[string]float64, error) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]float64, len(rules))
	for _, name := range names {
		v, err := Extract(lines, rules[name])
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Field = name
			}
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
