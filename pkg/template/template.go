package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/storemon/storemon-go/pkg/format"
	"github.com/storemon/storemon-go/pkg/screen"
	"github.com/storemon/storemon-go/pkg/widget"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("template configuration error")

	// ErrSyntax reports malformed template markup.
	ErrSyntax = errors.New("malformed markup")

	// ErrUndefinedField is returned by Render for record fields that do not
	// exist.
	ErrUndefinedField = errors.New("undefined field")
)

// ConfigError is a problem found while compiling a template.
type ConfigError struct {
	Line int    // 1-based template line
	Name string // offending formatter, widget, color or expression
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("template line %d: %q: %v", e.Line, e.Name, e.Err)
}

// Unwrap exposes both ErrConfig and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}

// Values is a display record: field name to value.
type Values = map[string]any

// Env holds the collaborators a template is compiled against.
type Env struct {
	Formatters *format.Registry
	Widgets    *widget.Registry
	Palette    screen.Palette
}

func (env Env) withDefaults() Env {
	if env.Formatters == nil {
		env.Formatters = format.NewRegistry(format.DefaultOptions())
	}
	if env.Widgets == nil {
		env.Widgets = widget.NewRegistry()
	}
	if env.Palette == nil {
		env.Palette = screen.DefaultPalette()
	}
	return env
}

// Template is a compiled, immutable line template. It is safe to share
// between engines.
type Template struct {
	source  []string
	lines   [][]node
	widgets []*widgetNode
	fields  []string
	env     Env
}

// Compile parses lines and resolves every name against env.
func Compile(lines []string, env Env) (*Template, error) {
	env = env.withDefaults()
	t := &Template{
		source: append([]string(nil), lines...),
		env:    env,
	}

	fields := make(map[string]struct{})
	for i, src := range lines {
		c := &compiler{env: env, line: i + 1, tpl: t, fields: fields}
		nodes, err := c.parse(src)
		if err != nil {
			return nil, err
		}
		t.lines = append(t.lines, nodes)
	}

	t.fields = make([]string, 0, len(fields))
	for f := range fields {
		t.fields = append(t.fields, f)
	}
	sort.Strings(t.fields)
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(lines []string, env Env) *Template {
	t, err := Compile(lines, env)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of lines.
func (t *Template) Len() int { return len(t.lines) }

// Source returns the template lines as written.
func (t *Template) Source() []string {
	return append([]string(nil), t.source...)
}

// Fields returns the record fields referenced by variables and conditions,
// sorted.
func (t *Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Line is one rendered template line.
type Line []screen.Cell

// String returns the characters of the line without colors.
func (l Line) String() string {
	var sb strings.Builder
	for _, c := range l {
		sb.WriteRune(c.Ch)
	}
	return sb.String()
}
