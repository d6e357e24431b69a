package template

import (
	"fmt"
	"strings"

	"github.com/storemon/storemon-go/pkg/expr"
	"github.com/storemon/storemon-go/pkg/format"
	"github.com/storemon/storemon-go/pkg/screen"
)

type node interface{ isNode() }

type textNode struct{ text string }

type varNode struct {
	name      string
	formatter string
	args      []string
	fn        format.Func
}

type widgetNode struct {
	index int
	name  string
	args  []string
}

type styleNode struct {
	bg    bool
	reset bool
	color screen.Color
}

type condNode struct {
	cond *expr.Expr
	then []node
	els  []node
}

func (textNode) isNode()    {}
func (*varNode) isNode()    {}
func (*widgetNode) isNode() {}
func (styleNode) isNode()   {}
func (*condNode) isNode()   {}

type compiler struct {
	env    Env
	line   int
	tpl    *Template
	fields map[string]struct{}
}

func (c *compiler) errorf(name string, err error) error {
	return &ConfigError{Line: c.line, Name: name, Err: err}
}

func (c *compiler) parse(s string) ([]node, error) {
	var (
		nodes []node
		text  strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, textNode{text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				text.WriteByte(s[i+1])
				i += 2
				continue
			}
			text.WriteByte('\\')
			i++

		case '[':
			end := matchBracket(s, i)
			if end < 0 {
				text.WriteByte('[')
				i++
				continue
			}
			parts := splitTop(s[i+1:end], '|')
			if len(parts) == 1 {
				text.WriteByte('[')
				i++
				continue
			}
			n, err := c.conditional(s[i:end+1], parts)
			if err != nil {
				return nil, err
			}
			flush()
			nodes = append(nodes, n)
			i = end + 1

		case '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, c.errorf(s[i:], fmt.Errorf("%w: unterminated '{'", ErrSyntax))
			}
			body := s[i+1 : i+end]
			var (
				n   node
				err error
			)
			if strings.HasPrefix(body, "@") {
				n, err = c.widget(body[1:])
			} else {
				n, err = c.variable(body)
			}
			if err != nil {
				return nil, err
			}
			flush()
			nodes = append(nodes, n)
			i += end + 1

		case '&':
			n, width, err := c.style(s[i:])
			if err != nil {
				return nil, err
			}
			if width == 0 {
				text.WriteByte('&')
				i++
				continue
			}
			flush()
			nodes = append(nodes, n)
			i += width

		default:
			text.WriteByte(s[i])
			i++
		}
	}
	flush()
	return nodes, nil
}

func (c *compiler) conditional(src string, parts []string) (node, error) {
	if len(parts) != 3 {
		return nil, c.errorf(src, fmt.Errorf("%w: conditional needs [cond|true|false]", ErrSyntax))
	}
	cond, err := expr.Compile(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, c.errorf(parts[0], err)
	}
	for _, id := range cond.Idents() {
		c.fields[id] = struct{}{}
	}
	then, err := c.parse(parts[1])
	if err != nil {
		return nil, err
	}
	els, err := c.parse(parts[2])
	if err != nil {
		return nil, err
	}
	return &condNode{cond: cond, then: then, els: els}, nil
}

func (c *compiler) variable(body string) (node, error) {
	name, rest, _ := strings.Cut(body, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, c.errorf("{"+body+"}", fmt.Errorf("%w: empty field name", ErrSyntax))
	}

	v := &varNode{name: name, formatter: format.NameString}
	if rest != "" {
		fmtName, args := splitArgs(rest)
		if fmtName != "" {
			v.formatter = fmtName
		}
		v.args = args
	}
	fn, err := c.env.Formatters.Lookup(v.formatter)
	if err != nil {
		return nil, c.errorf(v.formatter, err)
	}
	v.fn = fn
	c.fields[name] = struct{}{}
	return v, nil
}

func (c *compiler) widget(body string) (node, error) {
	name, rest, _ := strings.Cut(body, ":")
	name = strings.TrimSpace(name)
	var args []string
	if rest != "" {
		args = strings.Split(rest, ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}
	// Instantiate once so bad names and arguments fail at compile time.
	if _, err := c.env.Widgets.New(name, args); err != nil {
		return nil, c.errorf(name, err)
	}
	n := &widgetNode{index: len(c.tpl.widgets), name: name, args: args}
	c.tpl.widgets = append(c.tpl.widgets, n)
	return n, nil
}

// style parses a color escape at the start of s. A zero width means s does
// not start with an escape.
func (c *compiler) style(s string) (node, int, error) {
	j := 1
	bg := len(s) > 1 && s[1] == '&'
	if bg {
		j = 2
	}
	k := j
	for k < len(s) && isStyleChar(s[k]) {
		k++
	}
	if k >= len(s) || s[k] != ';' {
		return nil, 0, nil
	}

	name := s[j:k]
	if name == "" {
		return styleNode{bg: bg, reset: true}, k + 1, nil
	}
	color, err := c.env.Palette.Resolve(name)
	if err != nil {
		return nil, 0, c.errorf(name, err)
	}
	return styleNode{bg: bg, color: color}, k + 1, nil
}

func isStyleChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' ||
		b == '#' || b == '_' || b == '-'
}

func splitArgs(rest string) (string, []string) {
	parts := strings.Split(rest, ",")
	args := parts[1:]
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return strings.TrimSpace(parts[0]), args
}

// matchBracket returns the index of the ']' closing the '[' at s[open], or
// -1. Nested brackets and backslash escapes are skipped.
func matchBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTop splits s on sep outside nested brackets and braces.
func splitTop(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
