package expr

import (
	"fmt"
	"strings"
)

type node interface {
	eval(env Env) (any, error)
}

type literal struct{ v any }

func (l literal) eval(Env) (any, error) { return l.v, nil }

type ident struct{ name string }

func (n ident) eval(env Env) (any, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, n.name)
	}
	v, ok := env(n.name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, n.name)
	}
	return normalize(v), nil
}

type notNode struct{ operand node }

func (n *notNode) eval(env Env) (any, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

type logicNode struct {
	and         bool
	left, right node
}

func (n *logicNode) eval(env Env) (any, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	if n.and && !truthy(l) {
		return false, nil
	}
	if !n.and && truthy(l) {
		return true, nil
	}
	r, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}
	return truthy(r), nil
}

type negNode struct{ operand node }

func (n *negNode) eval(env Env) (any, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: cannot negate %T", ErrType, v)
	}
	return -f, nil
}

type arithNode struct {
	op          byte
	left, right node
}

func (n *arithNode) eval(env Env) (any, error) {
	l, r, err := evalNumbers(env, n.left, n.right, string(n.op))
	if err != nil {
		return nil, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	default:
		if r == 0 {
			return 0.0, nil
		}
		return l / r, nil
	}
}

type compareNode struct {
	op          string
	left, right node
}

func (n *compareNode) eval(env Env) (any, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return l == r, nil
	case "~=":
		return l != r, nil
	}

	var cmp int
	switch lv := l.(type) {
	case float64:
		rv, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s between number and %T", ErrType, n.op, r)
		}
		switch {
		case lv < rv:
			cmp = -1
		case lv > rv:
			cmp = 1
		}
	case string:
		rv, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s between string and %T", ErrType, n.op, r)
		}
		cmp = strings.Compare(lv, rv)
	default:
		return nil, fmt.Errorf("%w: cannot order %T", ErrType, l)
	}

	switch n.op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func evalNumbers(env Env, a, b node, op string) (float64, float64, error) {
	l, err := a.eval(env)
	if err != nil {
		return 0, 0, err
	}
	r, err := b.eval(env)
	if err != nil {
		return 0, 0, err
	}
	lf, lok := l.(float64)
	rf, rok := r.(float64)
	if !lok || !rok {
		return 0, 0, fmt.Errorf("%w: %s needs numbers, got %T and %T", ErrType, op, l, r)
	}
	return lf, rf, nil
}

// normalize maps env values onto float64, string and bool.
func normalize(v any) any {
	switch n := v.(type) {
	case float64, string, bool:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint64:
		return float64(n)
	case uint32:
		return float64(n)
	case nil:
		return false
	default:
		return fmt.Sprint(n)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != ""
	default:
		return v != nil
	}
}
