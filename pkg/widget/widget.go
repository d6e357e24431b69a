package widget

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/storemon/storemon-go/pkg/screen"
)

var (
	// ErrUnknownWidget is returned by Lookup for unregistered names.
	ErrUnknownWidget = errors.New("unknown widget")

	// ErrInvalidConfig is returned when widget parameters are unusable.
	ErrInvalidConfig = errors.New("invalid widget config")
)

// Values is the per-tick display record a widget draws from.
type Values = map[string]any

// Widget draws one inline span. Draw is called once per render tick and may
// advance internal state.
type Widget interface {
	Draw(rec Values, depth int) []screen.Cell
}

// Factory creates a widget instance from the arguments given in the
// template.
type Factory func(args []string) (Widget, error)

// Registry maps widget names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	return f, nil
}

// New creates an instance of the named widget.
func (r *Registry) New(name string, args []string) (Widget, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	w, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("widget %q: %w", name, err)
	}
	return w, nil
}

// Names returns the registered widget names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// number reads a numeric record field, returning 0 when absent.
func number(rec Values, field string) float64 {
	switch v := rec[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
