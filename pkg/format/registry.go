package format

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFormatter is returned by Lookup for unregistered names.
var ErrUnknownFormatter = errors.New("unknown formatter")

// Func formats one value with optional template arguments.
type Func func(v any, args []string) (string, error)

// Built-in formatter names.
const (
	NameString = "string"
	NameSI     = "si"
	NameTime   = "time"
)

// DefaultTimeParts is how many duration components the time formatter shows.
const DefaultTimeParts = 4

// Options configures the built-in formatters.
type Options struct {
	// TimeParts is the default number of components for "time".
	TimeParts int

	// Prefixes are the SI magnitude symbols for "si".
	Prefixes Prefixes
}

// DefaultOptions returns the default formatter options.
func DefaultOptions() Options {
	return Options{
		TimeParts: DefaultTimeParts,
		Prefixes:  DefaultPrefixes(),
	}
}

// Registry maps formatter names to functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a registry holding the built-in formatters.
func NewRegistry(opts Options) *Registry {
	if opts.TimeParts < 1 {
		opts.TimeParts = DefaultTimeParts
	}
	if len(opts.Prefixes.Positive) == 0 && len(opts.Prefixes.Negative) == 0 {
		opts.Prefixes = DefaultPrefixes()
	}

	r := &Registry{funcs: make(map[string]Func)}
	r.Register(NameString, Fixed)
	r.Register(NameSI, SI(opts.Prefixes))
	r.Register(NameTime, Duration(opts.TimeParts))
	return r
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, name)
	}
	return fn, nil
}

// Format looks up name and applies it.
func (r *Registry) Format(name string, v any, args ...string) (string, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return fn(v, args)
}

// Names returns the registered formatter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
