package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/storemon/storemon-go/pkg/device"
)

// ErrNoDevices is returned by Discover when nothing was found.
var ErrNoDevices = errors.New("no energy storage devices found")

// Found is one discovered device.
type Found struct {
	Address string
	Kind    device.Kind
}

// Enumerator lists devices.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Found, error)
}

// Entry is a configured device.
type Entry struct {
	Address string
	Kind    device.Kind
}

// Static enumerates a fixed device list.
type Static struct {
	found []Found
}

// NewStatic creates a Static enumerator. Entries without an address are
// assigned a random UUID once, here.
func NewStatic(entries []Entry) *Static {
	found := make([]Found, 0, len(entries))
	for _, e := range entries {
		addr := e.Address
		if addr == "" {
			addr = uuid.NewString()
		}
		found = append(found, Found{Address: addr, Kind: e.Kind})
	}
	return &Static{found: found}
}

// Enumerate implements Enumerator.
func (s *Static) Enumerate(ctx context.Context) ([]Found, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Found, len(s.found))
	copy(out, s.found)
	return out, nil
}

// Chain enumerates each enumerator in order. The first occurrence of an
// address wins.
type Chain []Enumerator

// Enumerate implements Enumerator.
func (c Chain) Enumerate(ctx context.Context) ([]Found, error) {
	seen := make(map[string]struct{})
	var out []Found
	for i, e := range c {
		found, err := e.Enumerate(ctx)
		if err != nil {
			return nil, fmt.Errorf("enumerator %d: %w", i, err)
		}
		for _, f := range found {
			if _, dup := seen[f.Address]; dup {
				continue
			}
			seen[f.Address] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}

// Discover runs e and fails with ErrNoDevices on an empty result.
func Discover(ctx context.Context, e Enumerator) ([]Found, error) {
	found, err := e.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNoDevices
	}
	return found, nil
}

// Compile-time interface satisfaction checks.
var (
	_ Enumerator = (*Static)(nil)
	_ Enumerator = Chain(nil)
)
