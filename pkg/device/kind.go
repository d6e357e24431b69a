package device

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by ParseKind for unrecognized kind names.
var ErrUnknownKind = errors.New("unknown device kind")

// Kind identifies a sampler variant.
type Kind uint8

const (
	KindCounter Kind = iota + 1
	KindStatusBuffer
	KindStatusBank
	KindStatusSubstation
	KindTotals
	KindDelta
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	KindCounter,
	KindStatusBuffer,
	KindStatusBank,
	KindStatusSubstation,
	KindTotals,
	KindDelta,
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindStatusBuffer:
		return "status-buffer"
	case KindStatusBank:
		return "status-bank"
	case KindStatusSubstation:
		return "status-substation"
	case KindTotals:
		return "totals"
	case KindDelta:
		return "delta"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Prefix returns the short type label used in fallback display names.
func (k Kind) Prefix() string {
	switch k {
	case KindCounter:
		return "Cell"
	case KindStatusBuffer:
		return "Buffer"
	case KindStatusBank:
		return "Bank"
	case KindStatusSubstation:
		return "Substation"
	case KindTotals:
		return "Network"
	case KindDelta:
		return "Store"
	default:
		return "Device"
	}
}

// IsStatus reports whether the kind reads status text.
func (k Kind) IsStatus() bool {
	return k == KindStatusBuffer || k == KindStatusBank || k == KindStatusSubstation
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	return k >= KindCounter && k <= KindDelta
}

// ParseKind parses a configuration name.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
