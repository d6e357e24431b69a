package device

import (
	"errors"
	"testing"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v", k.String(), err)
			continue
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}

	if _, err := ParseKind("flywheel"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(flywheel) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindUnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("Status-Bank")); err != nil {
		t.Fatalf("UnmarshalText error = %v", err)
	}
	if k != KindStatusBank {
		t.Errorf("UnmarshalText = %v, want %v", k, KindStatusBank)
	}
}

func TestResolveName(t *testing.T) {
	names := map[string]string{
		"3f2a9c1e-0000-4000-8000-000000000001": "Main Bank",
		"7b":                                   "Short Prefix",
		"7b41":                                 "Long Prefix",
	}

	tests := []struct {
		name    string
		address string
		kind    Kind
		want    string
	}{
		{"exact", "3f2a9c1e-0000-4000-8000-000000000001", KindCounter, "Main Bank"},
		{"longest prefix", "7b41d000-aaaa", KindDelta, "Long Prefix"},
		{"short prefix", "7bff0000", KindDelta, "Short Prefix"},
		{"fallback", "c0ffee00-1111", KindTotals, "Network@c0ff"},
		{"short address", "ab", KindCounter, "Cell@ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveName(tt.address, tt.kind, names); got != tt.want {
				t.Errorf("ResolveName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%v.Valid() = false, want true", k)
		}
	}
	if Kind(0).Valid() || Kind(99).Valid() {
		t.Error("out-of-range kinds reported valid")
	}
}
