package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statusText = []string{
	"Energy Buffer",
	"Stored: 1,234,567 EU",
	"Capacity: 10,000,000 EU",
	"Input: 512 EU/t",
	"Status: ???",
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		want    float64
		wantErr bool
	}{
		{"capture group", MustRule(2, `Stored: ([0-9,]+)`), 1234567, false},
		{"whole match", MustRule(4, `[0-9]+ EU/t`), 512, false},
		{"line zero not allowed", Rule{Line: 0, Pattern: MustRule(1, `x`).Pattern}, 0, true},
		{"line past end", MustRule(9, `.*`), 0, true},
		{"no match", MustRule(3, `Output: (.*)`), 0, true},
		{"no digits", MustRule(5, `Status: (.*)`), 0, true},
		{"nil pattern", Rule{Line: 1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(statusText, tt.rule)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrExtraction), "error should match ErrExtraction")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractStripsSignAndDecimals(t *testing.T) {
	got, err := Extract([]string{"Rate: -12.5"}, MustRule(1, `Rate: (.*)`))
	require.NoError(t, err)
	assert.Equal(t, float64(125), got)
}

func TestExtractAll(t *testing.T) {
	rules := map[string]Rule{
		"stored":   MustRule(2, `Stored: (.*)`),
		"capacity": MustRule(3, `Capacity: (.*)`),
	}

	got, err := ExtractAll(statusText, rules)
	require.NoError(t, err)
	assert.Equal(t, float64(1234567), got["stored"])
	assert.Equal(t, float64(10000000), got["capacity"])
}

func TestExtractAllNamesFailingField(t *testing.T) {
	rules := map[string]Rule{
		"stored": MustRule(2, `Stored: (.*)`),
		"output": MustRule(7, `Output: (.*)`),
	}

	_, err := ExtractAll(statusText, rules)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "output", e.Field)
	assert.Contains(t, err.Error(), "output")
}

func TestNewRuleRejectsBadInput(t *testing.T) {
	_, err := NewRule(0, `x`)
	assert.Error(t, err)

	_, err = NewRule(1, `(`)
	assert.Error(t, err)
}
