package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordEnv(rec map[string]any) Env {
	return func(name string) (any, bool) {
		v, ok := rec[name]
		return v, ok
	}
}

func TestEval(t *testing.T) {
	rec := map[string]any{
		"percent":  100.0,
		"input":    50.0,
		"output":   20,
		"status":   "charging",
		"name":     "Main Bank",
		"capacity": 0.0,
	}

	tests := []struct {
		src  string
		want bool
	}{
		{"percent>=99.9", true},
		{"percent < 99.9", false},
		{"input > output", true},
		{"input > output and status == 'charging'", true},
		{"input < output or status == \"idle\"", false},
		{"not (status == 'idle')", true},
		{"status ~= 'idle'", true},
		{"status != 'charging'", false},
		{"(input - output) * 2 == 60", true},
		{"-input < 0", true},
		{"input / capacity == 0", true},
		{"name >= 'Main'", true},
		{"percent", true},
		{"true and not false", true},
		{"1e2 == percent", true},
		{"input == 'x'", false},
		{"output == 20", true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			require.NoError(t, err)
			got, err := e.Eval(recordEnv(rec))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalShortCircuits(t *testing.T) {
	e := MustCompile("percent > 50 or missing > 1")
	got, err := e.Eval(recordEnv(map[string]any{"percent": 90.0}))
	require.NoError(t, err)
	assert.True(t, got)

	e = MustCompile("percent > 95 and missing > 1")
	got, err = e.Eval(recordEnv(map[string]any{"percent": 90.0}))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvalErrors(t *testing.T) {
	rec := recordEnv(map[string]any{"percent": 50.0, "name": "x"})

	_, err := MustCompile("charge > 1").Eval(rec)
	assert.True(t, errors.Is(err, ErrUndefined))
	assert.Contains(t, err.Error(), "charge")

	_, err = MustCompile("name > 1").Eval(rec)
	assert.True(t, errors.Is(err, ErrType))

	_, err = MustCompile("name + 1 > 0").Eval(rec)
	assert.True(t, errors.Is(err, ErrType))

	_, err = MustCompile("percent > 1").Eval(nil)
	assert.True(t, errors.Is(err, ErrUndefined))
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		"",
		"percent >",
		"(percent > 1",
		"percent > 1)",
		"percent = 1",
		"'open",
		"percent > 1 and",
		"os.exit()",
		"a ; b",
	}

	for _, src := range tests {
		_, err := Compile(src)
		var syn *SyntaxError
		if !errors.As(err, &syn) {
			t.Errorf("Compile(%q) error = %v, want SyntaxError", src, err)
		}
	}
}

func TestIdents(t *testing.T) {
	e := MustCompile("input > output and percent < 10 or input == 0")
	assert.Equal(t, []string{"input", "output", "percent"}, e.Idents())
	assert.Equal(t, "input > output and percent < 10 or input == 0", e.String())
}

func TestEvalHasNoSideEffects(t *testing.T) {
	rec := map[string]any{"percent": 10.0}
	e := MustCompile("percent + 5 > 12")

	for i := 0; i < 3; i++ {
		got, err := e.Eval(recordEnv(rec))
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Equal(t, map[string]any{"percent": 10.0}, rec)
}
