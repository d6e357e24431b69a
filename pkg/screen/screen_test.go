package screen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff0000", 0xFF0000, true},
		{"0x00ff00", 0x00FF00, true},
		{"255", 0x0000FF, true},
		{"#1000000", 0, false},
		{"green", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnknownColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaletteResolve(t *testing.T) {
	p := DefaultPalette()

	c, err := p.Resolve("green")
	require.NoError(t, err)
	assert.Equal(t, Color(0x00FF00), c)

	c, err = p.Resolve("#123456")
	require.NoError(t, err)
	assert.Equal(t, Color(0x123456), c)

	_, err = p.Resolve("chartreuse")
	assert.True(t, errors.Is(err, ErrUnknownColor))
}

func TestPaletteMerge(t *testing.T) {
	base := Palette{"a": 1, "b": 2}
	merged := base.Merge(Palette{"b": 3, "c": 4})

	assert.Equal(t, Palette{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, Color(2), base["b"], "original untouched")
}

func TestColorMono(t *testing.T) {
	assert.Equal(t, White, Color(0xFFFF00).Mono())
	assert.Equal(t, Black, Color(0x000080).Mono())
	assert.Equal(t, Black, White.Contrast())
}

func TestMemorySetAndClip(t *testing.T) {
	m := NewMemory(4, 2, 24)
	m.Set(0, 0, Cell{Ch: 'a'})
	m.Set(3, 1, Cell{Ch: 'z'})
	m.Set(4, 0, Cell{Ch: 'x'})
	m.Set(-1, 0, Cell{Ch: 'x'})

	assert.Equal(t, "a   ", m.Row(0))
	assert.Equal(t, "   z", m.Row(1))
}

func TestMemoryFill(t *testing.T) {
	m := NewMemory(5, 3, 24)
	m.Fill(3, 1, 10, 10, Cell{Ch: '#', BG: 0xFF0000})

	assert.Equal(t, "     ", m.Row(0))
	assert.Equal(t, "   ##", m.Row(1))
	assert.Equal(t, "   ##", m.Row(2))
	assert.Equal(t, Color(0xFF0000), m.Cell(4, 2).BG)
}

func TestMemorySetSize(t *testing.T) {
	m := NewMemory(10, 5, 8)

	require.NoError(t, m.SetSize(3, 2))
	w, h := m.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	err := m.SetSize(11, 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
	err = m.SetSize(0, 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestWriteLine(t *testing.T) {
	m := NewMemory(4, 1, 24)
	n := WriteLine(m, 1, 0, []Cell{{Ch: 'a'}, {Ch: 'b'}, {Ch: 'c'}, {Ch: 'd'}})

	assert.Equal(t, 3, n)
	assert.Equal(t, " abc", m.Row(0))
	assert.Equal(t, 0, WriteLine(m, 0, 1, []Cell{{Ch: 'x'}}))
}

func TestMemoryCopyTo(t *testing.T) {
	src := NewMemory(2, 1, 24)
	src.Set(0, 0, Cell{Ch: 'o'})
	src.Set(1, 0, Cell{Ch: 'k'})

	dst := NewMemory(4, 2, 24)
	src.CopyTo(dst, 1, 1)

	assert.Equal(t, " ok ", dst.Row(1))
}

func TestDetectDepth(t *testing.T) {
	assert.Equal(t, 24, DetectDepth("truecolor", "xterm"))
	assert.Equal(t, 8, DetectDepth("", "xterm-256color"))
	assert.Equal(t, 4, DetectDepth("", "xterm"))
	assert.Equal(t, 1, DetectDepth("", "dumb"))
}
