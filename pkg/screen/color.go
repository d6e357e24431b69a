package screen

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownColor is returned when a color name is neither in the palette
// nor a numeric value.
var ErrUnknownColor = errors.New("unknown color")

// Color is a 24-bit RGB value (0xRRGGBB).
type Color uint32

// Common colors.
const (
	Black Color = 0x000000
	White Color = 0xFFFFFF
)

// Hex returns "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

// Luma returns the perceived brightness in [0, 255].
func (c Color) Luma() int {
	r := int(c>>16) & 0xFF
	g := int(c>>8) & 0xFF
	b := int(c) & 0xFF
	return (299*r + 587*g + 114*b) / 1000
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if c.Luma() > 127 {
		return Black
	}
	return White
}

// Mono maps c to black or white for one-bit displays.
func (c Color) Mono() Color {
	if c.Luma() > 127 {
		return White
	}
	return Black
}

// ParseColor parses "#rrggbb", "0xrrggbb" or a decimal value.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		v, err = strconv.ParseUint(s[1:], 16, 32)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil || v > 0xFFFFFF {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return Color(v), nil
}

// Well-known palette names used by the renderer.
const (
	PaletteForeground = "foreground"
	PaletteBackground = "background"
	PaletteError      = "error"
)

// Palette maps names to colors.
type Palette map[string]Color

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return Palette{
		PaletteForeground: 0xFFFFFF,
		PaletteBackground: 0x000000,
		PaletteError:      0xFF3333,
		"black":           0x000000,
		"white":           0xFFFFFF,
		"gray":            0x808080,
		"red":             0xFF0000,
		"orange":          0xFFA500,
		"yellow":          0xFFFF00,
		"green":           0x00FF00,
		"cyan":            0x00FFFF,
		"blue":            0x0000FF,
		"purple":          0x800080,
		"magenta":         0xFF00FF,
	}
}

// Resolve returns the palette entry for name, or parses name as a number.
func (p Palette) Resolve(name string) (Color, error) {
	if c, ok := p[name]; ok {
		return c, nil
	}
	c, err := ParseColor(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (not in palette %v)", ErrUnknownColor, name, p.Names())
	}
	return c, nil
}

// Lookup returns the named entry or fallback.
func (p Palette) Lookup(name string, fallback Color) Color {
	if c, ok := p[name]; ok {
		return c
	}
	return fallback
}

// Names returns the palette names, sorted.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of p with entries from other added or replaced.
func (p Palette) Merge(other Palette) Palette {
	out := make(Palette, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
