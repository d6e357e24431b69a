package screen

import "errors"

// ErrInvalidSize is returned when a resolution is outside the surface limits.
var ErrInvalidSize = errors.New("invalid size")

// Cell is one character with its colors.
type Cell struct {
	Ch rune
	FG Color
	BG Color
}

// Blank returns a space cell with the given colors.
func Blank(fg, bg Color) Cell {
	return Cell{Ch: ' ', FG: fg, BG: bg}
}

// Surface is a character-cell display.
type Surface interface {
	// Size returns the current logical resolution.
	Size() (w, h int)

	// MaxSize returns the largest resolution SetSize accepts.
	MaxSize() (w, h int)

	// SetSize changes the logical resolution.
	SetSize(w, h int) error

	// Depth returns the color depth in bits (1, 4, 8 or 24).
	Depth() int

	// Set writes one cell. Out-of-range coordinates are ignored.
	Set(x, y int, c Cell)

	// Fill writes c into the rectangle, clipped to the surface.
	Fill(x, y, w, h int, c Cell)

	// Flush makes pending writes visible.
	Flush() error
}

// WriteLine writes cells starting at (x, y), clipped to the surface width.
// It returns the number of cells written.
func WriteLine(s Surface, x, y int, cells []Cell) int {
	w, h := s.Size()
	if y < 0 || y >= h {
		return 0
	}
	n := 0
	for i, c := range cells {
		if x+i >= w {
			break
		}
		if x+i < 0 {
			continue
		}
		s.Set(x+i, y, c)
		n++
	}
	return n
}
