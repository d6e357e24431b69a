package screen

import (
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-memory Surface. It doubles as the offscreen buffer the
// monitor composes a frame into before copying it to the real display.
type Memory struct {
	mu      sync.RWMutex
	maxW    int
	maxH    int
	w, h    int
	depth   int
	cells   []Cell
	flushes int
}

// NewMemory creates a Memory surface of the given maximum size and depth.
func NewMemory(w, h, depth int) *Memory {
	m := &Memory{maxW: w, maxH: h, depth: depth}
	m.resize(w, h)
	return m
}

func (m *Memory) resize(w, h int) {
	m.w, m.h = w, h
	m.cells = make([]Cell, w*h)
	for i := range m.cells {
		m.cells[i] = Blank(White, Black)
	}
}

// Size implements Surface.
func (m *Memory) Size() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.w, m.h
}

// MaxSize implements Surface.
func (m *Memory) MaxSize() (int, int) {
	return m.maxW, m.maxH
}

// SetSize implements Surface. Contents are cleared.
func (m *Memory) SetSize(w, h int) error {
	if w < 1 || h < 1 || w > m.maxW || h > m.maxH {
		return fmt.Errorf("%w: %dx%d (max %dx%d)", ErrInvalidSize, w, h, m.maxW, m.maxH)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resize(w, h)
	return nil
}

// Depth implements Surface.
func (m *Memory) Depth() int { return m.depth }

// Set implements Surface.
func (m *Memory) Set(x, y int, c Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.cells[y*m.w+x] = c
}

// Fill implements Surface.
func (m *Memory) Fill(x, y, w, h int, c Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for row := max(y, 0); row < min(y+h, m.h); row++ {
		for col := max(x, 0); col < min(x+w, m.w); col++ {
			m.cells[row*m.w+col] = c
		}
	}
}

// Flush implements Surface. It only counts calls.
func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

// Flushes returns how many times Flush was called.
func (m *Memory) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}

// Cell returns the cell at (x, y).
func (m *Memory) Cell(x, y int) Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return Cell{}
	}
	return m.cells[y*m.w+x]
}

// Row returns the characters of row y.
func (m *Memory) Row(y int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if y < 0 || y >= m.h {
		return ""
	}
	var sb strings.Builder
	for _, c := range m.cells[y*m.w : (y+1)*m.w] {
		sb.WriteRune(c.Ch)
	}
	return sb.String()
}

// Text returns all rows joined by newlines, with trailing spaces trimmed.
func (m *Memory) Text() string {
	_, h := m.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = strings.TrimRight(m.Row(y), " ")
	}
	return strings.Join(rows, "\n")
}

// CopyTo composites the whole buffer onto dst with its top-left at (x, y).
func (m *Memory) CopyTo(dst Surface, x, y int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for row := 0; row < m.h; row++ {
		WriteLine(dst, x, y+row, m.cells[row*m.w:(row+1)*m.w])
	}
}

// Compile-time interface satisfaction check.
var _ Surface = (*Memory)(nil)
