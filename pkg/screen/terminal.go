package screen

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Default terminal size when the output is not a TTY.
const (
	fallbackWidth  = 80
	fallbackHeight = 25
)

// ANSI control sequences.
const (
	ansiHome       = "\033[H"
	ansiClear      = "\033[2J"
	ansiHideCursor = "\033[?25l"
	ansiShowCursor = "\033[?25h"
	ansiReset      = "\033[0m"
)

// Terminal is a Surface drawing to an ANSI terminal. Writes go to a back
// buffer; Flush repaints the screen from it.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	fd       int
	depth    int
	back     *Memory
	renderer *lipgloss.Renderer
}

// NewTerminal creates a Terminal drawing to f. The maximum size is the
// terminal size at creation time.
func NewTerminal(f *os.File) *Terminal {
	fd := int(f.Fd())
	w, h := fallbackWidth, fallbackHeight
	if term.IsTerminal(fd) {
		if tw, th, err := term.GetSize(fd); err == nil && tw > 0 && th > 0 {
			w, h = tw, th
		}
	}

	depth := DetectDepth(os.Getenv("COLORTERM"), os.Getenv("TERM"))
	t := &Terminal{
		out:      f,
		fd:       fd,
		depth:    depth,
		back:     NewMemory(w, h, depth),
		renderer: lipgloss.NewRenderer(f),
	}
	fmt.Fprint(t.out, ansiHideCursor+ansiClear)
	return t
}

// DetectDepth infers the color depth from the COLORTERM and TERM variables.
func DetectDepth(colorterm, termName string) int {
	switch {
	case colorterm == "truecolor" || colorterm == "24bit":
		return 24
	case strings.Contains(termName, "256color"):
		return 8
	case termName == "" || termName == "dumb":
		return 1
	default:
		return 4
	}
}

// SetDepth overrides the detected color depth.
func (t *Terminal) SetDepth(depth int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.depth = depth
}

// Size implements Surface.
func (t *Terminal) Size() (int, int) { return t.back.Size() }

// MaxSize implements Surface.
func (t *Terminal) MaxSize() (int, int) { return t.back.MaxSize() }

// SetSize implements Surface.
func (t *Terminal) SetSize(w, h int) error {
	if err := t.back.SetSize(w, h); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprint(t.out, ansiReset+ansiClear)
	return err
}

// Depth implements Surface.
func (t *Terminal) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.depth
}

// Set implements Surface.
func (t *Terminal) Set(x, y int, c Cell) { t.back.Set(x, y, c) }

// Fill implements Surface.
func (t *Terminal) Fill(x, y, w, h int, c Cell) { t.back.Fill(x, y, w, h, c) }

// Flush repaints the terminal from the back buffer, grouping runs of cells
// that share colors into one styled segment.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.back.Size()
	var sb strings.Builder
	sb.WriteString(ansiHome)
	for y := 0; y < h; y++ {
		if y > 0 {
			sb.WriteString("\r\n")
		}
		var run strings.Builder
		var runFG, runBG Color
		for x := 0; x < w; x++ {
			c := t.back.Cell(x, y)
			if run.Len() > 0 && (c.FG != runFG || c.BG != runBG) {
				sb.WriteString(t.style(runFG, runBG).Render(run.String()))
				run.Reset()
			}
			runFG, runBG = c.FG, c.BG
			ch := c.Ch
			if ch == 0 {
				ch = ' '
			}
			run.WriteRune(ch)
		}
		if run.Len() > 0 {
			sb.WriteString(t.style(runFG, runBG).Render(run.String()))
		}
	}
	_, err := io.WriteString(t.out, sb.String())
	return err
}

func (t *Terminal) style(fg, bg Color) lipgloss.Style {
	if t.depth <= 1 {
		fg, bg = fg.Mono(), bg.Mono()
	}
	return t.renderer.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(bg.Hex()))
}

// Close restores the cursor and clears the screen.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprint(t.out, ansiReset+ansiClear+ansiHome+ansiShowCursor)
	return err
}

// Compile-time interface satisfaction check.
var _ Surface = (*Terminal)(nil)
