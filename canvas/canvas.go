// Package canvas provides the fixed-size character grid games draw into.
package canvas

import (
	"errors"
	"fmt"
	"strings"
)

// Blank is the default content of every cell
const Blank = ' '

// ErrInvalidSize is returned for non-positive dimensions
var ErrInvalidSize = errors.New("canvas dimensions must be positive")

// Canvas is a width x height grid of runes.
// Writes outside [0,width) x [0,height) are rejected and leave the grid untouched.
type Canvas struct {
	width  int
	height int
	cells  []rune // Row-major: cells[y*width + x]
}

// New creates a canvas filled with Blank
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]rune, width*height),
	}
	c.Clear()
	return c, nil
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set writes r at (x, y); returns false when out of bounds
func (c *Canvas) Set(x, y int, r rune) bool {
	if !c.inBounds(x, y) {
		return false
	}
	c.cells[y*c.width+x] = r
	return true
}

// Get returns the rune at (x, y)
func (c *Canvas) Get(x, y int) (rune, bool) {
	if !c.inBounds(x, y) {
		return 0, false
	}
	return c.cells[y*c.width+x], true
}

// WriteString writes s left to right starting at (x, y), clipping at the edges.
// Returns the number of cells written.
func (c *Canvas) WriteString(s string, x, y int) int {
	written := 0
	for _, r := range s {
		if c.Set(x, y, r) {
			written++
		}
		x++
		if x >= c.width {
			break
		}
	}
	return written
}

// Fill sets every cell to r
func (c *Canvas) Fill(r rune) {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = r
	// Exponential copy
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
}

// Clear resets every cell to Blank
func (c *Canvas) Clear() {
	c.Fill(Blank)
}

// Snapshot copies the current grid for rendering
func (c *Canvas) Snapshot() Frame {
	cells := make([]rune, len(c.cells))
	copy(cells, c.cells)
	return Frame{width: c.width, height: c.height, cells: cells}
}

// Frame is an immutable copy of a canvas taken once per frame
type Frame struct {
	width  int
	height int
	cells  []rune
}

// NewFrame builds a frame from row strings, padding short rows with Blank.
// Rows longer than width are truncated.
func NewFrame(width int, rows ...string) Frame {
	f := Frame{width: width, height: len(rows), cells: make([]rune, width*len(rows))}
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if x >= width {
				break
			}
			f.cells[y*width+x] = r
			x++
		}
		for ; x < width; x++ {
			f.cells[y*width+x] = Blank
		}
	}
	return f
}

// Width returns the frame width
func (f Frame) Width() int {
	return f.width
}

// Height returns the frame height
func (f Frame) Height() int {
	return f.height
}

// Row returns row y; the slice must not be modified
func (f Frame) Row(y int) []rune {
	if y < 0 || y >= f.height {
		return nil
	}
	return f.cells[y*f.width : (y+1)*f.width]
}

// At returns the rune at (x, y), Blank when out of bounds
func (f Frame) At(x, y int) rune {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Blank
	}
	return f.cells[y*f.width+x]
}

// Lines returns the frame as one string per row
func (f Frame) Lines() []string {
	lines := make([]string, f.height)
	for y := range lines {
		lines[y] = string(f.Row(y))
	}
	return lines
}

// String joins rows with newlines
func (f Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}
