package core

import (
	"strings"
)

// Cell is a single character position on the surface.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' '}

// Screen is the cell surface an engine core renders into.
// Rows are stored top to bottom; Plot accepts engine coordinates
// (origin bottom-left) and flips them.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a blank surface with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: Max(width, 0), height: Max(height, 0)}
	s.allocate()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		row := make([]Cell, s.width)
		for x := range row {
			row[x] = blank
		}
		s.cells[y] = row
	}
}

// Width returns the surface width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the surface height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the whole surface as a rectangle.
func (s *Screen) Bounds() Rect {
	return Rect{W: s.width, H: s.height}
}

// Resize changes the surface dimensions, keeping the top-left content.
func (s *Screen) Resize(width, height int) {
	width, height = Max(width, 0), Max(height, 0)
	if width == s.width && height == s.height {
		return
	}

	old := s.cells
	copyW := Min(s.width, width)
	copyH := Min(s.height, height)

	s.width = width
	s.height = height
	s.allocate()

	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], old[y][:copyW])
	}
}

// Clear resets every cell to a blank space.
func (s *Screen) Clear() {
	s.Fill(' ', ColorDefault)
}

// Fill sets every cell to the given rune and color.
func (s *Screen) Fill(r rune, c Color) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: r, Color: c}
		}
	}
}

// Set places a rune with the default color. Out-of-bounds writes are ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r})
}

// SetCell places a cell at row y, column x. Out-of-bounds writes are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = c
}

// Get returns the rune at the given position, or a space when out of bounds.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position, or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y][x]
}

// Plot draws at engine coordinates, where y grows upwards from the bottom edge.
func (s *Screen) Plot(x, y float32, r rune, c Color) {
	col, row := CellAt(x, y, s.height)
	s.SetCell(col, row, Cell{Rune: r, Color: c})
}

// DrawText writes a string left to right starting at (x, y), clipped at the edges.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetCell(x+i, y, Cell{Rune: r, Color: c})
		i++
	}
}

// DrawTextCentered draws text centered horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	n := len([]rune(text))
	s.DrawText((s.width-n)/2, y, text, c)
}

// DrawRect fills a rectangle with the given rune.
func (s *Screen) DrawRect(r Rect, fill rune, c Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetCell(x, y, Cell{Rune: fill, Color: c})
		}
	}
}

// DrawBox draws a rectangle outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect, c Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1

	for x := r.X + 1; x < right; x++ {
		s.SetCell(x, r.Y, Cell{Rune: '─', Color: c})
		s.SetCell(x, bottom, Cell{Rune: '─', Color: c})
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetCell(r.X, y, Cell{Rune: '│', Color: c})
		s.SetCell(right, y, Cell{Rune: '│', Color: c})
	}

	s.SetCell(r.X, r.Y, Cell{Rune: '┌', Color: c})
	s.SetCell(right, r.Y, Cell{Rune: '┐', Color: c})
	s.SetCell(r.X, bottom, Cell{Rune: '└', Color: c})
	s.SetCell(right, bottom, Cell{Rune: '┘', Color: c})
}

// Clone returns a deep copy, used to hand a finished frame to another goroutine.
func (s *Screen) Clone() *Screen {
	dup := &Screen{width: s.width, height: s.height, cells: make([][]Cell, s.height)}
	for y := range s.cells {
		dup.cells[y] = append([]Cell(nil), s.cells[y]...)
	}
	return dup
}

// String returns the runes of the surface, rows joined by newlines. Colors are dropped.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range s.cells[y] {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// Row returns row y as a string, or spaces when out of range.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
