package weft

import "strings"

// CursorStyle is the appearance of the cursor, set via DECSCUSR
type CursorStyle uint8

const (
	CursorDefault CursorStyle = iota
	CursorBlockBlinking
	CursorBlock
	CursorUnderlineBlinking
	CursorUnderline
	CursorBeamBlinking
	CursorBeam
)

// Cursor is the cursor position and appearance within a screen snapshot
type Cursor struct {
	Row     int
	Col     int
	Visible bool
	Style   CursorStyle
}

// Screen is a point-in-time copy of a pane's visible grid. It shares no
// memory with the live pane and is safe to read from any goroutine
type Screen struct {
	Cells  [][]Cell
	Rows   int
	Cols   int
	Cursor Cursor
	Title  string
	// Placements are the images currently anchored to the screen
	Placements []Placement
}

// CellAt returns the cell at row, col, or a zero Cell when out of bounds
func (s Screen) CellAt(row int, col int) Cell {
	if row < 0 || row >= s.Rows {
		return Cell{}
	}
	if col < 0 || col >= s.Cols {
		return Cell{}
	}
	return s.Cells[row][col]
}

// String returns the visible text of the screen, one line per row, with
// trailing blanks trimmed
func (s Screen) String() string {
	str := strings.Builder{}
	for row := range s.Cells {
		if row != 0 {
			str.WriteString("\n")
		}
		line := strings.Builder{}
		for _, cell := range s.Cells[row] {
			if cell.Grapheme == "" {
				continue
			}
			line.WriteString(cell.Grapheme)
		}
		str.WriteString(strings.TrimRight(line.String(), " "))
	}
	return str.String()
}
