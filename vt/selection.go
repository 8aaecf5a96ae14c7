package vt

import "strings"

// Position addresses a cell. Row 0 is the top visible row; negative rows
// index scrollback, -1 being the most recently evicted line
type Position struct {
	Row int
	Col int
}

// Less orders positions top to bottom, left to right
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

type selection struct {
	active bool
	start  Position
	end    Position
}

// SetSelection marks the region between start and end inclusive. The order
// of the arguments does not matter
func (g *Grid) SetSelection(start Position, end Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if end.Less(start) {
		start, end = end, start
	}
	g.sel = selection{active: true, start: start, end: end}
}

// ClearSelection removes the selection
func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearSelection()
}

// clearSelection is the under-lock form, also called when the content under
// a selection scrolls or is erased
func (g *Grid) clearSelection() {
	g.sel = selection{}
}

// SelectedText returns the text within the selection, one line per row,
// trailing blanks trimmed. Empty when no selection is active
func (g *Grid) SelectedText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sel.active {
		return ""
	}
	str := strings.Builder{}
	for row := g.sel.start.Row; row <= g.sel.end.Row; row += 1 {
		line := g.lineAt(row)
		if line == nil {
			continue
		}
		first := 0
		last := len(line)
		if row == g.sel.start.Row {
			first = g.sel.start.Col
		}
		if row == g.sel.end.Row && g.sel.end.Col+1 < last {
			last = g.sel.end.Col + 1
		}
		if first >= len(line) {
			continue
		}
		if str.Len() > 0 {
			str.WriteString("\n")
		}
		text := strings.Builder{}
		for col := first; col < last; col += 1 {
			text.WriteString(line[col].grapheme())
		}
		str.WriteString(strings.TrimRight(text.String(), " "))
	}
	return str.String()
}

// lineAt returns the row's cells, reaching into scrollback for negative
// rows. nil when out of range
func (g *Grid) lineAt(row int) []cell {
	if row >= 0 {
		if row >= g.rows {
			return nil
		}
		return g.activeScreen[row]
	}
	i := len(g.scrollback) + row
	if i < 0 {
		return nil
	}
	return g.scrollback[i]
}

// Search returns the position of every occurrence of needle in the
// scrollback and visible text, oldest first
func (g *Grid) Search(needle string) []Position {
	if needle == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var found []Position
	for i, line := range g.scrollback {
		row := i - len(g.scrollback)
		found = append(found, searchLine(g.lineString(line), needle, row)...)
	}
	for row := range g.activeScreen {
		found = append(found, searchLine(g.lineString(g.activeScreen[row]), needle, row)...)
	}
	return found
}

func searchLine(text string, needle string, row int) []Position {
	var found []Position
	off := 0
	for {
		i := strings.Index(text[off:], needle)
		if i < 0 {
			return found
		}
		// column in cells: count graphemes is overkill here; byte offset
		// converts via rune count of the prefix
		col := len([]rune(text[:off+i]))
		found = append(found, Position{Row: row, Col: col})
		off += i + len(needle)
	}
}
