package vt

// Resize changes the grid dimensions. The visible primary screen reflows by
// logical line: soft-wrapped rows are joined and laid out again at the new
// width. Scrollback rows are stored as written and do not reflow. Height
// changes exchange rows with scrollback so the cursor keeps its logical
// line. Resizing to the current size, or to less than one cell, is a no-op
func (g *Grid) Resize(rows int, cols int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rows < 1 || cols < 1 {
		return
	}
	if rows == g.rows && cols == g.cols {
		return
	}

	if g.onAltScreen() {
		// no reflow with the alt screen active: both screens clip or pad
		g.primaryScreen = clipPad(g.primaryScreen, rows, cols)
		g.altScreen = clipPad(g.altScreen, rows, cols)
		g.activeScreen = g.altScreen
	} else {
		g.altScreen = clipPad(g.altScreen, rows, cols)
		g.reflowPrimary(rows, cols)
		g.activeScreen = g.primaryScreen
	}

	g.rows = rows
	g.cols = cols
	g.margin = margin{bottom: rows - 1, right: cols - 1}
	g.tabStop = defaultTabStops(cols)
	g.lastCol = false
	g.lastPrintRow = -1
	g.lastPrintCol = -1
	g.clearSelection()
	g.clampCursor()
	g.clampSaved(&g.primaryState, rows, cols)
	g.clampSaved(&g.altState, rows, cols)

	kept := g.placements[:0]
	for _, p := range g.placements {
		if p.Row >= rows || p.Col >= cols {
			continue
		}
		kept = append(kept, p)
	}
	g.placements = kept
}

func (g *Grid) clampSaved(state *cursorState, rows int, cols int) {
	if state.cursor.row > rows-1 {
		state.cursor.row = rows - 1
	}
	if state.cursor.col > cols-1 {
		state.cursor.col = cols - 1
	}
}

// clipPad returns a rows by cols buffer holding the overlapping content of
// buf
func clipPad(buf [][]cell, rows int, cols int) [][]cell {
	next := newScreenBuf(rows, cols)
	for r := 0; r < rows && r < len(buf); r += 1 {
		copy(next[r], buf[r])
	}
	return next
}

// reflowPrimary lays the visible primary content out at the new size and
// maps the cursor through the reflow
func (g *Grid) reflowPrimary(rows int, cols int) {
	// join soft-wrapped rows into logical lines; remember which logical
	// line the cursor is on and its offset within it
	type logical struct {
		cells []cell
	}
	var lines []logical
	cursorLine := -1
	cursorOff := 0
	row := 0
	for row < g.rows {
		line := logical{}
		for {
			src := g.primaryScreen[row]
			wrapped := src[len(src)-1].wrapped
			used := len(src)
			if !wrapped {
				used = usedWidth(src)
			}
			if g.cursor.row == row {
				cursorLine = len(lines)
				cursorOff = len(line.cells) + g.cursor.col
			}
			cp := make([]cell, used)
			copy(cp, src[:used])
			for i := range cp {
				cp[i].wrapped = false
			}
			line.cells = append(line.cells, cp...)
			row += 1
			if !wrapped || row >= g.rows {
				break
			}
		}
		lines = append(lines, line)
	}

	// drop blank logical lines below both the content and the cursor
	for len(lines) > 0 {
		last := len(lines) - 1
		if last <= cursorLine {
			break
		}
		if len(lines[last].cells) != 0 {
			break
		}
		lines = lines[:last]
	}

	// lay logical lines out at the new width
	var next [][]cell
	cursorRow := 0
	cursorCol := 0
	for i, line := range lines {
		start := len(next)
		n := len(line.cells)
		rowCount := (n + cols - 1) / cols
		if rowCount == 0 {
			rowCount = 1
		}
		for r := 0; r < rowCount; r += 1 {
			nr := make([]cell, cols)
			copy(nr, line.cells[r*cols:min(n, (r+1)*cols)])
			if (r+1)*cols < n {
				nr[cols-1].wrapped = true
			}
			next = append(next, nr)
		}
		if i == cursorLine {
			if cursorOff > n {
				cursorOff = n
			}
			cursorRow = start + cursorOff/cols
			cursorCol = cursorOff % cols
		}
	}

	// height: overflow pushes into scrollback, deficit pulls back out
	for len(next) > rows {
		if g.sbLimit > 0 {
			g.scrollback = append(g.scrollback, next[0])
			if len(g.scrollback) > g.sbLimit {
				drop := len(g.scrollback) - g.sbLimit
				copy(g.scrollback, g.scrollback[drop:])
				g.scrollback = g.scrollback[:g.sbLimit]
			}
		}
		next = next[1:]
		cursorRow -= 1
	}
	for len(next) < rows && len(g.scrollback) > 0 {
		last := g.scrollback[len(g.scrollback)-1]
		g.scrollback = g.scrollback[:len(g.scrollback)-1]
		line := make([]cell, cols)
		copy(line, last)
		next = append([][]cell{line}, next...)
		cursorRow += 1
	}
	for len(next) < rows {
		next = append(next, make([]cell, cols))
	}

	g.primaryScreen = next
	if cursorRow < 0 {
		cursorRow = 0
	}
	g.cursor.row = cursorRow
	g.cursor.col = cursorCol
}

// usedWidth is the count of cells up to and including the last one with
// content or styling
func usedWidth(line []cell) int {
	for i := len(line) - 1; i >= 0; i -= 1 {
		if line[i].content != "" || !line[i].style.IsDefault() || line[i].spacer {
			return i + 1
		}
	}
	return 0
}

func min(a int, b int) int {
	if a < b {
		return a
	}
	return b
}
