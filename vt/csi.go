package vt

import (
	"github.com/weftterm/weft"
	"github.com/weftterm/weft/log"
)

// param returns the i'th parameter group's value, or def when the group is
// absent or zero
func param(params [][]int, i int, def int) int {
	if i >= len(params) {
		return def
	}
	if params[i][0] == 0 {
		return def
	}
	return params[i][0]
}

// csi dispatches a control sequence. The string is the concatenation of any
// intermediate bytes (private markers first) and the final byte
func (g *Grid) csi(csi string, params [][]int) {
	switch csi {
	case "A": // CUU
		g.cursorUp(param(params, 0, 1))
	case "B": // CUD
		g.cursorDown(param(params, 0, 1))
	case "C": // CUF
		g.cursorRight(param(params, 0, 1))
	case "D": // CUB
		g.cursorLeft(param(params, 0, 1))
	case "E": // CNL
		g.cursorDown(param(params, 0, 1))
		g.cursor.col = g.margin.left
	case "F": // CPL
		g.cursorUp(param(params, 0, 1))
		g.cursor.col = g.margin.left
	case "G", "`": // CHA, HPA
		g.lastCol = false
		g.cursor.col = param(params, 0, 1) - 1
		g.clampCursor()
	case "H", "f": // CUP, HVP
		g.cup(param(params, 0, 1), param(params, 1, 1))
	case "I": // CHT
		for i := 0; i < param(params, 0, 1); i += 1 {
			g.ht()
		}
	case "J", "?J": // ED, DECSED
		g.ed(param(params, 0, 0))
	case "K", "?K": // EL, DECSEL
		g.el(param(params, 0, 0))
	case "L": // IL
		g.il(param(params, 0, 1))
	case "M": // DL
		g.dl(param(params, 0, 1))
	case "P": // DCH
		g.dch(param(params, 0, 1))
	case "S": // SU
		g.scrollUp(param(params, 0, 1))
	case "T": // SD
		g.scrollDown(param(params, 0, 1))
	case "X": // ECH
		g.ech(param(params, 0, 1))
	case "Z": // CBT
		for i := 0; i < param(params, 0, 1); i += 1 {
			g.cbt()
		}
	case "@": // ICH
		g.ich(param(params, 0, 1))
	case "b": // REP
		g.rep(param(params, 0, 1))
	case "c": // DA1
		if param(params, 0, 0) == 0 {
			g.respond("\x1b[?62;22c")
		}
	case ">c": // DA2
		if param(params, 0, 0) == 0 {
			g.respond("\x1b[>1;10;0c")
		}
	case "d": // VPA
		g.lastCol = false
		g.cursor.row = param(params, 0, 1) - 1
		g.clampCursor()
	case "g": // TBC
		g.tbc(param(params, 0, 0))
	case "h": // SM
		g.sm(params)
	case "?h": // DECSET
		g.decset(params)
	case "l": // RM
		g.rm(params)
	case "?l": // DECRST
		g.decrst(params)
	case "m": // SGR
		g.sgr(params)
	case "n": // DSR
		g.dsr(param(params, 0, 0))
	case "r": // DECSTBM
		g.decstbm(param(params, 0, 1), param(params, 1, g.rows))
	case "s": // SCOSC
		g.decsc()
	case "u": // SCORC
		g.decrc()
	case " q": // DECSCUSR
		shape := param(params, 0, 0)
		if shape <= int(weft.CursorBeam) {
			g.cursor.shape = weft.CursorStyle(shape)
		}
	case "t": // XTWINOPS
		g.xtwinops(params)
	default:
		log.Debug("[vt] unhandled CSI", "sequence", csi)
	}
}

func (g *Grid) cursorUp(n int) {
	g.lastCol = false
	stop := 0
	if g.cursor.row >= g.margin.top {
		stop = g.margin.top
	}
	g.cursor.row -= n
	if g.cursor.row < stop {
		g.cursor.row = stop
	}
}

func (g *Grid) cursorDown(n int) {
	g.lastCol = false
	stop := g.rows - 1
	if g.cursor.row <= g.margin.bottom {
		stop = g.margin.bottom
	}
	g.cursor.row += n
	if g.cursor.row > stop {
		g.cursor.row = stop
	}
}

func (g *Grid) cursorRight(n int) {
	g.lastCol = false
	g.cursor.col += n
	if g.cursor.col > g.margin.right {
		g.cursor.col = g.margin.right
	}
}

func (g *Grid) cursorLeft(n int) {
	g.lastCol = false
	g.cursor.col -= n
	if g.cursor.col < g.margin.left {
		g.cursor.col = g.margin.left
	}
}

// cup addresses the cursor with 1-based coordinates. In origin mode rows
// are relative to the scroll region and confined to it
func (g *Grid) cup(row int, col int) {
	g.lastCol = false
	if g.mode&decom != 0 {
		g.cursor.row = g.margin.top + row - 1
		if g.cursor.row > g.margin.bottom {
			g.cursor.row = g.margin.bottom
		}
	} else {
		g.cursor.row = row - 1
	}
	g.cursor.col = col - 1
	g.clampCursor()
}

// ed erases in display. 0 = cursor to end, 1 = start to cursor, 2 = all,
// 3 = all plus scrollback. Erased cells take the pen background
func (g *Grid) ed(sel int) {
	bg := g.cursor.pen.Background
	switch sel {
	case 0:
		row := g.cursor.row
		for col := g.cursor.col; col < g.cols; col += 1 {
			g.activeScreen[row][col].erase(bg)
		}
		for r := row + 1; r < g.rows; r += 1 {
			for col := 0; col < g.cols; col += 1 {
				g.activeScreen[r][col].erase(bg)
			}
		}
	case 1:
		for r := 0; r < g.cursor.row; r += 1 {
			for col := 0; col < g.cols; col += 1 {
				g.activeScreen[r][col].erase(bg)
			}
		}
		for col := 0; col <= g.cursor.col && col < g.cols; col += 1 {
			g.activeScreen[g.cursor.row][col].erase(bg)
		}
	case 2:
		for r := 0; r < g.rows; r += 1 {
			for col := 0; col < g.cols; col += 1 {
				g.activeScreen[r][col].erase(bg)
			}
		}
	case 3:
		g.scrollback = nil
		return
	default:
		return
	}
	g.clearSelection()
	g.lastPrintRow = -1
	g.lastPrintCol = -1
}

// el erases in line. 0 = cursor to end, 1 = start to cursor, 2 = whole line
func (g *Grid) el(sel int) {
	bg := g.cursor.pen.Background
	row := g.cursor.row
	switch sel {
	case 0:
		for col := g.cursor.col; col < g.cols; col += 1 {
			g.activeScreen[row][col].erase(bg)
		}
	case 1:
		for col := 0; col <= g.cursor.col && col < g.cols; col += 1 {
			g.activeScreen[row][col].erase(bg)
		}
	case 2:
		for col := 0; col < g.cols; col += 1 {
			g.activeScreen[row][col].erase(bg)
		}
	}
}

// il inserts n blank lines at the cursor row, shifting lines within the
// scroll region down. Outside the region it is a no-op
func (g *Grid) il(n int) {
	if g.cursor.row < g.margin.top || g.cursor.row > g.margin.bottom {
		return
	}
	top := g.margin.top
	g.margin.top = g.cursor.row
	g.scrollDown(n)
	g.margin.top = top
	g.cursor.col = g.margin.left
}

// dl deletes n lines at the cursor row, shifting lines within the scroll
// region up. Deleted lines never enter scrollback
func (g *Grid) dl(n int) {
	if g.cursor.row < g.margin.top || g.cursor.row > g.margin.bottom {
		return
	}
	top := g.margin.top
	sb := g.sbLimit
	g.margin.top = g.cursor.row
	g.sbLimit = 0
	g.scrollUp(n)
	g.margin.top = top
	g.sbLimit = sb
	g.cursor.col = g.margin.left
}

// ich inserts n blank cells at the cursor, shifting the rest of the line
// right. Cells shifted past the right margin are lost
func (g *Grid) ich(n int) {
	line := g.activeScreen[g.cursor.row]
	if n > g.margin.right-g.cursor.col+1 {
		n = g.margin.right - g.cursor.col + 1
	}
	for col := g.margin.right; col >= g.cursor.col+n; col -= 1 {
		line[col] = line[col-n]
	}
	for col := g.cursor.col; col < g.cursor.col+n && col <= g.margin.right; col += 1 {
		line[col].erase(g.cursor.pen.Background)
	}
}

// dch deletes n cells at the cursor, shifting the rest of the line left and
// filling the freed cells with the pen background
func (g *Grid) dch(n int) {
	line := g.activeScreen[g.cursor.row]
	if n > g.margin.right-g.cursor.col+1 {
		n = g.margin.right - g.cursor.col + 1
	}
	for col := g.cursor.col; col <= g.margin.right; col += 1 {
		if col+n <= g.margin.right {
			line[col] = line[col+n]
			continue
		}
		line[col].erase(g.cursor.pen.Background)
	}
}

// ech erases n cells at the cursor without moving it
func (g *Grid) ech(n int) {
	line := g.activeScreen[g.cursor.row]
	for col := g.cursor.col; col < g.cursor.col+n && col < g.cols; col += 1 {
		line[col].erase(g.cursor.pen.Background)
	}
}

// rep repeats the most recently printed grapheme n times
func (g *Grid) rep(n int) {
	if g.lastGrapheme == "" {
		return
	}
	grapheme := g.lastGrapheme
	if n > g.cols*g.rows {
		n = g.cols * g.rows
	}
	for i := 0; i < n; i += 1 {
		for _, r := range grapheme {
			g.print(r)
		}
	}
}

func (g *Grid) tbc(sel int) {
	switch sel {
	case 0:
		for i, ts := range g.tabStop {
			if ts == g.cursor.col {
				g.tabStop = append(g.tabStop[:i], g.tabStop[i+1:]...)
				return
			}
		}
	case 3:
		g.tabStop = nil
	}
}

// hts sets a tab stop at the cursor column
func (g *Grid) hts() {
	col := g.cursor.col
	for i, ts := range g.tabStop {
		switch {
		case ts == col:
			return
		case ts > col:
			g.tabStop = append(g.tabStop[:i], append([]int{col}, g.tabStop[i:]...)...)
			return
		}
	}
	g.tabStop = append(g.tabStop, col)
}

// dsr answers device status reports: 5 = operating status, 6 = cursor
// position (origin-relative when origin mode is set)
func (g *Grid) dsr(sel int) {
	switch sel {
	case 5:
		g.respond("\x1b[0n")
	case 6:
		row := g.cursor.row
		if g.mode&decom != 0 {
			row -= g.margin.top
		}
		g.respond("\x1b[%d;%dR", row+1, g.cursor.col+1)
	}
}

// decstbm sets the scroll region from 1-based bounds. An invalid region is
// ignored; a valid one homes the cursor
func (g *Grid) decstbm(top int, bottom int) {
	if bottom > g.rows {
		bottom = g.rows
	}
	if top < 1 || top >= bottom {
		return
	}
	g.margin.top = top - 1
	g.margin.bottom = bottom - 1
	g.home()
}

// xtwinops handles window manipulation: only the title stack operations are
// supported
func (g *Grid) xtwinops(params [][]int) {
	switch param(params, 0, 0) {
	case 22:
		g.titleStack = append(g.titleStack, g.title)
		if len(g.titleStack) > 10 {
			g.titleStack = g.titleStack[1:]
		}
	case 23:
		if n := len(g.titleStack); n > 0 {
			g.title = g.titleStack[n-1]
			g.titleStack = g.titleStack[:n-1]
			g.postEvent(weft.EventTitle(g.title))
		}
	default:
		log.Debug("[vt] unhandled XTWINOPS", "op", param(params, 0, 0))
	}
}
