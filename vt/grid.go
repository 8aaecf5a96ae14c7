package vt

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/ansi"
)

const defaultScrollback = 10000

// Grid is a virtual terminal screen: a styled character grid with a cursor,
// scroll margins, and a bounded scrollback of rows that scrolled off the
// top. A Grid decodes the bytes written to it. Write expects a single
// writer; every read returns copies and may run from any goroutine
type Grid struct {
	mu sync.Mutex

	parser *ansi.Parser

	activeScreen  [][]cell
	altScreen     [][]cell
	primaryScreen [][]cell

	// rows scrolled off the top of the primary screen, oldest first
	scrollback [][]cell
	sbLimit    int

	charsets charsets
	cursor   cursor
	margin   margin
	mode     mode
	tabStop  []int
	// lastCol is a flag indicating we printed in the last col
	lastCol bool

	// cell of the most recent print, for combining characters and REP
	lastPrintRow int
	lastPrintCol int
	lastGrapheme string

	primaryState cursorState
	altState     cursorState

	rows int
	cols int

	title       string
	titleStack  []string
	workingDir  string
	fgColor     weft.Color
	bgColor     weft.Color
	cursorColor weft.Color

	sel selection

	placements []weft.Placement

	widthMethod weft.WidthMethod

	// query responses (DSR, DA) are written here; nil discards them
	pty io.Writer

	// event sink; the default drops events
	events func(weft.Event)
}

type margin struct {
	top    int
	bottom int
	left   int
	right  int
}

// NewGrid creates a rows by cols grid. Dimensions below 1 are raised to 1
func NewGrid(rows int, cols int, opts weft.Options) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	sbLimit := defaultScrollback
	switch {
	case opts.ScrollbackLimit > 0:
		sbLimit = opts.ScrollbackLimit
	case opts.ScrollbackLimit < 0:
		sbLimit = 0
	}
	g := &Grid{
		parser:       ansi.NewParser(),
		charsets:     defaultCharsets(),
		mode:         decawm | dectcem,
		sbLimit:      sbLimit,
		rows:         rows,
		cols:         cols,
		lastPrintRow: -1,
		lastPrintCol: -1,
		primaryState: cursorState{
			charsets: defaultCharsets(),
			decawm:   true,
		},
		altState: cursorState{
			charsets: defaultCharsets(),
			decawm:   true,
		},
		tabStop:     defaultTabStops(cols),
		margin:      margin{bottom: rows - 1, right: cols - 1},
		fgColor:     weft.RGBColor(0xFF, 0xFF, 0xFF),
		bgColor:     weft.RGBColor(0x00, 0x00, 0x00),
		widthMethod: opts.WidthMethod,
		events:      func(weft.Event) {},
	}
	g.altScreen = newScreenBuf(rows, cols)
	g.primaryScreen = newScreenBuf(rows, cols)
	g.activeScreen = g.primaryScreen
	return g
}

func newScreenBuf(rows int, cols int) [][]cell {
	buf := make([][]cell, rows)
	for i := range buf {
		buf[i] = make([]cell, cols)
	}
	return buf
}

func defaultTabStops(cols int) []int {
	tabs := []int{}
	for i := 8; i < cols; i += 8 {
		tabs = append(tabs, i)
	}
	return tabs
}

// Write decodes p and applies the decoded sequences to the grid. It
// implements io.Writer and never fails; malformed sequences are dropped by
// the decoder
func (g *Grid) Write(p []byte) (int, error) {
	seqs := g.parser.Parse(p)
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, seq := range seqs {
		g.update(seq)
	}
	return len(p), nil
}

func (g *Grid) update(seq ansi.Sequence) {
	switch seq := seq.(type) {
	case ansi.Print:
		g.print(rune(seq))
	case ansi.C0:
		g.c0(rune(seq))
	case ansi.ESC:
		esc := append(seq.Intermediate, seq.Final)
		g.esc(string(esc))
	case ansi.CSI:
		csi := append(seq.Intermediate, seq.Final)
		g.csi(string(csi), seq.Parameters)
	case ansi.OSC:
		g.osc(string(seq.Payload))
	case ansi.DCS:
		g.dcs(seq)
	case ansi.APC:
		g.postEvent(weft.EventAPC{Payload: string(seq.Payload)})
	}
}

func (g *Grid) postEvent(ev weft.Event) {
	g.events(ev)
}

func (g *Grid) onAltScreen() bool {
	return g.mode&smcup != 0
}

// print places a rune at the cursor with the current pen. Zero-width runes
// join the grapheme of the most recently printed cell
func (g *Grid) print(r rune) {
	set := g.charsets.designations[g.charsets.selected]
	if g.charsets.singleShift {
		// the shift applies to this character only
		g.charsets.selected = g.charsets.saved
		g.charsets.singleShift = false
	}
	if set == decSpecialAndLineDrawing {
		if mapped, ok := decSpecial[r]; ok {
			r = mapped
		}
	}

	grapheme := string(r)
	w := weft.StringWidth(grapheme, g.widthMethod)
	if w == 0 {
		g.combine(grapheme)
		return
	}

	if g.lastCol && g.cursor.col == g.margin.right && g.mode&decawm != 0 {
		g.activeScreen[g.cursor.row][g.cursor.col].wrapped = true
		g.nel()
	}

	rw := g.cursor.row
	col := g.cursor.col
	if col > g.cols-1 {
		col = g.cols - 1
	}
	if rw > g.rows-1 {
		rw = g.rows - 1
	}

	// a wide glyph with no room before the margin wraps first
	if w > 1 && col+w-1 > g.margin.right {
		if g.mode&decawm != 0 {
			g.activeScreen[rw][g.margin.right].wrapped = true
			g.nel()
			rw = g.cursor.row
			col = g.cursor.col
		} else {
			col = g.margin.right - w + 1
			if col < 0 {
				col = 0
			}
		}
	}

	if g.mode&irm != 0 {
		line := g.activeScreen[rw]
		for i := g.margin.right; i > col+w-1; i -= 1 {
			line[i] = line[i-w]
		}
	}

	g.clearWide(rw, col, w)
	g.activeScreen[rw][col] = cell{
		content: grapheme,
		width:   w,
		style:   g.cursor.pen,
	}
	for i := 1; i < w; i += 1 {
		if col+i >= g.cols {
			break
		}
		g.activeScreen[rw][col+i] = cell{
			spacer: true,
			style:  g.cursor.pen,
		}
	}

	g.lastPrintRow = rw
	g.lastPrintCol = col
	g.lastGrapheme = grapheme

	switch {
	case g.mode&decawm != 0 && col+w-1 >= g.margin.right:
		g.cursor.col = g.margin.right
		g.lastCol = true
	case col+w-1 >= g.margin.right:
		g.cursor.col = g.margin.right
	default:
		g.cursor.col = col + w
	}
}

// combine appends a zero-width rune to the most recently printed cell
func (g *Grid) combine(zw string) {
	rw := g.lastPrintRow
	col := g.lastPrintCol
	if rw < 0 || col < 0 || rw >= g.rows || col >= g.cols {
		return
	}
	c := &g.activeScreen[rw][col]
	if c.content == "" || c.spacer {
		return
	}
	c.content += zw
	g.lastGrapheme = c.content
}

// clearWide erases the halves of any wide character that the write of w
// cells at col would split
func (g *Grid) clearWide(rw int, col int, w int) {
	if col > 0 && g.activeScreen[rw][col].spacer {
		origin := &g.activeScreen[rw][col-1]
		origin.erase(origin.style.Background)
	}
	end := col + w - 1
	if end+1 < g.cols && g.activeScreen[rw][end].width > 1 {
		if g.activeScreen[rw][end+1].spacer {
			c := &g.activeScreen[rw][end+1]
			c.erase(c.style.Background)
		}
	}
}

func (g *Grid) c0(r rune) {
	switch r {
	case 0x07:
		g.postEvent(weft.EventBell{})
	case 0x08:
		g.lastCol = false
		if g.cursor.col > g.margin.left {
			g.cursor.col -= 1
			return
		}
		if g.cursor.col > 0 {
			g.cursor.col -= 1
		}
	case 0x09:
		g.ht()
	case 0x0A, 0x0B, 0x0C:
		g.ind()
		if g.mode&lnm != 0 {
			g.cursor.col = g.margin.left
		}
	case 0x0D:
		g.lastCol = false
		g.cursor.col = g.margin.left
	case 0x0E:
		g.charsets.selected = g1
	case 0x0F:
		g.charsets.selected = g0
	}
}

// ht moves the cursor to the next tab stop, or the right margin when none
// remain
func (g *Grid) ht() {
	g.lastCol = false
	for _, ts := range g.tabStop {
		if ts > g.cursor.col {
			if ts > g.margin.right {
				break
			}
			g.cursor.col = ts
			return
		}
	}
	g.cursor.col = g.margin.right
}

// cbt moves the cursor to the previous tab stop, or the left margin
func (g *Grid) cbt() {
	g.lastCol = false
	for i := len(g.tabStop) - 1; i >= 0; i -= 1 {
		if g.tabStop[i] < g.cursor.col {
			g.cursor.col = g.tabStop[i]
			return
		}
	}
	g.cursor.col = g.margin.left
}

// ind moves the cursor down one row, scrolling when at the bottom margin
func (g *Grid) ind() {
	g.lastCol = false
	if g.cursor.row == g.margin.bottom {
		g.scrollUp(1)
		return
	}
	if g.cursor.row < g.rows-1 {
		g.cursor.row += 1
	}
}

// ri moves the cursor up one row, scrolling when at the top margin
func (g *Grid) ri() {
	g.lastCol = false
	if g.cursor.row == g.margin.top {
		g.scrollDown(1)
		return
	}
	if g.cursor.row > 0 {
		g.cursor.row -= 1
	}
}

func (g *Grid) nel() {
	g.ind()
	g.cursor.col = g.margin.left
}

// home moves the cursor to the origin, honoring origin mode
func (g *Grid) home() {
	g.lastCol = false
	g.cursor.col = g.margin.left
	if g.mode&decom != 0 {
		g.cursor.row = g.margin.top
		return
	}
	g.cursor.row = 0
}

func (g *Grid) clampCursor() {
	if g.cursor.row < 0 {
		g.cursor.row = 0
	}
	if g.cursor.row > g.rows-1 {
		g.cursor.row = g.rows - 1
	}
	if g.cursor.col < 0 {
		g.cursor.col = 0
	}
	if g.cursor.col > g.cols-1 {
		g.cursor.col = g.cols - 1
	}
}

// scrollUp shifts all text within the margins upward by n rows. Rows
// scrolled off the top of the primary screen are retained in scrollback
func (g *Grid) scrollUp(n int) {
	if n <= 0 {
		return
	}
	if region := g.margin.bottom - g.margin.top + 1; n > region {
		n = region
	}
	g.clearSelection()
	g.lastPrintRow = -1
	g.lastPrintCol = -1
	if !g.onAltScreen() && g.margin.top == 0 && g.sbLimit > 0 {
		for i := 0; i < n; i += 1 {
			line := make([]cell, g.cols)
			copy(line, g.activeScreen[i])
			g.scrollback = append(g.scrollback, line)
		}
		if len(g.scrollback) > g.sbLimit {
			drop := len(g.scrollback) - g.sbLimit
			copy(g.scrollback, g.scrollback[drop:])
			g.scrollback = g.scrollback[:g.sbLimit]
		}
	}
	g.scrollPlacements(-n)
	for row := range g.activeScreen {
		if row > g.margin.bottom {
			continue
		}
		if row < g.margin.top {
			continue
		}
		if row+n > g.margin.bottom {
			for col := g.margin.left; col <= g.margin.right; col += 1 {
				g.activeScreen[row][col].erase(g.cursor.pen.Background)
			}
			continue
		}
		copy(g.activeScreen[row], g.activeScreen[row+n])
	}
}

// scrollDown shifts all text within the margins down by n rows
func (g *Grid) scrollDown(n int) {
	if n <= 0 {
		return
	}
	if region := g.margin.bottom - g.margin.top + 1; n > region {
		n = region
	}
	g.clearSelection()
	g.lastPrintRow = -1
	g.lastPrintCol = -1
	g.scrollPlacements(n)
	for r := g.margin.bottom; r >= g.margin.top; r -= 1 {
		if r-n < g.margin.top {
			for col := g.margin.left; col <= g.margin.right; col += 1 {
				g.activeScreen[r][col].erase(g.cursor.pen.Background)
			}
			continue
		}
		copy(g.activeScreen[r], g.activeScreen[r-n])
	}
}

func (g *Grid) respond(format string, args ...any) {
	if g.pty == nil {
		return
	}
	fmt.Fprintf(g.pty, format, args...)
}

// Size returns the grid dimensions
func (g *Grid) Size() (rows int, cols int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows, g.cols
}

// CursorPos returns the 0-indexed cursor position
func (g *Grid) CursorPos() (row int, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursor.row, g.cursor.col
}

// Title returns the window title last set by the application
func (g *Grid) Title() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.title
}

// WorkingDirectory returns the working directory last reported by the
// application
func (g *Grid) WorkingDirectory() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.workingDir
}

// Snapshot returns a deep copy of the visible screen
func (g *Grid) Snapshot() weft.Screen {
	g.mu.Lock()
	defer g.mu.Unlock()
	cells := make([][]weft.Cell, g.rows)
	for r := range cells {
		line := make([]weft.Cell, g.cols)
		for c := range line {
			cl := &g.activeScreen[r][c]
			switch {
			case cl.spacer:
				line[c] = weft.Cell{}
			case cl.content == "":
				line[c] = weft.Cell{
					Character: weft.Character{Grapheme: " ", Width: 1},
					Style:     cl.style,
				}
			default:
				line[c] = weft.Cell{
					Character: weft.Character{Grapheme: cl.content, Width: cl.width},
					Style:     cl.style,
				}
			}
		}
		cells[r] = line
	}
	return weft.Screen{
		Cells: cells,
		Rows:  g.rows,
		Cols:  g.cols,
		Cursor: weft.Cursor{
			Row:     g.cursor.row,
			Col:     g.cursor.col,
			Visible: g.mode&dectcem != 0,
			Style:   g.cursor.shape,
		},
		Title:      g.title,
		Placements: append([]weft.Placement(nil), g.placements...),
	}
}

// String returns the visible text of the grid, one line per row, with
// trailing blanks trimmed
func (g *Grid) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	str := strings.Builder{}
	for r := range g.activeScreen {
		if r != 0 {
			str.WriteString("\n")
		}
		str.WriteString(g.lineString(g.activeScreen[r]))
	}
	return str.String()
}

// HistoryString returns the scrollback followed by the visible text
func (g *Grid) HistoryString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	str := strings.Builder{}
	for _, line := range g.scrollback {
		str.WriteString(g.lineString(line))
		str.WriteString("\n")
	}
	for r := range g.activeScreen {
		if r != 0 {
			str.WriteString("\n")
		}
		str.WriteString(g.lineString(g.activeScreen[r]))
	}
	return str.String()
}

func (g *Grid) lineString(line []cell) string {
	str := strings.Builder{}
	for i := range line {
		str.WriteString(line[i].grapheme())
	}
	return strings.TrimRight(str.String(), " ")
}

// ScrollbackLen returns the number of retained scrollback rows
func (g *Grid) ScrollbackLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.scrollback)
}
