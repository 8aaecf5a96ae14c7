package vt

import (
	"github.com/weftterm/weft/log"
)

// esc dispatches a simple escape sequence. The string is the concatenation
// of any intermediate bytes and the final byte
func (g *Grid) esc(esc string) {
	switch esc {
	case "7": // DECSC
		g.decsc()
	case "8": // DECRC
		g.decrc()
	case "D": // IND
		g.ind()
	case "E": // NEL
		g.nel()
	case "H": // HTS
		g.hts()
	case "M": // RI
		g.ri()
	case "N": // SS2
		g.singleShift(g2)
	case "O": // SS3
		g.singleShift(g3)
	case "c": // RIS
		g.ris()
	case "=": // DECKPAM
		g.mode |= deckpam
	case ">": // DECKPNM
		g.mode &^= deckpam
	case "#8": // DECALN
		g.decaln()
	default:
		if len(esc) == 2 {
			if g.designate(esc[0], esc[1]) {
				return
			}
		}
		log.Debug("[vt] unhandled ESC", "sequence", esc)
	}
}

// designate assigns a charset to a G-set designator. Only ASCII and the DEC
// special graphics set are distinguished
func (g *Grid) designate(inter byte, final byte) bool {
	var designator charsetDesignator
	switch inter {
	case '(':
		designator = g0
	case ')':
		designator = g1
	case '*':
		designator = g2
	case '+':
		designator = g3
	default:
		return false
	}
	switch final {
	case '0':
		g.charsets.designations[designator] = decSpecialAndLineDrawing
	default:
		g.charsets.designations[designator] = ascii
	}
	return true
}

// singleShift selects a charset for the next printed character only
func (g *Grid) singleShift(designator charsetDesignator) {
	g.charsets.saved = g.charsets.selected
	g.charsets.selected = designator
	g.charsets.singleShift = true
}

// decsc saves the cursor, pen, charsets, and the wrap and origin modes for
// the active screen
func (g *Grid) decsc() {
	state := cursorState{
		charsets: g.charsets.clone(),
		cursor:   g.cursor,
		decawm:   g.mode&decawm != 0,
		decom:    g.mode&decom != 0,
	}
	if g.onAltScreen() {
		g.altState = state
		return
	}
	g.primaryState = state
}

// decrc restores the state saved by decsc
func (g *Grid) decrc() {
	state := g.primaryState
	if g.onAltScreen() {
		state = g.altState
	}
	g.charsets = state.charsets.clone()
	g.cursor = state.cursor
	if state.decawm {
		g.mode |= decawm
	} else {
		g.mode &^= decawm
	}
	if state.decom {
		g.mode |= decom
	} else {
		g.mode &^= decom
	}
	g.lastCol = false
	g.clampCursor()
}

// ris is a full reset: both screens erased, scrollback dropped, cursor and
// pen and modes back to their defaults
func (g *Grid) ris() {
	g.mode = decawm | dectcem
	g.charsets = defaultCharsets()
	g.cursor = cursor{}
	g.primaryState = cursorState{charsets: defaultCharsets(), decawm: true}
	g.altState = cursorState{charsets: defaultCharsets(), decawm: true}
	g.margin = margin{bottom: g.rows - 1, right: g.cols - 1}
	g.tabStop = defaultTabStops(g.cols)
	g.lastCol = false
	g.lastPrintRow = -1
	g.lastPrintCol = -1
	g.scrollback = nil
	g.title = ""
	g.titleStack = nil
	g.placements = nil
	g.clearSelection()
	g.altScreen = newScreenBuf(g.rows, g.cols)
	g.primaryScreen = newScreenBuf(g.rows, g.cols)
	g.activeScreen = g.primaryScreen
}

// decaln fills the screen with E for display alignment, resetting margins
// and homing the cursor
func (g *Grid) decaln() {
	g.margin = margin{bottom: g.rows - 1, right: g.cols - 1}
	g.cursor.row = 0
	g.cursor.col = 0
	g.lastCol = false
	for r := range g.activeScreen {
		for c := range g.activeScreen[r] {
			g.activeScreen[r][c] = cell{content: "E", width: 1}
		}
	}
}
