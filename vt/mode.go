package vt

type mode int

const (
	// Keyboard Action mode
	kam mode = 1 << iota
	// Insert/Replace mode
	irm
	// Send/Receive mode
	srm
	// Line feed/new line mode
	lnm
	// Cursor Key mode
	decckm
	// Origin mode
	decom
	// Autowrap mode
	decawm
	// Text Cursor Enable mode
	dectcem
	// Application keypad
	deckpam
	// Use alternate screen
	smcup
	// Bracketed paste
	paste
	// vt220 mouse
	mouseButtons
	// vt220 + drag
	mouseDrag
	// vt220 + all motion
	mouseMotion
	// Mouse SGR mode
	mouseSGR
	// Alternate scroll
	altScroll
	// Focus reporting
	focusEvents
	// Synchronized output
	syncUpdate
)

func (g *Grid) sm(params [][]int) {
	for _, param := range params {
		switch param[0] {
		case 2:
			g.mode |= kam
		case 4:
			g.mode |= irm
		case 12:
			g.mode |= srm
		case 20:
			g.mode |= lnm
		}
	}
}

func (g *Grid) rm(params [][]int) {
	for _, param := range params {
		switch param[0] {
		case 2:
			g.mode &^= kam
		case 4:
			g.mode &^= irm
		case 12:
			g.mode &^= srm
		case 20:
			g.mode &^= lnm
		}
	}
}

func (g *Grid) decset(params [][]int) {
	for _, param := range params {
		switch param[0] {
		case 1:
			g.mode |= decckm
		case 6:
			g.mode |= decom
			g.home()
		case 7:
			g.mode |= decawm
			g.lastCol = false
		case 25:
			g.mode |= dectcem
		case 47, 1047:
			g.enterAlt(false)
		case 66:
			g.mode |= deckpam
		case 1000:
			g.mode |= mouseButtons
		case 1002:
			g.mode |= mouseDrag
		case 1003:
			g.mode |= mouseMotion
		case 1004:
			g.mode |= focusEvents
		case 1006:
			g.mode |= mouseSGR
		case 1007:
			g.mode |= altScroll
		case 1048:
			g.decsc()
		case 1049:
			g.decsc()
			g.enterAlt(true)
			// Scroll the alt screen with the wheel if the
			// application doesn't enable mouse reporting
			g.mode |= altScroll
		case 2004:
			g.mode |= paste
		case 2026:
			g.mode |= syncUpdate
		}
	}
}

func (g *Grid) decrst(params [][]int) {
	for _, param := range params {
		switch param[0] {
		case 1:
			g.mode &^= decckm
		case 6:
			g.mode &^= decom
			g.home()
		case 7:
			g.mode &^= decawm
			g.lastCol = false
		case 25:
			g.mode &^= dectcem
		case 47, 1047:
			g.exitAlt(false)
		case 66:
			g.mode &^= deckpam
		case 1000:
			g.mode &^= mouseButtons
		case 1002:
			g.mode &^= mouseDrag
		case 1003:
			g.mode &^= mouseMotion
		case 1004:
			g.mode &^= focusEvents
		case 1006:
			g.mode &^= mouseSGR
		case 1007:
			g.mode &^= altScroll
		case 1048:
			g.decrc()
		case 1049:
			g.exitAlt(true)
			g.mode &^= altScroll
			g.decrc()
		case 2004:
			g.mode &^= paste
		case 2026:
			g.mode &^= syncUpdate
		}
	}
}

// enterAlt switches to the alternate screen. With clear, the alternate
// screen is erased first, per mode 1049. Cursor save and restore is left
// to decsc and decrc
func (g *Grid) enterAlt(clear bool) {
	if g.mode&smcup != 0 {
		return
	}
	g.mode |= smcup
	g.activeScreen = g.altScreen
	if clear {
		g.ed(2)
	}
	g.placements = nil
	g.clearSelection()
}

func (g *Grid) exitAlt(clear bool) {
	if g.mode&smcup == 0 {
		return
	}
	if clear {
		// Only clear if we were in the alternate
		g.ed(2)
	}
	g.mode &^= smcup
	g.activeScreen = g.primaryScreen
	g.placements = nil
	g.clearSelection()
}
