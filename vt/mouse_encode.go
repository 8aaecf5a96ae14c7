package vt

import (
	"fmt"

	"github.com/weftterm/weft"
)

// encodeMouse translates a mouse event into the reporting encoding enabled
// by the application: SGR when mode 1006 is set, legacy X10 otherwise. With
// no mouse reporting active, wheel motion on the alt screen converts to
// arrow keys when alternate scroll is enabled
func (g *Grid) encodeMouse(m weft.Mouse) string {
	reporting := g.mode&(mouseButtons|mouseDrag|mouseMotion) != 0
	if !reporting {
		if g.mode&altScroll != 0 && g.onAltScreen() {
			switch m.Button {
			case weft.MouseWheelUp:
				return "\x1bOA\x1bOA\x1bOA"
			case weft.MouseWheelDown:
				return "\x1bOB\x1bOB\x1bOB"
			}
		}
		return ""
	}
	if m.EventType == weft.EventMotion && m.Button == weft.MouseNoButton && g.mode&mouseMotion == 0 {
		return ""
	}
	if m.EventType == weft.EventMotion && g.mode&(mouseDrag|mouseMotion) == 0 {
		return ""
	}

	button := int(m.Button)
	if m.Modifiers&weft.ModShift != 0 {
		button += 4
	}
	if m.Modifiers&weft.ModAlt != 0 {
		button += 8
	}
	if m.Modifiers&weft.ModCtrl != 0 {
		button += 16
	}

	if g.mode&mouseSGR != 0 {
		switch m.EventType {
		case weft.EventMotion:
			return fmt.Sprintf("\x1b[<%d;%d;%dM", button+32, m.Col+1, m.Row+1)
		case weft.EventPress:
			return fmt.Sprintf("\x1b[<%d;%d;%dM", button, m.Col+1, m.Row+1)
		case weft.EventRelease:
			return fmt.Sprintf("\x1b[<%d;%d;%dm", button, m.Col+1, m.Row+1)
		}
		return ""
	}

	// legacy encoding: releases report button 3, coordinates are offset
	// by 32 and limited to one byte
	if m.EventType == weft.EventRelease {
		button = 3
	}
	col := m.Col + 1
	row := m.Row + 1
	if col > 222 || row > 222 {
		return ""
	}
	return fmt.Sprintf("\x1b[M%c%c%c", rune(button+32), rune(col+32), rune(row+32))
}
