package vt

import (
	"github.com/weftterm/weft"
)

type cursor struct {
	// pen is the style applied to subsequently printed cells. Only SGR
	// mutates it
	pen   weft.Style
	shape weft.CursorStyle

	// position, 0-indexed
	row int
	col int
}

// cursorState is the state saved by DECSC and restored by DECRC, kept
// separately for the primary and alternate screens
type cursorState struct {
	charsets charsets
	cursor   cursor
	decawm   bool
	decom    bool
}

type charsetDesignator int

const (
	g0 charsetDesignator = iota
	g1
	g2
	g3
)

type charset int

const (
	ascii charset = iota
	decSpecialAndLineDrawing
)

type charsets struct {
	designations map[charsetDesignator]charset
	selected     charsetDesignator
	saved        charsetDesignator
	singleShift  bool
}

func defaultCharsets() charsets {
	return charsets{
		designations: map[charsetDesignator]charset{
			g0: ascii,
			g1: ascii,
			g2: ascii,
			g3: ascii,
		},
	}
}

func (c charsets) clone() charsets {
	clone := charsets{
		designations: make(map[charsetDesignator]charset, len(c.designations)),
		selected:     c.selected,
		saved:        c.saved,
		singleShift:  c.singleShift,
	}
	for k, v := range c.designations {
		clone.designations[k] = v
	}
	return clone
}

// decSpecial is the DEC special graphics and line drawing set, selected by
// designating charset 0
var decSpecial = map[rune]rune{
	'`': '◆',
	'a': '▒',
	'b': '␉',
	'c': '␌',
	'd': '␍',
	'e': '␊',
	'f': '°',
	'g': '±',
	'h': '␤',
	'i': '␋',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '⎼',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}
