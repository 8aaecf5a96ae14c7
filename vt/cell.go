package vt

import (
	"github.com/weftterm/weft"
)

type cell struct {
	// content is the grapheme cluster in the cell. Zero-width runes are
	// appended to the cluster of the cell they follow
	content string
	width   int
	style   weft.Style
	// wrapped marks a row whose last cell flowed onto the next row
	wrapped bool
	// spacer marks the trailing half of a wide character. A spacer is
	// never read independently of its leading cell
	spacer bool
}

func (c *cell) grapheme() string {
	if c.spacer {
		return ""
	}
	if c.content == "" {
		return " "
	}
	return c.content
}

// Erasing removes characters from the screen without affecting other
// characters on the screen. Erased characters are lost. The cursor position
// does not change when erasing characters or lines. Erasing resets the
// attributes, but applies the background color of the passed style
func (c *cell) erase(bg weft.Color) {
	*c = cell{style: weft.Style{Background: bg}}
}

// selectiveErase removes the cell content, but keeps the attributes
func (c *cell) selectiveErase() {
	c.content = ""
	c.width = 0
	c.spacer = false
}
