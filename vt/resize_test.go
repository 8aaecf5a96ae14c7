package vt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResizeReflowNarrow(t *testing.T) {
	g := testGrid(4, 10)
	feed(t, g, "abcdefgh")

	g.Resize(4, 4)
	assert.Equal(t, "abcd\nefgh", visible(g))
	// the first row is a soft wrap, not a line break
	assert.True(t, g.primaryScreen[0][3].wrapped)
	assert.False(t, g.primaryScreen[1][3].wrapped)
}

func TestResizeRoundTrip(t *testing.T) {
	g := testGrid(4, 10)
	feed(t, g, "hello")

	g.Resize(4, 3)
	assert.Equal(t, "hel\nlo", visible(g))
	row, col := g.CursorPos()
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	g.Resize(4, 10)
	assert.Equal(t, "hello", visible(g))
	row, col = g.CursorPos()
	assert.Equal(t, 0, row)
	assert.Equal(t, 5, col)
}

func TestResizeHeightExchangesScrollback(t *testing.T) {
	g := testGrid(4, 10)
	feed(t, g, "one\r\ntwo\r\nthree")

	g.Resize(2, 10)
	assert.Equal(t, "two\nthree", visible(g))
	assert.Equal(t, 1, g.ScrollbackLen())
	row, _ := g.CursorPos()
	assert.Equal(t, 1, row)

	g.Resize(4, 10)
	assert.Equal(t, "one\ntwo\nthree", visible(g))
	assert.Zero(t, g.ScrollbackLen())
	row, col := g.CursorPos()
	assert.Equal(t, 2, row)
	assert.Equal(t, 5, col)
}

func TestResizeAltScreenClips(t *testing.T) {
	g := testGrid(4, 10)
	feed(t, g, "primary line\r\nmore")
	feed(t, g, "\x1b[?1049h")
	feed(t, g, "alt one\r\nalt two")

	g.Resize(2, 5)
	// no reflow with the alt screen active
	assert.Equal(t, "alt o\nalt t", visible(g))
	assert.Zero(t, g.ScrollbackLen())

	feed(t, g, "\x1b[?1049l")
	rows, cols := g.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 5, cols)
}

func TestResizeNoop(t *testing.T) {
	g := testGrid(4, 10)
	feed(t, g, "text")

	g.Resize(4, 10)
	assert.Equal(t, "text", visible(g))

	g.Resize(0, 10)
	g.Resize(4, -1)
	rows, cols := g.Size()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 10, cols)
}

func TestResizeResetsMarginsAndTabs(t *testing.T) {
	g := testGrid(10, 40)
	feed(t, g, "\x1b[2;5r")
	g.Resize(8, 20)

	assert.Equal(t, 0, g.margin.top)
	assert.Equal(t, 7, g.margin.bottom)
	assert.Equal(t, 19, g.margin.right)

	feed(t, g, "\t")
	_, col := g.CursorPos()
	assert.Equal(t, 8, col)
}
