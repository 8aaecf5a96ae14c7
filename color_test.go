package weft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorParams(t *testing.T) {
	assert.Empty(t, Color(0).Params())
	assert.Equal(t, []uint8{7}, IndexColor(7).Params())
	assert.Equal(t, []uint8{1, 2, 3}, RGBColor(1, 2, 3).Params())
}

func TestColorRGB(t *testing.T) {
	r, g, b := RGBColor(0xAA, 0xBB, 0xCC).RGB()
	assert.Equal(t, uint8(0xAA), r)
	assert.Equal(t, uint8(0xBB), g)
	assert.Equal(t, uint8(0xCC), b)

	// indexed and default colors have no channels
	r, g, b = IndexColor(1).RGB()
	assert.Zero(t, r+g+b)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, RGBColor(0x00, 0xAA, 0xBB), HexColor("#00AABB"))
	assert.Equal(t, RGBColor(0x00, 0xAA, 0xBB), HexColor("00AABB"))
	assert.Equal(t, Color(0), HexColor("not a color"))
	assert.Equal(t, Color(0), HexColor("#AABB"))
}
