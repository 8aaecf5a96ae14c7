package weft

// Style contains all the data required to style a [Cell]
type Style struct {
	// Hyperlink is the OSC 8 URI attached to the cell, if any
	Hyperlink string
	// HyperlinkID signals that non-contiguous cells with the same ID are
	// part of the same link
	HyperlinkID string
	// Foreground is the color to apply to the foreground of this cell
	Foreground Color
	// Background is the color to apply to the background of this cell
	Background Color
	// UnderlineColor is the color to apply to the underline of this cell,
	// if supported
	UnderlineColor Color
	// UnderlineStyle is the type of underline to apply (single, double,
	// curly, etc)
	UnderlineStyle UnderlineStyle
	// Attribute represents all other style information for this cell
	// (bold, dim, italic, etc)
	Attribute AttributeMask
}

// IsDefault reports whether the style carries no coloring, underline,
// attribute, or hyperlink information
func (s Style) IsDefault() bool {
	return s == Style{}
}

// AttributeMask represents a bitmask of boolean attributes to style a cell
type AttributeMask uint8

const (
	AttrNone               = 0
	AttrBold AttributeMask = 1 << iota
	AttrDim
	AttrItalic
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStrikethrough
)

// UnderlineStyle represents the style of underline to apply
type UnderlineStyle uint8

const (
	UnderlineOff UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)
