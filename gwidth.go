package weft

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WidthMethod selects how grapheme cluster widths are measured when placing
// text into cells
type WidthMethod uint8

const (
	// WidthNoZWJ measures with the Unicode standard, but splits
	// ZWJ-joined sequences. This matches the majority of terminals
	WidthNoZWJ WidthMethod = iota
	// WidthWcwidth measures runewise, ignoring variation selectors.
	// This is the measurement legacy terminals use
	WidthWcwidth
	// WidthUnicodeStd measures with the Unicode standard
	WidthUnicodeStd
)

func gwidth(s string, method WidthMethod) int {
	switch method {
	case WidthNoZWJ:
		s = strings.ReplaceAll(s, "‍", "")
		return uniseg.StringWidth(s)
	case WidthUnicodeStd:
		return uniseg.StringWidth(s)
	default:
		total := 0
		for _, r := range s {
			if r >= 0xFE00 && r <= 0xFE0F {
				// Variation Selectors 1 - 16
				continue
			}
			if r >= 0xE0100 && r <= 0xE01EF {
				// Variation Selectors 17-256
				continue
			}
			total += runewidth.RuneWidth(r)
		}
		return total
	}
}

// StringWidth measures the rendered width of a string using the given method
func StringWidth(s string, method WidthMethod) int {
	return gwidth(s, method)
}
