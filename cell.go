package weft

// Cell is a single cell of a terminal screen snapshot. The trailing half of a
// wide character is reported as a cell with an empty Grapheme and Width 0;
// renderers skip these and let the leading half spill over
type Cell struct {
	Character
	Style
}

// IsBlank reports whether the cell holds no printable content
func (c Cell) IsBlank() bool {
	switch c.Grapheme {
	case "", " ":
		return true
	}
	return false
}
