package vt

import (
	"github.com/weftterm/weft"
	"github.com/weftterm/weft/log"
)

// sgr applies select-graphic-rendition parameters to the pen. Parameters
// compose cumulatively until SGR 0. Extended colors (38/48/58) are accepted
// in both semicolon and colon form; unknown parameters are skipped
func (g *Grid) sgr(params [][]int) {
	if len(params) == 0 {
		params = [][]int{{0}}
	}
	for i := 0; i < len(params); i += 1 {
		switch params[i][0] {
		case 0:
			g.cursor.pen = weft.Style{}
		case 1:
			g.cursor.pen.Attribute |= weft.AttrBold
		case 2:
			g.cursor.pen.Attribute |= weft.AttrDim
		case 3:
			g.cursor.pen.Attribute |= weft.AttrItalic
		case 4:
			g.cursor.pen.UnderlineStyle = weft.UnderlineSingle
			if len(params[i]) > 1 {
				switch params[i][1] {
				case 0:
					g.cursor.pen.UnderlineStyle = weft.UnderlineOff
				case 1:
					g.cursor.pen.UnderlineStyle = weft.UnderlineSingle
				case 2:
					g.cursor.pen.UnderlineStyle = weft.UnderlineDouble
				case 3:
					g.cursor.pen.UnderlineStyle = weft.UnderlineCurly
				case 4:
					g.cursor.pen.UnderlineStyle = weft.UnderlineDotted
				case 5:
					g.cursor.pen.UnderlineStyle = weft.UnderlineDashed
				}
			}
		case 5:
			g.cursor.pen.Attribute |= weft.AttrBlink
		case 7:
			g.cursor.pen.Attribute |= weft.AttrReverse
		case 8:
			g.cursor.pen.Attribute |= weft.AttrInvisible
		case 9:
			g.cursor.pen.Attribute |= weft.AttrStrikethrough
		case 21:
			g.cursor.pen.UnderlineStyle = weft.UnderlineDouble
		case 22:
			g.cursor.pen.Attribute &^= weft.AttrBold
			g.cursor.pen.Attribute &^= weft.AttrDim
		case 23:
			g.cursor.pen.Attribute &^= weft.AttrItalic
		case 24:
			g.cursor.pen.UnderlineStyle = weft.UnderlineOff
		case 25:
			g.cursor.pen.Attribute &^= weft.AttrBlink
		case 27:
			g.cursor.pen.Attribute &^= weft.AttrReverse
		case 28:
			g.cursor.pen.Attribute &^= weft.AttrInvisible
		case 29:
			g.cursor.pen.Attribute &^= weft.AttrStrikethrough
		case 30, 31, 32, 33, 34, 35, 36, 37:
			g.cursor.pen.Foreground = weft.IndexColor(uint8(params[i][0] - 30))
		case 38:
			color, skip, ok := extendedColor(params[i:])
			if !ok {
				log.Error("[vt] malformed SGR sequence")
				return
			}
			g.cursor.pen.Foreground = color
			i += skip
		case 39:
			g.cursor.pen.Foreground = 0
		case 40, 41, 42, 43, 44, 45, 46, 47:
			g.cursor.pen.Background = weft.IndexColor(uint8(params[i][0] - 40))
		case 48:
			color, skip, ok := extendedColor(params[i:])
			if !ok {
				log.Error("[vt] malformed SGR sequence")
				return
			}
			g.cursor.pen.Background = color
			i += skip
		case 49:
			g.cursor.pen.Background = 0
		case 58:
			color, skip, ok := extendedColor(params[i:])
			if !ok {
				log.Error("[vt] malformed SGR sequence")
				return
			}
			g.cursor.pen.UnderlineColor = color
			i += skip
		case 59:
			g.cursor.pen.UnderlineColor = 0
		case 90, 91, 92, 93, 94, 95, 96, 97:
			g.cursor.pen.Foreground = weft.IndexColor(uint8(params[i][0] - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			g.cursor.pen.Background = weft.IndexColor(uint8(params[i][0] - 100 + 8))
		default:
			log.Debug("[vt] unhandled SGR parameter", "param", params[i][0])
		}
	}
}

// extendedColor decodes a 38/48/58 extended color at the head of params.
// skip is the number of extra parameter groups consumed by the semicolon
// form (zero for the colon form)
func extendedColor(params [][]int) (weft.Color, int, bool) {
	switch len(params[0]) {
	case 1:
		// semicolon form: the mode and channels are separate groups
		if len(params) < 3 {
			return 0, 0, false
		}
		switch params[1][0] {
		case 2:
			if len(params) < 5 {
				return 0, 0, false
			}
			return weft.RGBColor(
				uint8(params[2][0]),
				uint8(params[3][0]),
				uint8(params[4][0]),
			), 4, true
		case 5:
			return weft.IndexColor(uint8(params[2][0])), 2, true
		}
		return 0, 0, false
	case 3:
		// 38:5:n
		if params[0][1] != 5 {
			return 0, 0, false
		}
		return weft.IndexColor(uint8(params[0][2])), 0, true
	case 5:
		// 38:2:r:g:b
		if params[0][1] != 2 {
			return 0, 0, false
		}
		return weft.RGBColor(
			uint8(params[0][2]),
			uint8(params[0][3]),
			uint8(params[0][4]),
		), 0, true
	case 6:
		// 38:2:colorspace:r:g:b
		if params[0][1] != 2 {
			return 0, 0, false
		}
		return weft.RGBColor(
			uint8(params[0][3]),
			uint8(params[0][4]),
			uint8(params[0][5]),
		), 0, true
	}
	return 0, 0, false
}
