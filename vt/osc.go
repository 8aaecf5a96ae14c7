package vt

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/log"
)

// osc dispatches an operating system command payload
func (g *Grid) osc(data string) {
	selector, val, found := strings.Cut(data, ";")
	if !found {
		return
	}
	switch selector {
	case "0", "2":
		g.title = val
		g.postEvent(weft.EventTitle(val))
	case "1":
		// icon title, treated as the window title
		g.title = val
		g.postEvent(weft.EventTitle(val))
	case "4":
		g.oscColorQuery(val)
	case "7":
		g.workingDir = parseFileURL(val)
		g.postEvent(weft.EventWorkingDirectory(g.workingDir))
	case "8":
		url, id := osc8(val)
		g.cursor.pen.Hyperlink = url
		g.cursor.pen.HyperlinkID = id
	case "9":
		g.postEvent(weft.EventNotify{Body: val})
	case "10":
		if val == "?" {
			r, gr, b := g.fgColor.RGB()
			g.respond("\x1b]10;rgb:%02x/%02x/%02x\x07", r, gr, b)
		}
	case "11":
		if val == "?" {
			r, gr, b := g.bgColor.RGB()
			g.respond("\x1b]11;rgb:%02x/%02x/%02x\x07", r, gr, b)
		}
	case "12":
		switch val {
		case "?":
			r, gr, b := g.cursorColor.RGB()
			g.respond("\x1b]12;rgb:%02x/%02x/%02x\x07", r, gr, b)
		default:
			if c := weft.HexColor(val); c != 0 {
				g.cursorColor = c
			}
		}
	case "22":
		g.postEvent(weft.EventMouseShape(val))
	case "52":
		_, payload, _ := strings.Cut(val, ";")
		if payload == "?" {
			// clipboard queries are not answered
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			log.Error("[vt] error decoding OSC 52 payload", "error", err)
			return
		}
		g.postEvent(weft.EventClipboard(string(decoded)))
	case "112":
		// reset cursor color
	case "777":
		selector, val, found := strings.Cut(val, ";")
		if !found {
			return
		}
		if selector != "notify" {
			return
		}
		title, body, found := strings.Cut(val, ";")
		if !found {
			return
		}
		g.postEvent(weft.EventNotify{Title: title, Body: body})
	default:
		log.Debug("[vt] unhandled OSC", "selector", selector)
	}
}

// oscColorQuery answers an OSC 4 palette query ("n;?"). Palette redefinition
// is not supported; queries answer with the xterm 256-color defaults
func (g *Grid) oscColorQuery(val string) {
	idx, q, found := strings.Cut(val, ";")
	if !found || q != "?" {
		return
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n > 255 {
		return
	}
	r, gr, b := paletteRGB(uint8(n))
	g.respond("\x1b]4;%d;rgb:%02x/%02x/%02x\x07", n, r, gr, b)
}

// paletteRGB is the xterm default 256-color palette
func paletteRGB(n uint8) (uint8, uint8, uint8) {
	switch {
	case n < 16:
		base := [16][3]uint8{
			{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
			{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
			{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
			{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
		}
		c := base[n]
		return c[0], c[1], c[2]
	case n < 232:
		// 6x6x6 cube
		n -= 16
		steps := [6]uint8{0, 95, 135, 175, 215, 255}
		return steps[n/36], steps[n/6%6], steps[n%6]
	default:
		// grayscale ramp
		v := 8 + 10*(n-232)
		return v, v, v
	}
}

// osc8 parses an OSC 8 payload into the URL and the optional id parameter
func osc8(val string) (string, string) {
	// OSC 8 ; params ; url ST
	// params: key1=value1:key2=value2
	var id string
	params, url, found := strings.Cut(val, ";")
	if !found {
		return "", ""
	}
	for _, param := range strings.Split(params, ":") {
		key, val, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		if key == "id" {
			id = val
		}
	}
	return url, id
}

// parseFileURL strips the scheme and host from a file:// URL, returning the
// path. Non-URL values pass through unchanged
func parseFileURL(s string) string {
	rest, found := strings.CutPrefix(s, "file://")
	if !found {
		return s
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i:]
	}
	return rest
}
