package vt

import (
	"fmt"
	"unicode"

	"github.com/weftterm/weft"
)

// encodeXterm translates a key event into the byte sequence a child process
// expects, using xterm-style modifier arithmetic. keypad and cursor select
// the application keypad (DECKPAM) and application cursor (DECCKM) tables
func encodeXterm(key weft.Key, keypad bool, cursor bool) string {
	if key.EventType == weft.EventRelease {
		return ""
	}
	if key.Modifiers == 0 {
		if cursor {
			if kc, ok := applicationKeymap[key.Codepoint]; ok {
				return kc
			}
		}
		if kc, ok := normalKeymap[key.Codepoint]; ok {
			return kc
		}
		if keypad {
			if kc, ok := keypadKeymap[key.Codepoint]; ok {
				return kc
			}
		}
		if kc, ok := functionKeymap[key.Codepoint]; ok {
			return kc
		}
		if kc, ok := xtermKeymap[key.Codepoint]; ok {
			return fmt.Sprintf("\x1b[%d%c", kc.number, kc.final)
		}
	}

	if key.Text != "" {
		return key.Text
	}

	if key.Codepoint < unicode.MaxRune {
		switch key.Modifiers {
		case 0, weft.ModShift:
			return string(key.Codepoint)
		case weft.ModAlt:
			return fmt.Sprintf("\x1b%c", key.Codepoint)
		case weft.ModCtrl:
			return ctrlKey(key.Codepoint)
		case weft.ModCtrl | weft.ModAlt:
			return "\x1b" + ctrlKey(key.Codepoint)
		}
	}

	if kc, ok := xtermKeymap[key.Codepoint]; ok {
		return fmt.Sprintf("\x1b[%d;%d%c", kc.number, int(key.Modifiers)+1, kc.final)
	}
	if kc, ok := functionKeymap[key.Codepoint]; ok {
		return kc
	}
	return ""
}

// ctrlKey collapses a codepoint with ctrl held into its C0 control
func ctrlKey(r rune) string {
	switch {
	case r == ' ', r == '@':
		return "\x00"
	case r >= 'a' && r <= 'z':
		return string(r - 0x60)
	case r >= '@' && r <= '_':
		return string(r - 0x40)
	case r == '?':
		return "\x7f"
	}
	return string(r)
}

type keycode struct {
	number int
	final  rune
}

var xtermKeymap = map[rune]keycode{
	weft.KeyUp:     {1, 'A'},
	weft.KeyDown:   {1, 'B'},
	weft.KeyRight:  {1, 'C'},
	weft.KeyLeft:   {1, 'D'},
	weft.KeyEnd:    {1, 'F'},
	weft.KeyHome:   {1, 'H'},
	weft.KeyInsert: {2, '~'},
	weft.KeyDelete: {3, '~'},
	weft.KeyPgUp:   {5, '~'},
	weft.KeyPgDown: {6, '~'},
	weft.KeyF01:    {1, 'P'},
	weft.KeyF02:    {1, 'Q'},
	weft.KeyF03:    {1, 'R'},
	weft.KeyF04:    {1, 'S'},
	weft.KeyF05:    {15, '~'},
	weft.KeyF06:    {17, '~'},
	weft.KeyF07:    {18, '~'},
	weft.KeyF08:    {19, '~'},
	weft.KeyF09:    {20, '~'},
	weft.KeyF10:    {21, '~'},
	weft.KeyF11:    {23, '~'},
	weft.KeyF12:    {24, '~'},
}

var normalKeymap = map[rune]string{
	weft.KeyUp:        "\x1b[A",
	weft.KeyDown:      "\x1b[B",
	weft.KeyRight:     "\x1b[C",
	weft.KeyLeft:      "\x1b[D",
	weft.KeyEnd:       "\x1b[F",
	weft.KeyHome:      "\x1b[H",
	weft.KeyEnter:     "\r",
	weft.KeyBackspace: "\x7f",
}

var applicationKeymap = map[rune]string{
	weft.KeyUp:    "\x1bOA",
	weft.KeyDown:  "\x1bOB",
	weft.KeyRight: "\x1bOC",
	weft.KeyLeft:  "\x1bOD",
	weft.KeyEnd:   "\x1bOF",
	weft.KeyHome:  "\x1bOH",
}

var keypadKeymap = map[rune]string{
	weft.KeyEnter: "\x1bOM",
}

var functionKeymap = map[rune]string{
	weft.KeyF01: "\x1bOP",
	weft.KeyF02: "\x1bOQ",
	weft.KeyF03: "\x1bOR",
	weft.KeyF04: "\x1bOS",
	weft.KeyF05: "\x1b[15~",
	weft.KeyF06: "\x1b[17~",
	weft.KeyF07: "\x1b[18~",
	weft.KeyF08: "\x1b[19~",
	weft.KeyF09: "\x1b[20~",
	weft.KeyF10: "\x1b[21~",
	weft.KeyF11: "\x1b[23~",
	weft.KeyF12: "\x1b[24~",
	weft.KeyF13: "\x1b[1;2P",
	weft.KeyF14: "\x1b[1;2Q",
	weft.KeyF15: "\x1b[1;2R",
	weft.KeyF16: "\x1b[1;2S",
	weft.KeyF17: "\x1b[15;2~",
	weft.KeyF18: "\x1b[17;2~",
	weft.KeyF19: "\x1b[18;2~",
	weft.KeyF20: "\x1b[19;2~",
	weft.KeyF21: "\x1b[20;2~",
	weft.KeyF22: "\x1b[21;2~",
	weft.KeyF23: "\x1b[23;2~",
	weft.KeyF24: "\x1b[24;2~",
}
