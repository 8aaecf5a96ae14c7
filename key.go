package weft

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
)

// Key is a keyboard input event delivered to a pane
type Key struct {
	// Text is the text the key produces, if any. When set it takes
	// precedence over Codepoint for printable input
	Text string
	// Codepoint is the key itself, or one of the extended Key* values
	Codepoint rune
	// Modifiers held during the event
	Modifiers ModifierMask
	// EventType is the press/repeat/release state of the key
	EventType EventType
}

type ModifierMask int

const (
	// Values equivalent to kitty keyboard protocol
	ModShift ModifierMask = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
	ModHyper
	ModMeta
	ModCapsLock
	ModNumLock
)

// EventType is an input event type (press, repeat, release, etc)
type EventType int

const (
	// The event type could not be determined
	EventUnknown EventType = iota
	// The key / button was pressed
	EventPress
	// The key / button was repeated
	EventRepeat
	// The key / button was released
	EventRelease
	// The mouse moved, with or without a held button
	EventMotion
)

// Modified keys will always have prefixes in this order:
//
//	<num-caps-meta-hyper-super-c-a-s-{key}>
func (k Key) String() string {
	buf := &bytes.Buffer{}
	switch {
	case k.Modifiers != 0:
		buf.WriteRune('<')
	case k.Codepoint == KeyTab:
		buf.WriteRune('<')
	case k.Codepoint == KeySpace:
		buf.WriteRune('<')
	case k.Codepoint == KeyEsc:
		buf.WriteRune('<')
	case k.Codepoint > unicode.MaxRune:
		buf.WriteRune('<')
	}

	if k.Modifiers != 0 && k.EventType != EventRelease {
		if k.Modifiers&ModNumLock != 0 {
			buf.WriteString("num-")
		}
		if k.Modifiers&ModCapsLock != 0 {
			buf.WriteString("caps-")
		}
		if k.Modifiers&ModMeta != 0 {
			buf.WriteString("meta-")
		}
		if k.Modifiers&ModHyper != 0 {
			buf.WriteString("hyper-")
		}
		if k.Modifiers&ModSuper != 0 {
			buf.WriteString("super-")
		}
		if k.Modifiers&ModCtrl != 0 {
			buf.WriteString("c-")
		}
		if k.Modifiers&ModAlt != 0 {
			buf.WriteString("a-")
		}
		if k.Modifiers&ModShift != 0 {
			buf.WriteString("s-")
		}
	}

	switch {
	case k.Codepoint >= KeyF00 && k.Codepoint <= KeyF63:
		fmt.Fprintf(buf, "f%d", k.Codepoint-KeyF00)
	case k.Codepoint == KeyTab:
		buf.WriteString("tab")
	case k.Codepoint == KeyEsc:
		buf.WriteString("esc")
	case k.Codepoint == KeySpace:
		buf.WriteString("space")
	case k.Codepoint == KeyEnter:
		buf.WriteString("enter")
	case k.Codepoint == KeyBackspace:
		buf.WriteString("bs")
	case k.Codepoint < 0x00:
		return "<invalid>"
	case k.Codepoint < 0x20:
		ch := fmt.Sprintf("%c", k.Codepoint+0x40)
		return fmt.Sprintf("<c-%s>", strings.ToLower(ch))
	case k.Codepoint <= unicode.MaxRune:
		buf.WriteString(strings.ToLower(fmt.Sprintf("%c", k.Codepoint)))
	case k.Codepoint == KeyUp:
		buf.WriteString("up")
	case k.Codepoint == KeyRight:
		buf.WriteString("right")
	case k.Codepoint == KeyDown:
		buf.WriteString("down")
	case k.Codepoint == KeyLeft:
		buf.WriteString("left")
	case k.Codepoint == KeyInsert:
		buf.WriteString("insert")
	case k.Codepoint == KeyDelete:
		buf.WriteString("delete")
	case k.Codepoint == KeyPgDown:
		buf.WriteString("pgdown")
	case k.Codepoint == KeyPgUp:
		buf.WriteString("pgup")
	case k.Codepoint == KeyHome:
		buf.WriteString("home")
	case k.Codepoint == KeyEnd:
		buf.WriteString("end")
	case k.Codepoint == KeyClear:
		buf.WriteString("clear")
	case k.Codepoint == KeyBegin:
		buf.WriteString("begin")
	}

	if strings.HasPrefix(buf.String(), "<") {
		buf.WriteRune('>')
	}
	return buf.String()
}

const (
	extended rune = 1 << 30
)

const (
	KeyUp rune = extended + 1 + iota
	KeyRight
	KeyDown
	KeyLeft
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyPgDown
	KeyPgUp
	KeyHome
	KeyEnd
	KeyF00
	KeyF01
	KeyF02
	KeyF03
	KeyF04
	KeyF05
	KeyF06
	KeyF07
	KeyF08
	KeyF09
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyF25
	KeyF26
	KeyF27
	KeyF28
	KeyF29
	KeyF30
	KeyF31
	KeyF32
	KeyF33
	KeyF34
	KeyF35
	KeyF36
	KeyF37
	KeyF38
	KeyF39
	KeyF40
	KeyF41
	KeyF42
	KeyF43
	KeyF44
	KeyF45
	KeyF46
	KeyF47
	KeyF48
	KeyF49
	KeyF50
	KeyF51
	KeyF52
	KeyF53
	KeyF54
	KeyF55
	KeyF56
	KeyF57
	KeyF58
	KeyF59
	KeyF60
	KeyF61
	KeyF62
	KeyF63 // F63 is max defined in terminfo
	KeyEnter
	KeyClear
	KeyBegin

	// Aliases
	KeyReturn = KeyEnter
	KeyTab    = 0x09
	KeyEsc    = 0x1B
	KeySpace  = 0x20
)
