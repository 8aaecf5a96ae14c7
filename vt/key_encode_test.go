package vt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weftterm/weft"
)

func TestEncodeXterm(t *testing.T) {
	tests := []struct {
		name   string
		key    weft.Key
		keypad bool
		cursor bool
		want   string
	}{
		{
			name: "rune",
			key:  weft.Key{Codepoint: 'a'},
			want: "a",
		},
		{
			name: "shifted rune",
			key:  weft.Key{Codepoint: 'A', Modifiers: weft.ModShift},
			want: "A",
		},
		{
			name: "text takes precedence",
			key:  weft.Key{Codepoint: 'a', Text: "á"},
			want: "á",
		},
		{
			name: "enter",
			key:  weft.Key{Codepoint: weft.KeyEnter},
			want: "\r",
		},
		{
			name: "backspace",
			key:  weft.Key{Codepoint: weft.KeyBackspace},
			want: "\x7f",
		},
		{
			name: "up",
			key:  weft.Key{Codepoint: weft.KeyUp},
			want: "\x1b[A",
		},
		{
			name:   "up application cursor",
			key:    weft.Key{Codepoint: weft.KeyUp},
			cursor: true,
			want:   "\x1bOA",
		},
		{
			name:   "enter application keypad",
			key:    weft.Key{Codepoint: weft.KeyEnter},
			keypad: true,
			want:   "\x1bOM",
		},
		{
			name: "f1",
			key:  weft.Key{Codepoint: weft.KeyF01},
			want: "\x1bOP",
		},
		{
			name: "f5",
			key:  weft.Key{Codepoint: weft.KeyF05},
			want: "\x1b[15~",
		},
		{
			name: "delete",
			key:  weft.Key{Codepoint: weft.KeyDelete},
			want: "\x1b[3~",
		},
		{
			name: "ctrl-c",
			key:  weft.Key{Codepoint: 'c', Modifiers: weft.ModCtrl},
			want: "\x03",
		},
		{
			name: "ctrl-space",
			key:  weft.Key{Codepoint: ' ', Modifiers: weft.ModCtrl},
			want: "\x00",
		},
		{
			name: "alt-x",
			key:  weft.Key{Codepoint: 'x', Modifiers: weft.ModAlt},
			want: "\x1bx",
		},
		{
			name: "ctrl-alt-f",
			key:  weft.Key{Codepoint: 'f', Modifiers: weft.ModCtrl | weft.ModAlt},
			want: "\x1b\x06",
		},
		{
			name: "shift-up",
			key:  weft.Key{Codepoint: weft.KeyUp, Modifiers: weft.ModShift},
			want: "\x1b[1;2A",
		},
		{
			name: "ctrl-right",
			key:  weft.Key{Codepoint: weft.KeyRight, Modifiers: weft.ModCtrl},
			want: "\x1b[1;5C",
		},
		{
			name: "alt-pgup",
			key:  weft.Key{Codepoint: weft.KeyPgUp, Modifiers: weft.ModAlt},
			want: "\x1b[5;3~",
		},
		{
			name: "release produces nothing",
			key:  weft.Key{Codepoint: 'a', EventType: weft.EventRelease},
			want: "",
		},
		{
			name:   "application cursor does not leak into other keys",
			key:    weft.Key{Codepoint: weft.KeyDelete},
			cursor: true,
			want:   "\x1b[3~",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := encodeXterm(test.key, test.keypad, test.cursor)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCtrlKey(t *testing.T) {
	assert.Equal(t, "\x01", ctrlKey('a'))
	assert.Equal(t, "\x1a", ctrlKey('z'))
	assert.Equal(t, "\x00", ctrlKey('@'))
	assert.Equal(t, "\x1b", ctrlKey('['))
	assert.Equal(t, "\x7f", ctrlKey('?'))
	assert.Equal(t, "1", ctrlKey('1'))
}
