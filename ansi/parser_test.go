package ansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Sequence
	}{
		{
			name:  "plain text",
			input: "Hello\r\n",
			want: []Sequence{
				Print('H'),
				Print('e'),
				Print('l'),
				Print('l'),
				Print('o'),
				C0(0x0D),
				C0(0x0A),
			},
		},
		{
			name:  "multibyte utf8",
			input: "h\xc3\xa9!",
			want: []Sequence{
				Print('h'),
				Print('é'),
				Print('!'),
			},
		},
		{
			name:  "four byte utf8",
			input: "\xf0\x9f\x92\xa9",
			want:  []Sequence{Print('💩')},
		},
		{
			name:  "invalid utf8 lead",
			input: "\xc3(",
			want: []Sequence{
				Print(0xFFFD),
				Print('('),
			},
		},
		{
			name:  "orphan continuation",
			input: "a\x80b",
			want: []Sequence{
				Print('a'),
				Print(0xFFFD),
				Print('b'),
			},
		},
		{
			name:  "del is ignored",
			input: "a\x7fb",
			want: []Sequence{
				Print('a'),
				Print('b'),
			},
		},
		{
			name:  "sgr",
			input: "\x1b[31m",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{31}}},
			},
		},
		{
			name:  "sgr semicolon rgb",
			input: "\x1b[38;2;10;20;30m",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{38}, {2}, {10}, {20}, {30}}},
			},
		},
		{
			name:  "sgr colon rgb",
			input: "\x1b[38:2::10:20:30m",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{38, 2, 0, 10, 20, 30}}},
			},
		},
		{
			name:  "private mode set",
			input: "\x1b[?2004h",
			want: []Sequence{
				CSI{Intermediate: []rune{'?'}, Final: 'h', Parameters: [][]int{{2004}}},
			},
		},
		{
			name:  "cup without params",
			input: "\x1b[H",
			want: []Sequence{
				CSI{Final: 'H', Parameters: [][]int{{0}}},
			},
		},
		{
			name:  "cup with empty first param",
			input: "\x1b[;5H",
			want: []Sequence{
				CSI{Final: 'H', Parameters: [][]int{{0}, {5}}},
			},
		},
		{
			name:  "cursor style with intermediate",
			input: "\x1b[4 q",
			want: []Sequence{
				CSI{Intermediate: []rune{' '}, Final: 'q', Parameters: [][]int{{4}}},
			},
		},
		{
			name:  "osc bel terminated",
			input: "\x1b]2;hello\x07",
			want: []Sequence{
				OSC{Payload: []byte("2;hello")},
			},
		},
		{
			name:  "osc st terminated",
			input: "\x1b]2;hi\x1b\\",
			want: []Sequence{
				OSC{Payload: []byte("2;hi")},
			},
		},
		{
			name:  "osc with utf8 payload",
			input: "\x1b]2;t\xc3\xa9st\x07",
			want: []Sequence{
				OSC{Payload: []byte("2;t\xc3\xa9st")},
			},
		},
		{
			name:  "charset designation",
			input: "\x1b(0",
			want: []Sequence{
				ESC{Intermediate: []rune{'('}, Final: '0'},
			},
		},
		{
			name:  "save cursor",
			input: "\x1b7",
			want: []Sequence{
				ESC{Final: '7'},
			},
		},
		{
			name:  "reverse index",
			input: "\x1bM",
			want: []Sequence{
				ESC{Final: 'M'},
			},
		},
		{
			name:  "dcs with params and data",
			input: "\x1bP1;2q#data\x1b\\",
			want: []Sequence{
				DCS{
					Final:      'q',
					Parameters: [][]int{{1}, {2}},
					Data:       []byte("#data"),
				},
			},
		},
		{
			name:  "apc",
			input: "\x1b_Ghello\x1b\\",
			want: []Sequence{
				APC{Payload: []byte("Ghello")},
			},
		},
		{
			name:  "sos is discarded",
			input: "\x1bXsecret\x1b\\X",
			want:  []Sequence{Print('X')},
		},
		{
			name:  "osc aborted by csi",
			input: "\x1b]0;title\x1b[31mX",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{31}}},
				Print('X'),
			},
		},
		{
			name:  "esc restarts csi",
			input: "\x1b[12\x1b[31mX",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{31}}},
				Print('X'),
			},
		},
		{
			name:  "can aborts csi",
			input: "\x1b[33\x18X",
			want:  []Sequence{Print('X')},
		},
		{
			name:  "c0 inside csi executes",
			input: "\x1b[3\rm",
			want: []Sequence{
				C0(0x0D),
				CSI{Final: 'm', Parameters: [][]int{{3}}},
			},
		},
		{
			name:  "param clamps without overflow",
			input: "\x1b[9999999999mX",
			want: []Sequence{
				CSI{Final: 'm', Parameters: [][]int{{65535}}},
				Print('X'),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parser := NewParser()
			got := parser.Parse([]byte(test.input))
			assert.Equal(t, test.want, got)
		})
	}
}

// Splitting the stream at any byte boundary must not change the decoded
// sequences
func TestParseChunked(t *testing.T) {
	input := []byte("Hello\x1b[31;1mred \x1b]2;t\xc3\xa9st\x07wide:\xe4\xbd\xa0" +
		"\x1bP0q#0;2;0;0;0\x1b\\ \x1b[?1049h\x1b(B tail\xf0\x9f\x92\xa9")

	whole := NewParser().Parse(input)
	assert.NotEmpty(t, whole)

	for size := 1; size <= 5; size++ {
		parser := NewParser()
		var got []Sequence
		for i := 0; i < len(input); i += size {
			end := i + size
			if end > len(input) {
				end = len(input)
			}
			got = append(got, parser.Parse(input[i:end])...)
		}
		assert.Equal(t, whole, got, "chunk size %d", size)
	}
}

func TestParseRecoversFromGarbage(t *testing.T) {
	garbage := make([]byte, 0, 256)
	for i := 0; i < 256; i++ {
		garbage = append(garbage, byte(i))
	}
	parser := NewParser()
	assert.NotPanics(t, func() {
		parser.Parse(garbage)
		parser.Parse(garbage)
	})

	// whatever state the sweep left behind, printable input decodes again
	got := parser.Parse([]byte("X"))
	if assert.NotEmpty(t, got) {
		assert.Equal(t, Print('X'), got[len(got)-1])
	}
}

func TestParserState(t *testing.T) {
	parser := NewParser()
	assert.Equal(t, "ground", parser.String())
	parser.Parse([]byte("\x1b["))
	assert.Equal(t, "csiEntry", parser.String())
	parser.Parse([]byte("31m"))
	assert.Equal(t, "ground", parser.String())
	parser.Parse([]byte("\x1b]0;ti"))
	assert.Equal(t, "oscString", parser.String())
	parser.Parse([]byte("tle\x07"))
	assert.Equal(t, "ground", parser.String())
}
