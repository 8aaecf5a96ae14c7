package ansi

// Sequence is a decoded unit of terminal output: a printable character, a
// control code, or a complete escape sequence
type Sequence interface{}

// Print is a single printable character. Invalid UTF-8 input decodes as
// U+FFFD
type Print rune

// C0 is a C0 control code (0x00-0x1F)
type C0 rune

// ESC is a complete escape sequence: ESC, zero or more intermediate bytes,
// and a final byte
type ESC struct {
	Intermediate []rune
	Final        rune
}

// CSI is a control sequence. Private markers ('?', '<', '=', '>') are
// reported as leading intermediates. Each element of Parameters is one
// parameter group; colon-separated sub-parameters are the tail of their
// group. A sequence with no parameter bytes reports a single zero parameter
type CSI struct {
	Intermediate []rune
	Final        rune
	Parameters   [][]int
}

// OSC is an operating system command. The payload excludes the terminator
type OSC struct {
	Payload []byte
}

// DCS is a device control string: a CSI-style header followed by raw
// passthrough data up to the string terminator
type DCS struct {
	Intermediate []rune
	Final        rune
	Parameters   [][]int
	Data         []byte
}

// APC is an application program command payload
type APC struct {
	Payload []byte
}
