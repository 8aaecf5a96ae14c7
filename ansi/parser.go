// Package ansi decodes a stream of terminal output into a stream of
// sequences. The decoder is a resumable state machine modeled on the VT500
// parser: input may be fed in arbitrary chunks, and splitting a stream at
// any byte boundary never changes the decoded result
package ansi

import "unicode/utf8"

// Limits applied while decoding. Sequences exceeding them are consumed and
// dropped without disturbing the rest of the stream
const (
	maxParams       = 32
	maxSubParams    = 16
	maxParamValue   = 65535
	maxIntermediate = 4
	maxOscBytes     = 64 * 1024
	maxDcsBytes     = 4 * 1024 * 1024
)

type state uint8

const (
	ground state = iota
	escape
	escapeIntermediate
	csiEntry
	csiParam
	csiIntermediate
	csiIgnore
	oscString
	dcsEntry
	dcsParam
	dcsIntermediate
	dcsPassthrough
	dcsIgnore
	sosPmApcString
)

var stateNames = [...]string{
	"ground",
	"escape",
	"escapeIntermediate",
	"csiEntry",
	"csiParam",
	"csiIntermediate",
	"csiIgnore",
	"oscString",
	"dcsEntry",
	"dcsParam",
	"dcsIntermediate",
	"dcsPassthrough",
	"dcsIgnore",
	"sosPmApcString",
}

type strKind uint8

const (
	oscKind strKind = iota
	apcKind
	discardKind
)

// Parser decodes terminal output. The zero value is not usable; create one
// with NewParser. A Parser is not safe for concurrent use
type Parser struct {
	state state

	// in-flight UTF-8 character
	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int

	intermediate []rune
	params       [][]int
	group        []int
	param        int

	// in-flight string sequence (OSC, APC, or DCS data)
	kind       strKind
	str        *buffer
	strOver    bool
	escPending bool

	// header of the in-flight DCS
	dcs DCS
}

func NewParser() *Parser {
	return &Parser{}
}

// String returns the name of the current state
func (p *Parser) String() string {
	return stateNames[p.state]
}

// Parse feeds a chunk of the stream to the parser and returns the sequences
// the chunk completed, in order. Parse never blocks and never fails;
// malformed input is dropped and decoding resumes at the next sequence
func (p *Parser) Parse(input []byte) []Sequence {
	seqs := make([]Sequence, 0, 8)
	for _, b := range input {
		p.advance(&seqs, b)
	}
	return seqs
}

func (p *Parser) advance(seqs *[]Sequence, b byte) {
	switch p.state {
	case ground:
		p.ground(seqs, b)
	case escape:
		p.escape(seqs, b)
	case escapeIntermediate:
		p.escapeIntermediate(seqs, b)
	case csiEntry:
		p.csiEntry(seqs, b)
	case csiParam:
		p.csiParam(seqs, b)
	case csiIntermediate:
		p.csiIntermediate(seqs, b)
	case csiIgnore:
		p.csiIgnore(seqs, b)
	case oscString:
		p.oscString(seqs, b)
	case dcsEntry:
		p.dcsEntry(seqs, b)
	case dcsParam:
		p.dcsParam(seqs, b)
	case dcsIntermediate:
		p.dcsIntermediate(seqs, b)
	case dcsPassthrough:
		p.dcsPassthrough(seqs, b)
	case dcsIgnore:
		p.dcsIgnore(seqs, b)
	case sosPmApcString:
		p.sosPmApcString(seqs, b)
	}
}

func (p *Parser) emit(seqs *[]Sequence, seq Sequence) {
	*seqs = append(*seqs, seq)
}

func (p *Parser) ground(seqs *[]Sequence, b byte) {
	if p.utf8Need > 0 {
		if b&0xC0 != 0x80 {
			// the continuation byte never arrived
			p.utf8Len = 0
			p.utf8Need = 0
			p.emit(seqs, Print(utf8.RuneError))
			p.ground(seqs, b)
			return
		}
		p.utf8Buf[p.utf8Len] = b
		p.utf8Len++
		if p.utf8Len < p.utf8Need {
			return
		}
		r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
		p.utf8Len = 0
		p.utf8Need = 0
		p.emit(seqs, Print(r))
		return
	}
	switch {
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b == 0x7F:
		// DEL is ignored
	case b < 0x80:
		p.emit(seqs, Print(rune(b)))
	case b < 0xC2:
		// orphan continuation or overlong lead
		p.emit(seqs, Print(utf8.RuneError))
	case b < 0xE0:
		p.utf8Start(b, 2)
	case b < 0xF0:
		p.utf8Start(b, 3)
	case b < 0xF5:
		p.utf8Start(b, 4)
	default:
		p.emit(seqs, Print(utf8.RuneError))
	}
}

func (p *Parser) utf8Start(b byte, need int) {
	p.utf8Buf[0] = b
	p.utf8Len = 1
	p.utf8Need = need
}

func (p *Parser) escStart() {
	p.state = escape
	p.intermediate = p.intermediate[:0]
}

func (p *Parser) escape(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x30:
		p.collect(b)
		p.state = escapeIntermediate
	case b == '[':
		p.csiStart()
	case b == ']':
		p.strStart(oscKind)
	case b == 'P':
		p.csiStart()
		p.state = dcsEntry
	case b == 'X' || b == '^':
		p.strStart(discardKind)
	case b == '_':
		p.strStart(apcKind)
	case b < 0x7F:
		p.emit(seqs, ESC{
			Intermediate: p.cloneIntermediate(),
			Final:        rune(b),
		})
		p.state = ground
	case b == 0x7F:
		// ignored
	default:
		p.state = ground
		p.ground(seqs, b)
	}
}

func (p *Parser) escapeIntermediate(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x30:
		p.collect(b)
	case b < 0x7F:
		p.emit(seqs, ESC{
			Intermediate: p.cloneIntermediate(),
			Final:        rune(b),
		})
		p.state = ground
	case b == 0x7F:
		// ignored
	default:
		p.state = ground
		p.ground(seqs, b)
	}
}

func (p *Parser) csiStart() {
	p.state = csiEntry
	p.intermediate = p.intermediate[:0]
	p.params = nil
	p.group = nil
	p.param = 0
}

func (p *Parser) collect(b byte) {
	if len(p.intermediate) >= maxIntermediate {
		return
	}
	p.intermediate = append(p.intermediate, rune(b))
}

func (p *Parser) cloneIntermediate() []rune {
	if len(p.intermediate) == 0 {
		return nil
	}
	in := make([]rune, len(p.intermediate))
	copy(in, p.intermediate)
	return in
}

// pushParam commits the pending numeric value to the current group
func (p *Parser) pushParam() {
	p.group = append(p.group, p.param)
	p.param = 0
}

// pushGroup commits the pending value and group to the parameter list
func (p *Parser) pushGroup() {
	p.pushParam()
	p.params = append(p.params, p.group)
	p.group = nil
}

func (p *Parser) paramDigit(b byte) {
	p.param = p.param*10 + int(b-'0')
	if p.param > maxParamValue {
		p.param = maxParamValue
	}
}

func (p *Parser) csiEntry(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x30:
		p.pushGroup()
		p.collect(b)
		p.state = csiIntermediate
	case b <= '9':
		p.paramDigit(b)
		p.state = csiParam
	case b == ':':
		p.state = csiIgnore
	case b == ';':
		p.pushGroup()
		p.state = csiParam
	case b < 0x40:
		// private marker
		p.collect(b)
		p.state = csiParam
	case b < 0x7F:
		p.csiDispatch(seqs, b)
	case b == 0x7F:
		// ignored
	default:
		p.state = ground
		p.ground(seqs, b)
	}
}

func (p *Parser) csiParam(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x30:
		p.pushGroup()
		p.collect(b)
		p.state = csiIntermediate
	case b <= '9':
		p.paramDigit(b)
	case b == ':':
		if len(p.group) >= maxSubParams {
			p.state = csiIgnore
			return
		}
		p.pushParam()
	case b == ';':
		if len(p.params) >= maxParams-1 {
			p.state = csiIgnore
			return
		}
		p.pushGroup()
	case b < 0x40:
		p.state = csiIgnore
	case b < 0x7F:
		p.csiDispatch(seqs, b)
	case b == 0x7F:
		// ignored
	default:
		p.state = ground
		p.ground(seqs, b)
	}
}

func (p *Parser) csiIntermediate(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x30:
		p.collect(b)
	case b < 0x40:
		p.state = csiIgnore
	case b < 0x7F:
		p.csiDispatch(seqs, b)
	case b == 0x7F:
		// ignored
	default:
		p.state = ground
		p.ground(seqs, b)
	}
}

func (p *Parser) csiIgnore(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		p.emit(seqs, C0(rune(b)))
	case b < 0x40:
		// consume
	case b < 0x7F:
		p.state = ground
	default:
		// consume
	}
}

func (p *Parser) csiDispatch(seqs *[]Sequence, b byte) {
	// the group was already committed when the first intermediate arrived
	if p.state != csiIntermediate {
		p.pushGroup()
	}
	p.emit(seqs, CSI{
		Intermediate: p.cloneIntermediate(),
		Final:        rune(b),
		Parameters:   p.params,
	})
	p.params = nil
	p.state = ground
}

func (p *Parser) strStart(kind strKind) {
	p.state = sosPmApcString
	if kind == oscKind {
		p.state = oscString
	}
	p.kind = kind
	p.str = getBuf()
	p.strOver = false
	p.escPending = false
}

func (p *Parser) strAbort() {
	putBuf(p.str)
	p.str = nil
	p.escPending = false
	p.state = ground
}

func (p *Parser) strPut(b byte) {
	if p.strOver {
		return
	}
	if p.str.Len() >= maxOscBytes {
		p.strOver = true
		return
	}
	p.str.WriteByte(b)
}

// strReprocess aborts the in-flight string and handles b as the byte
// following a bare ESC
func (p *Parser) strReprocess(seqs *[]Sequence, b byte) {
	putBuf(p.str)
	p.str = nil
	p.escPending = false
	p.escStart()
	p.escape(seqs, b)
}

func (p *Parser) oscString(seqs *[]Sequence, b byte) {
	switch {
	case p.escPending:
		if b == '\\' {
			p.oscDispatch(seqs)
			return
		}
		p.strReprocess(seqs, b)
	case b == 0x07:
		p.oscDispatch(seqs)
	case b == 0x1B:
		p.escPending = true
	case b < 0x20:
		p.strAbort()
	default:
		p.strPut(b)
	}
}

func (p *Parser) oscDispatch(seqs *[]Sequence) {
	if !p.strOver {
		payload := make([]byte, p.str.Len())
		copy(payload, p.str.Bytes())
		p.emit(seqs, OSC{Payload: payload})
	}
	p.strAbort()
}

func (p *Parser) sosPmApcString(seqs *[]Sequence, b byte) {
	switch {
	case p.escPending:
		if b == '\\' {
			if p.kind == apcKind && !p.strOver {
				payload := make([]byte, p.str.Len())
				copy(payload, p.str.Bytes())
				p.emit(seqs, APC{Payload: payload})
			}
			p.strAbort()
			return
		}
		p.strReprocess(seqs, b)
	case b == 0x18 || b == 0x1A:
		p.strAbort()
	case b == 0x1B:
		p.escPending = true
	case b < 0x20:
		// control codes are not part of the string
	default:
		if p.kind == apcKind {
			p.strPut(b)
		}
	}
}

func (p *Parser) dcsEntry(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		// ignored in DCS header
	case b < 0x30:
		p.pushGroup()
		p.collect(b)
		p.state = dcsIntermediate
	case b <= '9':
		p.paramDigit(b)
		p.state = dcsParam
	case b == ':':
		p.state = dcsIgnore
	case b == ';':
		p.pushGroup()
		p.state = dcsParam
	case b < 0x40:
		p.collect(b)
		p.state = dcsParam
	case b < 0x7F:
		p.dcsHook(b)
	case b == 0x7F:
		// ignored
	default:
		p.state = dcsIgnore
	}
}

func (p *Parser) dcsParam(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		// ignored in DCS header
	case b < 0x30:
		p.pushGroup()
		p.collect(b)
		p.state = dcsIntermediate
	case b <= '9':
		p.paramDigit(b)
	case b == ':':
		if len(p.group) >= maxSubParams {
			p.state = dcsIgnore
			return
		}
		p.pushParam()
	case b == ';':
		if len(p.params) >= maxParams-1 {
			p.state = dcsIgnore
			return
		}
		p.pushGroup()
	case b < 0x40:
		p.state = dcsIgnore
	case b < 0x7F:
		p.dcsHook(b)
	case b == 0x7F:
		// ignored
	default:
		p.state = dcsIgnore
	}
}

func (p *Parser) dcsIntermediate(seqs *[]Sequence, b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escStart()
	case b < 0x20:
		// ignored in DCS header
	case b < 0x30:
		p.collect(b)
	case b < 0x40:
		p.state = dcsIgnore
	case b < 0x7F:
		p.dcsHook(b)
	case b == 0x7F:
		// ignored
	default:
		p.state = dcsIgnore
	}
}

// dcsHook completes the DCS header and begins collecting passthrough data
func (p *Parser) dcsHook(b byte) {
	if p.state != dcsIntermediate {
		p.pushGroup()
	}
	p.dcs = DCS{
		Intermediate: p.cloneIntermediate(),
		Final:        rune(b),
		Parameters:   p.params,
	}
	p.params = nil
	p.str = getBuf()
	p.strOver = false
	p.escPending = false
	p.state = dcsPassthrough
}

func (p *Parser) dcsPassthrough(seqs *[]Sequence, b byte) {
	switch {
	case p.escPending:
		if b == '\\' {
			p.dcsDispatch(seqs)
			return
		}
		p.strReprocess(seqs, b)
	case b == 0x18 || b == 0x1A:
		p.strAbort()
	case b == 0x1B:
		p.escPending = true
	default:
		if p.strOver {
			return
		}
		if p.str.Len() >= maxDcsBytes {
			p.strOver = true
			return
		}
		p.str.WriteByte(b)
	}
}

func (p *Parser) dcsDispatch(seqs *[]Sequence) {
	if !p.strOver {
		data := make([]byte, p.str.Len())
		copy(data, p.str.Bytes())
		seq := p.dcs
		seq.Data = data
		p.emit(seqs, seq)
	}
	p.dcs = DCS{}
	p.strAbort()
}

func (p *Parser) dcsIgnore(seqs *[]Sequence, b byte) {
	switch {
	case p.escPending:
		if b == '\\' {
			p.escPending = false
			p.state = ground
			return
		}
		p.escPending = false
		p.escStart()
		p.escape(seqs, b)
	case b == 0x18 || b == 0x1A:
		p.state = ground
	case b == 0x1B:
		p.escPending = true
	default:
		// consume
	}
}
