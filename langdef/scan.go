package langdef

import "github.com/ldr/ex-abnf/source"

// scanner is the low-level, byte-at-a-time cursor the hand-written
// recursive-descent parser below drives. Its multi-byte skip helpers
// (skipComment, skipCWSP, skipBlankLine) restore the position themselves
// when they fail; beyond that, callers save/restore p.pos around anything
// that might fail.
type scanner struct {
	data []byte
	pos  int
	src  *source.Source
}

func newScanner(name string, data []byte) *scanner {
	return &scanner{data: data, pos: 0, src: source.New(name, data)}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.data)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.data[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	i := s.pos + offset
	if i < 0 || i >= len(s.data) {
		return 0
	}
	return s.data[i]
}

func (s *scanner) advance() byte {
	b := s.data[s.pos]
	s.pos++
	return b
}

func (s *scanner) here() source.Pos {
	return source.NewPos(s.src, s.pos)
}

func isALPHA(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDIGIT(b byte) bool {
	return b >= '0' && b <= '9'
}

func isBIT(b byte) bool {
	return b == '0' || b == '1'
}

func isHEXDIG(b byte) bool {
	return isDIGIT(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isWSP(b byte) bool {
	return b == ' ' || b == '\t'
}

func isVCHAR(b byte) bool {
	return b >= 0x21 && b <= 0x7E
}

// consumeEOL consumes a CRLF or bare LF line terminator at the current
// position. Spec §4.1 accepts both in practice even though the canonical
// grammar uses CRLF.
func (s *scanner) consumeEOL() bool {
	if s.peek() == '\r' && s.peekAt(1) == '\n' {
		s.pos += 2
		return true
	}
	if s.peek() == '\n' {
		s.pos++
		return true
	}
	return false
}

// skipComment consumes ";" *(WSP / VCHAR) CRLF, or does nothing and
// returns false if there is no comment here.
func (s *scanner) skipComment() bool {
	if s.peek() != ';' {
		return false
	}
	save := s.pos
	s.advance()
	for isWSP(s.peek()) || isVCHAR(s.peek()) {
		s.advance()
	}
	if !s.consumeEOL() {
		s.pos = save
		return false
	}
	return true
}

// skipCNL consumes a c-nl (comment or line terminator).
func (s *scanner) skipCNL() bool {
	if s.skipComment() {
		return true
	}
	return s.consumeEOL()
}

// skipCWSP consumes one c-wsp: WSP, or (c-nl WSP) — a folded line must be
// followed by at least one more WSP to belong to the fold.
func (s *scanner) skipCWSP() bool {
	if isWSP(s.peek()) {
		s.advance()
		return true
	}

	save := s.pos
	if s.skipCNL() && isWSP(s.peek()) {
		s.advance()
		return true
	}
	s.pos = save
	return false
}

func (s *scanner) skipCWSPStar() {
	for s.skipCWSP() {
	}
}

// skipBlankLine consumes *WSP c-nl, the "empty line" alternative of
// rulelist. Returns false (and makes no changes) if there is no c-nl
// reachable via leading whitespace alone.
func (s *scanner) skipBlankLine() bool {
	save := s.pos
	for isWSP(s.peek()) {
		s.advance()
	}
	if s.skipCNL() {
		return true
	}
	s.pos = save
	return false
}

func (s *scanner) consumeDigits(valid func(byte) bool) string {
	start := s.pos
	for valid(s.peek()) {
		s.advance()
	}
	return string(s.data[start:s.pos])
}

// canStartElement reports whether b can begin an ABNF `element`.
func canStartElement(b byte) bool {
	return isALPHA(b) || b == '(' || b == '[' || b == '"' || b == '%' || b == '<'
}
