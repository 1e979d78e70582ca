// Package langdef is the hand-written recursive-descent compiler for the
// ABNF meta-grammar (RFC 4234 / RFC 5234 §4), plus this module's inline
// semantic-action extension. It converts grammar text into a
// grammar.RuleSet; it never matches input against a RuleSet — that is
// interpreter's job.
package langdef

import (
	"strconv"

	"github.com/ldr/ex-abnf/grammar"
	"github.com/ldr/ex-abnf/source"
)

// ParseString compiles an ABNF grammar held in a string.
func ParseString(name, content string) (*grammar.RuleSet, []byte, error) {
	return ParseBytes(name, []byte(content))
}

// ParseBytes compiles an ABNF grammar. On success it returns the compiled
// RuleSet and an empty tail. When one or more rules parse but text is
// left over, it returns that leftover text as the tail together with an
// *IncompleteParseError; when no rule parses at all, it returns an
// *InvalidGrammarError and a nil tail.
func ParseBytes(name string, content []byte) (*grammar.RuleSet, []byte, error) {
	p := &parser{scanner: newScanner(name, content)}
	rs, err := p.parseRuleList()
	if err != nil {
		return nil, nil, err
	}

	tail := p.data[p.pos:]
	if len(tail) > 0 {
		return nil, tail, incompleteParseError(p.here(), tail)
	}

	if err := resolveRefs(rs); err != nil {
		return nil, nil, err
	}

	return rs, tail, nil
}

type parser struct {
	*scanner
}

func (p *parser) parseRuleList() (*grammar.RuleSet, error) {
	rs := grammar.NewRuleSet()

	for {
		if p.skipBlankLine() {
			continue
		}

		if p.atEnd() || !isALPHA(p.peek()) {
			break
		}

		ruleStart := p.pos
		if err := p.parseRule(rs); err != nil {
			if err == errSyntax {
				p.pos = ruleStart
				break
			}
			return nil, err
		}
	}

	if rs.Len() == 0 {
		return nil, invalidGrammarError()
	}

	return rs, nil
}

func (p *parser) parseRule(rs *grammar.RuleSet) error {
	namePos := p.here()
	displayName := p.parseRuleName()
	if displayName == "" {
		return errSyntax
	}
	foldedName := grammar.FoldName(displayName)

	p.skipCWSPStar()

	incremental, ok := p.parseDefinedAs()
	if !ok {
		return errSyntax
	}

	p.skipCWSPStar()

	elem, err := p.parseAlternation()
	if err != nil {
		return err
	}

	p.skipCWSPStar()

	if !p.skipCNL() {
		return errSyntax
	}

	action, err := p.parseActionBlock()
	if err != nil {
		return err
	}

	if incremental {
		existing, has := rs.Get(foldedName)
		if !has {
			return appendUndefinedRuleError(namePos, displayName)
		}

		merged := appendAlternative(existing.Element, elem)
		if action == nil {
			action = existing.Action
		}
		rs.Define(&grammar.Rule{Name: foldedName, DisplayName: existing.DisplayName, Element: merged, Action: action})
		return nil
	}

	if rs.Has(foldedName) {
		return duplicateRuleError(namePos, displayName)
	}

	rs.Define(&grammar.Rule{Name: foldedName, DisplayName: displayName, Element: elem, Action: action})
	return nil
}

// appendAlternative implements "=/": wrap the previous element as a
// single alternative if it was not already an Alternation, then append
// the new alternation's alternatives to it.
func appendAlternative(existing, added *grammar.Element) *grammar.Element {
	var items []*grammar.Element
	if existing.Kind == grammar.Alternation {
		items = append(items, existing.Items...)
	} else {
		items = append(items, existing)
	}

	if added.Kind == grammar.Alternation {
		items = append(items, added.Items...)
	} else {
		items = append(items, added)
	}

	return grammar.Alt(items...)
}

func (p *parser) parseRuleName() string {
	if !isALPHA(p.peek()) {
		return ""
	}
	start := p.pos
	p.advance()
	for isALPHA(p.peek()) || isDIGIT(p.peek()) || p.peek() == '-' {
		p.advance()
	}
	return string(p.data[start:p.pos])
}

// parseDefinedAs consumes "=" or "=/" and reports which one it was.
func (p *parser) parseDefinedAs() (incremental, ok bool) {
	if p.peek() != '=' {
		return false, false
	}
	p.advance()
	if p.peek() == '/' {
		p.advance()
		return true, true
	}
	return false, true
}

// parseActionBlock consumes an optional !!!-delimited semantic action
// block immediately following a rule's terminating c-nl. Returns nil, nil
// if there is none.
func (p *parser) parseActionBlock() ([]byte, error) {
	save := p.pos
	if !p.consumeMarkerLine() {
		p.pos = save
		return nil, nil
	}

	contentStart := p.pos
	for {
		lineStart := p.pos
		if p.atEnd() {
			p.pos = save
			return nil, errSyntax
		}

		if p.isMarkerLineAt(lineStart) {
			content := p.data[contentStart:lineStart]
			p.pos = lineStart
			p.consumeMarkerLine()
			return content, nil
		}

		// advance to the start of the next line.
		for !p.atEnd() && p.peek() != '\n' {
			p.advance()
		}
		if !p.atEnd() {
			p.advance()
		}
	}
}

// consumeMarkerLine consumes a line consisting of exactly "!!!" (optional
// trailing WSP tolerated) followed by a line terminator, advancing past
// it. It reports whether the current position was such a line.
func (p *parser) consumeMarkerLine() bool {
	return p.isMarkerLineAt(p.pos) && p.consumeMarkerLineUnchecked()
}

func (p *parser) isMarkerLineAt(pos int) bool {
	if pos+3 > len(p.data) || string(p.data[pos:pos+3]) != "!!!" {
		return false
	}
	i := pos + 3
	for i < len(p.data) && isWSP(p.data[i]) {
		i++
	}
	return i >= len(p.data) || p.data[i] == '\r' || p.data[i] == '\n'
}

func (p *parser) consumeMarkerLineUnchecked() bool {
	p.pos += 3
	for isWSP(p.peek()) {
		p.advance()
	}
	p.consumeEOL()
	return true
}

func (p *parser) parseAlternation() (*grammar.Element, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}

	items := []*grammar.Element{first}
	for {
		save := p.pos
		p.skipCWSPStar()
		if p.peek() != '/' {
			p.pos = save
			break
		}
		p.advance()
		p.skipCWSPStar()

		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return grammar.Alt(items...), nil
}

func (p *parser) parseConcatenation() (*grammar.Element, error) {
	first, err := p.parseRepetition()
	if err != nil {
		return nil, err
	}

	items := []*grammar.Element{first}
	for {
		save := p.pos
		consumedAny := false
		for p.skipCWSP() {
			consumedAny = true
		}
		// A repetition may begin with a repeat prefix (digits or "*")
		// before its element.
		b := p.peek()
		if !consumedAny || !(canStartElement(b) || isDIGIT(b) || b == '*') {
			p.pos = save
			break
		}

		next, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return grammar.Cat(items...), nil
}

func (p *parser) parseRepetition() (*grammar.Element, error) {
	min, max, hasRepeat := p.parseRepeat()

	elem, err := p.parseElement()
	if err != nil {
		return nil, err
	}

	if !hasRepeat {
		return elem, nil
	}
	return grammar.Rep(min, max, elem), nil
}

// parseRepeat consumes an optional "repeat" prefix: 1*DIGIT, or
// (*DIGIT "*" *DIGIT).
func (p *parser) parseRepeat() (min, max uint32, has bool) {
	save := p.pos
	before := p.consumeDigits(isDIGIT)

	if p.peek() == '*' {
		p.advance()
		after := p.consumeDigits(isDIGIT)

		min = 0
		if before != "" {
			min = parseUintOr(before, 0)
		}
		max = grammar.Unbounded
		if after != "" {
			max = parseUintOr(after, grammar.Unbounded)
		}
		return min, max, true
	}

	if before != "" {
		n := parseUintOr(before, 0)
		return n, n, true
	}

	p.pos = save
	return 0, 0, false
}

func parseUintOr(text string, fallback uint32) uint32 {
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(n)
}

func (p *parser) parseElement() (*grammar.Element, error) {
	switch {
	case isALPHA(p.peek()):
		name := p.parseRuleName()
		return grammar.Ref(grammar.FoldName(name)), nil

	case p.peek() == '(':
		p.advance()
		p.skipCWSPStar()
		elem, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		p.skipCWSPStar()
		if p.peek() != ')' {
			return nil, errSyntax
		}
		p.advance()
		return elem, nil

	case p.peek() == '[':
		p.advance()
		p.skipCWSPStar()
		elem, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		p.skipCWSPStar()
		if p.peek() != ']' {
			return nil, errSyntax
		}
		p.advance()
		return grammar.Rep(0, 1, elem), nil

	case p.peek() == '"':
		return p.parseCharVal()

	case p.peek() == '%':
		return p.parseNumVal()

	case p.peek() == '<':
		return p.parseProseVal()

	default:
		return nil, errSyntax
	}
}

// parseCharVal parses DQUOTE *(%x20-21 / %x23-7E) DQUOTE. The resulting
// element decomposes a multi-character literal into a Concatenation of
// single-character Literals (a literal's capture tree shows one capture
// per character, not one per literal token), a zero-length literal into
// an empty Concatenation, and a one-character literal into a bare
// Literal.
func (p *parser) parseCharVal() (*grammar.Element, error) {
	p.advance() // opening DQUOTE
	start := p.pos
	for {
		b := p.peek()
		if b == '"' {
			break
		}
		if !(b == 0x20 || b == 0x21 || (b >= 0x23 && b <= 0x7E)) {
			return nil, errSyntax
		}
		p.advance()
	}
	text := p.data[start:p.pos]
	if p.peek() != '"' {
		return nil, errSyntax
	}
	p.advance()

	switch len(text) {
	case 0:
		return grammar.Cat(), nil
	case 1:
		return grammar.Char(text[0], true), nil
	default:
		items := make([]*grammar.Element, len(text))
		for i, b := range text {
			items[i] = grammar.Char(byte(b), true)
		}
		return grammar.Cat(items...), nil
	}
}

func (p *parser) parseProseVal() (*grammar.Element, error) {
	p.advance() // '<'
	start := p.pos
	for {
		b := p.peek()
		if b == '>' {
			break
		}
		if !((b >= 0x20 && b <= 0x3D) || (b >= 0x3F && b <= 0x7E)) {
			return nil, errSyntax
		}
		p.advance()
	}
	text := string(p.data[start:p.pos])
	if p.peek() != '>' {
		return nil, errSyntax
	}
	p.advance()
	return grammar.Prose(text), nil
}

func (p *parser) parseNumVal() (*grammar.Element, error) {
	p.advance() // '%'

	var (
		base  grammar.NumBase
		valid func(byte) bool
		radix int
	)
	switch p.peek() {
	case 'b', 'B':
		base, valid, radix = grammar.BinBase, isBIT, 2
	case 'd', 'D':
		base, valid, radix = grammar.DecBase, isDIGIT, 10
	case 'x', 'X':
		base, valid, radix = grammar.HexBase, isHEXDIG, 16
	default:
		return nil, errSyntax
	}
	markerPos := p.here()
	p.advance()

	first, err := p.parseNumGroup(valid, radix, markerPos)
	if err != nil {
		return nil, err
	}

	switch p.peek() {
	case '.':
		values := []uint32{first}
		for p.peek() == '.' {
			p.advance()
			v, err := p.parseNumGroup(valid, radix, markerPos)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		bytes := make([]byte, len(values))
		for i, v := range values {
			if v > 255 {
				return nil, invalidNumericLiteralError(markerPos, "value out of byte range")
			}
			bytes[i] = byte(v)
		}
		return grammar.Concat(base, bytes), nil

	case '-':
		p.advance()
		hi, err := p.parseNumGroup(valid, radix, markerPos)
		if err != nil {
			return nil, err
		}
		if first > 255 || hi > 255 || first > hi {
			return nil, invalidNumericLiteralError(markerPos, "invalid range")
		}
		return grammar.Range(base, byte(first), byte(hi)), nil

	default:
		if first > 255 {
			return nil, invalidNumericLiteralError(markerPos, "value out of byte range")
		}
		return grammar.Concat(base, []byte{byte(first)}), nil
	}
}

func (p *scanner) parseNumGroup(valid func(byte) bool, radix int, markerPos source.Pos) (uint32, error) {
	text := p.consumeDigits(valid)
	if text == "" {
		return 0, errSyntax
	}
	n, err := strconv.ParseUint(text, radix, 32)
	if err != nil {
		return 0, invalidNumericLiteralError(markerPos, text)
	}
	return uint32(n), nil
}
