package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxLiteralDepth = 100

// LiteralError reports why a text could not be decoded as a data literal
type LiteralError struct {
	Offset int
	Msg    string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("literal: %s at offset %d", e.Msg, e.Offset)
}

// DecodeLiteral parses src as exactly one data literal: a mapping, list,
// tuple or set, a quoted string, an int or float (optionally signed), True,
// False or None. Containers nest. Nothing is ever evaluated: names, calls,
// operators and any other expression syntax are rejected.
//
// Mappings decode to map[string]any and require string keys; sequences and
// sets decode to []any; ints to int64 (float64 beyond int64 range).
func DecodeLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty input")
	}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after literal", p.src[p.pos:p.pos+1])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) eof() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &LiteralError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace consumes whitespace, line continuations and # comments
func (p *literalParser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; c {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case '\\':
			if strings.HasPrefix(p.src[p.pos:], "\\\n") {
				p.pos += 2
			} else if strings.HasPrefix(p.src[p.pos:], "\\\r\n") {
				p.pos += 3
			} else {
				return
			}
		case '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *literalParser) value(depth int) (any, error) {
	if depth > maxLiteralDepth {
		return nil, p.errorf("nesting deeper than %d", maxLiteralDepth)
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '{':
		return p.mappingOrSet(depth)
	case c == '[':
		p.pos++
		return p.sequence(']', depth)
	case c == '(':
		return p.tupleOrGroup(depth)
	case c == '\'' || c == '"':
		return p.stringValue()
	case c == '+' || c == '-':
		return p.signedNumber()
	case isDigit(c) || (c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		return p.number()
	case isNameStart(c):
		if p.stringPrefixLen() > 0 {
			return p.stringValue()
		}
		return p.name()
	default:
		return nil, p.errorf("unexpected %q", string(c))
	}
}

func (p *literalParser) mappingOrSet(depth int) (any, error) {
	p.pos++ // {
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return map[string]any{}, nil
	}

	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ':' {
		return p.finishSequence([]any{first}, '}', depth)
	}

	out := map[string]any{}
	key := first
	for {
		p.pos++ // :
		k, ok := key.(string)
		if !ok {
			return nil, p.errorf("mapping key %v is not a string", key)
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[k] = v

		p.skipSpace()
		switch p.peek() {
		case '}':
			p.pos++
			return out, nil
		case ',':
			p.pos++
		default:
			return nil, p.errorf("expected ',' or '}' in mapping")
		}

		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		if key, err = p.value(depth + 1); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after mapping key")
		}
	}
}

func (p *literalParser) tupleOrGroup(depth int) (any, error) {
	p.pos++ // (
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return []any{}, nil
	}
	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ')' {
		// parenthesized value, not a tuple
		p.pos++
		return first, nil
	}
	return p.finishSequence([]any{first}, ')', depth)
}

func (p *literalParser) sequence(closer byte, depth int) (any, error) {
	p.skipSpace()
	if p.peek() == closer {
		p.pos++
		return []any{}, nil
	}
	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	return p.finishSequence([]any{first}, closer, depth)
}

// finishSequence continues after the first element of a list, tuple or set
func (p *literalParser) finishSequence(items []any, closer byte, depth int) (any, error) {
	for {
		p.skipSpace()
		switch p.peek() {
		case closer:
			p.pos++
			return items, nil
		case ',':
			p.pos++
		default:
			return nil, p.errorf("expected ',' or %q", string(closer))
		}
		p.skipSpace()
		if p.peek() == closer {
			p.pos++
			return items, nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *literalParser) name() (any, error) {
	start := p.pos
	for !p.eof() && isNameChar(p.peek()) {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("name %q is not a literal", word)
	}
}

func (p *literalParser) signedNumber() (any, error) {
	neg := p.peek() == '-'
	p.pos++
	p.skipSpace()
	c := p.peek()
	if !isDigit(c) && !(c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])) {
		return nil, p.errorf("sign must be followed by a number")
	}
	v, err := p.number()
	if err != nil || !neg {
		return v, err
	}
	switch n := v.(type) {
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	}
	return v, nil
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	hex := strings.HasPrefix(strings.ToLower(p.src[p.pos:]), "0x")
	for !p.eof() {
		c := p.peek()
		if isNameChar(c) || c == '.' {
			p.pos++
			continue
		}
		if (c == '+' || c == '-') && !hex && p.pos > start {
			if prev := p.src[p.pos-1]; prev == 'e' || prev == 'E' {
				p.pos++
				continue
			}
		}
		break
	}
	tok := p.src[start:p.pos]
	lower := strings.ToLower(tok)

	fail := func(msg string) (any, error) {
		p.pos = start
		return nil, p.errorf("%s %q", msg, tok)
	}

	if strings.HasSuffix(lower, "j") {
		return fail("complex numbers are not supported:")
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		return p.integer(tok, start)
	}
	if strings.ContainsAny(lower, ".e") {
		digits, ok := stripUnderscores(tok, isDigit)
		if !ok {
			return fail("invalid number")
		}
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil && !isRangeErr(err) {
			return fail("invalid number")
		}
		return f, nil
	}
	if len(tok) > 1 && tok[0] == '0' && strings.Trim(tok, "0_") != "" {
		return fail("leading zeros are not allowed in")
	}
	return p.integer(tok, start)
}

func (p *literalParser) integer(tok string, start int) (any, error) {
	n, err := strconv.ParseInt(tok, 0, 64)
	if err == nil {
		return n, nil
	}
	if isRangeErr(err) {
		digits, _ := stripUnderscores(tok, isHexDigit)
		if f, ferr := strconv.ParseFloat(digits, 64); ferr == nil || isRangeErr(ferr) {
			return f, nil
		}
	}
	p.pos = start
	return nil, p.errorf("invalid number %q", tok)
}

// isRangeErr reports a well-formed number outside float64 or int64 range.
// ParseFloat returns ±Inf alongside it.
func isRangeErr(err error) bool {
	var ne *strconv.NumError
	return errors.As(err, &ne) && ne.Err == strconv.ErrRange
}

// stripUnderscores removes digit separators, which must sit between two digits
func stripUnderscores(tok string, digit func(byte) bool) (string, bool) {
	if !strings.Contains(tok, "_") {
		return tok, true
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '_' {
			b.WriteByte(tok[i])
			continue
		}
		if i == 0 || i == len(tok)-1 || !digit(tok[i-1]) || !digit(tok[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

// stringPrefixLen returns the length of an r/u/b prefix directly followed by a quote
func (p *literalParser) stringPrefixLen() int {
	for n := 1; n <= 2 && p.pos+n < len(p.src); n++ {
		q := p.src[p.pos+n]
		if q != '\'' && q != '"' {
			continue
		}
		switch strings.ToLower(p.src[p.pos : p.pos+n]) {
		case "r", "u", "b", "rb", "br":
			return n
		}
		return 0
	}
	return 0
}

// bytesPrefix reports whether the literal at the cursor has a b prefix
func (p *literalParser) bytesPrefix() bool {
	n := p.stringPrefixLen()
	return n > 0 && strings.ContainsAny(p.src[p.pos:p.pos+n], "bB")
}

// stringValue reads one string literal plus any adjacent ones ('a' 'b' == 'ab')
func (p *literalParser) stringValue() (any, error) {
	var b strings.Builder
	bytesKind := p.bytesPrefix()
	for first := true; ; first = false {
		if !first && p.bytesPrefix() != bytesKind {
			return nil, p.errorf("cannot mix bytes and nonbytes literals")
		}
		if err := p.stringLiteral(&b); err != nil {
			return nil, err
		}
		save := p.pos
		p.skipSpace()
		c := p.peek()
		if c == '\'' || c == '"' || (isNameStart(c) && p.stringPrefixLen() > 0) {
			continue
		}
		p.pos = save
		return b.String(), nil
	}
}

func (p *literalParser) stringLiteral(b *strings.Builder) error {
	raw := false
	if n := p.stringPrefixLen(); n > 0 {
		raw = strings.ContainsAny(p.src[p.pos:p.pos+n], "rR")
		p.pos += n
	}
	start := p.pos
	quote := p.src[p.pos]
	triple := strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(quote), 3))
	if triple {
		p.pos += 3
	} else {
		p.pos++
	}

	for {
		if p.eof() {
			p.pos = start
			return p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			if !triple {
				p.pos++
				return nil
			}
			if strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(quote), 3)) {
				p.pos += 3
				return nil
			}
			b.WriteByte(c)
			p.pos++
		case c == '\n' && !triple:
			p.pos = start
			return p.errorf("unterminated string")
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				p.pos = start
				return p.errorf("unterminated string")
			}
			if raw {
				b.WriteString(p.src[p.pos : p.pos+2])
				p.pos += 2
				continue
			}
			if err := p.escape(b); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *literalParser) escape(b *strings.Builder) error {
	at := p.pos
	p.pos++ // backslash
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		end := p.pos
		for end < len(p.src) && end < p.pos+2 && p.src[end] >= '0' && p.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(p.src[p.pos-1:end], 8, 32)
		b.WriteRune(rune(n))
		p.pos = end
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
		if p.pos+width > len(p.src) {
			p.pos = at
			return p.errorf("truncated \\%c escape", c)
		}
		n, err := strconv.ParseUint(p.src[p.pos:p.pos+width], 16, 32)
		if err != nil || n > utf8.MaxRune {
			p.pos = at
			return p.errorf("invalid \\%c escape", c)
		}
		b.WriteRune(rune(n))
		p.pos += width
	case 'N':
		p.pos = at
		return p.errorf("named unicode escapes are not supported")
	default:
		// unknown escapes are kept verbatim
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) }
