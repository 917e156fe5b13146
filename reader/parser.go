package reader

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// parser is a recursive descent parser over an in-memory byte slice.
type parser struct {
	data []byte
	pos  int
}

func newParser(data []byte) *parser {
	return &parser{data: data}
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

// hasPrefix reports whether the unread input starts with s.
func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.data[p.pos:], []byte(s))
}

// skipWhitespace advances past whitespace and comments.
func (p *parser) skipWhitespace() {
	for !p.eof() {
		switch b := p.data[p.pos]; {
		case isWhitespace(b):
			p.pos++
		case b == '%':
			for !p.eof() && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// readToken reads a run of regular characters: a keyword, operator or number.
func (p *parser) readToken() string {
	p.skipWhitespace()
	start := p.pos
	for !p.eof() && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// ParseObject parses the next direct object or reference.
func (p *parser) ParseObject() (Object, error) {
	p.skipWhitespace()
	if p.eof() {
		return nil, io.ErrUnexpectedEOF
	}

	switch b := p.data[p.pos]; {
	case p.hasPrefix("<<"):
		return p.parseDict()
	case b == '<':
		return p.parseHexString()
	case b == '(':
		return p.parseLiteralString()
	case b == '/':
		return p.parseName()
	case b == '[':
		return p.parseArray()
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return p.parseNumberOrRef()
	}

	start := p.pos
	switch tok := p.readToken(); tok {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "null":
		return Null{}, nil
	default:
		p.pos = start
		return nil, fmt.Errorf("reader: unexpected %q at offset %d", tok, start)
	}
}

func (p *parser) parseName() (Name, error) {
	if p.eof() || p.data[p.pos] != '/' {
		return "", fmt.Errorf("reader: expected name at offset %d", p.pos)
	}
	p.pos++

	var buf bytes.Buffer
	for !p.eof() {
		b := p.data[p.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		if b == '#' && p.pos+2 < len(p.data) {
			hi, lo := unhex(p.data[p.pos+1]), unhex(p.data[p.pos+2])
			if hi >= 0 && lo >= 0 {
				buf.WriteByte(byte(hi<<4 | lo))
				p.pos += 3
				continue
			}
		}
		buf.WriteByte(b)
		p.pos++
	}
	return Name(buf.String()), nil
}

// parseNumberOrRef reads a number and, when it is followed by a generation
// number and R, returns a Reference instead.
func (p *parser) parseNumberOrRef() (Object, error) {
	start := p.pos
	tok := p.readToken()

	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil {
			return nil, fmt.Errorf("reader: invalid number %q at offset %d", tok, start)
		}
		return Real(f), nil
	}

	afterNumber := p.pos
	p.skipWhitespace()
	if !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
		if gen, err := strconv.ParseInt(p.readToken(), 10, 64); err == nil {
			p.skipWhitespace()
			if p.hasPrefix("R") && (p.pos+1 == len(p.data) || !isRegularAt(p.data, p.pos+1)) {
				p.pos++
				return Reference{Number: int(n), Generation: int(gen)}, nil
			}
		}
	}
	p.pos = afterNumber
	return Integer(n), nil
}

func isRegularAt(data []byte, i int) bool {
	return !isWhitespace(data[i]) && !isDelimiter(data[i])
}

func (p *parser) parseLiteralString() (String, error) {
	p.pos++ // (
	var buf bytes.Buffer
	for depth := 1; ; {
		if p.eof() {
			return String{}, fmt.Errorf("reader: unterminated literal string")
		}
		b := p.data[p.pos]
		p.pos++
		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return String{Value: buf.Bytes()}, nil
			}
		case '\\':
			if p.eof() {
				return String{}, fmt.Errorf("reader: unterminated string escape")
			}
			p.unescape(&buf)
			continue
		}
		buf.WriteByte(b)
	}
}

// unescape decodes the escape sequence following a backslash.
func (p *parser) unescape(buf *bytes.Buffer) {
	esc := p.data[p.pos]
	p.pos++
	switch esc {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		// line continuation
		if !p.eof() && p.data[p.pos] == '\n' {
			p.pos++
		}
	case '\n':
	default:
		if esc < '0' || esc > '7' {
			buf.WriteByte(esc)
			return
		}
		v := int(esc - '0')
		for i := 0; i < 2 && !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; i++ {
			v = v*8 + int(p.data[p.pos]-'0')
			p.pos++
		}
		buf.WriteByte(byte(v))
	}
}

func (p *parser) parseHexString() (String, error) {
	p.pos++ // <
	var buf bytes.Buffer
	hi := -1
	for !p.eof() {
		b := p.data[p.pos]
		p.pos++
		if b == '>' {
			if hi >= 0 {
				buf.WriteByte(byte(hi << 4))
			}
			return String{Value: buf.Bytes(), IsHex: true}, nil
		}
		if isWhitespace(b) {
			continue
		}
		v := unhex(b)
		if v < 0 {
			return String{}, fmt.Errorf("reader: invalid hex digit %q", b)
		}
		if hi < 0 {
			hi = v
			continue
		}
		buf.WriteByte(byte(hi<<4 | v))
		hi = -1
	}
	return String{}, fmt.Errorf("reader: unterminated hex string")
}

func (p *parser) parseArray() (Array, error) {
	p.pos++ // [
	arr := Array{}
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, fmt.Errorf("reader: unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("reader: array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

func (p *parser) parseDict() (Dict, error) {
	p.pos += 2 // <<
	d := make(Dict)
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, fmt.Errorf("reader: unterminated dictionary")
		}
		if p.hasPrefix(">>") {
			p.pos += 2
			return d, nil
		}
		key, err := p.parseName()
		if err != nil {
			return nil, fmt.Errorf("reader: dictionary key: %w", err)
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("reader: value of %s: %w", key, err)
		}
		d[key] = val
	}
}

// ParseIndirectObject parses "N G obj <value> [stream ... endstream] endobj".
func (p *parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := strconv.Atoi(p.readToken())
	if err != nil {
		return nil, fmt.Errorf("reader: object number: %w", err)
	}
	gen, err := strconv.Atoi(p.readToken())
	if err != nil {
		return nil, fmt.Errorf("reader: generation number: %w", err)
	}
	if tok := p.readToken(); tok != "obj" {
		return nil, fmt.Errorf("reader: expected obj after %d %d, got %q", num, gen, tok)
	}

	val, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("reader: object %d %d: %w", num, gen, err)
	}

	p.skipWhitespace()
	if p.hasPrefix("stream") {
		dict, ok := val.(Dict)
		if !ok {
			return nil, fmt.Errorf("reader: object %d %d: stream without dictionary", num, gen)
		}
		data, err := p.readStreamBody(dict)
		if err != nil {
			return nil, fmt.Errorf("reader: object %d %d: %w", num, gen, err)
		}
		val = Stream{Dict: dict, Data: data}
	}

	p.skipWhitespace()
	if p.hasPrefix("endobj") {
		p.pos += len("endobj")
	}
	return &IndirectObject{Reference: Reference{Number: num, Generation: gen}, Value: val}, nil
}

// readStreamBody consumes the stream keyword, /Length bytes of data and the
// endstream keyword.
func (p *parser) readStreamBody(dict Dict) ([]byte, error) {
	p.pos += len("stream")
	if p.hasPrefix("\r\n") {
		p.pos += 2
	} else if p.hasPrefix("\n") {
		p.pos++
	}

	length, _ := dict.GetInt("Length")
	if length < 0 || p.pos+int(length) > len(p.data) {
		return nil, fmt.Errorf("stream length %d exceeds the file", length)
	}
	data := bytes.Clone(p.data[p.pos : p.pos+int(length)])
	p.pos += int(length)

	p.skipWhitespace()
	if p.hasPrefix("endstream") {
		p.pos += len("endstream")
	}
	return data, nil
}

func unhex(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}
