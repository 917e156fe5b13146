package reader

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextRun is one string shown by a text operator, with the text position
// set by the preceding Td in points from the bottom-left corner.
type TextRun struct {
	X, Y float64
	Text string
}

// ExtractText returns the page's text, one line per text object.
func (p *Page) ExtractText() (string, error) {
	runs, err := p.TextRuns()
	if err != nil {
		return "", err
	}
	lines := make([]string, len(runs))
	for i, r := range runs {
		lines[i] = r.Text
	}
	return strings.Join(lines, "\n"), nil
}

// TextRuns returns the strings shown on the page in content-stream order.
// Strings are decoded as Windows-1252, the encoding fpdf uses for its core
// fonts; text drawn with embedded TrueType fonts comes back as glyph bytes.
func (p *Page) TextRuns() ([]TextRun, error) {
	data, err := p.ContentStream()
	if err != nil {
		return nil, err
	}
	return scanTextRuns(data), nil
}

// scanTextRuns walks a content stream keeping an operand stack, and records
// a run for every Tj, TJ, ' and " operator.
func scanTextRuns(data []byte) []TextRun {
	var (
		runs     []TextRun
		operands []Object
		x, y     float64
		current  strings.Builder
		inText   bool
	)
	flush := func() {
		if current.Len() > 0 {
			runs = append(runs, TextRun{X: x, Y: y, Text: current.String()})
			current.Reset()
		}
	}

	p := newParser(data)
	for {
		p.skipWhitespace()
		if p.eof() {
			break
		}
		switch b := p.data[p.pos]; {
		case b == '/' || b == '(' || b == '<' || b == '[' || b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
			obj, err := p.ParseObject()
			if err != nil {
				p.pos++
				continue
			}
			operands = append(operands, obj)
			continue
		}

		op := p.readToken()
		if op == "" {
			p.pos++
			continue
		}
		switch op {
		case "BT":
			inText = true
			x, y = 0, 0
		case "ET":
			flush()
			inText = false
		case "Td", "TD":
			if len(operands) >= 2 {
				tx, _ := Number(operands[len(operands)-2])
				ty, _ := Number(operands[len(operands)-1])
				flush()
				x, y = x+tx, y+ty
			}
		case "Tm":
			if len(operands) >= 6 {
				flush()
				x, _ = Number(operands[len(operands)-2])
				y, _ = Number(operands[len(operands)-1])
			}
		case "Tj", "'", "\"", "TJ":
			if inText && len(operands) > 0 {
				current.WriteString(shownText(operands[len(operands)-1]))
			}
		}
		operands = operands[:0]
	}
	flush()
	return runs
}

func shownText(obj Object) string {
	switch v := obj.(type) {
	case String:
		return decodeContentString(v.Value)
	case Array:
		var b strings.Builder
		for _, item := range v {
			if s, ok := item.(String); ok {
				b.WriteString(decodeContentString(s.Value))
			}
		}
		return b.String()
	}
	return ""
}

func decodeContentString(data []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(s)
}

// decodePDFString decodes a text string: UTF-16BE when it starts with a
// byte order mark, otherwise a single-byte encoding.
func decodePDFString(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if s, err := dec.Bytes(data); err == nil {
			return string(s)
		}
	}
	return decodeContentString(data)
}
