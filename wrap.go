package planpdf

import (
	"math"
	"strings"
	"unicode"
)

// wrapText breaks text into lines no wider than limit using a greedy fill.
// Explicit newlines always end a line. Breaks prefer whitespace; a single
// token wider than limit is cut between characters. Whitespace at a soft
// break is dropped.
func wrapText(text string, limit float64, width func(string) float64) []string {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var (
		lines   []string
		line    strings.Builder
		current float64
		soft    bool // the open line started at a soft break
	)
	emit := func(isSoft bool) {
		lines = append(lines, strings.TrimRightFunc(line.String(), unicode.IsSpace))
		line.Reset()
		current = 0
		soft = isSoft
	}
	appendToken := func(token string, w float64) {
		line.WriteString(token)
		current += w
	}

	for _, token := range tokenize(text) {
		if token == "\n" {
			emit(false)
			continue
		}
		space := isBlank(token)
		if space && line.Len() == 0 && soft {
			continue
		}

		w := width(token)
		if current > 0 && current+w > limit {
			emit(true)
			if space {
				continue
			}
		}
		if w <= limit {
			appendToken(token, w)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, width) {
			cw := width(chunk)
			if current > 0 && current+cw > limit {
				emit(true)
			}
			appendToken(chunk, cw)
		}
	}

	emit(false)
	return lines
}

// tokenize splits s into runs of whitespace, runs of non-whitespace and
// single "\n" tokens. Carriage returns are dropped.
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	lastWasSpace := false
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tokens = append(tokens, b.String())
		b.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if b.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func isBlank(token string) bool {
	return strings.TrimFunc(token, unicode.IsSpace) == ""
}

// splitTokenByWidth cuts a token into chunks that each fit limit. A chunk
// holds at least one rune even when that rune alone is wider than limit.
func splitTokenByWidth(token string, limit float64, width func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var chunk []rune
	for _, r := range token {
		chunk = append(chunk, r)
		if len(chunk) > 1 && width(string(chunk)) > limit {
			parts = append(parts, string(chunk[:len(chunk)-1]))
			chunk = []rune{r}
		}
	}
	if len(chunk) > 0 {
		parts = append(parts, string(chunk))
	}
	return parts
}
