package planpdf

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)

var linkColor = [3]int{0, 0, 238}

// findURLs returns the URLs in text in order of appearance, without
// trailing sentence punctuation.
func findURLs(text string) []string {
	found := urlPattern.FindAllString(text, -1)
	urls := found[:0]
	for _, u := range found {
		if u = trimURL(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func trimURL(s string) string {
	return strings.TrimRight(s, ".,;:!?)]}'\"")
}

// href turns a detected URL into a link target.
func href(u string) string {
	if strings.HasPrefix(strings.ToLower(u), "www.") {
		return "https://" + u
	}
	return u
}

// matchURL reports which of urls word carries, if any.
func matchURL(word string, urls []string) (string, bool) {
	w := trimURL(strings.TrimLeft(word, "([{'\""))
	for _, u := range urls {
		if w == u {
			return u, true
		}
	}
	return "", false
}

// drawLinkedLines draws wrapped lines word by word from the current
// baseline, adding a link annotation over every word that is one of the
// URLs in p.Text. Words are separated by a single space.
func (d *Document) drawLinkedLines(lines []string, p Paragraph) {
	urls := findURLs(p.Text)
	matched := make(map[string]bool, len(urls))
	lh := d.LineHeight(p.Size)
	space := d.MeasureTextWidth(" ", p.Size, p.Style)

	for i, line := range lines {
		y := d.currentY + float64(i)*lh
		x := d.cfg.leftMargin
		for _, word := range strings.Fields(line) {
			w := d.MeasureTextWidth(word, p.Size, p.Style)
			if u, ok := matchURL(word, urls); ok {
				matched[u] = true
				d.pdf.SetTextColor(linkColor[0], linkColor[1], linkColor[2])
				d.DrawText(word, x, y, p.Size, p.Style)
				d.pdf.SetTextColor(0, 0, 0)
				d.pdf.LinkString(x, y-p.Size*PtToMM, w, lh, href(u))
			} else {
				d.DrawText(word, x, y, p.Size, p.Style)
			}
			x += w + space
		}
	}

	for _, u := range urls {
		if !matched[u] {
			d.log.Error("url not matched to rendered words",
				zap.String("url", u),
				zap.Int("page", d.pdf.PageNo()),
			)
		}
	}
}
