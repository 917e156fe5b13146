package component

import (
	"strings"

	"github.com/lvillar/planpdf"
)

// BulletGlyph starts every item of a bullet list.
const BulletGlyph = "• "

// Text draws paragraphs in order.
type Text struct {
	doc        *planpdf.Document
	Paragraphs []planpdf.Paragraph
}

// NewText returns a Text component for paragraphs.
func NewText(rc *RenderContext, paragraphs ...planpdf.Paragraph) *Text {
	return &Text{doc: rc.doc, Paragraphs: paragraphs}
}

// Height sums the measured height of every paragraph.
func (t *Text) Height() float64 {
	var h float64
	for _, p := range t.Paragraphs {
		h += t.doc.MeasureHeight(p)
	}
	return h
}

// Render draws the paragraphs at the cursor.
func (t *Text) Render() {
	for _, p := range t.Paragraphs {
		t.doc.DrawParagraph(p)
	}
}

// HandleOverflow starts a new page and renders there.
func (t *Text) HandleOverflow() {
	newPageThenRender(t.doc, t)
}

// Bullets describes the items of a list and the paragraph style they share.
type Bullets struct {
	Items         []string
	Size          float64
	Style         planpdf.FontVariant
	BottomPadding float64
}

// Paragraph joins the items into one paragraph, one item per line.
func (b Bullets) Paragraph() planpdf.Paragraph {
	var sb strings.Builder
	for i, item := range b.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(BulletGlyph)
		sb.WriteString(item)
	}
	return planpdf.Paragraph{
		Text:          sb.String(),
		Size:          b.Size,
		Style:         b.Style,
		BottomPadding: b.BottomPadding,
	}
}

// BulletList is a Text made of lead paragraphs, the bullet paragraph and
// trailing paragraphs. It measures, renders and overflows like Text.
type BulletList struct {
	*Text
}

// NewBulletList builds a list. An empty item list draws only lead and
// trailing paragraphs.
func NewBulletList(rc *RenderContext, lead []planpdf.Paragraph, bullets Bullets, trailing []planpdf.Paragraph) *BulletList {
	paragraphs := make([]planpdf.Paragraph, 0, len(lead)+1+len(trailing))
	paragraphs = append(paragraphs, lead...)
	if len(bullets.Items) > 0 {
		paragraphs = append(paragraphs, bullets.Paragraph())
	}
	paragraphs = append(paragraphs, trailing...)
	return &BulletList{Text: NewText(rc, paragraphs...)}
}
