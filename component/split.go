package component

import (
	"strings"

	"github.com/lvillar/planpdf"
)

// MinLines is the number of wrapped lines kept together at the start of a
// split paragraph.
const MinLines = 3

// FragmentPadding is the bottom padding of every fragment except the last
// one of a split. Line height alone separates consecutive fragments.
const FragmentPadding = 0.0

// Block is an input paragraph of SplittableText.
type Block struct {
	planpdf.Paragraph
	Splittable bool
}

// Fragment is a paragraph ready to stage. CanStartNewPage marks the points
// where the staged group may be flushed and a page break may fall.
type Fragment struct {
	planpdf.Paragraph
	CanStartNewPage bool
}

// Split breaks every splittable block into a head of up to MinLines wrapped
// lines followed by one fragment per remaining line. The last fragment of a
// split keeps the block's bottom padding. Other blocks pass through whole.
func Split(doc *planpdf.Document, blocks []Block) []Fragment {
	var out []Fragment
	for _, b := range blocks {
		if !b.Splittable || b.Validate() != nil {
			out = append(out, Fragment{Paragraph: b.Paragraph})
			continue
		}

		lines := doc.MeasureWrappedLines(b.Paragraph)
		if len(lines) <= MinLines {
			out = append(out, Fragment{Paragraph: b.Paragraph})
			continue
		}

		head := b.Paragraph
		head.Text = strings.Join(lines[:MinLines], "\n")
		head.BottomPadding = FragmentPadding
		out = append(out, Fragment{Paragraph: head})

		rest := lines[MinLines:]
		for i, line := range rest {
			p := b.Paragraph
			p.Text = line
			p.BottomPadding = FragmentPadding
			if i == len(rest)-1 {
				p.BottomPadding = b.BottomPadding
			}
			out = append(out, Fragment{Paragraph: p, CanStartNewPage: true})
		}
	}
	return out
}

// SplittableText flows blocks across pages, breaking only between the
// fragments produced by Split.
type SplittableText struct {
	doc    *planpdf.Document
	Blocks []Block
}

// NewSplittableText returns a flow of blocks. Non-splittable blocks placed
// before a splittable one stay on the same page as its first lines.
func NewSplittableText(rc *RenderContext, blocks ...Block) *SplittableText {
	return &SplittableText{doc: rc.doc, Blocks: blocks}
}

// Height is the height of all blocks drawn without page breaks.
func (st *SplittableText) Height() float64 {
	var h float64
	for _, b := range st.Blocks {
		h += st.doc.MeasureHeight(b.Paragraph)
	}
	return h
}

// Render flows the fragments. It is also the overflow strategy, since
// flushing already starts new pages where needed.
func (st *SplittableText) Render() {
	var (
		staged []planpdf.Paragraph
		height float64
	)
	flush := func() {
		if len(staged) == 0 {
			return
		}
		if st.doc.WouldOverflow(height) {
			st.doc.NewPage()
			st.doc.ReportOverflow(height)
		}
		for _, p := range staged {
			st.doc.DrawParagraph(p)
		}
		staged, height = staged[:0], 0
	}

	for _, f := range Split(st.doc, st.Blocks) {
		if f.CanStartNewPage {
			flush()
		}
		staged = append(staged, f.Paragraph)
		height += st.doc.MeasureHeight(f.Paragraph)
	}
	flush()
}

func (st *SplittableText) HandleOverflow() {
	st.Render()
}
