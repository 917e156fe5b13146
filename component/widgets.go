package component

import (
	"github.com/lvillar/planpdf"
	"github.com/lvillar/planpdf/form"
	"github.com/lvillar/planpdf/i18n"
)

// Textbox geometry in millimetres.
const (
	TextboxGap     = 3.0  // between the text and the box
	TextboxHeight  = 20.0 // the box itself
	TextboxPadding = 8.0  // below the box
)

// Textbox is a Text followed by a bordered multi-line text field spanning
// the usable width.
type Textbox struct {
	*Text
	name string
}

// NewTextbox reserves the next textbox name from rc.
func NewTextbox(rc *RenderContext, paragraphs ...planpdf.Paragraph) *Textbox {
	return &Textbox{Text: NewText(rc, paragraphs...), name: rc.nextTextbox()}
}

// Name returns the field name, textbox_<n>.
func (tb *Textbox) Name() string { return tb.name }

func (tb *Textbox) Height() float64 {
	return tb.Text.Height() + TextboxGap + TextboxHeight + TextboxPadding
}

func (tb *Textbox) Render() {
	tb.Text.Render()
	doc := tb.doc
	x, y, w := doc.LeftMargin(), doc.CurrentY()+TextboxGap, doc.UsableWidth()
	doc.DrawBorder(x, y, w, TextboxHeight)
	doc.AddTextField(tb.name, x, y, w, TextboxHeight)
	doc.Advance(TextboxGap + TextboxHeight + TextboxPadding)
}

func (tb *Textbox) HandleOverflow() {
	newPageThenRender(tb.doc, tb)
}

// Yes/no widget geometry in millimetres.
const (
	CheckboxSize  = 5.0
	CheckboxGap   = 3.0 // above the boxes
	LabelGap      = 2.0 // between a box and its label
	OptionGap     = 10.0
	AgreePadding  = 5.0 // below the boxes
	labelFontSize = 12.0
)

// Export values of the two radio options.
const (
	ExportYes = "Yes"
	ExportNo  = "No"
)

// DoYouAgree is a question followed by a Yes/No radio group on one line.
type DoYouAgree struct {
	doc      *planpdf.Document
	Question planpdf.Paragraph
	name     string
}

// NewDoYouAgree reserves the next question name from rc.
func NewDoYouAgree(rc *RenderContext, question planpdf.Paragraph) *DoYouAgree {
	return &DoYouAgree{doc: rc.doc, Question: question, name: rc.nextQuestion()}
}

// Name returns the radio group name, question_<n>.
func (q *DoYouAgree) Name() string { return q.name }

func (q *DoYouAgree) Height() float64 {
	return q.doc.MeasureHeight(q.Question) + CheckboxGap + CheckboxSize + AgreePadding
}

// Render draws the question, then each option as a bordered box with its
// label to the right. The group's appearance is set once both options
// exist.
func (q *DoYouAgree) Render() {
	doc := q.doc
	doc.DrawParagraph(q.Question)

	y := doc.CurrentY() + CheckboxGap
	x := doc.LeftMargin()
	choices := []struct{ value, key string }{
		{ExportYes, i18n.KeyYes},
		{ExportNo, i18n.KeyNo},
	}
	options := make([]form.Option, 0, len(choices))
	for _, c := range choices {
		label := doc.Translate(c.key)
		doc.DrawBorder(x, y, CheckboxSize, CheckboxSize)
		options = append(options, doc.RadioOption(c.value, x, y, CheckboxSize))
		doc.DrawText(label, x+CheckboxSize+LabelGap, y+CheckboxSize-0.8, labelFontSize, planpdf.Normal)
		x += CheckboxSize + LabelGap + doc.MeasureTextWidth(label, labelFontSize, planpdf.Normal) + OptionGap
	}
	doc.CreateRadioOptions(q.name, options...).FinalizeAppearance(form.AppearanceCross)
	doc.Advance(CheckboxGap + CheckboxSize + AgreePadding)
}

func (q *DoYouAgree) HandleOverflow() {
	newPageThenRender(q.doc, q)
}
