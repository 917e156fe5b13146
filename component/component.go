// Package component composes paragraphs and form fields into units that
// know their own height and how to move to a new page when they do not fit.
//
// Every component is added through AddToDocument (or RenderContext.Add),
// which asks the document whether the component's height would overflow the
// current page and picks between Render and HandleOverflow:
//
//	rc := component.NewRenderContext(doc)
//	rc.Add(component.NewText(rc, planpdf.Paragraph{Text: "Living arrangements", Size: 14, Style: planpdf.Bold, BottomPadding: 3}))
//	rc.Add(component.NewDoYouAgree(rc, planpdf.Paragraph{Text: "Do you agree?", Size: 12}))
//	rc.Add(component.NewTextbox(rc, planpdf.Paragraph{Text: "Tell us why", Size: 12}))
//
// A RenderContext belongs to exactly one document build. It numbers the
// interactive fields (question_1, textbox_1, ...) so names never collide
// within a document and always restart for the next one.
package component

import (
	"fmt"

	"github.com/lvillar/planpdf"
)

// Component is a renderable unit of layout.
type Component interface {
	// Height is the vertical space Render will use. It must not draw or
	// move the cursor, and must return the same value when called again.
	Height() float64
	// Render draws the component at the cursor.
	Render()
	// HandleOverflow is called instead of Render when Height does not fit
	// on the current page.
	HandleOverflow()
}

// AddToDocument renders c in place, or hands it to its overflow strategy
// when it would run into the footer of the current page.
func AddToDocument(doc *planpdf.Document, c Component) {
	if doc.WouldOverflow(c.Height()) {
		c.HandleOverflow()
		return
	}
	c.Render()
}

// newPageThenRender is the default overflow strategy. Content that does not
// fit on an empty page either is logged and drawn anyway.
func newPageThenRender(doc *planpdf.Document, c Component) {
	doc.NewPage()
	doc.ReportOverflow(c.Height())
	c.Render()
}

// RenderContext carries the document and the field counters of one build.
type RenderContext struct {
	doc       *planpdf.Document
	questions int
	textboxes int
}

// NewRenderContext returns a context with both counters at zero.
func NewRenderContext(doc *planpdf.Document) *RenderContext {
	return &RenderContext{doc: doc}
}

// Document returns the document components are drawn on.
func (rc *RenderContext) Document() *planpdf.Document { return rc.doc }

// Add is AddToDocument on the context's document.
func (rc *RenderContext) Add(c Component) {
	AddToDocument(rc.doc, c)
}

func (rc *RenderContext) nextQuestion() string {
	rc.questions++
	return fmt.Sprintf("question_%d", rc.questions)
}

func (rc *RenderContext) nextTextbox() string {
	rc.textboxes++
	return fmt.Sprintf("textbox_%d", rc.textboxes)
}
