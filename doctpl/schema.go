// Package doctpl renders a parenting-plan proposal described in JSON.
//
// A template is a list of sections, each a list of elements laid out by the
// component package. It stands in for the code that decides what a plan
// says, so whole documents can be produced from a file or a test fixture.
//
// Example JSON:
//
//	{
//	  "lang": "en",
//	  "sections": [{
//	    "elements": [
//	      {"type": "text", "paragraphs": [{"text": "Living arrangements", "size": 16, "style": "bold", "padding": 4}]},
//	      {"type": "agree", "question": {"text": "Do you agree?"}},
//	      {"type": "textbox", "paragraphs": [{"text": "If not, tell us why"}]},
//	      {"type": "answer", "paragraphs": [
//	        {"text": "Other arrangements", "style": "bold"},
//	        {"text": "A long free-text answer...", "splittable": true}
//	      ]}
//	    ]
//	  }]
//	}
package doctpl

import (
	"errors"
	"fmt"

	"github.com/lvillar/planpdf"
)

// DefaultSize is the font size of paragraphs that do not set one.
const DefaultSize = 12.0

// Element types.
const (
	TypeText      = "text"
	TypeBullets   = "bullets"
	TypeTextbox   = "textbox"
	TypeAgree     = "agree"
	TypeAnswer    = "answer"
	TypeSpacer    = "spacer"
	TypePageBreak = "pageBreak"
)

var (
	ErrUnknownElement = errors.New("doctpl: unknown element type")
	ErrMissingContent = errors.New("doctpl: element has no content")
)

// Document is the top-level template.
type Document struct {
	Lang      string            `json:"lang,omitempty"` // BCP 47 tag, "en" (default) or "cy"
	AutoPrint bool              `json:"autoPrint,omitempty"`
	Title     string            `json:"title,omitempty"`   // overrides the header title
	Strings   map[string]string `json:"strings,omitempty"` // overrides by i18n key
	Sections  []Section         `json:"sections"`
}

// Section is a group of elements. NewPage starts it on a fresh page unless
// the current page is still empty.
type Section struct {
	NewPage  bool      `json:"newPage,omitempty"`
	Elements []Element `json:"elements"`
}

// Element is one layout component. Type selects which fields are used.
type Element struct {
	Type string `json:"type"`

	// text, textbox, answer; lead paragraphs of bullets
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`

	// bullets
	Items    []string    `json:"items,omitempty"`
	Item     *Paragraph  `json:"item,omitempty"` // size, style and padding of the items
	Trailing []Paragraph `json:"trailing,omitempty"`

	// agree
	Question *Paragraph `json:"question,omitempty"`

	// spacer
	Height float64 `json:"height,omitempty"`
}

// Paragraph is the JSON form of planpdf.Paragraph.
type Paragraph struct {
	Text       string  `json:"text"`
	Size       float64 `json:"size,omitempty"`  // points, default DefaultSize
	Style      string  `json:"style,omitempty"` // "normal" (default) or "bold"
	Padding    float64 `json:"padding,omitempty"`
	Links      bool    `json:"links,omitempty"`
	Splittable bool    `json:"splittable,omitempty"` // answer elements only
}

// Paragraph converts p, filling in defaults.
func (p Paragraph) Paragraph() (planpdf.Paragraph, error) {
	out := planpdf.Paragraph{
		Text:          p.Text,
		Size:          p.Size,
		BottomPadding: p.Padding,
		Links:         p.Links,
	}
	if out.Size == 0 {
		out.Size = DefaultSize
	}
	switch p.Style {
	case "", "normal":
		out.Style = planpdf.Normal
	case "bold":
		out.Style = planpdf.Bold
	default:
		return out, fmt.Errorf("%w: unknown style %q", planpdf.ErrInvalidParagraph, p.Style)
	}
	return out, out.Validate()
}

func convertAll(ps []Paragraph) ([]planpdf.Paragraph, error) {
	out := make([]planpdf.Paragraph, len(ps))
	for i, p := range ps {
		var err error
		if out[i], err = p.Paragraph(); err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", i+1, err)
		}
	}
	return out, nil
}

// Validate checks every element without rendering anything.
func (d *Document) Validate() error {
	for i, s := range d.Sections {
		for j, e := range s.Elements {
			if err := e.validate(); err != nil {
				return fmt.Errorf("doctpl: section %d element %d: %w", i+1, j+1, err)
			}
		}
	}
	return nil
}

func (e Element) validate() error {
	switch e.Type {
	case TypeText, TypeTextbox, TypeAnswer:
		if len(e.Paragraphs) == 0 {
			return fmt.Errorf("%w: %s needs paragraphs", ErrMissingContent, e.Type)
		}
	case TypeBullets:
		if len(e.Items) == 0 && len(e.Paragraphs) == 0 && len(e.Trailing) == 0 {
			return fmt.Errorf("%w: bullets needs items", ErrMissingContent)
		}
		if e.Item != nil {
			if _, err := e.Item.Paragraph(); err != nil {
				return fmt.Errorf("item: %w", err)
			}
		}
		if _, err := convertAll(e.Trailing); err != nil {
			return fmt.Errorf("trailing %w", err)
		}
	case TypeAgree:
		if e.Question == nil {
			return fmt.Errorf("%w: agree needs a question", ErrMissingContent)
		}
		if _, err := e.Question.Paragraph(); err != nil {
			return fmt.Errorf("question: %w", err)
		}
		return nil
	case TypeSpacer:
		if e.Height < 0 {
			return fmt.Errorf("spacer height %g must not be negative", e.Height)
		}
		return nil
	case TypePageBreak:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownElement, e.Type)
	}
	_, err := convertAll(e.Paragraphs)
	return err
}
