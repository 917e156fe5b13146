package doctpl

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/lvillar/planpdf"
	"github.com/lvillar/planpdf/component"
	"github.com/lvillar/planpdf/i18n"
)

// Render parses a JSON template and writes the resulting PDF to w.
func Render(w io.Writer, jsonTemplate []byte, opts ...planpdf.Option) error {
	var doc Document
	if err := json.Unmarshal(jsonTemplate, &doc); err != nil {
		return fmt.Errorf("doctpl: parsing template: %w", err)
	}
	return RenderDocument(w, &doc, opts...)
}

// RenderDocument lays out doc and writes the PDF to w. Nothing is written
// when the template is invalid.
func RenderDocument(w io.Writer, doc *Document, opts ...planpdf.Option) error {
	pdf, err := Build(doc, opts...)
	if err != nil {
		return err
	}
	data, err := pdf.ToBytes()
	if err != nil {
		return fmt.Errorf("doctpl: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Build lays out doc and returns the document before serialisation, for
// callers that add content of their own.
func Build(doc *Document, opts ...planpdf.Option) (*planpdf.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	tr, err := doc.translator()
	if err != nil {
		return nil, err
	}

	pdf, err := planpdf.New(doc.AutoPrint, tr, opts...)
	if err != nil {
		return nil, fmt.Errorf("doctpl: %w", err)
	}
	rc := component.NewRenderContext(pdf)
	for _, s := range doc.Sections {
		if s.NewPage && pdf.CurrentY() > planpdf.HeaderHeight {
			pdf.NewPage()
		}
		for _, e := range s.Elements {
			renderElement(rc, e)
		}
	}
	return pdf, nil
}

// translator resolves the template language and applies string overrides.
func (d *Document) translator() (i18n.Translator, error) {
	tag := language.English
	if d.Lang != "" {
		var err error
		if tag, err = language.Parse(d.Lang); err != nil {
			return nil, fmt.Errorf("doctpl: language %q: %w", d.Lang, err)
		}
	}
	catalog := i18n.NewCatalog(tag)
	if d.Title == "" && len(d.Strings) == 0 {
		return catalog, nil
	}

	overrides := make(map[string]string, len(d.Strings)+1)
	for k, v := range d.Strings {
		overrides[k] = v
	}
	if d.Title != "" {
		overrides[i18n.KeyTitle] = d.Title
	}
	return i18n.Func(func(key string, params ...any) string {
		if s, ok := overrides[key]; ok {
			if len(params) > 0 {
				return fmt.Sprintf(s, params...)
			}
			return s
		}
		return catalog.Translate(key, params...)
	}), nil
}

// renderElement adds one validated element to the document.
func renderElement(rc *component.RenderContext, e Element) {
	doc := rc.Document()
	switch e.Type {
	case TypeText:
		paragraphs, _ := convertAll(e.Paragraphs)
		rc.Add(component.NewText(rc, paragraphs...))
	case TypeBullets:
		rc.Add(bulletList(rc, e))
	case TypeTextbox:
		paragraphs, _ := convertAll(e.Paragraphs)
		rc.Add(component.NewTextbox(rc, paragraphs...))
	case TypeAgree:
		question, _ := e.Question.Paragraph()
		rc.Add(component.NewDoYouAgree(rc, question))
	case TypeAnswer:
		blocks := make([]component.Block, len(e.Paragraphs))
		for i, p := range e.Paragraphs {
			blocks[i].Paragraph, _ = p.Paragraph()
			blocks[i].Splittable = p.Splittable
		}
		rc.Add(component.NewSplittableText(rc, blocks...))
	case TypeSpacer:
		doc.Advance(e.Height)
	case TypePageBreak:
		doc.NewPage()
	}
}

func bulletList(rc *component.RenderContext, e Element) *component.BulletList {
	lead, _ := convertAll(e.Paragraphs)
	trailing, _ := convertAll(e.Trailing)
	item := planpdf.Paragraph{Size: DefaultSize}
	if e.Item != nil {
		item, _ = e.Item.Paragraph()
	}
	bullets := component.Bullets{
		Items:         e.Items,
		Size:          item.Size,
		Style:         item.Style,
		BottomPadding: item.BottomPadding,
	}
	return component.NewBulletList(rc, lead, bullets, trailing)
}
