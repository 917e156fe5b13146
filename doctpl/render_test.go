package doctpl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lvillar/planpdf"
	"github.com/lvillar/planpdf/reader"
)

func render(t *testing.T, template string) *reader.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, []byte(template), planpdf.WithCompression(false)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	doc, err := reader.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return doc
}

func text(t *testing.T, doc *reader.Document, n int) string {
	t.Helper()
	page, err := doc.Page(n)
	if err != nil {
		t.Fatal(err)
	}
	s, err := page.ExtractText()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderMinimalDocument(t *testing.T) {
	doc := render(t, `{"sections": []}`)
	if doc.NumPages() != 1 {
		t.Errorf("pages = %d, want 1", doc.NumPages())
	}
	if s := text(t, doc, 1); !strings.Contains(s, "Page 1 of 1") {
		t.Errorf("footer missing from %q", s)
	}
}

func TestRenderAllElements(t *testing.T) {
	doc := render(t, `{
		"sections": [{
			"elements": [
				{"type": "text", "paragraphs": [{"text": "Heading", "size": 16, "style": "bold", "padding": 4}]},
				{"type": "bullets", "paragraphs": [{"text": "You chose:"}], "items": ["Weekends", "Holidays"], "item": {"size": 11, "padding": 3}, "trailing": [{"text": "That is all."}]},
				{"type": "spacer", "height": 5},
				{"type": "agree", "question": {"text": "Do you agree?"}},
				{"type": "textbox", "paragraphs": [{"text": "Comments"}]},
				{"type": "pageBreak"},
				{"type": "answer", "paragraphs": [{"text": "Title", "style": "bold"}, {"text": "Answer body", "splittable": true}]}
			]
		}]
	}`)
	if doc.NumPages() != 2 {
		t.Fatalf("pages = %d, want 2", doc.NumPages())
	}
	first := text(t, doc, 1)
	for _, want := range []string{"Heading", "• Weekends", "• Holidays", "That is all.", "Do you agree?", "Comments"} {
		if !strings.Contains(first, want) {
			t.Errorf("page 1 missing %q", want)
		}
	}
	if second := text(t, doc, 2); !strings.Contains(second, "Answer body") {
		t.Errorf("page 2 = %q, want the answer", second)
	}

	fields, err := doc.FormFields()
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 || fields[0].FullName != "question_1" || fields[1].FullName != "textbox_1" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestSectionNewPage(t *testing.T) {
	doc := render(t, `{
		"sections": [
			{"newPage": true, "elements": [{"type": "text", "paragraphs": [{"text": "First"}]}]},
			{"newPage": true, "elements": [{"type": "text", "paragraphs": [{"text": "Second"}]}]},
			{"elements": [{"type": "text", "paragraphs": [{"text": "Third"}]}]}
		]
	}`)
	if doc.NumPages() != 2 {
		t.Fatalf("pages = %d, want 2 (an empty first page is reused)", doc.NumPages())
	}
	if s := text(t, doc, 2); !strings.Contains(s, "Second") || !strings.Contains(s, "Third") {
		t.Errorf("page 2 = %q", s)
	}
}

func TestRenderWelsh(t *testing.T) {
	doc := render(t, `{"lang": "cy", "sections": [{"elements": [{"type": "agree", "question": {"text": "Cytuno?"}}]}]}`)
	s := text(t, doc, 1)
	for _, want := range []string{"Cynnig cynllun rhianta", "Tudalen 1 o 1", "\nIe\n", "\nNa\n"} {
		if !strings.Contains(s, want) {
			t.Errorf("page text %q missing %q", s, want)
		}
	}
}

func TestStringOverrides(t *testing.T) {
	doc := render(t, `{
		"title": "Custom title",
		"strings": {"pdf.footer.page": "%d/%d", "pdf.footer.reminder": "Draft"},
		"sections": []
	}`)
	s := text(t, doc, 1)
	for _, want := range []string{"Custom title", "1/1", "Draft"} {
		if !strings.Contains(s, want) {
			t.Errorf("page text %q missing %q", s, want)
		}
	}
	if got := doc.Metadata()["Title"]; got != "Custom title" {
		t.Errorf("title metadata = %q", got)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     error
	}{
		{"unknown type", `{"sections": [{"elements": [{"type": "table"}]}]}`, ErrUnknownElement},
		{"empty text", `{"sections": [{"elements": [{"type": "text"}]}]}`, ErrMissingContent},
		{"agree without question", `{"sections": [{"elements": [{"type": "agree"}]}]}`, ErrMissingContent},
		{"bad style", `{"sections": [{"elements": [{"type": "text", "paragraphs": [{"text": "x", "style": "italic"}]}]}]}`, planpdf.ErrInvalidParagraph},
		{"negative size", `{"sections": [{"elements": [{"type": "answer", "paragraphs": [{"text": "x", "size": -1}]}]}]}`, planpdf.ErrInvalidParagraph},
		{"negative padding", `{"sections": [{"elements": [{"type": "bullets", "items": ["a"], "trailing": [{"text": "x", "padding": -2}]}]}]}`, planpdf.ErrInvalidParagraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, []byte(tt.template))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), "section 1 element 1") {
				t.Errorf("error %q does not locate the element", err)
			}
			if buf.Len() != 0 {
				t.Error("output written for an invalid template")
			}
		})
	}
}

func TestRenderInvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, []byte(`{"sections": [`)); err == nil {
		t.Fatal("expected a parse error")
	}
	if err := Render(&buf, []byte(`{"lang": "not a tag!", "sections": []}`)); err == nil {
		t.Fatal("expected a language error")
	}
}

func TestBuildLogsOverflow(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	long := strings.Repeat(`{"text": "line"},`, 70)
	template := `{"sections": [{"elements": [{"type": "text", "paragraphs": [` + strings.TrimSuffix(long, ",") + `]}]}]}`

	var buf bytes.Buffer
	if err := Render(&buf, []byte(template), planpdf.WithLogger(zap.New(core))); err != nil {
		t.Fatalf("overflow should not fail the build: %v", err)
	}
	if logs.FilterMessage("creating a document with an overflowing page").Len() != 1 {
		t.Errorf("expected one overflow error, got %v", logs.All())
	}
}
