package form_test

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/planpdf/form"
	"github.com/lvillar/planpdf/reader"
)

// newPDF returns an A4 document in millimetres with the given number of pages.
func newPDF(pages int) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(15, 20, "Question")
	}
	return pdf
}

func output(t *testing.T, pdf *fpdf.Fpdf) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	return buf.Bytes()
}

func apply(t *testing.T, fb *form.Builder, pdf *fpdf.Fpdf) *reader.Document {
	t.Helper()
	data, err := fb.Apply(output(t, pdf), pdf.GetConversionRatio())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatalf("reading updated PDF: %v", err)
	}
	return doc
}

func near(a, b float64) bool { return math.Abs(a-b) < 0.05 }

func TestTextField(t *testing.T) {
	pdf := newPDF(1)
	fb := form.NewBuilder()
	fb.AddTextField("textbox_1", 1, 15, 40, 180, 20).SetMultiLine(true).SetFontSize(10)

	doc := apply(t, fb, pdf)
	if doc.NumPages() != 1 {
		t.Fatalf("pages = %d, want 1", doc.NumPages())
	}
	f, err := doc.FormField("textbox_1")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil {
		t.Fatal("textbox_1 not found")
	}
	if f.Type != "Tx" {
		t.Errorf("type = %q, want Tx", f.Type)
	}
	if f.Flags&(1<<12) == 0 {
		t.Errorf("flags = %d, want multiline bit", f.Flags)
	}
	if f.Page != 1 {
		t.Errorf("page = %d, want 1", f.Page)
	}

	k := pdf.GetConversionRatio()
	want := reader.Rectangle{LLX: 15 * k, LLY: 841.89 - 60*k, URX: 195 * k, URY: 841.89 - 40*k}
	if !near(f.Rect.LLX, want.LLX) || !near(f.Rect.LLY, want.LLY) || !near(f.Rect.URX, want.URX) || !near(f.Rect.URY, want.URY) {
		t.Errorf("rect = %+v, want %+v", f.Rect, want)
	}

	acro, err := doc.AcroForm()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := acro["NeedAppearances"].(reader.Boolean); !ok || !bool(v) {
		t.Errorf("NeedAppearances = %v", acro["NeedAppearances"])
	}
}

func TestRadioGroup(t *testing.T) {
	pdf := newPDF(2)
	fb := form.NewBuilder()
	fb.CreateOptions("question_1",
		form.Option{Value: "Yes", Page: 2, X: 15, Y: 100, Size: 5},
		form.Option{Value: "No", Page: 2, X: 40, Y: 100, Size: 5},
	).FinalizeAppearance(form.AppearanceCross)

	doc := apply(t, fb, pdf)
	fields, err := doc.FormFields()
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 {
		t.Fatalf("got %d top-level fields, want 1", len(fields))
	}
	g := fields[0]
	if g.FullName != "question_1" || !g.IsRadio() {
		t.Fatalf("field = %+v, want radio group question_1", g)
	}
	if g.Value != "Off" {
		t.Errorf("value = %q, want Off", g.Value)
	}
	if len(g.Kids) != 2 {
		t.Fatalf("kids = %d, want 2", len(g.Kids))
	}
	for i, want := range []string{"Yes", "No"} {
		kid := g.Kids[i]
		if !slices.Equal(kid.States, []string{want}) {
			t.Errorf("kid %d states = %q, want [%s]", i, kid.States, want)
		}
		if kid.Page != 2 {
			t.Errorf("kid %d page = %d, want 2", i, kid.Page)
		}
		if !near(kid.Rect.Width(), 5*pdf.GetConversionRatio()) {
			t.Errorf("kid %d width = %g", i, kid.Rect.Width())
		}
	}
	if g.Kids[0].Rect.LLX >= g.Kids[1].Rect.LLX {
		t.Error("options should be laid out left to right")
	}

	page1, _ := doc.Page(1)
	if annots, _ := page1.Annotations(); len(annots) != 0 {
		t.Errorf("page 1 has %d annotations, want 0", len(annots))
	}
}

func TestRadioGroupSelected(t *testing.T) {
	pdf := newPDF(1)
	fb := form.NewBuilder()
	fb.CreateOptions("question_1",
		form.Option{Value: "Yes", Page: 1, X: 15, Y: 100, Size: 5},
		form.Option{Value: "No", Page: 1, X: 40, Y: 100, Size: 5},
	).FinalizeAppearance(form.AppearanceCheck).Select("No")

	doc := apply(t, fb, pdf)
	f, _ := doc.FormField("question_1")
	if f == nil || f.Value != "No" {
		t.Fatalf("field = %+v, want value No", f)
	}
}

func TestFinalizeAppearanceTwice(t *testing.T) {
	fb := form.NewBuilder()
	u := fb.CreateOptions("question_1",
		form.Option{Value: "Yes", Page: 1, X: 15, Y: 100, Size: 5},
		form.Option{Value: "No", Page: 1, X: 40, Y: 100, Size: 5},
	)
	if fb.Len() != 0 {
		t.Fatalf("options registered before FinalizeAppearance: len = %d", fb.Len())
	}
	g1 := u.FinalizeAppearance(form.AppearanceCross)
	g2 := u.FinalizeAppearance(form.AppearanceCircle)
	if g1 != g2 {
		t.Error("second FinalizeAppearance returned a different group")
	}
	if g1.Appearance != form.AppearanceCross {
		t.Errorf("appearance = %v, want cross", g1.Appearance)
	}
	if fb.Len() != 1 || fb.Err() != nil {
		t.Errorf("len = %d err = %v, want 1 and nil", fb.Len(), fb.Err())
	}
}

func TestUnfinalizedOptionsAreIgnored(t *testing.T) {
	pdf := newPDF(1)
	data := output(t, pdf)

	fb := form.NewBuilder()
	fb.CreateOptions("question_1",
		form.Option{Value: "Yes", Page: 1, X: 15, Y: 100, Size: 5},
		form.Option{Value: "No", Page: 1, X: 40, Y: 100, Size: 5},
	)
	out, err := fb.Apply(data, pdf.GetConversionRatio())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Error("a builder without fields should not change the document")
	}
}

func TestRegistrationErrors(t *testing.T) {
	fb := form.NewBuilder()
	fb.AddTextField("a", 1, 0, 0, 10, 10)
	fb.AddTextField("a", 1, 0, 20, 10, 10)
	fb.AddTextField("", 1, 0, 40, 10, 10)
	fb.CreateOptions("lonely", form.Option{Value: "Yes", Page: 1, Size: 5}).FinalizeAppearance(form.AppearanceCross)

	err := fb.Err()
	for _, want := range []error{form.ErrDuplicateName, form.ErrEmptyName, form.ErrNoOptions} {
		if !errors.Is(err, want) {
			t.Errorf("Err() = %v, want it to wrap %v", err, want)
		}
	}
	if fb.Len() != 1 {
		t.Errorf("len = %d, want 1", fb.Len())
	}

	pdf := newPDF(1)
	if _, err := fb.Apply(output(t, pdf), pdf.GetConversionRatio()); err == nil {
		t.Error("Apply should refuse a builder with registration errors")
	}
}

func TestPageOutOfRange(t *testing.T) {
	pdf := newPDF(1)
	fb := form.NewBuilder()
	fb.AddTextField("late", 3, 15, 40, 100, 20)
	_, err := fb.Apply(output(t, pdf), pdf.GetConversionRatio())
	if !errors.Is(err, form.ErrPageRange) {
		t.Errorf("err = %v, want ErrPageRange", err)
	}
}

func TestExistingAnnotationsKept(t *testing.T) {
	pdf := newPDF(1)
	pdf.LinkString(15, 15, 40, 6, "https://example.org")
	fb := form.NewBuilder()
	fb.AddTextField("textbox_1", 1, 15, 40, 180, 20)

	doc := apply(t, fb, pdf)
	page, _ := doc.Page(1)
	annots, err := page.Annotations()
	if err != nil {
		t.Fatal(err)
	}
	if len(annots) != 2 {
		t.Fatalf("annotations = %d, want link + widget", len(annots))
	}
	links, _ := page.Links()
	if !slices.Equal(links, []string{"https://example.org"}) {
		t.Errorf("links = %q", links)
	}
	text, _ := page.ExtractText()
	if text != "Question" {
		t.Errorf("page text = %q after update", text)
	}
}

func TestApplyTwice(t *testing.T) {
	pdf := newPDF(1)
	fb := form.NewBuilder()
	fb.AddTextField("textbox_1", 1, 15, 40, 180, 20)
	data, err := fb.Apply(output(t, pdf), pdf.GetConversionRatio())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fb.Apply(data, pdf.GetConversionRatio()); !errors.Is(err, form.ErrHasForm) {
		t.Errorf("err = %v, want ErrHasForm", err)
	}
}

func TestNonASCIIName(t *testing.T) {
	pdf := newPDF(1)
	fb := form.NewBuilder()
	fb.AddTextField("blwch_ŵ", 1, 15, 40, 180, 20).SetValue("Ydw, rwy'n cytuno")

	doc := apply(t, fb, pdf)
	f, _ := doc.FormField("blwch_ŵ")
	if f == nil {
		t.Fatal("field with non-ASCII name not found")
	}
	if f.Value != "Ydw, rwy'n cytuno" {
		t.Errorf("value = %q", f.Value)
	}
}
