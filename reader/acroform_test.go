package reader_test

import (
	"bytes"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/planpdf/form"
	"github.com/lvillar/planpdf/reader"
)

func generateFormPDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(10, 10, "Form test")

	fb := form.NewBuilder()
	fb.AddTextField("name", 1, 40, 5, 80, 10)
	fb.AddTextField("notes", 1, 40, 20, 80, 30).SetMultiLine(true).SetRequired(true)
	fb.CreateOptions("agree",
		form.Option{Value: "Yes", Page: 1, X: 40, Y: 60, Size: 5},
		form.Option{Value: "No", Page: 1, X: 60, Y: 60, Size: 5},
	).FinalizeAppearance(form.AppearanceCross)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	data, err := fb.Apply(buf.Bytes(), pdf.GetConversionRatio())
	if err != nil {
		t.Fatalf("apply form: %v", err)
	}
	return data
}

func TestFormFieldsParsing(t *testing.T) {
	doc, err := reader.ReadFrom(bytes.NewReader(generateFormPDF(t)))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	fields, err := doc.FormFields()
	if err != nil {
		t.Fatalf("FormFields: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}

	want := []struct {
		name, typ string
		radio     bool
	}{
		{"name", "Tx", false},
		{"notes", "Tx", false},
		{"agree", "Btn", true},
	}
	for i, w := range want {
		f := fields[i]
		if f.FullName != w.name || f.Type != w.typ || f.IsRadio() != w.radio {
			t.Errorf("field %d = %s %s radio=%v, want %s %s radio=%v",
				i, f.FullName, f.Type, f.IsRadio(), w.name, w.typ, w.radio)
		}
	}
}

func TestFormFieldFlags(t *testing.T) {
	doc, err := reader.Parse(generateFormPDF(t))
	if err != nil {
		t.Fatal(err)
	}
	notes, err := doc.FormField("notes")
	if err != nil || notes == nil {
		t.Fatalf("notes: %v %v", notes, err)
	}
	if notes.Flags != 1<<12|1<<1 {
		t.Errorf("flags = %d, want multiline|required", notes.Flags)
	}
	if missing, _ := doc.FormField("missing"); missing != nil {
		t.Errorf("unexpected field %+v", missing)
	}
}

func TestIncrementalUpdateChain(t *testing.T) {
	data := generateFormPDF(t)
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Trailer().GetInt("Prev"); !ok {
		t.Error("updated trailer should point at the previous xref section")
	}
	if bytes.Count(data, []byte("%%EOF")) != 2 {
		t.Errorf("expected two revisions, got %d EOF markers", bytes.Count(data, []byte("%%EOF")))
	}
	page, _ := doc.Page(1)
	text, err := page.ExtractText()
	if err != nil {
		t.Fatal(err)
	}
	if text != "Form test" {
		t.Errorf("text = %q", text)
	}
}
