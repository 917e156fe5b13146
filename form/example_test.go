package form_test

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/lvillar/planpdf/form"
	"github.com/lvillar/planpdf/reader"
)

// ExampleBuilder adds a yes/no radio group and a free-text box to a page
// produced by fpdf.
func ExampleBuilder() {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(15, 40, "Do you agree?")
	pdf.Text(21, 49, "Yes")
	pdf.Text(46, 49, "No")
	pdf.Rect(15, 60, 180, 20, "D")

	fb := form.NewBuilder()
	fb.CreateOptions("question_1",
		form.Option{Value: "Yes", Page: 1, X: 15, Y: 45, Size: 5},
		form.Option{Value: "No", Page: 1, X: 40, Y: 45, Size: 5},
	).FinalizeAppearance(form.AppearanceCross)
	fb.AddTextField("textbox_1", 1, 15, 60, 180, 20).SetMultiLine(true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(err)
	}
	data, err := fb.Apply(buf.Bytes(), pdf.GetConversionRatio())
	if err != nil {
		panic(err)
	}

	doc, err := reader.Parse(data)
	if err != nil {
		panic(err)
	}
	fields, _ := doc.FormFields()
	for _, f := range fields {
		fmt.Printf("%s %s kids=%d\n", f.FullName, f.Type, len(f.Kids))
	}
	// Output:
	// question_1 Btn kids=2
	// textbox_1 Tx kids=0
}
