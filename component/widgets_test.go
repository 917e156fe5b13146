package component_test

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/lvillar/planpdf"
	"github.com/lvillar/planpdf/component"
	"github.com/lvillar/planpdf/i18n"
	"github.com/lvillar/planpdf/reader"
)

// nearPt compares coordinates written to the PDF with three decimals.
func nearPt(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func field(t *testing.T, out *reader.Document, name string) *reader.FormField {
	t.Helper()
	f, err := out.FormField(name)
	if err != nil {
		t.Fatal(err)
	}
	if f == nil {
		t.Fatalf("field %s not found", name)
	}
	return f
}

func TestTextbox(t *testing.T) {
	fx := newFixture(t, nil)
	p := planpdf.Paragraph{Text: "Anything else you want to add?", Size: 12, BottomPadding: 2}
	tb := component.NewTextbox(fx.rc, p)
	want := fx.doc.MeasureHeight(p) + component.TextboxGap + component.TextboxHeight + component.TextboxPadding
	if got := tb.Height(); !near(got, want) {
		t.Errorf("height = %g, want %g", got, want)
	}

	fx.rc.Add(tb)
	if got := fx.doc.CurrentY() - planpdf.HeaderHeight; !near(got, want) {
		t.Errorf("cursor advanced %g, want %g", got, want)
	}

	out := fx.output(t)
	f := field(t, out, "textbox_1")
	if f.Type != "Tx" || f.Flags&(1<<12) == 0 {
		t.Errorf("field = %s flags %d, want multi-line text", f.Type, f.Flags)
	}
	k := 72 / 25.4
	if !nearPt(f.Rect.Width(), fx.doc.UsableWidth()*k) || !nearPt(f.Rect.Height(), component.TextboxHeight*k) {
		t.Errorf("rect = %+v", f.Rect)
	}
	top := planpdf.HeaderHeight + fx.doc.MeasureHeight(p) + component.TextboxGap
	if wantURY := (planpdf.PageHeight - top) * k; !nearPt(f.Rect.URY, wantURY) {
		t.Errorf("field top = %g, want %g", f.Rect.URY, wantURY)
	}
}

func TestDoYouAgree(t *testing.T) {
	fx := newFixture(t, nil)
	q := component.NewDoYouAgree(fx.rc, planpdf.Paragraph{Text: "Do you agree with this arrangement?", Size: 12, BottomPadding: 1})
	fx.rc.Add(q)
	if got, want := fx.doc.CurrentY()-planpdf.HeaderHeight, q.Height(); !near(got, want) {
		t.Errorf("cursor advanced %g, want %g", got, want)
	}

	out := fx.output(t)
	g := field(t, out, "question_1")
	if !g.IsRadio() || len(g.Kids) != 2 {
		t.Fatalf("question_1 = %+v, want a radio group with two options", g)
	}
	for i, value := range []string{component.ExportYes, component.ExportNo} {
		if !slices.Equal(g.Kids[i].States, []string{value}) {
			t.Errorf("option %d states = %q, want %s", i, g.Kids[i].States, value)
		}
	}
	yes, no := g.Kids[0].Rect, g.Kids[1].Rect
	if yes.LLY != no.LLY {
		t.Errorf("options not on one line: %g and %g", yes.LLY, no.LLY)
	}
	k := 72 / 25.4
	label := fx.doc.MeasureTextWidth("Yes", 12, planpdf.Normal)
	wantGap := (component.CheckboxSize + component.LabelGap + label + component.OptionGap) * k
	if !nearPt(no.LLX-yes.LLX, wantGap) {
		t.Errorf("option spacing = %g, want %g", no.LLX-yes.LLX, wantGap)
	}
	if !nearPt(yes.LLX, fx.doc.LeftMargin()*k) {
		t.Errorf("first option at %g, want left margin", yes.LLX)
	}

	text := pageText(t, out, 1)
	for _, want := range []string{"Do you agree with this arrangement?", "Yes", "No"} {
		if !strings.Contains(text, want) {
			t.Errorf("page text missing %q", want)
		}
	}
}

func TestDoYouAgreeWelshLabels(t *testing.T) {
	fx := newFixture(t, i18n.NewCatalog(i18n.Welsh))
	fx.rc.Add(component.NewDoYouAgree(fx.rc, planpdf.Paragraph{Text: "Ydych chi'n cytuno?", Size: 12}))
	out := fx.output(t)

	lines := strings.Split(pageText(t, out, 1), "\n")
	for _, want := range []string{"Ie", "Na"} {
		if !slices.Contains(lines, want) {
			t.Errorf("page lines %q missing label %q", lines, want)
		}
	}
	g := field(t, out, "question_1")
	if !slices.Equal(g.Kids[0].States, []string{"Yes"}) || !slices.Equal(g.Kids[1].States, []string{"No"}) {
		t.Error("export values should not be translated")
	}
}

func TestDoYouAgreeNearPageBottom(t *testing.T) {
	fx := newFixture(t, nil)
	q := component.NewDoYouAgree(fx.rc, planpdf.Paragraph{Text: "Do you agree?", Size: 12})
	fx.doc.Advance(capacity - q.Height() + 1)
	if !fx.doc.WouldOverflow(q.Height()) {
		t.Fatal("widget should not fit")
	}

	fx.rc.Add(q)
	if fx.doc.PageCount() != 2 {
		t.Errorf("pages = %d, want 2", fx.doc.PageCount())
	}
	if fx.overflows() != 0 {
		t.Errorf("widget fits an empty page but logged %d errors", fx.overflows())
	}
	g := field(t, fx.output(t), "question_1")
	if g.Kids[0].Page != 2 || g.Kids[1].Page != 2 {
		t.Errorf("options on pages %d and %d, want 2", g.Kids[0].Page, g.Kids[1].Page)
	}
}

func TestDoYouAgreeTooTallForAnyPage(t *testing.T) {
	fx := newFixture(t, nil)
	q := component.NewDoYouAgree(fx.rc, planpdf.Paragraph{Text: lines(60, "why"), Size: 12})
	fx.doc.Advance(100)

	fx.rc.Add(q)
	if fx.doc.PageCount() != 2 {
		t.Errorf("pages = %d, want 2", fx.doc.PageCount())
	}
	if fx.overflows() != 1 {
		t.Errorf("overflow errors = %d, want 1", fx.overflows())
	}
	if _, err := fx.doc.ToBytes(); err != nil {
		t.Errorf("overflowing document should still serialise: %v", err)
	}
}
