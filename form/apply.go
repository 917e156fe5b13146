package form

import (
	"fmt"
	"math"

	"github.com/lvillar/planpdf/reader"
)

// Apply returns pdf with the builder's fields appended as an incremental
// update. scale is the number of points per user unit (fpdf's conversion
// ratio). A builder without fields returns pdf unchanged.
func (b *Builder) Apply(pdf []byte, scale float64) ([]byte, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if len(b.items) == 0 {
		return pdf, nil
	}
	if scale <= 0 {
		return nil, fmt.Errorf("form: invalid scale %g", scale)
	}

	doc, err := reader.Parse(pdf)
	if err != nil {
		return nil, fmt.Errorf("form: reading document: %w", err)
	}
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	if _, ok := catalog["AcroForm"]; ok {
		return nil, ErrHasForm
	}
	rootRef, err := doc.RootRef()
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	a := &assembler{doc: doc, u: newUpdate(pdf, doc.Size()), scale: scale, annots: map[int][]reader.Object{}}
	a.helv = a.u.add(reader.Dict{
		"Type": reader.Name("Font"), "Subtype": reader.Name("Type1"),
		"BaseFont": reader.Name("Helvetica"), "Encoding": reader.Name("WinAnsiEncoding"),
	})
	a.zadb = a.u.add(reader.Dict{
		"Type": reader.Name("Font"), "Subtype": reader.Name("Type1"), "BaseFont": reader.Name("ZapfDingbats"),
	})

	fields := reader.Array{}
	for _, item := range b.items {
		var ref reader.Reference
		switch v := item.(type) {
		case *Field:
			ref, err = a.textField(v)
		case *RadioGroup:
			ref, err = a.radioGroup(v)
		}
		if err != nil {
			return nil, err
		}
		fields = append(fields, ref)
	}

	if err := a.rewritePages(); err != nil {
		return nil, err
	}

	newCatalog := reader.Dict{}
	for k, v := range catalog {
		newCatalog[k] = v
	}
	newCatalog["AcroForm"] = reader.Dict{
		"Fields":          fields,
		"NeedAppearances": reader.Boolean(true),
		"DA":              text("/Helv 0 Tf 0 g"),
		"DR": reader.Dict{"Font": reader.Dict{
			"Helv": a.helv,
			"ZaDb": a.zadb,
		}},
	}
	a.u.set(rootRef, newCatalog)

	return a.u.bytes(doc.Trailer(), doc.StartXRef()), nil
}

// assembler turns registered fields into PDF objects for one update.
type assembler struct {
	doc        *reader.Document
	u          *update
	scale      float64
	helv, zadb reader.Reference
	annots     map[int][]reader.Object // page number -> new widget refs
}

// place converts a top-left user-unit box on page n to a PDF rectangle in
// points and returns the page's reference.
func (a *assembler) place(n int, x, y, w, h float64) (reader.Array, reader.Reference, error) {
	page, err := a.doc.Page(n)
	if err != nil {
		return nil, reader.Reference{}, fmt.Errorf("%w: page %d of %d", ErrPageRange, n, a.doc.NumPages())
	}
	mb := page.MediaBox
	llx := mb.LLX + x*a.scale
	ury := mb.URY - y*a.scale
	return rect(round2(llx), round2(ury-h*a.scale), round2(llx+w*a.scale), round2(ury)), page.Ref, nil
}

func (a *assembler) textField(f *Field) (reader.Reference, error) {
	r, pageRef, err := a.place(f.Page, f.X, f.Y, f.W, f.H)
	if err != nil {
		return reader.Reference{}, fmt.Errorf("form: field %q: %w", f.Name, err)
	}
	w, h := f.W*a.scale, f.H*a.scale

	da := "/Helv 0 Tf 0 g"
	if f.FontSize > 0 {
		da = fmt.Sprintf("/Helv %s Tf 0 g", formatReal(f.FontSize))
	}
	ap := a.u.add(formXObject(w, h, []byte("/Tx BMC\nEMC"), a.fontResources()))

	widget := reader.Dict{
		"Type":    reader.Name("Annot"),
		"Subtype": reader.Name("Widget"),
		"FT":      reader.Name("Tx"),
		"T":       text(f.Name),
		"Rect":    r,
		"F":       reader.Integer(4), // print
		"P":       pageRef,
		"DA":      text(da),
		"MK":      reader.Dict{},
		"AP":      reader.Dict{"N": ap},
	}
	if ff := f.flags(); ff != 0 {
		widget["Ff"] = reader.Integer(ff)
	}
	if f.Value != "" {
		widget["V"] = text(f.Value)
	}
	if f.MaxLen > 0 {
		widget["MaxLen"] = reader.Integer(f.MaxLen)
	}

	ref := a.u.add(widget)
	a.annots[f.Page] = append(a.annots[f.Page], ref)
	return ref, nil
}

// Radio flag plus NoToggleToOff: one button is always selected once chosen.
const radioFlags = 1<<15 | 1<<14

func (a *assembler) radioGroup(g *RadioGroup) (reader.Reference, error) {
	parent := a.u.reserve()
	kids := reader.Array{}
	value := reader.Name("Off")

	for _, opt := range g.Options {
		r, pageRef, err := a.place(opt.Page, opt.X, opt.Y, opt.Size, opt.Size)
		if err != nil {
			return reader.Reference{}, fmt.Errorf("form: radio group %q: %w", g.Name, err)
		}
		side := opt.Size * a.scale
		on := a.u.add(formXObject(side, side, g.Appearance.stream(side), a.zadbResources()))
		off := a.u.add(formXObject(side, side, nil, nil))

		state := reader.Name("Off")
		if g.Selected != "" && opt.Value == g.Selected {
			state = reader.Name(opt.Value)
			value = state
		}
		kid := a.u.add(reader.Dict{
			"Type":    reader.Name("Annot"),
			"Subtype": reader.Name("Widget"),
			"Parent":  parent,
			"Rect":    r,
			"F":       reader.Integer(4),
			"P":       pageRef,
			"AS":      state,
			"MK":      reader.Dict{"CA": text(g.Appearance.caption())},
			"DA":      text("/ZaDb 0 Tf 0 g"),
			"AP": reader.Dict{"N": reader.Dict{
				reader.Name(opt.Value): on,
				"Off":                  off,
			}},
		})
		kids = append(kids, kid)
		a.annots[opt.Page] = append(a.annots[opt.Page], kid)
	}

	a.u.set(parent, reader.Dict{
		"FT":   reader.Name("Btn"),
		"Ff":   reader.Integer(radioFlags),
		"T":    text(g.Name),
		"V":    value,
		"Kids": kids,
	})
	return parent, nil
}

// rewritePages writes a new version of every page that gained widgets,
// keeping its existing annotations.
func (a *assembler) rewritePages() error {
	for n, added := range a.annots {
		page, err := a.doc.Page(n)
		if err != nil {
			return fmt.Errorf("form: %w", err)
		}
		annots := reader.Array{}
		switch existing := page.Dict()["Annots"].(type) {
		case reader.Array:
			annots = append(annots, existing...)
		case reader.Reference:
			obj, err := a.doc.Resolve(existing)
			if err != nil {
				return fmt.Errorf("form: page %d annotations: %w", n, err)
			}
			if arr, ok := obj.(reader.Array); ok {
				annots = append(annots, arr...)
			}
		}
		annots = append(annots, added...)

		dict := reader.Dict{}
		for k, v := range page.Dict() {
			dict[k] = v
		}
		dict["Annots"] = annots
		a.u.set(page.Ref, dict)
	}
	return nil
}

func (a *assembler) fontResources() reader.Dict {
	return reader.Dict{"Font": reader.Dict{"Helv": a.helv}}
}

func (a *assembler) zadbResources() reader.Dict {
	return reader.Dict{"Font": reader.Dict{"ZaDb": a.zadb}}
}

func formXObject(w, h float64, content []byte, resources reader.Dict) reader.Stream {
	d := reader.Dict{
		"Type":    reader.Name("XObject"),
		"Subtype": reader.Name("Form"),
		"BBox":    rect(0, 0, round2(w), round2(h)),
	}
	if resources != nil {
		d["Resources"] = resources
	}
	return reader.Stream{Dict: d, Data: content}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
