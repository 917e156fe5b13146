package reader

import (
	"fmt"
	"strconv"
)

// FormField is a terminal or non-terminal field of the interactive form.
type FormField struct {
	Name     string     // partial name (/T)
	FullName string     // dotted fully qualified name
	Type     string     // Tx, Btn, Ch or Sig; inherited from the parent
	Value    string     // /V
	Flags    int        // /Ff
	Rect     Rectangle  // widget rectangle, zero for pure parents
	States   []string   // appearance states other than Off, for buttons
	Kids     []*FormField
	Ref      Reference
	Page     int // 1-based page of the widget, 0 if unknown
}

// IsRadio reports whether the field is a radio button group.
func (f *FormField) IsRadio() bool {
	return f.Type == "Btn" && f.Flags&(1<<15) != 0
}

// AcroForm returns the catalog's interactive form dictionary, or nil.
func (d *Document) AcroForm() (Dict, error) {
	catalog, err := d.Catalog()
	if err != nil {
		return nil, err
	}
	obj, err := d.resolveIfRef(catalog["AcroForm"])
	if err != nil {
		return nil, fmt.Errorf("reader: resolving /AcroForm: %w", err)
	}
	form, _ := obj.(Dict)
	return form, nil
}

// FormFields returns the top-level fields of the interactive form. A
// document without a form yields an empty slice.
func (d *Document) FormFields() ([]*FormField, error) {
	form, err := d.AcroForm()
	if err != nil {
		return nil, err
	}
	fields := []*FormField{}
	if form == nil {
		return fields, nil
	}
	obj, err := d.resolveIfRef(form["Fields"])
	if err != nil {
		return nil, fmt.Errorf("reader: resolving /Fields: %w", err)
	}
	arr, _ := obj.(Array)

	pageOf := d.widgetPages()
	for _, item := range arr {
		f, err := d.parseFormField(item, nil, pageOf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// FormField returns the field with the given fully qualified name, or nil.
func (d *Document) FormField(name string) (*FormField, error) {
	fields, err := d.FormFields()
	if err != nil {
		return nil, err
	}
	return findField(fields, name), nil
}

func findField(fields []*FormField, name string) *FormField {
	for _, f := range fields {
		if f.FullName == name {
			return f
		}
		if found := findField(f.Kids, name); found != nil {
			return found
		}
	}
	return nil
}

// widgetPages maps annotation object numbers to the page listing them.
func (d *Document) widgetPages() map[int]int {
	pageOf := make(map[int]int)
	for n, page := range d.Pages() {
		obj, err := d.resolveIfRef(page.dict["Annots"])
		if err != nil {
			continue
		}
		arr, _ := obj.(Array)
		for _, item := range arr {
			if ref, ok := item.(Reference); ok {
				pageOf[ref.Number] = n
			}
		}
	}
	return pageOf
}

func (d *Document) parseFormField(obj Object, parent *FormField, pageOf map[int]int) (*FormField, error) {
	ref, _ := obj.(Reference)
	resolved, err := d.resolveIfRef(obj)
	if err != nil {
		return nil, err
	}
	dict, ok := resolved.(Dict)
	if !ok {
		return nil, fmt.Errorf("reader: form field %s is %T", ref, resolved)
	}

	f := &FormField{Name: dict.GetString("T"), Ref: ref, Page: pageOf[ref.Number]}
	f.FullName = f.Name
	if parent != nil {
		f.Type = parent.Type
		f.Flags = parent.Flags
		if f.Name == "" {
			f.FullName = parent.FullName
		} else if parent.FullName != "" {
			f.FullName = parent.FullName + "." + f.Name
		}
	}
	if ft := dict.GetName("FT"); ft != "" {
		f.Type = string(ft)
	}
	if ff, ok := dict.GetInt("Ff"); ok {
		f.Flags = int(ff)
	}
	f.Value = valueString(dict["V"])
	if rect, err := parseRectangle(dict["Rect"]); err == nil {
		f.Rect = rect
	}
	if ap := dict.GetDict("AP"); ap != nil {
		for state := range ap.GetDict("N") {
			if state != "Off" {
				f.States = append(f.States, string(state))
			}
		}
	}

	for _, kid := range dict.GetArray("Kids") {
		k, err := d.parseFormField(kid, f, pageOf)
		if err != nil {
			return nil, err
		}
		f.Kids = append(f.Kids, k)
	}
	return f, nil
}

func valueString(obj Object) string {
	switch v := obj.(type) {
	case String:
		return v.Text()
	case Name:
		return string(v)
	case Integer:
		return strconv.FormatInt(int64(v), 10)
	case Boolean:
		return v.String()
	}
	return ""
}
