// Package form adds interactive AcroForm fields to PDFs produced with fpdf.
//
// Fields are collected on a Builder while the document is laid out, in the
// document's user units with the origin at the top-left corner of the page.
// Apply then appends them to the serialised PDF as an incremental update, so
// the drawing surface never has to know about forms.
//
// Two kinds of field exist: multi-line text fields and radio button groups.
// Radio groups are built in two phases. CreateOptions places the buttons and
// returns an UnstyledRadioGroup whose only method, FinalizeAppearance, picks
// the checked appearance and registers the group:
//
//	fb := form.NewBuilder()
//	fb.CreateOptions("question_1",
//		form.Option{Value: "Yes", Page: 1, X: 15, Y: 120, Size: 5},
//		form.Option{Value: "No", Page: 1, X: 40, Y: 120, Size: 5},
//	).FinalizeAppearance(form.AppearanceCross)
package form

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName = errors.New("form: duplicate field name")
	ErrEmptyName     = errors.New("form: field name is empty")
	ErrNoOptions     = errors.New("form: radio group needs at least two options")
	ErrPageRange     = errors.New("form: field page out of range")
	ErrHasForm       = errors.New("form: document already has an interactive form")
)

// Appearance is the mark drawn inside a selected radio button.
type Appearance int

const (
	AppearanceCross Appearance = iota
	AppearanceCheck
	AppearanceCircle
)

func (a Appearance) String() string {
	switch a {
	case AppearanceCross:
		return "cross"
	case AppearanceCheck:
		return "check"
	case AppearanceCircle:
		return "circle"
	}
	return fmt.Sprintf("Appearance(%d)", int(a))
}

// caption is the ZapfDingbats character viewers use when they regenerate the
// appearance themselves.
func (a Appearance) caption() string {
	switch a {
	case AppearanceCheck:
		return "4"
	case AppearanceCircle:
		return "l"
	}
	return "8"
}

// Field is a text input field.
type Field struct {
	Name      string
	Page      int     // 1-based
	X, Y      float64 // top-left corner in user units
	W, H      float64
	Value     string
	FontSize  float64 // points; 0 lets the viewer auto-size
	MaxLen    int     // 0 = unlimited
	MultiLine bool
	Required  bool
	ReadOnly  bool
}

// SetValue sets the initial text.
func (f *Field) SetValue(v string) *Field {
	f.Value = v
	return f
}

// SetFontSize sets the size of the text typed into the field.
func (f *Field) SetFontSize(size float64) *Field {
	f.FontSize = size
	return f
}

// SetMaxLen limits the number of characters accepted.
func (f *Field) SetMaxLen(n int) *Field {
	f.MaxLen = n
	return f
}

// SetMultiLine allows line breaks in the field.
func (f *Field) SetMultiLine(multiLine bool) *Field {
	f.MultiLine = multiLine
	return f
}

// SetRequired marks the field as required.
func (f *Field) SetRequired(required bool) *Field {
	f.Required = required
	return f
}

// SetReadOnly marks the field as read-only.
func (f *Field) SetReadOnly(readOnly bool) *Field {
	f.ReadOnly = readOnly
	return f
}

// flags returns the /Ff bits for the field.
func (f *Field) flags() int {
	var ff int
	if f.ReadOnly {
		ff |= 1
	}
	if f.Required {
		ff |= 1 << 1
	}
	if f.MultiLine {
		ff |= 1 << 12
	}
	return ff
}

// Option is one button of a radio group. Value is the export value written
// to the form data when the button is selected.
type Option struct {
	Value string
	Page  int
	X, Y  float64 // top-left corner in user units
	Size  float64 // side of the square button
}

// RadioGroup is a registered set of mutually exclusive buttons.
type RadioGroup struct {
	Name       string
	Options    []Option
	Appearance Appearance
	Selected   string // export value of the initially selected option, or ""
}

// Select marks the option with the given export value as initially selected.
func (g *RadioGroup) Select(value string) *RadioGroup {
	g.Selected = value
	return g
}

// UnstyledRadioGroup holds placed options that have no appearance yet. It is
// not part of the form until FinalizeAppearance is called.
type UnstyledRadioGroup struct {
	b       *Builder
	name    string
	options []Option
	group   *RadioGroup
}

// FinalizeAppearance sets the checked appearance and registers the group
// with the builder. Calling it again returns the already registered group.
func (u *UnstyledRadioGroup) FinalizeAppearance(a Appearance) *RadioGroup {
	if u.group != nil {
		return u.group
	}
	u.group = &RadioGroup{Name: u.name, Options: u.options, Appearance: a}
	u.b.register(u.name, u.group)
	return u.group
}

// Builder collects the fields of one document.
type Builder struct {
	items []any // *Field or *RadioGroup, in registration order
	names map[string]bool
	errs  []error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]bool)}
}

// AddTextField adds a text field at (x, y) on page, w wide and h high.
func (b *Builder) AddTextField(name string, page int, x, y, w, h float64) *Field {
	f := &Field{Name: name, Page: page, X: x, Y: y, W: w, H: h}
	b.register(name, f)
	return f
}

// CreateOptions places the buttons of a radio group. The group is added to
// the form once FinalizeAppearance is called on the result.
func (b *Builder) CreateOptions(name string, options ...Option) *UnstyledRadioGroup {
	return &UnstyledRadioGroup{b: b, name: name, options: append([]Option(nil), options...)}
}

func (b *Builder) register(name string, item any) {
	switch {
	case name == "":
		b.errs = append(b.errs, ErrEmptyName)
		return
	case b.names[name]:
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateName, name))
		return
	}
	if g, ok := item.(*RadioGroup); ok && len(g.Options) < 2 {
		b.errs = append(b.errs, fmt.Errorf("%w: %q has %d", ErrNoOptions, name, len(g.Options)))
		return
	}
	b.names[name] = true
	b.items = append(b.items, item)
}

// Len returns the number of registered fields and radio groups.
func (b *Builder) Len() int { return len(b.items) }

// Err returns the registration errors collected so far, joined.
func (b *Builder) Err() error { return errors.Join(b.errs...) }

// TextFields returns the registered text fields in order.
func (b *Builder) TextFields() []*Field {
	var out []*Field
	for _, item := range b.items {
		if f, ok := item.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// RadioGroups returns the registered radio groups in order.
func (b *Builder) RadioGroups() []*RadioGroup {
	var out []*RadioGroup
	for _, item := range b.items {
		if g, ok := item.(*RadioGroup); ok {
			out = append(out, g)
		}
	}
	return out
}
