// Package planpdf lays out and paginates a parenting-plan proposal as a PDF.
//
// A Document owns a vertical cursor on the current page. Callers measure
// content with MeasureHeight, ask WouldOverflow before drawing, and start a
// new page with NewPage when it does not fit. Every page carries a header
// band with the crest and the document title; StampFootersOnAllPages adds
// "page X of N" footers once the page count is final.
//
// The package only knows about paragraphs. Lists, free-text boxes and yes/no
// questions are built from paragraphs and form fields by the component
// package.
package planpdf

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/lvillar/planpdf/form"
	"github.com/lvillar/planpdf/i18n"
)

// Page geometry in millimetres. Pages are A4 portrait.
const (
	PageWidth     = 210.0
	PageHeight    = 297.0
	DefaultMargin = 15.0
	HeaderHeight  = 30.0 // cursor position at the top of every page
	FooterHeight  = 20.0 // reserved at the bottom of every page

	// LineHeightRatio scales a font size to its line height.
	LineHeightRatio = 1.15
	// PtToMM converts typographic points to millimetres.
	PtToMM = 25.4 / 72
)

const (
	coreFamily = "Helvetica"
	utf8Family = "PlanSans"
	logoName   = "crest"
	fieldFont  = 10.0 // points, text typed into form fields
)

// Document is the layout controller for one build. It is not safe for
// concurrent use; each build creates its own.
type Document struct {
	pdf     *fpdf.Fpdf
	metrics *fpdf.Fpdf // page-less twin of pdf used only for measuring
	encode  func(string) string
	family  string
	strings i18n.Translator
	log     *zap.Logger
	forms   *form.Builder
	cfg     *documentConfig

	currentY float64
	stamped  bool
	out      []byte
}

// New creates a document with its first page already started. autoPrint
// makes viewers open the print dialog when the file is opened. strings
// supplies the title, footer and yes/no labels; nil selects the built-in
// English catalog.
func New(autoPrint bool, strings i18n.Translator, opts ...Option) (*Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.buildID == "" {
		cfg.buildID = uuid.NewString()
	}
	if strings == nil {
		strings = i18n.NewCatalog(language.English)
	}
	if cfg.leftMargin < 0 || cfg.rightMargin < 0 || cfg.leftMargin+cfg.rightMargin >= PageWidth {
		return nil, newError("New", fmt.Errorf("%w: margins %g and %g leave no usable width", ErrSurface, cfg.leftMargin, cfg.rightMargin))
	}

	d := &Document{
		strings: strings,
		log:     cfg.logger.With(zap.String("build", cfg.buildID)),
		forms:   form.NewBuilder(),
		cfg:     cfg,
	}
	d.pdf = d.newSurface()
	d.metrics = d.newSurface()

	if err := d.loadFonts(); err != nil {
		return nil, newError("New", err)
	}
	if err := d.loadLogo(); err != nil {
		return nil, newError("New", err)
	}

	title := d.Translate(i18n.KeyTitle)
	d.pdf.SetTitle(title, true)
	d.pdf.SetCreator("planpdf", false)
	if autoPrint {
		d.pdf.SetJavascript("print(true);")
	}
	d.pdf.SetHeaderFunc(d.drawHeader)

	d.NewPage()
	if err := d.pdf.Error(); err != nil {
		return nil, newError("New", fmt.Errorf("%w: %v", ErrSurface, err))
	}
	d.log.Debug("document created", zap.Bool("autoPrint", autoPrint))
	return d, nil
}

func (d *Document) newSurface() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(d.cfg.leftMargin, HeaderHeight, d.cfg.rightMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(d.cfg.compress)
	if !d.cfg.created.IsZero() {
		pdf.SetCreationDate(d.cfg.created)
		pdf.SetModificationDate(d.cfg.created)
	}
	return pdf
}

// loadFonts installs the configured TrueType fonts on both surfaces, or
// selects the core Helvetica fonts with Windows-1252 encoding.
func (d *Document) loadFonts() error {
	regular, bold := d.cfg.regularFont, d.cfg.boldFont
	if regular == nil && bold == nil {
		d.family = coreFamily
		d.encode = d.pdf.UnicodeTranslatorFromDescriptor("")
		if err := d.pdf.Error(); err != nil {
			return fmt.Errorf("%w: %v", ErrFont, err)
		}
		return nil
	}
	if len(regular) == 0 || len(bold) == 0 {
		return fmt.Errorf("%w: both regular and bold fonts are required", ErrFont)
	}

	d.family = utf8Family
	d.encode = func(s string) string { return s }
	for _, pdf := range []*fpdf.Fpdf{d.pdf, d.metrics} {
		if err := addUTF8Fonts(pdf, regular, bold); err != nil {
			return err
		}
	}
	return nil
}

// addUTF8Fonts registers both variants and selects each once, which is when
// fpdf parses the font program.
func addUTF8Fonts(pdf *fpdf.Fpdf, regular, bold []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFont, r)
		}
	}()
	pdf.AddUTF8FontFromBytes(utf8Family, "", regular)
	pdf.AddUTF8FontFromBytes(utf8Family, "B", bold)
	pdf.SetFont(utf8Family, "B", 12)
	pdf.SetFont(utf8Family, "", 12)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrFont, err)
	}
	return nil
}

func (d *Document) loadLogo() error {
	logo := d.cfg.logo
	if logo == nil {
		var err error
		if logo, err = crestPNG(); err != nil {
			return fmt.Errorf("%w: %v", ErrLogo, err)
		}
	}
	d.pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(logo))
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrLogo, err)
	}
	return nil
}

// CurrentY returns the cursor position in millimetres from the top of the
// current page.
func (d *Document) CurrentY() float64 { return d.currentY }

// PageCount returns the number of pages created so far.
func (d *Document) PageCount() int { return d.pdf.PageCount() }

// PageNo returns the 1-based number of the page being drawn on.
func (d *Document) PageNo() int { return d.pdf.PageNo() }

// LeftMargin returns the x coordinate where paragraphs start.
func (d *Document) LeftMargin() float64 { return d.cfg.leftMargin }

// UsableWidth returns the width paragraphs are wrapped to.
func (d *Document) UsableWidth() float64 {
	return PageWidth - d.cfg.leftMargin - d.cfg.rightMargin
}

// LineHeight returns the height of one line of text at size points.
func (d *Document) LineHeight(size float64) float64 {
	return size * LineHeightRatio * PtToMM
}

// Logger returns the build's logger.
func (d *Document) Logger() *zap.Logger { return d.log }

// Translate looks key up in the document's strings.
func (d *Document) Translate(key string, params ...any) string {
	return d.strings.Translate(key, params...)
}

// WouldOverflow reports whether content height millimetres tall, placed at
// the cursor, would run into the footer area.
func (d *Document) WouldOverflow(height float64) bool {
	return height+d.currentY > PageHeight-FooterHeight
}

// ReportOverflow logs an error when height still does not fit at the
// cursor, typically right after NewPage. Drawing continues regardless.
func (d *Document) ReportOverflow(height float64) bool {
	if !d.WouldOverflow(height) {
		return false
	}
	d.log.Error("creating a document with an overflowing page",
		zap.Int("page", d.pdf.PageNo()),
		zap.Float64("height", height),
		zap.Float64("available", PageHeight-FooterHeight-d.currentY),
	)
	return true
}

// NewPage starts a page, draws its header and moves the cursor below it.
func (d *Document) NewPage() {
	if d.stamped {
		d.log.Error("page added after footers were stamped", zap.Int("page", d.pdf.PageCount()+1))
	}
	d.pdf.AddPage()
	d.currentY = HeaderHeight
}

// Advance moves the cursor down by dy millimetres.
func (d *Document) Advance(dy float64) {
	d.currentY += dy
}

// DrawBorder outlines a rectangle whose top-left corner is (x, y).
func (d *Document) DrawBorder(x, y, width, height float64) {
	d.pdf.SetLineWidth(0.3)
	d.pdf.Rect(x, y, width, height, "D")
}

// MeasureTextWidth returns the width of text set at size points.
func (d *Document) MeasureTextWidth(text string, size float64, style FontVariant) float64 {
	d.metrics.SetFont(d.family, style.fpdfStyle(), size)
	return d.metrics.GetStringWidth(d.encode(text))
}

// MeasureWrappedLines returns p's text broken into lines that fit the usable
// width. Measuring never draws or moves the cursor.
func (d *Document) MeasureWrappedLines(p Paragraph) []string {
	d.metrics.SetFont(d.family, p.Style.fpdfStyle(), p.Size)
	return wrapText(p.Text, d.UsableWidth(), func(s string) float64 {
		return d.metrics.GetStringWidth(d.encode(s))
	})
}

// MeasureHeight returns the vertical space DrawParagraph will use for p,
// including its bottom padding. Invalid paragraphs measure 0.
func (d *Document) MeasureHeight(p Paragraph) float64 {
	if p.Validate() != nil {
		return 0
	}
	lines := len(d.MeasureWrappedLines(p))
	return d.LineHeight(p.Size)*float64(lines) + p.BottomPadding
}

// DrawText draws a single line with its baseline at y.
func (d *Document) DrawText(text string, x, y, size float64, style FontVariant) {
	d.pdf.SetFont(d.family, style.fpdfStyle(), size)
	d.pdf.Text(x, y, d.encode(text))
}

// DrawParagraph draws p at the cursor and advances past it. The first
// baseline sits one line height below the cursor.
func (d *Document) DrawParagraph(p Paragraph) {
	if err := p.Validate(); err != nil {
		d.log.Error("skipping paragraph", zap.Error(err))
		return
	}
	lines := d.MeasureWrappedLines(p)
	lh := d.LineHeight(p.Size)

	d.currentY += lh
	if p.Links {
		d.drawLinkedLines(lines, p)
	} else {
		for i, line := range lines {
			d.DrawText(line, d.cfg.leftMargin, d.currentY+float64(i)*lh, p.Size, p.Style)
		}
	}
	d.currentY += float64(len(lines)-1)*lh + p.BottomPadding
}

// AddTextField registers a multi-line text field on the current page.
func (d *Document) AddTextField(name string, x, y, width, height float64) *form.Field {
	return d.forms.AddTextField(name, d.pdf.PageNo(), x, y, width, height).
		SetMultiLine(true).
		SetFontSize(fieldFont)
}

// RadioOption places one radio button, size millimetres square, on the
// current page.
func (d *Document) RadioOption(value string, x, y, size float64) form.Option {
	return form.Option{Value: value, Page: d.pdf.PageNo(), X: x, Y: y, Size: size}
}

// CreateRadioOptions starts a radio group from placed options. The group is
// part of the document once FinalizeAppearance is called on the result.
func (d *Document) CreateRadioOptions(name string, options ...form.Option) *form.UnstyledRadioGroup {
	return d.forms.CreateOptions(name, options...)
}

// ToBytes serialises the document. Footers are stamped first if that has
// not happened yet. The result is cached; later calls return the same bytes.
func (d *Document) ToBytes() ([]byte, error) {
	if d.out != nil {
		return d.out, nil
	}
	if !d.stamped {
		d.StampFootersOnAllPages()
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, newError("ToBytes", fmt.Errorf("%w: %v", ErrSurface, err))
	}
	out, err := d.forms.Apply(buf.Bytes(), d.pdf.GetConversionRatio())
	if err != nil {
		return nil, newError("ToBytes", err)
	}
	d.log.Debug("document serialised",
		zap.Int("pages", d.pdf.PageCount()),
		zap.Int("fields", d.forms.Len()),
		zap.Int("bytes", len(out)),
	)
	d.out = out
	return out, nil
}
