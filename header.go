package planpdf

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/lvillar/planpdf/i18n"
)

// Header and footer layout in millimetres and points.
const (
	headerBand     = 25.0
	logoTop        = 4.0
	logoHeight     = 17.0
	titleSize      = 16.0
	titleBaseline  = 15.5
	footerBaseline = 10.0 // distance above the bottom edge
	footerSize     = 9.0
)

// headerColor fills the band at the top of every page.
var headerColor = [3]int{0, 94, 115}

// drawHeader runs inside fpdf's AddPage for every new page.
func (d *Document) drawHeader() {
	pdf := d.pdf
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.Rect(0, 0, PageWidth, headerBand, "F")

	pdf.ImageOptions(logoName, d.cfg.leftMargin, logoTop, 0, logoHeight, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	title := d.encode(d.Translate(i18n.KeyTitle))
	pdf.SetFont(d.family, "B", titleSize)
	pdf.SetTextColor(255, 255, 255)
	pdf.Text((PageWidth-pdf.GetStringWidth(title))/2, titleBaseline, title)

	// Text and fill colours are equal again, so body text is not wrapped
	// in a colour save/restore.
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
}

// StampFootersOnAllPages draws the reminder and "page X of N" on every page
// created so far. It must run after all content is added; ToBytes calls it
// when the caller has not.
func (d *Document) StampFootersOnAllPages() {
	if d.stamped {
		d.log.Warn("footers already stamped", zap.Int("pages", d.pdf.PageCount()))
		return
	}
	d.stamped = true

	pdf := d.pdf
	current := pdf.PageNo()
	total := pdf.PageCount()
	reminder, hasReminder := i18n.Lookup(d.strings, i18n.KeyReminder)
	baseline := PageHeight - footerBaseline
	right := PageWidth - d.cfg.rightMargin

	pdf.SetTextColor(0, 0, 0)
	for n := 1; n <= total; n++ {
		pdf.SetPage(n)
		if hasReminder {
			s := d.encode(reminder)
			pdf.SetFont(d.family, "B", footerSize)
			pdf.Text((PageWidth-pdf.GetStringWidth(s))/2, baseline, s)
		}

		label, ok := i18n.Lookup(d.strings, i18n.KeyPage, n, total)
		if !ok {
			label = fmt.Sprintf("%d / %d", n, total)
		}
		label = d.encode(label)
		pdf.SetFont(d.family, "", footerSize)
		pdf.Text(right-pdf.GetStringWidth(label), baseline, label)
	}
	pdf.SetPage(current)
	d.log.Debug("footers stamped", zap.Int("pages", total))
}
