package planpdf

import "fmt"

// FontVariant selects the weight a paragraph is drawn with.
type FontVariant int

const (
	Normal FontVariant = iota
	Bold
)

func (v FontVariant) String() string {
	if v == Bold {
		return "bold"
	}
	return "normal"
}

// fpdfStyle maps a variant to the style string fpdf expects.
func (v FontVariant) fpdfStyle() string {
	if v == Bold {
		return "B"
	}
	return ""
}

// Paragraph is the atomic unit of flowing content.
type Paragraph struct {
	Text          string      // may contain embedded newlines
	Size          float64     // font size in points
	Style         FontVariant // Normal or Bold
	BottomPadding float64     // gap after the paragraph, in millimetres

	// Links draws the paragraph word by word and turns every URL found in
	// Text into a link annotation.
	Links bool
}

// Validate reports whether the paragraph can be measured and drawn.
func (p Paragraph) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: size %g must be positive", ErrInvalidParagraph, p.Size)
	}
	if p.BottomPadding < 0 {
		return fmt.Errorf("%w: bottom padding %g must not be negative", ErrInvalidParagraph, p.BottomPadding)
	}
	if p.Style != Normal && p.Style != Bold {
		return fmt.Errorf("%w: unknown font variant %d", ErrInvalidParagraph, p.Style)
	}
	return nil
}
