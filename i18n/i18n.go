// Package i18n is the boundary between the document engine and localised
// strings. The engine only ever calls Translate; Catalog is a small default
// implementation carrying the strings the engine itself draws.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Keys the engine looks up.
const (
	KeyTitle    = "pdf.title"
	KeyReminder = "pdf.footer.reminder"
	KeyPage     = "pdf.footer.page" // params: page number, total pages
	KeyYes      = "pdf.yes"
	KeyNo       = "pdf.no"
)

// Welsh is the second language the default catalog ships.
var Welsh = language.MustParse("cy")

// Translator resolves a key and its parameters to display text.
type Translator interface {
	Translate(key string, params ...any) string
}

// Func adapts an ordinary function to the Translator interface.
type Func func(key string, params ...any) string

// Translate calls f(key, params...).
func (f Func) Translate(key string, params ...any) string {
	return f(key, params...)
}

// Lookup translates key and reports whether the translator knows it. A
// translation that is empty or echoes the key back counts as missing.
func Lookup(t Translator, key string, params ...any) (string, bool) {
	if t == nil {
		return "", false
	}
	s := t.Translate(key, params...)
	return s, s != "" && s != key
}

var defaults = []struct {
	key, en, cy string
}{
	{KeyTitle, "Parenting plan proposal", "Cynnig cynllun rhianta"},
	{KeyReminder, "This is a proposal, not a legally binding agreement", "Cynnig yw hwn, nid cytundeb cyfreithiol rwymol"},
	{KeyPage, "Page %d of %d", "Tudalen %d o %d"},
	{KeyYes, "Yes", "Ie"},
	{KeyNo, "No", "Na"},
}

var (
	supported = []language.Tag{language.English, Welsh}
	shipped   = language.NewMatcher(supported)
)

// Catalog is a Translator backed by an x/text message catalog. English is
// the fallback for keys missing in the requested language.
type Catalog struct {
	tag     language.Tag
	builder *catalog.Builder
}

// NewCatalog returns a catalog preloaded with the English and Welsh engine
// strings. Tags other than Welsh resolve to English.
func NewCatalog(tag language.Tag) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, d := range defaults {
		// SetString only fails for malformed messages; the defaults are literals.
		_ = b.SetString(language.English, d.key, d.en)
		_ = b.SetString(Welsh, d.key, d.cy)
	}
	_, i, _ := shipped.Match(tag)
	return &Catalog{tag: supported[i], builder: b}
}

// Set adds or replaces the message for key in language tag.
func (c *Catalog) Set(tag language.Tag, key, msg string) error {
	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("i18n: setting %q for %s: %w", key, tag, err)
	}
	return nil
}

// Language returns the shipped language the catalog resolved to.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Translate formats the message registered for key with params. Unknown
// keys come back unchanged.
func (c *Catalog) Translate(key string, params ...any) string {
	p := message.NewPrinter(c.tag, message.Catalog(c.builder))
	return p.Sprintf(key, params...)
}
