package planpdf

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a new Document via New.
type Option func(*documentConfig)

type documentConfig struct {
	logger      *zap.Logger
	buildID     string
	regularFont []byte
	boldFont    []byte
	logo        []byte
	leftMargin  float64
	rightMargin float64
	compress    bool
	created     time.Time
}

func defaultConfig() *documentConfig {
	return &documentConfig{
		logger:      zap.NewNop(),
		leftMargin:  DefaultMargin,
		rightMargin: DefaultMargin,
		compress:    true,
	}
}

// WithLogger sets the logger used for layout errors. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *documentConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBuildID overrides the random identifier attached to every log entry of
// one build.
func WithBuildID(id string) Option {
	return func(c *documentConfig) {
		c.buildID = id
	}
}

// WithUTF8Fonts replaces the core Helvetica fonts with TrueType fonts for the
// normal and bold variants. Both are required; the document fails to build if
// either cannot be parsed.
func WithUTF8Fonts(regular, bold []byte) Option {
	return func(c *documentConfig) {
		c.regularFont = regular
		c.boldFont = bold
	}
}

// WithLogo replaces the generated crest with a PNG image.
func WithLogo(png []byte) Option {
	return func(c *documentConfig) {
		c.logo = png
	}
}

// WithMargins sets the left and right page margins in millimetres. The usable
// width is the page width minus both margins.
func WithMargins(left, right float64) Option {
	return func(c *documentConfig) {
		c.leftMargin = left
		c.rightMargin = right
	}
}

// WithCompression toggles content stream compression.
func WithCompression(compress bool) Option {
	return func(c *documentConfig) {
		c.compress = compress
	}
}

// WithCreationDate fixes the creation and modification dates written to the
// document information dictionary.
func WithCreationDate(t time.Time) Option {
	return func(c *documentConfig) {
		c.created = t
	}
}
