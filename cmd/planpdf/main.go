// Command planpdf renders a parenting-plan proposal from a JSON template.
//
// # Installation
//
//	go install github.com/lvillar/planpdf/cmd/planpdf@latest
//
// # Usage
//
//	planpdf --in plan.json --out plan.pdf
//	planpdf --in plan.json --lang cy --autoprint > plan.pdf
//
// The template format is described in package doctpl. Layout problems such
// as content taller than a page are logged to stderr; the PDF is still
// written.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/speedata/optionparser"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lvillar/planpdf"
	"github.com/lvillar/planpdf/doctpl"
)

func run() error {
	var (
		in, out, lang      string
		autoPrint, verbose bool
	)
	op := optionparser.NewOptionParser()
	op.Banner = "planpdf: render a parenting-plan proposal\n\nUsage: planpdf --in plan.json [options]"
	op.On("-i", "--in FILE", "JSON template to render", &in)
	op.On("-o", "--out FILE", "Write the PDF to FILE instead of stdout", &out)
	op.On("--lang LANG", "Language of the engine strings (en, cy)", &lang)
	op.On("--autoprint", "Open the print dialog when the PDF is opened", &autoPrint)
	op.On("-v", "--verbose", "Log layout decisions", &verbose)
	if err := op.Parse(); err != nil {
		return err
	}
	if in == "" {
		op.Help()
		return errors.New("missing --in")
	}
	if out == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write a PDF to a terminal, use --out")
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var doc doctpl.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if lang != "" {
		doc.Lang = lang
	}
	if autoPrint {
		doc.AutoPrint = true
	}

	var buf bytes.Buffer
	if err := doctpl.RenderDocument(&buf, &doc, planpdf.WithLogger(logger)); err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("wrote document", zap.String("path", out), zap.Int("bytes", buf.Len()))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planpdf: %v\n", err)
		os.Exit(1)
	}
}
