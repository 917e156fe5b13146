// Package reader parses the PDF files the layout engine produces.
//
// It understands the subset of ISO 32000 that fpdf writes: classic
// cross-reference tables (including incremental updates chained through
// /Prev), indirect objects, Flate-compressed streams and simple text
// operators. The form package uses it to locate the catalog and page
// objects it amends; tests use it to read generated documents back.
package reader

import (
	"fmt"
	"strconv"
)

// Object is implemented by every PDF value the parser produces.
type Object interface {
	pdfObject()
	String() string
}

// Null is the PDF null object.
type Null struct{}

func (Null) pdfObject()     {}
func (Null) String() string { return "null" }

// Boolean is a PDF boolean.
type Boolean bool

func (Boolean) pdfObject()       {}
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// Integer is a PDF integer.
type Integer int64

func (Integer) pdfObject()       {}
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// Real is a PDF real number.
type Real float64

func (Real) pdfObject()       {}
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// Name is a PDF name such as /Type. The leading slash is not stored.
type Name string

func (Name) pdfObject()       {}
func (n Name) String() string { return "/" + string(n) }

// String is a PDF string. Value holds the decoded bytes, without escapes.
type String struct {
	Value []byte
	IsHex bool
}

func (String) pdfObject() {}
func (s String) String() string {
	if s.IsHex {
		return fmt.Sprintf("<%x>", s.Value)
	}
	return "(" + string(s.Value) + ")"
}

// Text decodes the string as PDFDocEncoding or UTF-16BE with a byte order mark.
func (s String) Text() string {
	return decodePDFString(s.Value)
}

// Array is a PDF array.
type Array []Object

func (Array) pdfObject()       {}
func (a Array) String() string { return fmt.Sprintf("[%d items]", len(a)) }

// Dict is a PDF dictionary.
type Dict map[Name]Object

func (Dict) pdfObject()       {}
func (d Dict) String() string { return fmt.Sprintf("<<%d keys>>", len(d)) }

// GetName returns the name stored under key, or "" when absent.
func (d Dict) GetName(key Name) Name {
	n, _ := d[key].(Name)
	return n
}

// GetInt returns the integer stored under key. Reals are truncated.
func (d Dict) GetInt(key Name) (int64, bool) {
	switch n := d[key].(type) {
	case Integer:
		return int64(n), true
	case Real:
		return int64(n), true
	}
	return 0, false
}

// GetDict returns the direct sub-dictionary stored under key.
func (d Dict) GetDict(key Name) Dict {
	sub, _ := d[key].(Dict)
	return sub
}

// GetArray returns the direct array stored under key.
func (d Dict) GetArray(key Name) Array {
	arr, _ := d[key].(Array)
	return arr
}

// GetRef returns the indirect reference stored under key.
func (d Dict) GetRef(key Name) (Reference, bool) {
	ref, ok := d[key].(Reference)
	return ref, ok
}

// GetString returns the decoded text of the string stored under key.
func (d Dict) GetString(key Name) string {
	s, ok := d[key].(String)
	if !ok {
		return ""
	}
	return s.Text()
}

// Number converts an Integer or Real to float64.
func Number(obj Object) (float64, bool) {
	switch n := obj.(type) {
	case Integer:
		return float64(n), true
	case Real:
		return float64(n), true
	}
	return 0, false
}

// Stream is a stream object: its dictionary plus the still-encoded bytes.
type Stream struct {
	Dict Dict
	Data []byte
}

func (Stream) pdfObject()       {}
func (s Stream) String() string { return fmt.Sprintf("<<stream %d bytes>>", len(s.Data)) }

// Reference points at an indirect object, as in "10 0 R".
type Reference struct {
	Number     int
	Generation int
}

func (Reference) pdfObject() {}
func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject is a parsed "N G obj ... endobj" definition.
type IndirectObject struct {
	Reference
	Value Object
}

func (IndirectObject) pdfObject() {}
func (o IndirectObject) String() string {
	return fmt.Sprintf("%d %d obj %s", o.Number, o.Generation, o.Value)
}
