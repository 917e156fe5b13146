package reader

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Document is a parsed PDF file held in memory.
type Document struct {
	Version   string // from the %PDF- header, e.g. "1.3"
	data      []byte
	xref      xrefTable
	trailer   Dict
	startXRef int64
	pages     []*Page
}

// ReadFrom reads r to the end and parses it.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return Parse(data)
}

// Parse parses a complete PDF file. data is retained, not copied.
func Parse(data []byte) (*Document, error) {
	doc := &Document{data: data, Version: parseVersion(data)}

	start, err := findStartXRef(data)
	if err != nil {
		return nil, err
	}
	doc.startXRef = start

	doc.xref, doc.trailer, err = parseXRef(data, start)
	if err != nil {
		return nil, err
	}
	if _, ok := doc.trailer["Encrypt"]; ok {
		return nil, fmt.Errorf("reader: encrypted documents are not supported")
	}

	if err := doc.buildPageList(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseVersion(data []byte) string {
	header := string(data[:min(20, len(data))])
	idx := strings.Index(header, "%PDF-")
	if idx < 0 {
		return ""
	}
	rest := header[idx+len("%PDF-"):]
	if end := strings.IndexAny(rest, "\r\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// Trailer returns the newest trailer dictionary.
func (d *Document) Trailer() Dict { return d.trailer }

// StartXRef returns the offset of the newest cross-reference section.
func (d *Document) StartXRef() int64 { return d.startXRef }

// Size returns the trailer's /Size: one more than the highest object number.
func (d *Document) Size() int {
	n, _ := d.trailer.GetInt("Size")
	return int(n)
}

// Len returns the length of the underlying file in bytes.
func (d *Document) Len() int { return len(d.data) }

// NumPages returns the number of leaf pages.
func (d *Document) NumPages() int { return len(d.pages) }

// Page returns page n, counting from 1.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("reader: page %d out of range [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages iterates over the pages with their 1-based numbers.
func (d *Document) Pages() iter.Seq2[int, *Page] {
	return func(yield func(int, *Page) bool) {
		for i, page := range d.pages {
			if !yield(i+1, page) {
				return
			}
		}
	}
}

// RootRef returns the reference to the document catalog.
func (d *Document) RootRef() (Reference, error) {
	ref, ok := d.trailer.GetRef("Root")
	if !ok {
		return Reference{}, fmt.Errorf("reader: trailer has no indirect /Root")
	}
	return ref, nil
}

// Catalog returns the document catalog.
func (d *Document) Catalog() (Dict, error) {
	ref, err := d.RootRef()
	if err != nil {
		return nil, err
	}
	return d.ResolveDict(ref)
}

// Metadata returns the text entries of the /Info dictionary.
func (d *Document) Metadata() map[string]string {
	meta := make(map[string]string)
	info, err := d.resolveIfRef(d.trailer["Info"])
	if err != nil {
		return meta
	}
	dict, _ := info.(Dict)
	for key, v := range dict {
		if s, ok := v.(String); ok {
			meta[string(key)] = s.Text()
		}
	}
	return meta
}

// Resolve loads the indirect object ref points at. Free or unknown objects
// resolve to Null.
func (d *Document) Resolve(ref Reference) (Object, error) {
	entry, ok := d.xref[ref.Number]
	if !ok || !entry.InUse {
		return Null{}, nil
	}
	if entry.Offset < 0 || entry.Offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("reader: object %d offset %d out of bounds", ref.Number, entry.Offset)
	}
	obj, err := newParser(d.data[entry.Offset:]).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("reader: parsing object %d: %w", ref.Number, err)
	}
	if obj.Number != ref.Number {
		return nil, fmt.Errorf("reader: xref for object %d points at object %d", ref.Number, obj.Number)
	}
	return obj.Value, nil
}

// ResolveDict resolves ref and requires the result to be a dictionary.
func (d *Document) ResolveDict(ref Reference) (Dict, error) {
	obj, err := d.Resolve(ref)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("reader: object %d is %T, not a dictionary", ref.Number, obj)
	}
	return dict, nil
}

func (d *Document) resolveIfRef(obj Object) (Object, error) {
	if ref, ok := obj.(Reference); ok {
		return d.Resolve(ref)
	}
	if obj == nil {
		return Null{}, nil
	}
	return obj, nil
}
