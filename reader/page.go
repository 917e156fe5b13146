package reader

import (
	"fmt"
)

// Rectangle is a PDF rectangle [llx lly urx ury] in points.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

func (r Rectangle) Width() float64  { return r.URX - r.LLX }
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// Page is one leaf of the page tree.
type Page struct {
	Number   int       // 1-based position in the document
	Ref      Reference // the page object itself
	MediaBox Rectangle
	Contents []Stream
	dict     Dict
	doc      *Document
}

// Dict returns the page dictionary as stored in the file.
func (p *Page) Dict() Dict { return p.dict }

// ContentStream returns the page's decoded content streams, concatenated.
func (p *Page) ContentStream() ([]byte, error) {
	var out []byte
	for _, s := range p.Contents {
		data, err := decodeStream(s)
		if err != nil {
			return nil, fmt.Errorf("reader: page %d content: %w", p.Number, err)
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out, nil
}

// Annotations returns the resolved annotation dictionaries of the page.
func (p *Page) Annotations() ([]Dict, error) {
	obj, err := p.doc.resolveIfRef(p.dict["Annots"])
	if err != nil {
		return nil, err
	}
	arr, _ := obj.(Array)
	annots := make([]Dict, 0, len(arr))
	for _, item := range arr {
		resolved, err := p.doc.resolveIfRef(item)
		if err != nil {
			return nil, fmt.Errorf("reader: page %d annotation: %w", p.Number, err)
		}
		if d, ok := resolved.(Dict); ok {
			annots = append(annots, d)
		}
	}
	return annots, nil
}

// Links returns the targets of the page's URI link annotations.
func (p *Page) Links() ([]string, error) {
	annots, err := p.Annotations()
	if err != nil {
		return nil, err
	}
	var uris []string
	for _, a := range annots {
		if a.GetName("Subtype") != "Link" {
			continue
		}
		action, err := p.doc.resolveIfRef(a["A"])
		if err != nil {
			return nil, err
		}
		if ad, ok := action.(Dict); ok && ad.GetName("S") == "URI" {
			uris = append(uris, ad.GetString("URI"))
		}
	}
	return uris, nil
}

func parseRectangle(obj Object) (Rectangle, error) {
	arr, ok := obj.(Array)
	if !ok || len(arr) != 4 {
		return Rectangle{}, fmt.Errorf("reader: rectangle must be a 4-element array")
	}
	var v [4]float64
	for i, item := range arr {
		n, ok := Number(item)
		if !ok {
			return Rectangle{}, fmt.Errorf("reader: rectangle element %d is %T", i, item)
		}
		v[i] = n
	}
	return Rectangle{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}, nil
}

// buildPageList flattens the page tree into d.pages.
func (d *Document) buildPageList() error {
	catalog, err := d.Catalog()
	if err != nil {
		return err
	}
	ref, ok := catalog.GetRef("Pages")
	if !ok {
		return fmt.Errorf("reader: catalog /Pages is not a reference")
	}
	d.pages = nil
	return d.walkPages(ref, nil, map[int]bool{})
}

// walkPages visits the node at ref, passing inherited MediaBox down the tree.
func (d *Document) walkPages(ref Reference, mediaBox Object, visited map[int]bool) error {
	if visited[ref.Number] {
		return fmt.Errorf("reader: page tree cycle at object %d", ref.Number)
	}
	visited[ref.Number] = true

	node, err := d.ResolveDict(ref)
	if err != nil {
		return fmt.Errorf("reader: page tree node: %w", err)
	}
	if mb, ok := node["MediaBox"]; ok {
		mediaBox = mb
	}

	if node.GetName("Type") != "Page" {
		for _, kid := range node.GetArray("Kids") {
			kidRef, ok := kid.(Reference)
			if !ok {
				continue
			}
			if err := d.walkPages(kidRef, mediaBox, visited); err != nil {
				return err
			}
		}
		return nil
	}

	page := &Page{Number: len(d.pages) + 1, Ref: ref, dict: node, doc: d}
	if resolved, err := d.resolveIfRef(mediaBox); err == nil {
		page.MediaBox, _ = parseRectangle(resolved)
	}

	contents, err := d.resolveIfRef(node["Contents"])
	if err != nil {
		return fmt.Errorf("reader: page %d contents: %w", page.Number, err)
	}
	switch c := contents.(type) {
	case Stream:
		page.Contents = []Stream{c}
	case Array:
		for _, item := range c {
			if s, err := d.resolveIfRef(item); err == nil {
				if stream, ok := s.(Stream); ok {
					page.Contents = append(page.Contents, stream)
				}
			}
		}
	}

	d.pages = append(d.pages, page)
	return nil
}
