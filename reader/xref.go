package reader

import (
	"bytes"
	"fmt"
	"strconv"
)

type xrefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
}

// xrefTable maps object numbers to their byte offsets.
type xrefTable map[int]xrefEntry

// findStartXRef returns the offset written after the last startxref keyword.
func findStartXRef(data []byte) (int64, error) {
	tail := data[max(0, len(data)-1024):]
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("reader: startxref not found")
	}
	p := newParser(tail[idx+len("startxref"):])
	tok := p.readToken()
	offset, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reader: invalid startxref offset %q: %w", tok, err)
	}
	return offset, nil
}

// parseXRef reads the cross-reference section at offset and every section
// reachable through /Prev. Entries from newer sections win. The returned
// trailer is the newest one.
func parseXRef(data []byte, offset int64) (xrefTable, Dict, error) {
	table := make(xrefTable)
	var newest Dict
	seen := map[int64]bool{}

	for {
		if seen[offset] {
			return nil, nil, fmt.Errorf("reader: xref /Prev loop at offset %d", offset)
		}
		seen[offset] = true

		trailer, err := parseXRefSection(data, offset, table)
		if err != nil {
			return nil, nil, err
		}
		if newest == nil {
			newest = trailer
		}
		prev, ok := trailer.GetInt("Prev")
		if !ok {
			return table, newest, nil
		}
		offset = prev
	}
}

// parseXRefSection adds the entries of one classic xref section to table,
// keeping entries already present, and returns the section's trailer.
func parseXRefSection(data []byte, offset int64, table xrefTable) (Dict, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("reader: xref offset %d out of bounds", offset)
	}
	p := newParser(data[offset:])
	if tok := p.readToken(); tok != "xref" {
		return nil, fmt.Errorf("reader: expected xref at offset %d, got %q (cross-reference streams are not supported)", offset, tok)
	}

	for {
		tok := p.readToken()
		if tok == "trailer" {
			break
		}
		first, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("reader: xref subsection start %q: %w", tok, err)
		}
		count, err := strconv.Atoi(p.readToken())
		if err != nil {
			return nil, fmt.Errorf("reader: xref subsection count: %w", err)
		}
		for i := 0; i < count; i++ {
			entry, err := readXRefEntry(p)
			if err != nil {
				return nil, fmt.Errorf("reader: xref entry %d: %w", first+i, err)
			}
			if _, ok := table[first+i]; !ok {
				table[first+i] = entry
			}
		}
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("reader: trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("reader: trailer is not a dictionary")
	}
	return trailer, nil
}

func readXRefEntry(p *parser) (xrefEntry, error) {
	offset, err := strconv.ParseInt(p.readToken(), 10, 64)
	if err != nil {
		return xrefEntry{}, err
	}
	gen, err := strconv.Atoi(p.readToken())
	if err != nil {
		return xrefEntry{}, err
	}
	return xrefEntry{Offset: offset, Generation: gen, InUse: p.readToken() == "n"}, nil
}
