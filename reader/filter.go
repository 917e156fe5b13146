package reader

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// decodeStream undoes the stream's /Filter chain. fpdf only ever writes
// FlateDecode, so that is the only filter understood.
func decodeStream(s Stream) ([]byte, error) {
	var filters []Name
	switch f := s.Dict["Filter"].(type) {
	case nil:
		return s.Data, nil
	case Name:
		filters = []Name{f}
	case Array:
		for _, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, fmt.Errorf("reader: filter array holds %T", item)
			}
			filters = append(filters, n)
		}
	default:
		return nil, fmt.Errorf("reader: unexpected /Filter %T", f)
	}

	data := s.Data
	for _, f := range filters {
		if f != "FlateDecode" {
			return nil, fmt.Errorf("reader: unsupported filter %s", f)
		}
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("reader: inflating stream: %w", err)
		}
		data, err = io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("reader: inflating stream: %w", err)
		}
	}
	return data, nil
}
