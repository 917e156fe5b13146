package form

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/lvillar/planpdf/reader"
)

// update accumulates the objects of one incremental update.
type update struct {
	base    []byte
	next    int // next free object number
	objects map[int]reader.Object
}

func newUpdate(base []byte, size int) *update {
	return &update{base: base, next: size, objects: make(map[int]reader.Object)}
}

// add stores obj under a fresh object number.
func (u *update) add(obj reader.Object) reader.Reference {
	ref := reader.Reference{Number: u.next}
	u.next++
	u.objects[ref.Number] = obj
	return ref
}

// reserve hands out an object number to be filled in later with set.
func (u *update) reserve() reader.Reference {
	ref := reader.Reference{Number: u.next}
	u.next++
	return ref
}

// set stores obj under an existing object number, replacing the old version.
func (u *update) set(ref reader.Reference, obj reader.Object) {
	u.objects[ref.Number] = obj
}

// bytes returns base followed by the new objects, an xref section with one
// subsection per object, and a trailer chained to the previous section.
func (u *update) bytes(trailer reader.Dict, prevXRef int64) []byte {
	var out bytes.Buffer
	out.Write(u.base)
	if len(u.base) > 0 && u.base[len(u.base)-1] != '\n' {
		out.WriteByte('\n')
	}

	nums := make([]int, 0, len(u.objects))
	for n := range u.objects {
		nums = append(nums, n)
	}
	slices.Sort(nums)

	offsets := make(map[int]int, len(nums))
	for _, n := range nums {
		offsets[n] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n", n)
		writeObject(&out, u.objects[n])
		out.WriteString("\nendobj\n")
	}

	xref := out.Len()
	out.WriteString("xref\n")
	for _, n := range nums {
		fmt.Fprintf(&out, "%d 1\n%010d 00000 n \n", n, offsets[n])
	}

	t := reader.Dict{}
	for k, v := range trailer {
		t[k] = v
	}
	t["Size"] = reader.Integer(u.next)
	t["Prev"] = reader.Integer(prevXRef)
	out.WriteString("trailer\n")
	writeObject(&out, t)
	fmt.Fprintf(&out, "\nstartxref\n%d\n%%%%EOF\n", xref)
	return out.Bytes()
}

// writeObject serialises obj in PDF syntax. Dictionary keys are written in
// sorted order with /Type first so output is deterministic.
func writeObject(w *bytes.Buffer, obj reader.Object) {
	switch v := obj.(type) {
	case nil, reader.Null:
		w.WriteString("null")
	case reader.Boolean, reader.Integer, reader.Reference:
		w.WriteString(v.String())
	case reader.Real:
		w.WriteString(formatReal(float64(v)))
	case reader.Name:
		writeName(w, string(v))
	case reader.String:
		if v.IsHex {
			fmt.Fprintf(w, "<%X>", v.Value)
			return
		}
		writeLiteral(w, v.Value)
	case reader.Array:
		w.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				w.WriteByte(' ')
			}
			writeObject(w, item)
		}
		w.WriteByte(']')
	case reader.Dict:
		writeDict(w, v)
	case reader.Stream:
		d := reader.Dict{}
		for k, val := range v.Dict {
			d[k] = val
		}
		d["Length"] = reader.Integer(len(v.Data))
		writeDict(w, d)
		w.WriteString("\nstream\n")
		w.Write(v.Data)
		w.WriteString("\nendstream")
	default:
		panic(fmt.Sprintf("form: cannot serialise %T", obj))
	}
}

func writeDict(w *bytes.Buffer, d reader.Dict) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "Type":
			return -1
		case b == "Type":
			return 1
		case a < b:
			return -1
		}
		return 1
	})

	w.WriteString("<<")
	for _, k := range keys {
		writeName(w, k)
		w.WriteByte(' ')
		writeObject(w, d[reader.Name(k)])
		w.WriteByte(' ')
	}
	w.WriteString(">>")
}

func writeName(w *bytes.Buffer, name string) {
	w.WriteByte('/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '!' || c > '~' || c == '#' || bytes.IndexByte([]byte("()<>[]{}/%"), c) >= 0 {
			fmt.Fprintf(w, "#%02X", c)
			continue
		}
		w.WriteByte(c)
	}
}

func writeLiteral(w *bytes.Buffer, s []byte) {
	w.WriteByte('(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			w.WriteByte('\\')
			w.WriteByte(c)
		case '\r':
			w.WriteString(`\r`)
		default:
			w.WriteByte(c)
		}
	}
	w.WriteByte(')')
}

func formatReal(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

// text builds a PDF text string: plain bytes for ASCII, UTF-16BE with a byte
// order mark otherwise.
func text(s string) reader.String {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
			if b, err := enc.Bytes([]byte(s)); err == nil {
				return reader.String{Value: b}
			}
			break
		}
	}
	return reader.String{Value: []byte(s)}
}

func rect(llx, lly, urx, ury float64) reader.Array {
	return reader.Array{reader.Real(llx), reader.Real(lly), reader.Real(urx), reader.Real(ury)}
}
