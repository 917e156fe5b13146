package form

import (
	"bytes"
	"fmt"
)

// kappa places Bézier control points for a quarter circle.
const kappa = 0.5523

// stream returns the content of the "on" appearance for a square button
// side points wide.
func (a Appearance) stream(side float64) []byte {
	var b bytes.Buffer
	f := formatReal
	switch a {
	case AppearanceCheck:
		size := side * 0.8
		fmt.Fprintf(&b, "q BT 0 g /ZaDb %s Tf %s %s Td (4) Tj ET Q", f(size), f(side*0.12), f(side*0.2))
	case AppearanceCircle:
		c, r := side/2, side/4
		k := r * kappa
		fmt.Fprintf(&b, "q 0 g %s %s m\n", f(c+r), f(c))
		fmt.Fprintf(&b, "%s %s %s %s %s %s c\n", f(c+r), f(c+k), f(c+k), f(c+r), f(c), f(c+r))
		fmt.Fprintf(&b, "%s %s %s %s %s %s c\n", f(c-k), f(c+r), f(c-r), f(c+k), f(c-r), f(c))
		fmt.Fprintf(&b, "%s %s %s %s %s %s c\n", f(c-r), f(c-k), f(c-k), f(c-r), f(c), f(c-r))
		fmt.Fprintf(&b, "%s %s %s %s %s %s c\n", f(c+k), f(c-r), f(c+r), f(c-k), f(c+r), f(c))
		b.WriteString("f Q")
	default:
		in := side * 0.2
		lw := max(side*0.08, 0.5)
		fmt.Fprintf(&b, "q 0 G %s w 1 J %s %s m %s %s l S %s %s m %s %s l S Q",
			f(lw), f(in), f(in), f(side-in), f(side-in), f(in), f(side-in), f(side-in), f(in))
	}
	return b.Bytes()
}
