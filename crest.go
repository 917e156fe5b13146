package planpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	crestWidth  = 96
	crestHeight = 112
)

// crestPNG rasterises the default header logo: a white shield with a
// chevron, on the header colour so it sits flush in the band.
func crestPNG() ([]byte, error) {
	band := color.RGBA{uint8(headerColor[0]), uint8(headerColor[1]), uint8(headerColor[2]), 0xff}
	img := image.NewRGBA(image.Rect(0, 0, crestWidth, crestHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(band), image.Point{}, draw.Src)

	shield(img, 6, color.White)
	shield(img, 14, band)

	z := vector.NewRasterizer(crestWidth, crestHeight)
	z.MoveTo(24, 62)
	z.LineTo(48, 38)
	z.LineTo(72, 62)
	z.LineTo(72, 76)
	z.LineTo(48, 52)
	z.LineTo(24, 76)
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shield fills a shield outline inset by inset pixels from the image edge.
func shield(dst draw.Image, inset float32, c color.Color) {
	w, h := float32(crestWidth), float32(crestHeight)
	mid := w / 2
	z := vector.NewRasterizer(crestWidth, crestHeight)
	z.MoveTo(inset, inset)
	z.LineTo(w-inset, inset)
	z.LineTo(w-inset, h*0.5)
	z.CubeTo(w-inset, h*0.78, mid+w*0.18, h-inset*1.2, mid, h-inset)
	z.CubeTo(mid-w*0.18, h-inset*1.2, inset, h*0.78, inset, h*0.5)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
