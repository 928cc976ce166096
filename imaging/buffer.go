// Package imaging implements the pixel-level work behind iconkit: RGBA
// normalisation, flattening an icon onto a solid background and padding an
// image onto a larger transparent canvas.
package imaging

import (
	"image"
	"image/color"
)

// Normalize returns img as a non-premultiplied 8-bit RGBA buffer whose bounds
// start at (0,0). Sources without an alpha channel come out fully opaque. The
// result never shares pixel memory with img, so callers may mutate it freely.
func Normalize(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := dst.PixOffset(0, y)
			copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
		}
	case *image.Paletted:
		// Resolve each palette entry once instead of converting per pixel.
		lut := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			lut[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				idx := src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
				if int(idx) < len(lut) {
					dst.SetNRGBA(x, y, lut[idx])
				}
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}

	return dst
}

// Uniform allocates a w×h buffer with every pixel set to c.
func Uniform(w, h int, c color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if c == (color.NRGBA{}) {
		return dst
	}
	px := [4]uint8{c.R, c.G, c.B, c.A}
	for i := 0; i < len(dst.Pix); i += 4 {
		copy(dst.Pix[i:i+4], px[:])
	}
	return dst
}
