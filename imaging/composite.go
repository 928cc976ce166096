package imaging

import (
	"image"
	"image/color"
)

// Composite flattens fg over an opaque canvas of colour bg and returns a new
// buffer the size of fg. bg's alpha is ignored: the canvas is always opaque,
// so every output pixel has alpha 255. Each RGB channel is
//
//	out = bg*(255-a)/255 + fg*a/255
//
// rounded to nearest, where a is the foreground pixel's alpha.
func Composite(fg image.Image, bg color.Color) *image.NRGBA {
	src := asNormalized(fg)
	base := color.NRGBAModel.Convert(bg).(color.NRGBA)
	base.A = 0xff

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := Uniform(w, h, base)

	for y := 0; y < h; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < w; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]
			a := uint32(s[3])
			switch a {
			case 0:
				// keep background
			case 0xff:
				d[0], d[1], d[2] = s[0], s[1], s[2]
			default:
				d[0] = blend(d[0], s[0], a)
				d[1] = blend(d[1], s[1], a)
				d[2] = blend(d[2], s[2], a)
			}
			si += 4
			di += 4
		}
	}

	return dst
}

func blend(bg, fg uint8, a uint32) uint8 {
	return uint8((uint32(bg)*(0xff-a) + uint32(fg)*a + 0x7f) / 0xff)
}

// asNormalized returns img unchanged when it is already an NRGBA buffer and
// otherwise a normalised copy. Callers must not write to the result.
func asNormalized(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return Normalize(img)
}
