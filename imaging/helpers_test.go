package imaging

import (
	"image"
	"image/color"
)

// patterned returns a w×h image whose pixels are all distinct, with varying
// alpha so exact-copy checks catch premultiplication drift.
func patterned(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 37),
				G: uint8(y * 53),
				B: uint8(x*7 + y*11),
				A: uint8(1 + (x*31+y*17)%255),
			})
		}
	}
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return Uniform(w, h, c)
}
