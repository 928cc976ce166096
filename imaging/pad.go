package imaging

import (
	"fmt"
	"image"
	"math"

	apperrors "github.com/leeforge/iconkit/errors"
)

// DefaultPadRatio leaves the source filling 60% of each padded dimension.
const DefaultPadRatio = 0.6

// MaxDimension bounds each side of a decoded image and of a padded canvas.
const MaxDimension = 1 << 15

// PadGeometry describes where a w×h source lands on its padded canvas.
type PadGeometry struct {
	// Canvas is the output bounds, always anchored at (0,0).
	Canvas image.Rectangle
	// Offset is the top-left of the source in canvas coordinates. It is
	// negative when the ratio exceeds 1 and the canvas is smaller.
	Offset image.Point
	// Placed is the part of the canvas covered by the source.
	Placed image.Rectangle
}

// ValidateRatio rejects ratios that cannot size a canvas. Ratios above 1 are
// allowed and shrink the canvas, cropping the source.
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return apperrors.NewInvalid("ratio", ratio, "not a finite number")
	}
	if ratio <= 0 {
		return apperrors.NewInvalid("ratio", ratio, "must be greater than 0")
	}
	return nil
}

// Geometry computes the padded canvas for a w×h source. Sizes are truncated,
// not rounded: newW = floor(w/ratio). Offsets use floor division so the
// source stays centred, leaning left/up when the slack is odd.
func Geometry(w, h int, ratio float64) (PadGeometry, error) {
	if err := ValidateRatio(ratio); err != nil {
		return PadGeometry{}, err
	}
	if w <= 0 || h <= 0 {
		return PadGeometry{}, apperrors.NewInvalid("source", fmt.Sprintf("%dx%d", w, h), "image is empty")
	}

	fw := math.Floor(float64(w) / ratio)
	fh := math.Floor(float64(h) / ratio)
	if fw > MaxDimension || fh > MaxDimension {
		return PadGeometry{}, apperrors.NewInvalid("ratio", ratio, fmt.Sprintf("canvas would exceed %d pixels per side", MaxDimension))
	}
	if fw < 1 || fh < 1 {
		return PadGeometry{}, apperrors.NewInvalid("ratio", ratio, fmt.Sprintf("canvas would be empty for a %dx%d source", w, h))
	}

	newW, newH := int(fw), int(fh)
	canvas := image.Rect(0, 0, newW, newH)
	offset := image.Pt(floorDiv(newW-w, 2), floorDiv(newH-h, 2))

	return PadGeometry{
		Canvas: canvas,
		Offset: offset,
		Placed: image.Rect(0, 0, w, h).Add(offset).Intersect(canvas),
	}, nil
}

// Pad centres img on a transparent canvas sized by Geometry. Pixels inside
// the placed region are copied exactly, alpha included; everything else is
// (0,0,0,0).
func Pad(img image.Image, ratio float64) (*image.NRGBA, error) {
	src := asNormalized(img)
	g, err := Geometry(src.Rect.Dx(), src.Rect.Dy(), ratio)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(g.Canvas)
	if g.Placed.Empty() {
		return dst, nil
	}

	// Placed is in canvas coordinates; shift back to find the source origin.
	srcMin := g.Placed.Min.Sub(g.Offset).Add(src.Rect.Min)
	rowLen := g.Placed.Dx() * 4
	for y := 0; y < g.Placed.Dy(); y++ {
		si := src.PixOffset(srcMin.X, srcMin.Y+y)
		di := dst.PixOffset(g.Placed.Min.X, g.Placed.Min.Y+y)
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}

	return dst, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
