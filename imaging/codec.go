package imaging

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	apperrors "github.com/leeforge/iconkit/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SupportedFormats lists the decoders registered by this package.
var SupportedFormats = []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"}

// Decode reads any registered format and returns it normalised to RGBA along
// with the format name. name only labels errors. The header is checked first
// so images larger than MaxDimension per side are refused before their pixel
// buffer is allocated.
func Decode(r io.Reader, name string) (*image.NRGBA, string, error) {
	br := bufio.NewReader(r)

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(br, &header))
	if err != nil {
		return nil, "", apperrors.NewDecodeFailure(name, err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, "", apperrors.NewDecodeFailure(name,
			fmt.Errorf("%dx%d exceeds %d pixels per side", cfg.Width, cfg.Height, MaxDimension))
	}

	img, format, err := image.Decode(io.MultiReader(&header, br))
	if err != nil {
		return nil, "", apperrors.NewDecodeFailure(name, err)
	}
	return Normalize(img), format, nil
}

// Info reads only the header and reports the image size and format.
func Info(r io.Reader, name string) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return 0, 0, "", apperrors.NewDecodeFailure(name, err)
	}
	return cfg.Width, cfg.Height, format, nil
}

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG writes img as PNG. Output is always PNG regardless of the input
// format.
func EncodePNG(w io.Writer, img image.Image, name string) error {
	if err := encoder.Encode(w, img); err != nil {
		return apperrors.NewWriteFailure(name, err)
	}
	return nil
}
