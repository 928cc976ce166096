package logging

import (
	"image"

	"go.uber.org/zap"
)

// Path is the field used for every file path in log entries.
func Path(key, path string) zap.Field {
	return zap.String(key, path)
}

// Size records image dimensions as "(W,H)".
func Size(key string, r image.Rectangle) zap.Field {
	return zap.Stringer(key, r.Size())
}

// Ratio records a padding ratio.
func Ratio(r float64) zap.Field {
	return zap.Float64("ratio", r)
}

// Offset records the paste offset of a padded image.
func Offset(p image.Point) zap.Field {
	return zap.Stringer("offset", p)
}
