package config

import (
	"github.com/leeforge/iconkit/logging"
)

// Settings is the full iconkit configuration. Every field can come from the
// config file, an ICONKIT_* environment variable or a command-line flag, in
// increasing order of priority.
type Settings struct {
	// BaseDir resolves relative input and output paths. Empty means the
	// working directory.
	BaseDir   string            `mapstructure:"base-dir" yaml:"base-dir"`
	Composite CompositeSettings `mapstructure:"composite" yaml:"composite"`
	Pad       PadSettings       `mapstructure:"pad" yaml:"pad"`
	Log       logging.Config    `mapstructure:"log" yaml:"log"`
}

// CompositeSettings configures flattening an icon onto a background.
type CompositeSettings struct {
	Input      string `mapstructure:"input" yaml:"input" default:"assets/icon/icon_foreground.png" validate:"required"`
	Output     string `mapstructure:"output" yaml:"output" default:"assets/icon/icon_full.png" validate:"required"`
	Background string `mapstructure:"background" yaml:"background" default:"#001f3f" validate:"required,color"`
}

// PadSettings configures transparent padding.
type PadSettings struct {
	Input  string  `mapstructure:"input" yaml:"input" default:"assets/icon/icon_full.png" validate:"required"`
	Output string  `mapstructure:"output" yaml:"output" default:"assets/splash/icon_foreground_padded.png" validate:"required"`
	Ratio  float64 `mapstructure:"ratio" yaml:"ratio" default:"0.6" validate:"gt=0"`
}

// Options controls where configuration is read from.
type Options struct {
	// BasePath is the directory searched for FileName.FileType and
	// FileName.local.FileType.
	BasePath string
	FileName string
	FileType string
	// File, when set, is the only config file read and must exist.
	File      string
	EnvPrefix string
}
