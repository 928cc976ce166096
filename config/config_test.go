package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(dir string) Options {
	opts := DefaultOptions()
	opts.BasePath = dir
	return opts
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	l, err := NewLoader(testOptions(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, l.Files())

	s, err := l.Settings()
	require.NoError(t, err)

	assert.Equal(t, "assets/icon/icon_foreground.png", s.Composite.Input)
	assert.Equal(t, "assets/icon/icon_full.png", s.Composite.Output)
	assert.Equal(t, "#001f3f", s.Composite.Background)
	assert.Equal(t, "assets/icon/icon_full.png", s.Pad.Input)
	assert.Equal(t, "assets/splash/icon_foreground_padded.png", s.Pad.Output)
	assert.Equal(t, 0.6, s.Pad.Ratio)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)

	require.NoError(t, s.Composite.Validate())
	require.NoError(t, s.Pad.Validate())
}

func TestFileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "iconkit.yaml"), `
composite:
  background: "#ffffff"
pad:
  ratio: 0.8
  output: from-file.png
log:
  level: debug
`)
	writeFile(t, filepath.Join(dir, "iconkit.local.yaml"), `
pad:
  output: from-local.png
`)
	t.Setenv("ICONKIT_PAD_RATIO", "0.7")
	t.Setenv("ICONKIT_COMPOSITE_INPUT", "env-input.png")

	l, err := NewLoader(testOptions(dir))
	require.NoError(t, err)
	assert.Len(t, l.Files(), 2)

	fs := pflag.NewFlagSet("pad", pflag.ContinueOnError)
	fs.Float64("ratio", 0.6, "")
	fs.String("output", "", "")
	require.NoError(t, fs.Parse([]string{"--ratio", "0.5"}))
	l.ApplyFlags(fs, map[string]string{"ratio": "pad.ratio", "output": "pad.output"})

	s, err := l.Settings()
	require.NoError(t, err)

	assert.Equal(t, "#ffffff", s.Composite.Background)
	assert.Equal(t, "env-input.png", s.Composite.Input)
	assert.Equal(t, "from-local.png", s.Pad.Output, "unset flags must not override config")
	assert.Equal(t, 0.5, s.Pad.Ratio, "flags beat env and files")
	assert.Equal(t, "debug", s.Log.Level)
}

func TestExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	writeFile(t, path, `{"pad": {"ratio": 0.25}}`)

	opts := testOptions(t.TempDir())
	opts.File = path
	l, err := NewLoader(opts)
	require.NoError(t, err)

	s, err := l.Settings()
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.Pad.Ratio)
}

func TestExplicitFileMissing(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewLoader(opts)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "iconkit.yaml"), "pad: [unterminated")

	_, err := NewLoader(testOptions(dir))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		check func(s Settings) error
		field string
	}{
		{"zero ratio", func(s Settings) error { s.Pad.Ratio = 0; return s.Pad.Validate() }, "pad.ratio"},
		{"negative ratio", func(s Settings) error { s.Pad.Ratio = -1; return s.Pad.Validate() }, "pad.ratio"},
		{"empty input", func(s Settings) error { s.Pad.Input = ""; return s.Pad.Validate() }, "pad.input"},
		{"bad color", func(s Settings) error { s.Composite.Background = "#12"; return s.Composite.Validate() }, "composite.background"},
		{"empty output", func(s Settings) error { s.Composite.Output = ""; return s.Composite.Validate() }, "composite.output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(Default())
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalid))
			assert.Equal(t, tt.field, apperrors.FromError(err).Details["field"])
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("ICONKIT_LOG_LEVEL", "loud")
	l, err := NewLoader(testOptions(t.TempDir()))
	require.NoError(t, err)

	_, err = l.Settings()
	require.Error(t, err)
	assert.Equal(t, "log.level", apperrors.FromError(err).Details["field"])
}
