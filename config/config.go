package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	validatorV10 "github.com/go-playground/validator/v10"
	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/leeforge/iconkit/imaging"
	"github.com/leeforge/iconkit/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var validator *validatorV10.Validate

func init() {
	validator = validatorV10.New()
	_ = validator.RegisterValidation("color", func(fl validatorV10.FieldLevel) bool {
		_, err := imaging.ParseColor(fl.Field().String())
		return err == nil
	})
}

func DefaultOptions() Options {
	basePath := os.Getenv("CONFIG_PATH")
	if basePath == "" {
		basePath = "."
	}

	return Options{
		BasePath:  basePath,
		FileName:  "iconkit",
		FileType:  "yaml",
		EnvPrefix: "ICONKIT",
	}
}

// Default returns Settings populated only from struct defaults.
func Default() Settings {
	var s Settings
	_ = defaults.Set(&s)
	return s
}

// Loader layers config files, environment and flags into Settings.
type Loader struct {
	v    *viper.Viper
	opts Options
}

// NewLoader reads the config files selected by opts. Missing optional files
// are skipped; a missing explicit File is a not_found error.
func NewLoader(opts Options) (*Loader, error) {
	if opts.FileType == "" {
		opts.FileType = "yaml"
	}

	v := viper.New()
	v.SetConfigType(opts.FileType)
	if ext := strings.TrimPrefix(filepath.Ext(opts.File), "."); ext != "" {
		v.SetConfigType(ext)
	}

	paths, err := configFilePaths(opts)
	if err != nil {
		return nil, err
	}
	for i, configPath := range paths {
		v.SetConfigFile(configPath)
		read := v.MergeInConfig
		if i == 0 {
			read = v.ReadInConfig
		}
		if err := read(); err != nil {
			return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeInvalid,
				fmt.Sprintf("error reading config file %s", configPath))
		}
	}

	// Register every known key so AutomaticEnv can supply keys absent from
	// the files.
	registerDefaults(v, "", reflect.ValueOf(Default()))

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.AutomaticEnv()

	return &Loader{v: v, opts: opts}, nil
}

// ApplyFlags overrides config keys with flags the user actually set. keys
// maps flag names to config keys, e.g. "ratio" -> "pad.ratio".
func (l *Loader) ApplyFlags(fs *pflag.FlagSet, keys map[string]string) {
	fs.Visit(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		l.v.Set(key, f.Value.String())
	})
}

// Settings decodes the layered configuration.
func (l *Loader) Settings() (Settings, error) {
	s := Default()
	if err := l.v.Unmarshal(&s); err != nil {
		return Settings{}, apperrors.WrapWithType(err, apperrors.ErrorTypeInvalid, "failed to decode config")
	}
	if err := validate(s.Log, "log"); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Files returns the config files that were read, in load order.
func (l *Loader) Files() []string {
	paths, _ := configFilePaths(l.opts)
	return paths
}

// Validate checks the section needed by the composite operation.
func (s CompositeSettings) Validate() error {
	return validate(s, "composite")
}

// Validate checks the section needed by the pad operation.
func (s PadSettings) Validate() error {
	return validate(s, "pad")
}

func validate(section any, prefix string) error {
	err := validator.Struct(section)
	if err == nil {
		return nil
	}

	var verrs validatorV10.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeInvalid, "invalid configuration")
	}

	fe := verrs[0]
	field := prefix + "." + strings.ToLower(fe.Field())
	return apperrors.NewInvalid(field, fe.Value(), getValidationMessage(fe))
}

func getValidationMessage(fe validatorV10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "color":
		return "must be a hex color (#RRGGBB) or a color name"
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}

func configFilePaths(opts Options) ([]string, error) {
	if opts.File != "" {
		isDir, exists, err := storage.Exists(opts.File)
		if err != nil {
			return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeInvalid, "cannot stat config file")
		}
		if !exists || isDir {
			return nil, apperrors.NewNotFound("config", opts.File)
		}
		return []string{opts.File}, nil
	}

	var files []string
	for _, name := range []string{opts.FileName, opts.FileName + ".local"} {
		file := filepath.Join(opts.BasePath, fmt.Sprintf("%s.%s", name, opts.FileType))
		if isDir, exists, _ := storage.Exists(file); exists && !isDir {
			files = append(files, file)
		}
	}
	return files, nil
}

// registerDefaults walks a struct by its mapstructure tags and records each
// leaf value as a viper default.
func registerDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := val.Field(i)
		if fv.Kind() == reflect.Struct {
			registerDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
