package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/leeforge/iconkit/config"
	"github.com/leeforge/iconkit/icon"
	"github.com/spf13/pflag"
)

// command is one iconkit subcommand.
type command struct {
	name    string
	summary string
	// keys maps the command's own flags to config keys.
	keys  map[string]string
	flags func(fs *pflag.FlagSet, d config.Settings)
	// input is the file --watch observes; nil disables watching.
	input func(s config.Settings) string
	run   func(ctx context.Context, svc *icon.Service, s config.Settings, args []string) (string, error)
}

var commands = []*command{
	{
		name:    "composite",
		summary: "flatten a foreground icon onto a solid background colour",
		keys: map[string]string{
			"input":      "composite.input",
			"output":     "composite.output",
			"background": "composite.background",
		},
		flags: func(fs *pflag.FlagSet, d config.Settings) {
			fs.StringP("input", "i", d.Composite.Input, "foreground image")
			fs.StringP("output", "o", d.Composite.Output, "output PNG")
			fs.StringP("background", "b", d.Composite.Background, "background colour (#RRGGBB or a colour name)")
		},
		input: func(s config.Settings) string { return s.Composite.Input },
		run: func(ctx context.Context, svc *icon.Service, s config.Settings, _ []string) (string, error) {
			if err := s.Composite.Validate(); err != nil {
				return "", err
			}
			res, err := svc.Composite(ctx, icon.CompositeJob{
				Input:      s.Composite.Input,
				Output:     s.Composite.Output,
				Background: s.Composite.Background,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Created %s (%dx%d)", res.Output, res.Width, res.Height), nil
		},
	},
	{
		name:    "pad",
		summary: "centre an image on a larger transparent canvas",
		keys: map[string]string{
			"input":  "pad.input",
			"output": "pad.output",
			"ratio":  "pad.ratio",
		},
		flags: func(fs *pflag.FlagSet, d config.Settings) {
			fs.StringP("input", "i", d.Pad.Input, "source image")
			fs.StringP("output", "o", d.Pad.Output, "output PNG")
			fs.Float64P("ratio", "r", d.Pad.Ratio, "fraction of the canvas the source occupies, > 0")
		},
		input: func(s config.Settings) string { return s.Pad.Input },
		run: func(ctx context.Context, svc *icon.Service, s config.Settings, _ []string) (string, error) {
			if err := s.Pad.Validate(); err != nil {
				return "", err
			}
			res, err := svc.Pad(ctx, icon.PadJob{
				Input:  s.Pad.Input,
				Output: s.Pad.Output,
				Ratio:  s.Pad.Ratio,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created padded image at %s (%dx%d)", res.Output, res.Width, res.Height), nil
		},
	},
	{
		name:    "info",
		summary: "print the size and format of images",
		keys:    map[string]string{},
		flags:   func(*pflag.FlagSet, config.Settings) {},
		run: func(ctx context.Context, svc *icon.Service, _ config.Settings, args []string) (string, error) {
			if len(args) == 0 {
				return "", errUsage("info needs at least one image path")
			}
			lines := make([]string, 0, len(args))
			for _, path := range args {
				info, err := svc.Inspect(ctx, path)
				if err != nil {
					return "", err
				}
				lines = append(lines, fmt.Sprintf("%s: %dx%d %s", info.Path, info.Width, info.Height, info.Format))
			}
			return strings.Join(lines, "\n"), nil
		},
	},
}

func lookup(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}
