package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/leeforge/iconkit/config"
	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/leeforge/iconkit/icon"
	"github.com/leeforge/iconkit/imaging"
	"github.com/leeforge/iconkit/logging"
	"github.com/leeforge/iconkit/storage"
	"github.com/leeforge/iconkit/watch"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// commonKeys maps flags shared by every command to config keys.
var commonKeys = map[string]string{
	"base-dir":   "base-dir",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-dir":    "log.director",
}

func errUsage(msg string) error {
	return apperrors.New(apperrors.ErrorTypeInvalid, msg).WithCode("usage")
}

// run executes one command and returns the process exit status. All
// user-facing output, success or failure, goes to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stdout)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd := lookup(args[0])
	if cmd == nil {
		fmt.Fprintf(stdout, "Error: unknown command %q\n", args[0])
		usage(stdout)
		return 2
	}

	defaults := config.Default()
	fs := pflag.NewFlagSet("iconkit "+cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stdout)
	configFile := fs.StringP("config", "c", "", "config file (default: iconkit.yaml in $CONFIG_PATH or .)")
	watchInput := fs.BoolP("watch", "w", false, "re-run whenever the input file changes")
	fs.String("base-dir", "", "directory relative paths resolve against")
	fs.String("log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	fs.String("log-format", defaults.Log.Format, "log format: console or json")
	fs.String("log-dir", "", "also write rotated logs to this directory")
	cmd.flags(fs, defaults)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	opts := config.DefaultOptions()
	opts.File = *configFile
	loader, err := config.NewLoader(opts)
	if err != nil {
		return report(stdout, err)
	}
	loader.ApplyFlags(fs, commonKeys)
	loader.ApplyFlags(fs, cmd.keys)

	settings, err := loader.Settings()
	if err != nil {
		return report(stdout, err)
	}

	logger := logging.NewLogger(settings.Log)
	defer logger.Close()
	if files := loader.Files(); len(files) > 0 {
		logger.Debug("config loaded", zap.Strings("files", files))
	}

	provider := storage.NewLocalProvider(settings.BaseDir)
	svc := icon.NewService(provider, provider, logger)

	// A panic in a decoder surfaces as an internal error, not a crash.
	once := func(ctx context.Context) (err error) {
		defer func() { err = apperrors.ErrorRecover(recover(), err) }()

		msg, err := cmd.run(ctx, svc, settings, fs.Args())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, msg)
		return nil
	}

	if *watchInput {
		if cmd.input == nil {
			return report(stdout, errUsage(cmd.name+" does not support --watch"))
		}
		input := cmd.input(settings)
		if settings.BaseDir != "" && !filepath.IsAbs(input) {
			input = filepath.Join(settings.BaseDir, input)
		}
		w := watch.New(input, logger)
		w.OnResult = func(err error) {
			if err != nil {
				printError(stdout, err)
			}
		}
		return report(stdout, w.Run(ctx, once))
	}

	return report(stdout, once(ctx))
}

var formatter = apperrors.NewErrorFormatter(false, false)

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, formatter.Format(err))
}

// report prints err, if any, and converts it to an exit status.
func report(w io.Writer, err error) int {
	if err != nil {
		printError(w, err)
	}
	return apperrors.ExitCode(err)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: iconkit <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Input formats: %s. Output is always PNG.\n", strings.Join(imaging.SupportedFormats, ", "))
	fmt.Fprintln(w, "Run 'iconkit <command> --help' for the flags of a command.")
}
