package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// fileName is the rotated log file created under Config.Director.
const fileName = "iconkit.log"

// newFileWriter returns a lumberjack-backed rotating writer for the config.
func newFileWriter(config Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(config.Director, fileName),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true,
	}
}

// terminalSyncer returns the terminal stream selected by Output, or nil.
func terminalSyncer(output string) zapcore.WriteSyncer {
	switch output {
	case "stdout":
		return zapcore.Lock(os.Stdout)
	case "none":
		return nil
	default:
		return zapcore.Lock(os.Stderr)
	}
}

// getWriteSyncer combines the terminal stream and, when Director is set, a
// rotating file. The returned closer releases the file; it is never nil.
func getWriteSyncer(config Config) (zapcore.WriteSyncer, func() error) {
	var syncers []zapcore.WriteSyncer
	closer := func() error { return nil }

	if ws := terminalSyncer(config.Output); ws != nil {
		syncers = append(syncers, ws)
	}

	if config.Director != "" {
		fw := newFileWriter(config)
		syncers = append(syncers, zapcore.AddSync(fw))
		closer = fw.Close
	}

	switch len(syncers) {
	case 0:
		return zapcore.AddSync(io.Discard), closer
	case 1:
		return syncers[0], closer
	default:
		return zapcore.NewMultiWriteSyncer(syncers...), closer
	}
}
