// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Discard is the log target that drops everything. The clock view owns the
// terminal, so it is the default while the TUI runs.
const Discard = "discard"

// Init initializes the global zerolog logger. logfile is "stdout", "stderr",
// "discard" or a file path; "" means stderr.
func Init(verbose bool, logfile string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var writer io.Writer
	target := strings.ToLower(logfile)
	switch target {
	case "stderr", "":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	case Discard:
		writer = io.Discard
	default:
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		writer = f
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	var logger zerolog.Logger
	switch target {
	case Discard:
		logger = zerolog.Nop()
	case "stdout", "stderr", "":
		ctx := zerolog.New(zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp()
		if verbose {
			ctx = ctx.Caller()
		}
		logger = ctx.Logger()
	default:
		// JSON for files
		ctx := zerolog.New(writer).With().Timestamp()
		if verbose {
			ctx = ctx.Caller()
		}
		logger = ctx.Logger()
	}

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return nil
}
