// Package sysutil configures process-wide logging for the server and CLI.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fatihsenyuz/Randevu/internal/config"
)

// SetLogLevel configures the global zerolog level based on a string value.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// LogWriter builds the log sink: stdout (a console writer when pretty) plus
// a rotating JSON file when f.Path is set. The returned closer flushes and
// closes the file and is never nil.
func LogWriter(stdout io.Writer, pretty bool, f config.LogFileConfig) (io.Writer, io.Closer) {
	var out io.Writer = stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}
	if f.Path == "" {
		return out, nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   f.Compress,
	}
	return zerolog.MultiLevelWriter(out, lj), lj
}

// SetupLogger installs the global logger for cfg and returns the closer of
// its file sink.
func SetupLogger(cfg config.Config, service string) io.Closer {
	SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w, closer := LogWriter(os.Stdout, cfg.LogPretty, cfg.LogFile)
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", service).Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
