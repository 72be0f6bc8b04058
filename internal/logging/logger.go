// Package logging builds the structured logger used by geodsolve.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level, format and destination of the log.
type Config struct {
	Service    string
	Level      string // debug, info, warn or error
	Format     string // json or text
	File       string // rotating log file; empty logs to the fallback writer
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Logger wraps slog.Logger together with the file it may own.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// ParseLevel maps a level name to a slog.Level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger for cfg. Records go to a lumberjack-rotated file when
// cfg.File is set and to w otherwise. Standard output is reserved for
// results, so callers normally pass os.Stderr.
func New(cfg Config, w io.Writer) *Logger {
	l := &Logger{}
	if cfg.File != "" {
		fw := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		w, l.closer = fw, fw
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "timestamp"
			}
			return a
		},
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	l.Logger = slog.New(h)
	if cfg.Service != "" {
		l.Logger = l.Logger.With(slog.String("service", cfg.Service))
	}
	return l
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
