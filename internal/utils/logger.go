package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

// Logger is a wrapper around zerolog.Logger with snipdocs field helpers
type Logger struct {
	zerolog.Logger
}

// LoggerOptions contains options for creating a logger
type LoggerOptions struct {
	Level   string
	Format  string // "pretty" or "json"
	Output  io.Writer
	Verbose bool
}

// NewLogger creates a new logger with the given options. Unknown levels
// fall back to info.
func NewLogger(opts LoggerOptions) *Logger {
	var output io.Writer = os.Stderr
	if opts.Output != nil {
		output = opts.Output
	}

	if opts.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return &Logger{Logger: zerolog.New(output).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that drops everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}

// WithFile returns a logger with a file field
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("file", path).Logger()}
}

// WithKey returns a logger with a snippet key field
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("key", key).Logger()}
}

// WithLocation returns a logger carrying a source span as file, line and,
// when known, end_line fields
func (l *Logger) WithLocation(loc domain.Location) *Logger {
	ctx := l.Logger.With().Str("file", loc.File).Int("line", loc.StartLine)
	if loc.EndLine > 0 {
		ctx = ctx.Int("end_line", loc.EndLine)
	}
	return &Logger{Logger: ctx.Logger()}
}

// ExtractionError logs a recoverable extraction problem at warn level
func (l *Logger) ExtractionError(e domain.ExtractionError) {
	l.WithLocation(e.Location).Warn().Msg(e.Message)
}

// MissingSnippet logs an import directive of doc whose key has no snippet
func (l *Logger) MissingSnippet(doc string, m domain.MissingSnippet) {
	l.WithFile(doc).WithKey(m.Key).Warn().Int("line", m.Line).Msg("Snippet not found")
}
