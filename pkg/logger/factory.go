package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format represents logger output format.
type Format string

const (
	// FormatJSON outputs structured records for log collection.
	FormatJSON Format = "json"
	// FormatText outputs human-readable records for development.
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the output format. Invalid formats panic so a
// misconfigured binary fails at startup instead of logging garbage.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets a custom output destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		if len(attrs) > 0 {
			c.attrs = append(c.attrs, attrs...)
		}
	}
}

// WithDevelopment configures text output at debug level, tagged with the
// app name.
func WithDevelopment(app string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.format = FormatText
		if app != "" {
			c.attrs = append(c.attrs, slog.String("app", app))
		}
	}
}

// WithProduction configures JSON output at info level, tagged with the app
// name.
func WithProduction(app string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.format = FormatJSON
		if app != "" {
			c.attrs = append(c.attrs, slog.String("app", app))
		}
	}
}

// SetAsDefault installs l as the process-wide slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

type config struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

// New creates a configured slog.Logger. Defaults are JSON at info level on
// stderr, which keeps structured output off the interactive stdout stream.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}

	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(handler)
}

// Error creates an attribute for a single error under the key "error".
// Nil errors yield an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}
