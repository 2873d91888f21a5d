// Package logger builds the charmbracelet/log loggers used by the unmix
// command and library packages.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type config struct {
	level     log.Level
	json      bool
	timestamp bool
	prefix    string
	writers   []io.Writer
}

// Option configures a Logger created with New.
type Option func(*config)

// WithDebug sets the log level to Debug when true, Info otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = log.DebugLevel
		} else {
			c.level = log.InfoLevel
		}
	}
}

// WithJSON switches to JSON output for machine-readable run logs.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithTimestamp includes a timestamp on every line.
func WithTimestamp(ts bool) Option {
	return func(c *config) {
		c.timestamp = ts
	}
}

// WithPrefix sets a prefix printed before every message.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithWriters sets the output writers (combined via io.MultiWriter).
// Defaults to os.Stderr.
func WithWriters(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}

// New returns a logger configured by opts.
func New(opts ...Option) *log.Logger {
	c := &config{level: log.InfoLevel, timestamp: true}
	for _, opt := range opts {
		opt(c)
	}

	var w io.Writer = os.Stderr
	switch len(c.writers) {
	case 0:
	case 1:
		w = c.writers[0]
	default:
		w = io.MultiWriter(c.writers...)
	}

	formatter := log.TextFormatter
	if c.json {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           c.level,
		ReportTimestamp: c.timestamp,
		Prefix:          c.prefix,
		Formatter:       formatter,
	})
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return log.New(io.Discard)
}
