package batch

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cwbudde/algo-unmix/internal/logger"
	"github.com/cwbudde/algo-unmix/mixture"
)

type options struct {
	workers           int
	logger            *log.Logger
	mixture           mixture.Config
	strictConvergence bool
	runID             string
	progress          func(done, total int)
}

// Option configures Run.
type Option func(*options)

// WithWorkers sets the number of rows resolved concurrently. Values
// below 2 resolve rows sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger for per-row diagnostics. Defaults to a
// discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMixtureConfig sets the resolver parameters.
func WithMixtureConfig(cfg mixture.Config) Option {
	return func(o *options) {
		o.mixture = cfg
	}
}

// WithStrictConvergence turns rows whose optimizer hit its evaluation cap
// into row failures instead of accepting the best point found.
func WithStrictConvergence(strict bool) Option {
	return func(o *options) {
		o.strictConvergence = strict
	}
}

// WithRunID sets the identifier attached to the report and every log line.
// Defaults to a random UUID.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithProgress registers fn to be called after each row finishes with the
// number of finished rows and the total. Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{workers: 1, logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}
