package safestop

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often a stopped Enter re-checks the coordinator.
const DefaultPollInterval = 100 * time.Millisecond

// config represents the configuration of a Coordinator.
type config struct {
	enterErr     error
	pollInterval time.Duration

	logger zerolog.Logger
	onLeak func(id uint64)
}

type Option func(*config)

// WithShutdownError makes Enter fail fast with err once the coordinator is
// stopped, instead of blocking.
// It panics with ErrNilShutdownError if err is nil.
//
// Example:
//
//	safestop.New(safestop.WithShutdownError(safestop.ErrShutdown))
func WithShutdownError(err error) Option {
	if err == nil {
		panic(ErrNilShutdownError)
	}

	return func(c *config) {
		c.enterErr = err
	}
}

// WithPollInterval sets how often a blocked Enter re-checks the stop flag and
// the shutdown error. A non-positive interval keeps DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithLogger sets the logger used for stop/drain events.
// By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithLeakDetector enables the debug-only leak detector: fn is called with the
// id of every Section that became unreachable without Release.
// The section stays open; the detector only reports.
func WithLeakDetector(fn func(id uint64)) Option {
	return func(c *config) {
		c.onLeak = fn
	}
}

// newDefaultConfig create default config
func newDefaultConfig() *config {
	c := &config{}
	WithPollInterval(DefaultPollInterval)(c)
	WithLogger(zerolog.Nop())(c)

	return c
}
