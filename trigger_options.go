package safestop

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// triggerConfig represents the configuration for stop triggers.
type triggerConfig struct {
	sysch <-chan os.Signal
	usrch []<-chan struct{}

	timeout time.Duration
	exit    func(code int)
}

type TriggerOption func(*triggerConfig)

// WithCustomSystemSignal sets a custom OS signal channel
//
// Example:
//
//	ch := make(chan os.Signal, 1)
//	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
//	safestop.SetStopTrigger(ctx, c, safestop.WithCustomSystemSignal(ch))
func WithCustomSystemSignal(ch chan os.Signal) TriggerOption {
	return func(c *triggerConfig) {
		c.sysch = ch
	}
}

// WithSysSignal adds default OS signal handling
//
// SIGINT (Signal Interrupt) - Typically sent when user presses Ctrl+C
// SIGTERM (Signal Terminate) - Polite request to terminate the program (e.g., from Docker or Kubernetes).
func WithSysSignal() TriggerOption {
	return func(c *triggerConfig) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

		c.sysch = ch
	}
}

// WithUserChanSignal adds user channels that trigger the stop when they
// receive a value or when all of them are closed.
func WithUserChanSignal(uch ...<-chan struct{}) TriggerOption {
	return func(c *triggerConfig) {
		c.usrch = uch
	}
}

// WithTimeout sets the maximum duration of Shutdown (drain plus drain hooks).
// By default, no timeout is applied - Shutdown waits for every section.
// A non-positive timeout disables the deadline.
//
// Example:
//
//	WithTimeout(5 * time.Minute)
func WithTimeout(timeout time.Duration) TriggerOption {
	return func(c *triggerConfig) {
		c.timeout = timeout
	}
}

// newDefaultTriggerConfig create default config
func newDefaultTriggerConfig() *triggerConfig {
	config := &triggerConfig{exit: os.Exit}
	WithSysSignal()(config)
	WithTimeout(0)(config)

	return config
}

// shutdownContext derives the Shutdown context. It outlives ctx: canceling the
// trigger must not abort a drain that already started.
func (c *triggerConfig) shutdownContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, c.timeout)
}
