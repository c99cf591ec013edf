package safestop

import (
	"context"
	"fmt"

	"github.com/lif0/pkg/utils/errx"
)

type drainHook struct {
	name string
	fn   func(ctx context.Context) error
}

// OnDrained registers fn to run during Shutdown, after the coordinator has
// drained. Hooks run one by one in registration order.
//
// Returns ErrShutdownCalled once Shutdown has been called.
func (c *Coordinator) OnDrained(name string, fn func(ctx context.Context) error) error {
	if c.disposed.Load() {
		return ErrShutdownCalled
	}

	var err error
	c.hooks.Do(func(hs *[]drainHook) {
		if c.disposed.Load() {
			err = ErrShutdownCalled
			return
		}
		*hs = append(*hs, drainHook{name: name, fn: fn})
	})

	return err
}

// Shutdown stops the coordinator, waits for the drain and runs the drain hooks.
//
// If ctx is done before the drain, no hook runs and the MultiError holds the
// context error. A failing hook does not prevent the next ones; its error is
// collected as a *HookError. Shutdown runs once: later calls return
// ErrShutdownCalled.
func (c *Coordinator) Shutdown(ctx context.Context) errx.MultiError {
	if !c.disposed.CompareAndSwap(false, true) {
		return errx.MultiError{ErrShutdownCalled}
	}

	var hooks []drainHook
	c.hooks.Do(func(hs *[]drainHook) {
		hooks = *hs
		*hs = nil
	})

	errs := errx.MultiError{}
	c.Stop()

	if err := c.WaitForDrainContext(ctx); err != nil {
		c.cfg.logger.Error().Err(err).Int("active", c.Active()).Msg("safestop: drain did not complete, skipping drain hooks")
		errs.Append(fmt.Errorf("wait for drain: %w", err))
	} else {
		for _, h := range hooks {
			if hErr := h.fn(ctx); hErr != nil {
				c.cfg.logger.Error().Err(hErr).Str("hook", h.name).Msg("safestop: drain hook failed")
				errs.Append(&HookError{Name: h.name, Err: hErr})
			}
		}
	}

	c.errs.Store(errs)

	// broadcast for all who call WaitShutdown
	close(c.chsd)
	return errs
}

// WaitShutdown blocks until Shutdown has completed.
func (c *Coordinator) WaitShutdown() {
	<-c.chsd
}

// Err returns the errors collected by a completed Shutdown.
// It is empty before Shutdown completes.
func (c *Coordinator) Err() errx.MultiError {
	return c.errs.Load()
}
