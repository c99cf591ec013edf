package safestop

import (
	"context"
	"sync"

	"github.com/lif0/pkg/concurrency/chanx"
)

// SetStopTrigger starts a goroutine that runs c.Shutdown on the first trigger.
//
// Triggers are OS signals (SIGINT and SIGTERM by default) and the user
// channels given with WithUserChanSignal. A trigger received after the first
// one forces the process to exit with code 1, even while the drain is in
// progress. If ctx is canceled the goroutine returns without triggering.
func SetStopTrigger(ctx context.Context, c *Coordinator, opts ...TriggerOption) {
	tc := newDefaultTriggerConfig()
	for _, opt := range opts {
		opt(tc)
	}

	go runTrigger(ctx, c, tc)
}

func runTrigger(ctx context.Context, c *Coordinator, tc *triggerConfig) {
	var once sync.Once // ensures Shutdown is attempted only once
	log := c.cfg.logger

	var userCh <-chan struct{}
	if len(tc.usrch) > 0 {
		userCh = chanx.FanIn(ctx, tc.usrch...)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-tc.sysch:
			log.Info().Str("signal", sig.String()).Msg("safestop: received system signal")
		case _, ok := <-userCh:
			if !ok {
				// every user channel is closed, the closure is the trigger
				userCh = nil
			}
			log.Info().Msg("safestop: received user trigger")
		}

		if ctx.Err() != nil {
			return
		}

		triggered := false
		once.Do(func() {
			triggered = true
			go func() {
				shutdownCtx, cancel := tc.shutdownContext(ctx)
				defer cancel()

				if errs := c.Shutdown(shutdownCtx); !errs.IsEmpty() {
					log.Error().Err(errs.MaybeUnwrap()).Msg("safestop: shutdown completed with errors, see Coordinator.Err")
					return
				}
				log.Info().Msg("safestop: shutdown completed")
			}()
		})

		if !triggered {
			log.Warn().Msg("safestop: received additional trigger - forcing exit")
			tc.exit(1)
			return
		}
	}
}
