package safestop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lif0/go-safestop/internal"
	"github.com/lif0/pkg/utils/errx"
)

// Coordinator tracks open critical sections and releases drain waiters once
// it is stopped and the last section is closed.
//
// Use New to create a new instance. A Coordinator must not be copied.
type Coordinator struct {
	cfg *config

	stopped atomic.Bool
	stopCh  chan struct{}

	// mu guards the section set and the drain latch.
	mu        sync.Mutex
	nextID    uint64
	active    map[uint64]struct{}
	drained   chan struct{}
	drainOpen bool

	enterErr internal.Guarded[error]

	// Shutdown state, see shutdown.go.
	hooks    internal.Guarded[[]drainHook]
	disposed atomic.Bool
	errs     internal.Guarded[errx.MultiError]
	chsd     chan struct{}
}

// New creates and returns a new initialized Coordinator.
func New(opts ...Option) *Coordinator {
	cfg := newDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Coordinator{
		cfg:     cfg,
		stopCh:  make(chan struct{}),
		active:  make(map[uint64]struct{}),
		drained: make(chan struct{}),
		chsd:    make(chan struct{}),
	}
	c.enterErr.Store(cfg.enterErr)

	return c
}

// Enter opens a new critical section.
//
// Once the coordinator is stopped, Enter fails with the configured shutdown
// error (see WithShutdownError). Without one it blocks; since a coordinator is
// never restarted, that means forever.
func (c *Coordinator) Enter() (*Section, error) {
	return c.EnterContext(context.Background())
}

// EnterContext is Enter that gives up with ctx.Err() when ctx is done while
// waiting behind a stopped coordinator.
func (c *Coordinator) EnterContext(ctx context.Context) (*Section, error) {
	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		if c.stopped.Load() {
			if err := c.enterErr.Load(); err != nil {
				c.cfg.logger.Debug().Err(err).Msg("safestop: critical section rejected after stop")
				return nil, err
			}

			if ticker == nil {
				ticker = time.NewTicker(c.cfg.pollInterval)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
			}
			continue
		}

		if id, ok := c.insert(); ok {
			return newSection(c, id), nil
		}
	}
}

// insert allocates a section id. It fails if Stop won the race against the
// unguarded check in EnterContext.
func (c *Coordinator) insert() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped.Load() {
		return 0, false
	}

	id := c.nextID
	c.nextID++
	c.active[id] = struct{}{}
	return id, true
}

// Exit closes the critical section id.
// Returns false if id is not open (never entered or already exited).
func (c *Coordinator) Exit(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.active[id]; !ok {
		c.cfg.logger.Debug().Uint64("section", id).Msg("safestop: exit of unknown section ignored")
		return false
	}

	delete(c.active, id)
	c.tryOpenLocked()
	return true
}

// Stop sets the stop flag. It does not wait for the drain and may be called
// any number of times; only the call that actually stopped the coordinator
// returns true.
func (c *Coordinator) Stop() bool {
	if !c.stopped.CompareAndSwap(false, true) {
		return false
	}

	close(c.stopCh)

	// A waiter that arrived before Stop with no open section has no Exit to wake it.
	c.mu.Lock()
	active := len(c.active)
	c.tryOpenLocked()
	c.mu.Unlock()

	c.cfg.logger.Info().Int("active", active).Msg("safestop: stop requested")
	return true
}

// IsStopped reports whether Stop has been called.
func (c *Coordinator) IsStopped() bool {
	return c.stopped.Load()
}

// Stopped returns a channel that is closed by the first Stop.
func (c *Coordinator) Stopped() <-chan struct{} {
	return c.stopCh
}

// WaitForDrain blocks until the coordinator is stopped and every critical
// section is closed. Any number of goroutines may wait, before or after the
// drain happens.
func (c *Coordinator) WaitForDrain() {
	_ = c.WaitForDrainContext(context.Background())
}

// WaitForDrainContext is WaitForDrain that returns ctx.Err() if ctx is done first.
func (c *Coordinator) WaitForDrainContext(ctx context.Context) error {
	c.mu.Lock()
	c.tryOpenLocked()
	c.mu.Unlock()

	select {
	case <-c.drained:
		return nil
	default:
	}

	select {
	case <-c.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drained returns the drain latch: a channel closed once the coordinator is
// stopped and empty.
func (c *Coordinator) Drained() <-chan struct{} {
	return c.drained
}

// Active returns the number of open critical sections.
func (c *Coordinator) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.active)
}

// Status returns the current phase of the coordinator.
func (c *Coordinator) Status() Status {
	if !c.stopped.Load() {
		return StatusRunning
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tryOpenLocked()
	if c.drainOpen {
		return StatusDrained
	}
	return StatusDraining
}

// SetShutdownError replaces the error returned by Enter after Stop.
// Enter calls already waiting pick it up on their next poll.
// It panics with ErrNilShutdownError if err is nil.
func (c *Coordinator) SetShutdownError(err error) {
	if err == nil {
		panic(ErrNilShutdownError)
	}

	c.enterErr.Store(err)
}

// tryOpenLocked opens the drain latch if the coordinator is stopped and empty.
// c.mu must be held.
func (c *Coordinator) tryOpenLocked() {
	if c.drainOpen || !c.stopped.Load() || len(c.active) != 0 {
		return
	}

	c.drainOpen = true
	close(c.drained)
	c.cfg.logger.Info().Uint64("sections_total", c.nextID).Msg("safestop: drained")
}
