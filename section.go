package safestop

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Section is an open critical section returned by Coordinator.Enter.
//
// The caller must call Release exactly when the protected work is finished,
// usually with defer. Release is idempotent.
type Section struct {
	c        *Coordinator
	id       uint64
	released *atomic.Bool
}

type leakProbe struct {
	id       uint64
	released *atomic.Bool
}

func newSection(c *Coordinator, id uint64) *Section {
	s := &Section{
		c:        c,
		id:       id,
		released: new(atomic.Bool),
	}

	if c.cfg.onLeak != nil {
		runtime.AddCleanup(s, c.reportLeak, leakProbe{id: id, released: s.released})
	}

	return s
}

// ID returns the section id, unique within its Coordinator.
func (s *Section) ID() uint64 {
	return s.id
}

// Release closes the section. Only the first call exits the section and
// returns true; the following calls do nothing.
func (s *Section) Release() bool {
	if s == nil || !s.released.CompareAndSwap(false, true) {
		return false
	}

	s.c.Exit(s.id)
	return true
}

// Critical runs fn inside a critical section and releases it when fn returns
// or panics. The error of EnterContext is returned without calling fn.
func (c *Coordinator) Critical(ctx context.Context, fn func(ctx context.Context) error) error {
	s, err := c.EnterContext(ctx)
	if err != nil {
		return err
	}
	defer s.Release()

	return fn(ctx)
}

func (c *Coordinator) reportLeak(p leakProbe) {
	if p.released.Load() {
		return
	}

	c.cfg.logger.Warn().Uint64("section", p.id).Msg("safestop: section garbage collected without Release")
	c.cfg.onLeak(p.id)
}
