package safestop

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTriggerConfig(exitCodes chan int, opts ...TriggerOption) *triggerConfig {
	tc := &triggerConfig{exit: func(code int) { exitCodes <- code }}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

func Test_runTrigger(t *testing.T) {
	t.Parallel()

	t.Run("ok/userChannelShutsDown", func(t *testing.T) {
		t.Parallel()
		// arrange
		c := New()
		userCh := make(chan struct{}, 1)
		exits := make(chan int, 1)
		tc := testTriggerConfig(exits, WithUserChanSignal(userCh))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go runTrigger(ctx, c, tc)

		// act
		userCh <- struct{}{}

		// assert
		select {
		case <-c.chsd:
		case <-time.After(time.Second):
			t.Fatal("trigger did not run Shutdown")
		}
		assert.True(t, c.IsStopped())
		assert.Empty(t, exits)
	})

	t.Run("ok/systemSignalShutsDown", func(t *testing.T) {
		t.Parallel()
		// arrange
		c := New()
		sysCh := make(chan os.Signal, 1)
		exits := make(chan int, 1)
		tc := testTriggerConfig(exits, WithCustomSystemSignal(sysCh))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go runTrigger(ctx, c, tc)

		// act
		sysCh <- syscall.SIGTERM

		// assert
		select {
		case <-c.chsd:
		case <-time.After(time.Second):
			t.Fatal("trigger did not run Shutdown")
		}
	})

	t.Run("ok/secondTriggerForcesExit", func(t *testing.T) {
		t.Parallel()
		// arrange
		c := New()
		s, err := c.Enter()
		require.NoError(t, err)
		defer s.Release()

		sysCh := make(chan os.Signal, 1)
		exits := make(chan int, 1)
		tc := testTriggerConfig(exits, WithCustomSystemSignal(sysCh))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go runTrigger(ctx, c, tc)

		// act
		sysCh <- syscall.SIGINT
		assert.Eventually(t, c.IsStopped, time.Second, 5*time.Millisecond)
		sysCh <- syscall.SIGINT

		// assert
		select {
		case code := <-exits:
			assert.Equal(t, 1, code)
		case <-time.After(time.Second):
			t.Fatal("second trigger did not force exit")
		}
		assert.Equal(t, StatusDraining, c.Status())
	})

	t.Run("edge/canceledContextDoesNothing", func(t *testing.T) {
		t.Parallel()
		// arrange
		c := New()
		userCh := make(chan struct{}, 1)
		exits := make(chan int, 1)
		tc := testTriggerConfig(exits, WithUserChanSignal(userCh))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		// act
		go func() {
			runTrigger(ctx, c, tc)
			close(done)
		}()
		cancel()

		// assert
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("trigger goroutine did not return on cancel")
		}
		assert.False(t, c.IsStopped())
	})
}

func Test_SetStopTrigger(t *testing.T) {
	// signal.Notify touches global process state; avoid parallel here
	t.Run("ok/userChannel", func(t *testing.T) {
		// arrange
		c := New()
		userCh := make(chan struct{}, 1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		SetStopTrigger(ctx, c, WithUserChanSignal(userCh), WithTimeout(time.Second))

		// act
		userCh <- struct{}{}
		done := make(chan struct{})
		go func() {
			c.WaitShutdown()
			close(done)
		}()

		// assert
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("SetStopTrigger did not shut down the coordinator")
		}
		errs := c.Err()
		assert.True(t, errs.IsEmpty())
	})
}
