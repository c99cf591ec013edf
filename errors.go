package safestop

import (
	"errors"
	"fmt"
)

// ErrShutdown is a ready-made value for WithShutdownError.
// Use errors.Is(err, ErrShutdown) to detect a rejected Enter.
var ErrShutdown = errors.New("critical section rejected: coordinator is stopped")

// ErrNilShutdownError is the panic value of WithShutdownError and
// Coordinator.SetShutdownError when they receive a nil error.
var ErrNilShutdownError = errors.New("shutdown error must not be nil")

// ErrShutdownCalled is returned when OnDrained or Shutdown is invoked after Shutdown.
// Use errors.Is(err, ErrShutdownCalled) to detect this case.
var ErrShutdownCalled = errors.New("operation disabled after Shutdown")

// HookError is returned (inside the Shutdown MultiError) for every drain hook
// that failed.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("drain hook %q: %v", e.Name, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
