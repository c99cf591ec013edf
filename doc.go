// Package safestop coordinates a graceful stop between concurrent workers and
// a shutdown initiator.
//
// Workers wrap work that must not be interrupted in a critical section
// (Coordinator.Enter / Section.Release). The initiator calls Coordinator.Stop,
// after which no new section can be opened, and then Coordinator.WaitForDrain,
// which blocks until every open section has been released.
//
// Example:
//
//	c := safestop.New(safestop.WithShutdownError(safestop.ErrShutdown))
//
//	go func() {
//		s, err := c.Enter()
//		if err != nil {
//			return // stopping
//		}
//		defer s.Release()
//		// ... work
//	}()
//
//	c.Stop()
//	c.WaitForDrain()
package safestop
