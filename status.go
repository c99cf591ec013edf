package safestop

import "strconv"

// Status is the observable phase of a Coordinator.
type Status int32

const (
	// StatusRunning: Stop has not been called, sections may be opened.
	StatusRunning Status = iota
	// StatusDraining: Stop has been called and at least one section is still open.
	StatusDraining
	// StatusDrained: Stop has been called and no section is open.
	StatusDrained
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusDraining:
		return "Draining"
	case StatusDrained:
		return "Drained"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}
