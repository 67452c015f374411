package root

// State is the lifecycle phase of a Root.
type State int

const (
	// StateCreated is the phase between New and Start.
	StateCreated State = iota
	// StateStarting covers logging setup and the server start.
	StateStarting
	// StateRunning means startup finished and the server is serving.
	StateRunning
	// StateStopping covers an in-progress shutdown.
	StateStopping
	// StateStopped is the terminal phase of an orderly shutdown.
	StateStopped
	// StateFailed is the terminal phase when startup did not complete.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
