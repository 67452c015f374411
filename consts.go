package root

import "time"

const (
	errMsgAlreadyStarted = "Root can only be started once."
	errMsgNilRoot        = "Root is nil."
	errMsgShutDownEarly  = "Root was shut down during startup."
)

// DefaultShutdownTimeout bounds the orderly shutdown of the hosted
// services when no other bound was configured.
const DefaultShutdownTimeout = 10 * time.Second
