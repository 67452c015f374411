package server

const emptyString = ""

const (
	// DefaultPort is used when the snapshot does not name one.
	DefaultPort = 5601
	// DefaultShutdownTimeoutMS bounds the graceful drain during Stop.
	DefaultShutdownTimeoutMS = 5000
)

const (
	errMsgAlreadyStarted = "Server has already been started."
	errMsgResolveConfig  = "Could not resolve the server configuration."
	errMsgListenFailed   = "Could not bind the server listener."
)
