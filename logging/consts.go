package logging

const emptyString = ""

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgNilService    = "Logger service is nil."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgStopped       = "Logging service has been stopped."
	errMsgRelDir        = "RelLogFileDir must be a relative path inside the working directory."
)

// DefaultShutdownTimeoutMS bounds the wait for in-flight log events during
// Stop when the applied configuration does not specify one.
const DefaultShutdownTimeoutMS = 2000
