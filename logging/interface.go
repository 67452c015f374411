package logging

// Logger provides structured logging through fluent, type-safe events.
// Loggers are cheap handles onto the live logging configuration: events
// created after a reconfiguration reflect the new configuration, no
// matter when the logger itself was obtained.
type Logger interface {
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	// FatalWith logs at fatal severity but does NOT terminate the process;
	// whether a fatal condition ends the process is the lifecycle owner's
	// decision, not the logger's.
	FatalWith() LogEvent

	// With creates a new logger with pre-populated fields that will be
	// included in all subsequent log messages.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}

// Factory vends named loggers backed by the live logging configuration.
type Factory interface {
	Get(name string) Logger
}
