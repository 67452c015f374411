package logging

// ApplyError reports that a configuration could not be applied. The
// previously applied configuration stays in effect.
type ApplyError struct {
	Err error
}

func (e *ApplyError) Error() string {
	if e.Err == nil {
		return "logging config could not be applied"
	}
	return "logging config could not be applied: " + e.Err.Error()
}

func (e *ApplyError) Unwrap() error { return e.Err }

// LifecycleError reports an operation against a stopped service.
type LifecycleError struct {
	Operation string
}

func (e *LifecycleError) Error() string {
	return e.Operation + ": " + errMsgStopped
}
