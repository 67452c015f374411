package server

import "strconv"

// AddrInUseError reports that the configured port was already bound by
// another process when the listener was created.
type AddrInUseError struct {
	Port int
	Err  error
}

func (e *AddrInUseError) Error() string {
	return "address already in use on port " + strconv.Itoa(e.Port)
}

func (e *AddrInUseError) Unwrap() error { return e.Err }
