package logging

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// parseLevel parses a string log level into a zerolog.Level.
// Returns zerolog.NoLevel and an error if parsing fails.
func parseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// The traversal prefers Station-Manager DetailedError.Cause() and then
// falls back to stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			msg := dErr.Error()
			chain = append(chain, msg)
			op := string(dErr.Op())
			ops = append(ops, op)
			// prefer unwrapping via our error type first
			err = dErr.Cause()
			continue
		}

		// Fallback: generic error
		msg := err.Error()
		// avoid infinite loops if messages repeat due to unusual cycles
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		// unwrap via stdlib
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}

// logEventBuilder creates a log event for the given level, stamped with
// the logger name and any pre-populated context fields. It uses reference
// counting so the live logger stays valid for the duration of the logging
// operation even when Stop runs concurrently. Levels that are disabled,
// and services that are not configured yet, yield a no-op LogEvent.
func logEventBuilder(s *Service, level zerolog.Level, name string, fields []field) LogEvent {
	if s == nil || !s.isConfigured.Load() {
		return newLogEvent(nil)
	}
	if level == zerolog.NoLevel {
		return newLogEvent(nil)
	}

	// Count the operation before taking the lock so Stop can wait for it.
	s.activeOps.Add(1)
	s.wg.Add(1)

	release := func() {
		s.activeOps.Add(-1)
		s.wg.Done()
	}

	// The read lock keeps Stop from tearing sinks down mid-creation.
	s.mu.RLock()

	if !s.isConfigured.Load() {
		s.mu.RUnlock()
		release()
		return newLogEvent(nil)
	}

	logger := s.logger.Load()
	if logger == nil {
		s.mu.RUnlock()
		release()
		return newLogEvent(nil)
	}

	if logger.GetLevel() > level {
		s.mu.RUnlock()
		release()
		return newLogEvent(nil)
	}

	// WithLevel rather than the level-specific constructors: fatal events
	// must not exit the process from inside the logger.
	event := logger.WithLevel(level)
	if name != emptyString {
		event = event.Str("logger", name)
	}
	event = applyFields(event, fields)

	s.mu.RUnlock()

	return newTrackedLogEvent(event, s)
}
