package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogContext provides a fluent interface for building a logger with
// pre-populated fields. Fields added through LogContext are included in
// all subsequent log messages of the logger it creates.
type LogContext interface {
	Str(key, val string) LogContext
	Int(key string, val int) LogContext
	Int64(key string, val int64) LogContext
	Float64(key string, val float64) LogContext
	Bool(key string, val bool) LogContext
	Time(key string, val time.Time) LogContext
	Interface(key string, val interface{}) LogContext
	// Logger creates and returns the new context logger
	Logger() Logger
}

// LogEvent provides a fluent interface for structured logging with
// type-safe field methods. It wraps zerolog.Event behind a nil-safe API.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Stringer(key string, val interface{ String() string }) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Uint64(key string, val uint64) LogEvent
	Float64(key string, val float64) LogEvent
	Bool(key string, val bool) LogEvent
	Time(key string, val time.Time) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Interface(key string, val interface{}) LogEvent
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// field is one pre-populated context field carried by named loggers.
type field struct {
	key string
	val interface{}
}

// applyFields stamps accumulated context fields onto a fresh event.
func applyFields(e *zerolog.Event, fields []field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.val.(type) {
		case string:
			e = e.Str(f.key, v)
		case int:
			e = e.Int(f.key, v)
		case int64:
			e = e.Int64(f.key, v)
		case uint64:
			e = e.Uint64(f.key, v)
		case float64:
			e = e.Float64(f.key, v)
		case bool:
			e = e.Bool(f.key, v)
		case time.Time:
			e = e.Time(f.key, v)
		case time.Duration:
			e = e.Dur(f.key, v)
		case error:
			e = e.AnErr(f.key, v)
		case fmt.Stringer:
			e = e.Stringer(f.key, v)
		default:
			e = e.Interface(f.key, v)
		}
	}
	return e
}

// logEvent implements LogEvent by wrapping zerolog.Event
type logEvent struct {
	event *zerolog.Event
}

// trackedLogEvent decrements the service's in-flight counters once the
// event is finished with Msg, Msgf or Send.
type trackedLogEvent struct {
	logEvent
	service *Service
}

// newLogEvent creates a new LogEvent wrapper; nil yields a no-op event.
func newLogEvent(e *zerolog.Event) LogEvent {
	return &logEvent{event: e}
}

func newTrackedLogEvent(e *zerolog.Event, s *Service) LogEvent {
	if e == nil || s == nil {
		return &logEvent{event: nil}
	}
	return &trackedLogEvent{
		logEvent: logEvent{event: e},
		service:  s,
	}
}

func (e *logEvent) Str(key, val string) LogEvent {
	if e.event != nil {
		e.event.Str(key, val)
	}
	return e
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	if e.event != nil {
		e.event.Strs(key, vals)
	}
	return e
}

func (e *logEvent) Stringer(key string, val interface{ String() string }) LogEvent {
	if e.event != nil {
		e.event.Stringer(key, val)
	}
	return e
}

func (e *logEvent) Int(key string, val int) LogEvent {
	if e.event != nil {
		e.event.Int(key, val)
	}
	return e
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	if e.event != nil {
		e.event.Int64(key, val)
	}
	return e
}

func (e *logEvent) Uint64(key string, val uint64) LogEvent {
	if e.event != nil {
		e.event.Uint64(key, val)
	}
	return e
}

func (e *logEvent) Float64(key string, val float64) LogEvent {
	if e.event != nil {
		e.event.Float64(key, val)
	}
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	if e.event != nil {
		e.event.Bool(key, val)
	}
	return e
}

func (e *logEvent) Time(key string, val time.Time) LogEvent {
	if e.event != nil {
		e.event.Time(key, val)
	}
	return e
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	if e.event != nil {
		e.event.Dur(key, val)
	}
	return e
}

func (e *logEvent) Err(err error) LogEvent {
	if e.event != nil {
		e.event.Err(err)
		if err != nil {
			chain, ops, root, rootOp := buildErrorChain(err)
			if len(chain) > 0 {
				// include array and joined string for readability
				e.event.Strs("error_chain", chain)
				e.event.Str("error_root", root)
				e.event.Str("error_history", joinChain(chain))
				e.event.Strs("error_ops", ops)
				if rootOp != "" {
					e.event.Str("error_root_op", rootOp)
				}
			}
		}
	}
	return e
}

func (e *logEvent) AnErr(key string, err error) LogEvent {
	if e.event != nil {
		e.event.AnErr(key, err)
		if err != nil {
			chain, ops, root, rootOp := buildErrorChain(err)
			if len(chain) > 0 {
				e.event.Strs(key+"_chain", chain)
				e.event.Str(key+"_root", root)
				e.event.Str(key+"_history", joinChain(chain))
				e.event.Strs(key+"_ops", ops)
				if rootOp != "" {
					e.event.Str(key+"_root_op", rootOp)
				}
			}
		}
	}
	return e
}

func (e *logEvent) Interface(key string, val interface{}) LogEvent {
	if e.event != nil {
		e.event.Interface(key, val)
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	if e.event != nil {
		e.event.Msg(msg)
	}
}

func (e *logEvent) Msgf(format string, v ...interface{}) {
	if e.event != nil {
		e.event.Msgf(format, v...)
	}
}

func (e *logEvent) Send() {
	if e.event != nil {
		e.event.Send()
	}
}

// Override Msg, Msgf, and Send for trackedLogEvent to decrement counters.
func (e *trackedLogEvent) Msg(msg string) {
	defer func() {
		e.service.activeOps.Add(-1)
		e.service.wg.Done()
	}()
	if e.event != nil {
		e.event.Msg(msg)
	}
}

func (e *trackedLogEvent) Msgf(format string, v ...interface{}) {
	defer func() {
		e.service.activeOps.Add(-1)
		e.service.wg.Done()
	}()
	if e.event != nil {
		e.event.Msgf(format, v...)
	}
}

func (e *trackedLogEvent) Send() {
	defer func() {
		e.service.activeOps.Add(-1)
		e.service.wg.Done()
	}()
	if e.event != nil {
		e.event.Send()
	}
}

// namedLogger is a cheap handle vended by the service's Factory. It
// resolves the CURRENT live logger at event-creation time, so events
// always reflect the latest applied configuration.
type namedLogger struct {
	parent *Service
	name   string
	fields []field
}

func (l *namedLogger) DebugWith() LogEvent {
	return logEventBuilder(l.parent, zerolog.DebugLevel, l.name, l.fields)
}

func (l *namedLogger) InfoWith() LogEvent {
	return logEventBuilder(l.parent, zerolog.InfoLevel, l.name, l.fields)
}

func (l *namedLogger) WarnWith() LogEvent {
	return logEventBuilder(l.parent, zerolog.WarnLevel, l.name, l.fields)
}

func (l *namedLogger) ErrorWith() LogEvent {
	return logEventBuilder(l.parent, zerolog.ErrorLevel, l.name, l.fields)
}

func (l *namedLogger) FatalWith() LogEvent {
	return logEventBuilder(l.parent, zerolog.FatalLevel, l.name, l.fields)
}

func (l *namedLogger) With() LogContext {
	return &logContext{
		parent: l.parent,
		name:   l.name,
		fields: append([]field(nil), l.fields...),
	}
}

// logContext accumulates fields for a derived logger.
type logContext struct {
	parent *Service
	name   string
	fields []field
}

func (c *logContext) add(key string, val interface{}) LogContext {
	c.fields = append(c.fields, field{key: key, val: val})
	return c
}

func (c *logContext) Str(key, val string) LogContext              { return c.add(key, val) }
func (c *logContext) Int(key string, val int) LogContext          { return c.add(key, val) }
func (c *logContext) Int64(key string, val int64) LogContext      { return c.add(key, val) }
func (c *logContext) Float64(key string, val float64) LogContext  { return c.add(key, val) }
func (c *logContext) Bool(key string, val bool) LogContext        { return c.add(key, val) }
func (c *logContext) Time(key string, val time.Time) LogContext   { return c.add(key, val) }
func (c *logContext) Interface(key string, val interface{}) LogContext {
	return c.add(key, val)
}

func (c *logContext) Logger() Logger {
	return &namedLogger{
		parent: c.parent,
		name:   c.name,
		fields: append([]field(nil), c.fields...),
	}
}
