package logging

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service owns the live logger configuration. It starts unconfigured:
// loggers can already be vended but their events are no-ops until the
// first successful Upgrade. Upgrade swaps the configuration atomically,
// Stop flushes and releases the sinks.
//
// Upgrade and Stop are serialized on the service mutex, so a Stop that
// races an in-flight Upgrade waits for it rather than pulling the sinks
// out from under it.
type Service struct {
	workingDir string

	mu         sync.RWMutex
	logger     atomic.Pointer[zerolog.Logger]
	fileWriter *lumberjack.Logger
	current    *Config

	isConfigured atomic.Bool
	isClosed     atomic.Bool

	wg        sync.WaitGroup
	activeOps atomic.Int64
}

// NewService returns an unconfigured service. Relative log file paths are
// anchored at workingDir.
func NewService(workingDir string) *Service {
	return &Service{workingDir: workingDir}
}

// Get implements Factory. The returned logger stays valid across
// reconfigurations; before the first Upgrade its events are no-ops.
func (s *Service) Get(name string) Logger {
	return &namedLogger{parent: s, name: name}
}

// Upgrade validates cfg and makes it the live configuration. Equal
// configurations are a no-op. On failure the previous configuration
// remains in effect and an *ApplyError describes why; after Stop an
// *LifecycleError is returned instead.
func (s *Service) Upgrade(cfg *Config) error {
	const op errors.Op = "logging.Upgrade"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.isClosed.Load() {
		return &LifecycleError{Operation: "upgrade"}
	}
	if err := validateConfig(cfg); err != nil {
		return &ApplyError{Err: err}
	}

	applied, err := s.apply(cfg)
	if err != nil {
		return err
	}
	if applied {
		s.DebugWith().Str("level", cfg.Level).Msg("logging configuration applied")
		s.Dump(*cfg)
	}
	return nil
}

func (s *Service) apply(cfg *Config) (bool, error) {
	const op errors.Op = "logging.apply"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed.Load() {
		return false, &LifecycleError{Operation: "upgrade"}
	}
	if s.current != nil && cmp.Equal(s.current, cfg) {
		return false, nil
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return false, &ApplyError{Err: errors.New(op).Err(err).Msg("Unknown logging level.")}
	}

	writers, fileWriter, err := buildWriters(s.workingDir, cfg)
	if err != nil {
		return false, &ApplyError{Err: err}
	}

	logger := zerolog.New(io.MultiWriter(writers...)).Level(level)
	if cfg.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	if cfg.SkipFrameCount > 0 {
		logger = logger.With().CallerWithSkipFrameCount(cfg.SkipFrameCount).Logger()
	}

	old := s.fileWriter
	s.fileWriter = fileWriter
	s.logger.Store(&logger)
	snapshot := *cfg
	s.current = &snapshot
	s.isConfigured.Store(true)

	// The previous sink is released only after the swap so no event ever
	// observes a closed writer.
	if old != nil {
		_ = old.Close()
	}
	return true, nil
}

// Stop waits for in-flight log events (bounded by the configured shutdown
// timeout), then flushes and releases the sinks. Safe to call multiple
// times; after Stop, Upgrade fails with *LifecycleError.
func (s *Service) Stop(ctx context.Context) error {
	const op errors.Op = "logging.Stop"
	if s == nil {
		return nil
	}
	if !s.isClosed.CompareAndSwap(false, true) {
		return nil
	}

	timeout := time.Duration(DefaultShutdownTimeoutMS) * time.Millisecond
	s.mu.RLock()
	if s.current != nil && s.current.ShutdownTimeoutMS > 0 {
		timeout = time.Duration(s.current.ShutdownTimeoutMS) * time.Millisecond
	}
	s.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isConfigured.Store(false)
	s.logger.Store(nil)
	if s.fileWriter != nil {
		fw := s.fileWriter
		s.fileWriter = nil
		if err := fw.Close(); err != nil {
			return errors.New(op).Err(err).Msg("Failed to close the log file sink.")
		}
	}
	return nil
}

// Structured logging methods; the service doubles as the unnamed logger.

// DebugWith returns a LogEvent for structured Debug-level logging.
func (s *Service) DebugWith() LogEvent {
	return logEventBuilder(s, zerolog.DebugLevel, emptyString, nil)
}

// InfoWith returns a LogEvent for structured Info-level logging.
// Example: svc.InfoWith().Str("share", name).Int("count", 5).Msg("loaded")
func (s *Service) InfoWith() LogEvent {
	return logEventBuilder(s, zerolog.InfoLevel, emptyString, nil)
}

// WarnWith returns a LogEvent for structured Warn-level logging.
func (s *Service) WarnWith() LogEvent {
	return logEventBuilder(s, zerolog.WarnLevel, emptyString, nil)
}

// ErrorWith returns a LogEvent for structured Error-level logging.
// Example: svc.ErrorWith().Err(err).Str("operation", "listen").Msg("failed")
func (s *Service) ErrorWith() LogEvent {
	return logEventBuilder(s, zerolog.ErrorLevel, emptyString, nil)
}

// FatalWith returns a LogEvent at fatal severity. Unlike zerolog's own
// Fatal it does not exit the process.
func (s *Service) FatalWith() LogEvent {
	return logEventBuilder(s, zerolog.FatalLevel, emptyString, nil)
}

// With returns a LogContext for creating a derived logger with
// pre-populated fields.
func (s *Service) With() LogContext {
	return &logContext{parent: s}
}
