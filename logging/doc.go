// Package logging provides a thin, concurrency-safe wrapper over rs/zerolog
// with a structured-first API, live reconfiguration, and file rotation.
//
// Key features
//   - Structured logging only: typed fields over printf-style helpers
//   - Named loggers via a Factory; loggers vended before the first
//     configuration stay valid and follow every later reconfiguration
//   - Upgrade applies a new configuration atomically; on failure the
//     previous configuration stays in effect
//   - Graceful shutdown that waits for in-flight logs (bounded timeout)
//   - File rotation via lumberjack and configurable console formatting
//   - Error history enrichment: for any Err/AnErr, the logger includes
//     the full error chain (outermost -> root), the root cause string, a
//     joined human-readable history, the operations chain (when using
//     Station-Manager DetailedError), and the root operation if available.
//
// Typical usage
//
//	svc := logging.NewService(workingDir)
//	if err := svc.Upgrade(cfg); err != nil { ... }
//	defer svc.Stop(ctx)
//
//	log := svc.Get("server")
//	log.InfoWith().Str("addr", addr).Msg("listening")
package logging
