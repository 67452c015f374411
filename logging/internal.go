package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/utils"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func newRollingFileLogger(workingDir string, cfg *Config, exeName string) *lumberjack.Logger {
	if exeName == emptyString {
		exeName = "app"
	}

	path := filepath.Join(workingDir, cfg.RelLogFileDir, exeName+".log")

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAgeDays,
		MaxSize:    cfg.LogFileMaxSizeMB,
		Compress:   cfg.LogFileCompress,
	}
}

// buildWriters assembles the sink set for cfg. The log directory is
// created eagerly so an unreachable file sink fails the upgrade instead
// of the first write.
func buildWriters(workingDir string, cfg *Config) ([]io.Writer, *lumberjack.Logger, error) {
	const op errors.Op = "logging.buildWriters"

	var writers []io.Writer
	var fileWriter *lumberjack.Logger

	if cfg.FileLogging {
		dir := filepath.Join(workingDir, cfg.RelLogFileDir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, nil, errors.New(op).Err(err).Msg("Failed to create the logs directory.")
		}

		exeName, err := utils.ExecName(true)
		if err != nil {
			return nil, nil, errors.New(op).Err(err).Msg("Failed to resolve the executable name.")
		}

		fileWriter = newRollingFileLogger(workingDir, cfg, exeName)
		writers = append(writers, fileWriter)
	}

	if cfg.ConsoleLogging {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.ConsoleNoColor}
		if cfg.ConsoleTimeFormat != emptyString {
			cw.TimeFormat = cfg.ConsoleTimeFormat
		}
		writers = append(writers, cw)
	}

	if len(writers) == 0 {
		return nil, nil, errors.New(op).Msg("No logging channels enabled.")
	}

	return writers, fileWriter, nil
}
