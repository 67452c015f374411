package logging

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op errors.Op = "logging.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	// The log directory must stay inside the working directory.
	if cfg.FileLogging {
		dir := cfg.RelLogFileDir
		if filepath.IsAbs(dir) || strings.Contains(filepath.ToSlash(dir), "..") {
			return errors.New(op).Msg(errMsgRelDir)
		}
	}

	return nil
}
