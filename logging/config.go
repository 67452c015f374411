package logging

// Config is the logging sub-tree of a configuration snapshot. It is
// decoded by the config service and applied through Service.Upgrade.
type Config struct {
	// Level is the minimum level that gets written (zerolog level names).
	Level string `mapstructure:"level" validate:"required"`

	WithTimestamp  bool `mapstructure:"with_timestamp"`
	SkipFrameCount int  `mapstructure:"skip_frame_count" validate:"gte=0,lte=16"`

	ConsoleLogging    bool   `mapstructure:"console_logging"`
	ConsoleNoColor    bool   `mapstructure:"console_no_color"`
	ConsoleTimeFormat string `mapstructure:"console_time_format"`

	FileLogging       bool   `mapstructure:"file_logging"`
	RelLogFileDir     string `mapstructure:"rel_log_file_dir"`
	LogFileMaxSizeMB  int    `mapstructure:"log_file_max_size_mb" validate:"gte=0"`
	LogFileMaxBackups int    `mapstructure:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int    `mapstructure:"log_file_max_age_days" validate:"gte=0"`
	LogFileCompress   bool   `mapstructure:"log_file_compress"`

	// ShutdownTimeoutMS bounds how long Stop waits for in-flight events.
	ShutdownTimeoutMS int `mapstructure:"shutdown_timeout_ms" validate:"gte=0"`
}

// ApplyDefaults fills the zero value into a bootable configuration: info
// level on the console. An absent logging sub-tree therefore still yields
// a working logger.
func (c *Config) ApplyDefaults() {
	if c.Level == emptyString {
		c.Level = "info"
	}
	if !c.ConsoleLogging && !c.FileLogging {
		c.ConsoleLogging = true
	}
	if c.RelLogFileDir == emptyString {
		c.RelLogFileDir = "logs"
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = DefaultShutdownTimeoutMS
	}
}
