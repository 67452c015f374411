package server

// Config is the server sub-tree of a configuration snapshot.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"required,gte=1,lte=65535"`

	ReadTimeoutMS  int `mapstructure:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMS int `mapstructure:"write_timeout_ms" validate:"gte=0"`
	IdleTimeoutMS  int `mapstructure:"idle_timeout_ms" validate:"gte=0"`

	// ShutdownTimeoutMS bounds how long Stop waits for in-flight requests.
	ShutdownTimeoutMS int `mapstructure:"shutdown_timeout_ms" validate:"gte=0"`
}

// ApplyDefaults fills the zero value into a bootable configuration.
func (c *Config) ApplyDefaults() {
	if c.Host == emptyString {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeoutMS == 0 {
		c.ReadTimeoutMS = 15000
	}
	if c.WriteTimeoutMS == 0 {
		c.WriteTimeoutMS = 15000
	}
	if c.IdleTimeoutMS == 0 {
		c.IdleTimeoutMS = 60000
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = DefaultShutdownTimeoutMS
	}
}
