package client

import (
	"log/slog"
	"time"
)

const (
	DefaultDialTimeout = time.Second
	DefaultTimeout     = 5 * time.Second
)

// Config controls the transport and collaborators of a Client. Zero fields
// take their defaults.
type Config struct {
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// Timeout is the read/write deadline applied to every request.
	Timeout time.Duration `yaml:"timeout"`

	// Logger receives operational messages such as connection failures.
	Logger *slog.Logger `yaml:"-"`

	// Serializer encodes values for Set and decodes them for Get.
	// Default: JSONSerializer
	Serializer Serializer `yaml:"-"`
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Serializer == nil {
		c.Serializer = JSONSerializer{}
	}
	return c
}
