package server

import (
	"net/http"
	"time"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

// Config holds the sync server configuration.
type Config struct {
	// Address is the listen address (default: ":8420").
	Address string

	// ReadBufferSize is the WebSocket read buffer size in bytes.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size in bytes.
	WriteBufferSize int

	// CheckOrigin validates the Origin header on WebSocket upgrades.
	// The default accepts same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	// SendBuffer is the per-connection outbound frame queue length.
	SendBuffer int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is the HTTP server's header read timeout.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the HTTP server's idle connection timeout.
	IdleTimeout time.Duration

	// EnableMetrics mounts a Prometheus /metrics endpoint.
	EnableMetrics bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8420",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		SendBuffer:        32,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		EnableMetrics:     true,
	}
}

// fillDefaults copies defaults into any unset fields.
func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = defaults.SendBuffer
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.SendBuffer < 0 {
		return ierrors.New("E080").WithDetail("SendBuffer must be >= 0, got %d", c.SendBuffer)
	}
	if c.ReadBufferSize < 0 || c.WriteBufferSize < 0 {
		return ierrors.New("E080").WithDetail("buffer sizes must be >= 0")
	}
	if c.ShutdownTimeout < 0 {
		return ierrors.New("E080").WithDetail("ShutdownTimeout must be >= 0")
	}
	return nil
}
