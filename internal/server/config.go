// Package server provides configuration helpers that define runtime defaults,
// validation, and origin policy for the roomchat service.
package server

import (
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = ":3000"
	defaultMaxMessageSize  = 4096
	defaultSendBufferSize  = 256
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds the server configuration settings.
type Config struct {
	Port            string
	AllowedOrigins  []string
	MaxMessageSize  int64
	SendBufferSize  int
	ShutdownTimeout time.Duration
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	return &Config{
		Port:            defaultPort,
		AllowedOrigins:  defaultOrigins(defaultPort),
		MaxMessageSize:  defaultMaxMessageSize,
		SendBufferSize:  defaultSendBufferSize,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set.
func NewConfigFromEnv() *Config {
	cfg := NewConfig()

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.SetPort(port)
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := os.Getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseInt64Value(maxSize, cfg.MaxMessageSize)
	}

	if buf := os.Getenv("SEND_BUFFER_SIZE"); buf != "" {
		cfg.SendBufferSize = parseIntValue(buf, cfg.SendBufferSize)
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseSeconds(timeout, cfg.ShutdownTimeout)
	}

	return cfg
}

// SetPort changes the listen address. Origins still at the default for the
// old port follow the new one; explicitly configured origins are kept.
func (c *Config) SetPort(port string) {
	port = normalizePort(port)
	if slices.Equal(c.AllowedOrigins, defaultOrigins(c.Port)) {
		c.AllowedOrigins = defaultOrigins(port)
	}
	c.Port = port
}

// defaultOrigins allows pages served by this server on the given address.
func defaultOrigins(port string) []string {
	host, p, err := net.SplitHostPort(normalizePort(port))
	if err != nil {
		return nil
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return []string{"http://" + net.JoinHostPort(host, p)}
}

// Sanitize returns a copy of the configuration with invalid values replaced
// by defaults and origins normalized.
func (c Config) Sanitize() Config {
	out := c
	out.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)

	if out.Port == "" {
		out.Port = defaultPort
	}
	out.Port = normalizePort(out.Port)

	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = defaultMaxMessageSize
	}

	if out.SendBufferSize <= 0 {
		out.SendBufferSize = defaultSendBufferSize
	}

	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = defaultShutdownTimeout
	}

	return out
}

// normalizePort accepts "3000" as well as ":3000" and "host:3000".
func normalizePort(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseInt64Value(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
