package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":3000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, https://b.example")
	t.Setenv("MAX_MESSAGE_SIZE", "1024")
	t.Setenv("SEND_BUFFER_SIZE", "32")
	t.Setenv("SHUTDOWN_TIMEOUT", "3")

	cfg := NewConfigFromEnv()

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 32, cfg.SendBufferSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MAX_MESSAGE_SIZE", "-5")
	t.Setenv("SEND_BUFFER_SIZE", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "0")

	cfg := NewConfigFromEnv()

	assert.Equal(t, int64(defaultMaxMessageSize), cfg.MaxMessageSize)
	assert.Equal(t, defaultSendBufferSize, cfg.SendBufferSize)
	assert.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestConfigSanitize(t *testing.T) {
	in := Config{AllowedOrigins: []string{"http://x.example"}}
	out := in.Sanitize()

	assert.Equal(t, defaultPort, out.Port)
	assert.Equal(t, int64(defaultMaxMessageSize), out.MaxMessageSize)
	assert.Equal(t, defaultSendBufferSize, out.SendBufferSize)
	assert.Equal(t, defaultShutdownTimeout, out.ShutdownTimeout)

	out.AllowedOrigins[0] = "changed"
	assert.Equal(t, "http://x.example", in.AllowedOrigins[0], "sanitize must copy origins")

	assert.Equal(t, "127.0.0.1:4000", Config{Port: "127.0.0.1:4000"}.Sanitize().Port)
}

func TestConfigSetPortMovesDefaultOrigin(t *testing.T) {
	cfg := NewConfig()
	cfg.SetPort(":8080")

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins)

	cfg.SetPort("chat.example:9000")
	assert.Equal(t, []string{"http://chat.example:9000"}, cfg.AllowedOrigins)
}

func TestConfigSetPortKeepsExplicitOrigins(t *testing.T) {
	cfg := NewConfig()
	cfg.AllowedOrigins = []string{"https://app.example"}
	cfg.SetPort("8080")

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
}

func TestNewConfigFromEnvPortWithoutOrigins(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")

	cfg := NewConfigFromEnv()

	assert.Equal(t, []string{"http://localhost:9090"}, cfg.AllowedOrigins)
}
