package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Behyna/vvm-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dir := writeConfig(t, "api:\n  port: \":9000\"\n")

		cfg, err := config.LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.API.Port)
		assert.Equal(t, 4, cfg.Activation.MaxRetries)
		assert.Equal(t, 5*time.Second, cfg.Activation.RetryInterval)
		assert.Equal(t, "vvm.activation", cfg.RabbitMQ.Queues.Activation)
		assert.Len(t, cfg.RabbitMQ.Queues.All(), 8)
		assert.True(t, cfg.Device.Provisioned)
	})

	t.Run("file values", func(t *testing.T) {
		dir := writeConfig(t, `
rabbitmq:
  url: "amqp://mq:5672/"
activation:
  status_sms_timeout: 30s
  max_retries: 2
database:
  host: "db"
  slow_query: 150ms
`)

		cfg, err := config.LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, "amqp://mq:5672/", cfg.RabbitMQ.URL)
		assert.Equal(t, 30*time.Second, cfg.Activation.StatusSMSTimeout)
		assert.Equal(t, 2, cfg.Activation.MaxRetries)
		assert.Equal(t, "db", cfg.Database.Host)
		assert.Equal(t, 150*time.Millisecond, cfg.Database.SlowQuery)
	})

	t.Run("env override", func(t *testing.T) {
		dir := writeConfig(t, "activation:\n  max_retries: 2\n")
		t.Setenv("VVM_ACTIVATION_MAX_RETRIES", "7")

		cfg, err := config.LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Activation.MaxRetries)
	})

	t.Run("invalid", func(t *testing.T) {
		dir := writeConfig(t, "activation:\n  max_retries: -1\n")

		_, err := config.LoadFrom(dir)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFrom(t.TempDir())
		assert.Error(t, err)
	})
}
