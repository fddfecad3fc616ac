//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Run("should read YAML on top of the defaults", func(t *testing.T) {
		// given
		path := writeConfig(t, "buildactivities.yaml", `
fail_build_on_error: false
lock:
  share: /mnt/locks
  poll_interval: 10s
smtp:
  host: smtp.contoso.com
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.False(t, settings.FailBuildOnError)
		assert.Equal(t, "/mnt/locks", settings.Lock.Share)
		assert.Equal(t, 10*time.Second, settings.Lock.PollInterval.Std())
		assert.Equal(t, 30*time.Minute, settings.Lock.Timeout.Std())
		assert.Equal(t, "smtp.contoso.com", settings.Smtp.Host)
		assert.Equal(t, 25, settings.Smtp.Port)
	})

	t.Run("should read TOML by extension", func(t *testing.T) {
		// given
		path := writeConfig(t, "buildactivities.toml", `
[retry]
interval = "500ms"
max_attempts = 5

[ftp]
host = "ftp.contoso.com"
port = 2121
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, settings.Retry.Interval.Std())
		assert.Equal(t, 5, settings.Retry.MaxAttempts)
		assert.Equal(t, "ftp.contoso.com:2121", settings.Ftp.Address())
	})

	t.Run("should expand environment variables and read secret files", func(t *testing.T) {
		// given
		secret := writeConfig(t, "token.txt", "s3cr3t\n")
		t.Setenv("BA_SMS_SID", "AC123")
		t.Setenv("BA_SMS_TOKEN_FILE", secret)
		path := writeConfig(t, "buildactivities.yaml", `
sms:
  account_sid: ${BA_SMS_SID}
  auth_token: ${BA_SMS_TOKEN_FILE}
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "AC123", settings.Sms.AccountSID)
		assert.Equal(t, "s3cr3t", settings.Sms.AuthToken)
	})

	t.Run("should reject out-of-range values", func(t *testing.T) {
		// given
		path := writeConfig(t, "buildactivities.yaml", "smtp:\n  port: 70000\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.port")
	})

	t.Run("should reject invalid durations", func(t *testing.T) {
		// given
		path := writeConfig(t, "buildactivities.yaml", "lock:\n  timeout: soon\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	t.Run("should load an explicit path", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "custom.yaml", "robocopy:\n  binary: /usr/local/bin/robocopy\n")

		// when
		settings, err := entities.LoadSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/robocopy", settings.Robocopy.Binary)
	})

	t.Run("should fail for a missing explicit path", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
	})
}
