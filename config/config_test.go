package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/artifactup/retry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifactup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	t.Setenv("REGISTRAR_TOKEN", "tok-123")

	path := writeConfig(t, `
registrar:
  base_url: https://registrar.example.com/api/v1
  timeout: 10s
  auth:
    header: Authorization
    key_env: REGISTRAR_TOKEN
spool_dir: /var/tmp/artifacts
retry:
  max_attempts: 5
  base: 250ms
  factor: 2.0
  cap: 10s
transport:
  attempt_timeout: 2m
  max_idle_conns: 4
  insecure_skip_verify: true
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://registrar.example.com/api/v1", cfg.Registrar.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Registrar.Timeout.Std())
	assert.Equal(t, "tok-123", cfg.Registrar.Auth.Key())
	assert.Equal(t, "/var/tmp/artifacts", cfg.SpoolDir)

	p := cfg.RetryPolicy()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, p.Base)
	assert.Equal(t, 2.0, p.Factor)
	assert.Equal(t, 10*time.Second, p.Cap)

	tr := cfg.TransportOptions()
	assert.Equal(t, 2*time.Minute, tr.AttemptTimeout)
	assert.Equal(t, 4, tr.MaxIdleConns)
	assert.True(t, tr.InsecureSkipVerify)

	assert.NotNil(t, cfg.NewRegistrar())
	assert.NotNil(t, cfg.NewLogger())
}

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	p := cfg.RetryPolicy()
	assert.Equal(t, retry.DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, retry.DefaultBase, p.Base)
	assert.Equal(t, retry.DefaultFactor, p.Factor)
	assert.Equal(t, retry.DefaultCap, p.Cap)

	tr := cfg.TransportOptions()
	assert.Equal(t, 5*time.Minute, tr.AttemptTimeout)

	// No base URL means no registrar client.
	assert.Nil(t, cfg.NewRegistrar())
}

func TestLoad_IntegerNanosecondDuration(t *testing.T) {
	cfg, err := Load(writeConfig(t, "retry:\n  base: 1000000000\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Retry.Base.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "retry:\n  base: soon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative attempts", "retry:\n  max_attempts: -1\n"},
		{"factor below one", "retry:\n  factor: 0.5\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRegistrarAuth_KeyUnset(t *testing.T) {
	assert.Empty(t, RegistrarAuth{}.Key())
}
