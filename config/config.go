package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/artifactup/core"
	"github.com/hupe1980/artifactup/logging"
	"github.com/hupe1980/artifactup/registrar"
	"github.com/hupe1980/artifactup/retry"
)

// Duration wraps time.Duration so YAML values can be written either as Go
// duration strings ("45s", "5m") or as integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler. Integer scalars are taken as
// nanoseconds; everything else must parse as a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("config: invalid duration: %w", err)
		}
		*d = Duration(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string or integer nanoseconds")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level client configuration. Fields map 1:1 to the YAML
// file.
type Config struct {
	Registrar RegistrarConfig `yaml:"registrar"`

	// SpoolDir is the directory for durable upload buffers. Defaults to the
	// OS temp directory.
	SpoolDir string `yaml:"spool_dir"`

	Retry     RetryConfig     `yaml:"retry"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// RegistrarConfig points the client at the artifact registrar.
type RegistrarConfig struct {
	// BaseURL of the registrar REST API. May be empty when every upload
	// supplies its own put URL.
	BaseURL string `yaml:"base_url"`

	// Timeout per createArtifact call.
	Timeout Duration `yaml:"timeout"`

	Auth RegistrarAuth `yaml:"auth"`
}

// RegistrarAuth configures how the client authenticates to the registrar.
type RegistrarAuth struct {
	// Header is the HTTP header name the credential is sent in.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable that holds the
	// credential value.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the credential resolved from the environment. Returns empty
// string if KeyEnv is unset or the variable is not found.
func (a RegistrarAuth) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// RetryConfig overrides the upload retry policy.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	Base        Duration `yaml:"base"`
	Factor      float64  `yaml:"factor"`
	Cap         Duration `yaml:"cap"`
}

// TransportConfig overrides the PUT transport defaults.
type TransportConfig struct {
	AttemptTimeout     Duration `yaml:"attempt_timeout"`
	MaxIdleConns       int      `yaml:"max_idle_conns"`
	ProxyURL           string   `yaml:"proxy_url"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// Load reads, parses and validates the YAML file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Zero values are legal everywhere (they mean
// "use the default"); only actively wrong values are rejected.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("config: retry.max_attempts must not be negative")
	}
	if c.Retry.Factor < 0 || (c.Retry.Factor > 0 && c.Retry.Factor < 1) {
		return fmt.Errorf("config: retry.factor must be >= 1")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("config: unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// RetryPolicy returns the default policy with configured overrides applied.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.Retry.MaxAttempts > 0 {
		p.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.Base > 0 {
		p.Base = c.Retry.Base.Std()
	}
	if c.Retry.Factor >= 1 {
		p.Factor = c.Retry.Factor
	}
	if c.Retry.Cap > 0 {
		p.Cap = c.Retry.Cap.Std()
	}
	return p
}

// TransportOptions returns the default transport with configured overrides
// applied.
func (c *Config) TransportOptions() core.TransportOptions {
	return core.DefaultTransportOptions.Merge(&core.TransportOptions{
		AttemptTimeout:     c.Transport.AttemptTimeout.Std(),
		MaxIdleConns:       c.Transport.MaxIdleConns,
		ProxyURL:           c.Transport.ProxyURL,
		InsecureSkipVerify: c.Transport.InsecureSkipVerify,
	})
}

// NewRegistrar builds the HTTP registrar client, or nil when no base URL is
// configured.
func (c *Config) NewRegistrar() core.Registrar {
	if c.Registrar.BaseURL == "" {
		return nil
	}
	return registrar.NewHTTPClient(c.Registrar.BaseURL, func(o *registrar.HTTPClientOptions) {
		if c.Registrar.Timeout > 0 {
			o.Timeout = c.Registrar.Timeout.Std()
		}
		o.AuthHeader = c.Registrar.Auth.Header
		o.AuthValue = c.Registrar.Auth.Key()
	})
}

// NewLogger builds a structured logger from the logging section.
func (c *Config) NewLogger() logging.Logger {
	level := logging.LogLevelInfo
	switch c.Logging.Level {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.NewSlogLogger(level, c.Logging.Format, false)
}
