package goSecurity

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goSecurity/remote"
	"github.com/MrEthical07/goSecurity/storage"
	"github.com/MrEthical07/goSecurity/strategy"
)

// Config holds every Manager setting. Build copies it, so later changes to
// the caller's value have no effect.
type Config struct {
	// Strategy selects how identities are read from credentials. Empty means
	// plain.
	Strategy strategy.Name
	// StrictDecode makes Login fail with ErrMalformedToken instead of
	// continuing without an identity.
	StrictDecode bool

	Storage StorageConfig
	Remote  RemoteConfig
	Notify  NotifyConfig
	Audit   AuditConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

/*
====================================
SECTIONS
====================================
*/

// StorageConfig controls persistence key naming.
type StorageConfig struct {
	// KeyPrefix yields "<prefix>.authorization", "<prefix>.user" and
	// "<prefix>.permissions".
	KeyPrefix string
}

// RemoteConfig shapes LoginByRemote requests.
type RemoteConfig struct {
	Timeout          time.Duration
	MaxResponseBytes int64
	Headers          map[string]string
}

// NotifyConfig controls channel subscriptions.
type NotifyConfig struct {
	// ChannelBuffer is the default buffer for SubscribeChan(0).
	ChannelBuffer int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// LoggingConfig is used when no logger is supplied to the Builder.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Strategy: strategy.Plain,
		Storage: StorageConfig{
			KeyPrefix: storage.DefaultPrefix,
		},
		Remote: RemoteConfig{
			Timeout:          remote.DefaultTimeout,
			MaxResponseBytes: remote.DefaultMaxResponseBytes,
		},
		Notify: NotifyConfig{
			ChannelBuffer: 16,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultConfig returns the configuration a bare Builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Remote.Headers != nil {
		out.Remote.Headers = make(map[string]string, len(cfg.Remote.Headers))
		for k, v := range cfg.Remote.Headers {
			out.Remote.Headers[k] = v
		}
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := strategy.Parse(string(c.Strategy)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	prefix := c.Storage.KeyPrefix
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("%w: Storage KeyPrefix must not be blank", ErrInvalidConfig)
	}
	if strings.ContainsAny(prefix, " \t\r\n") {
		return fmt.Errorf("%w: Storage KeyPrefix must not contain whitespace", ErrInvalidConfig)
	}

	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("%w: Remote Timeout must be > 0", ErrInvalidConfig)
	}
	if c.Remote.MaxResponseBytes <= 0 {
		return fmt.Errorf("%w: Remote MaxResponseBytes must be > 0", ErrInvalidConfig)
	}
	for name := range c.Remote.Headers {
		canonical := http.CanonicalHeaderKey(strings.TrimSpace(name))
		if canonical == "" {
			return fmt.Errorf("%w: Remote Headers contains a blank name", ErrInvalidConfig)
		}
		if canonical == "Content-Type" || canonical == http.CanonicalHeaderKey(remote.RequestIDHeader) {
			return fmt.Errorf("%w: Remote Headers must not set %s", ErrInvalidConfig, canonical)
		}
	}

	if c.Notify.ChannelBuffer <= 0 {
		return fmt.Errorf("%w: Notify ChannelBuffer must be > 0", ErrInvalidConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when Audit is enabled", ErrInvalidConfig)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unsupported Logging Level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unsupported Logging Format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}
