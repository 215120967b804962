package goSecurity

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goSecurity/strategy"
)

// DefaultEnvPrefix is used by LoadConfigFromEnv when prefix is empty.
const DefaultEnvPrefix = "GOSECURITY"

// LoadConfigFromEnv overlays environment variables on DefaultConfig. With
// prefix "APP" it reads APP_STRATEGY, APP_STRICT_DECODE, APP_STORAGE_PREFIX,
// APP_REMOTE_TIMEOUT, APP_REMOTE_MAX_RESPONSE_BYTES, APP_LOG_LEVEL,
// APP_LOG_FORMAT, APP_AUDIT_ENABLED and APP_METRICS_ENABLED. Unset or blank
// variables keep their defaults; unparsable values are errors.
func LoadConfigFromEnv(prefix string) (Config, error) {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultEnvPrefix
	}
	key := func(name string) string { return prefix + "_" + name }

	cfg := defaultConfig()

	if v, ok := envValue(key("STRATEGY")); ok {
		name, err := strategy.Parse(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key("STRATEGY"), err)
		}
		cfg.Strategy = name
	}

	var err error
	if cfg.StrictDecode, err = envBool(key("STRICT_DECODE"), cfg.StrictDecode); err != nil {
		return Config{}, err
	}
	if v, ok := envValue(key("STORAGE_PREFIX")); ok {
		cfg.Storage.KeyPrefix = v
	}
	if cfg.Remote.Timeout, err = envDuration(key("REMOTE_TIMEOUT"), cfg.Remote.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.Remote.MaxResponseBytes, err = envInt64(key("REMOTE_MAX_RESPONSE_BYTES"), cfg.Remote.MaxResponseBytes); err != nil {
		return Config{}, err
	}
	if v, ok := envValue(key("LOG_LEVEL")); ok {
		cfg.Logging.Level = v
	}
	if v, ok := envValue(key("LOG_FORMAT")); ok {
		cfg.Logging.Format = v
	}
	if cfg.Audit.Enabled, err = envBool(key("AUDIT_ENABLED"), cfg.Audit.Enabled); err != nil {
		return Config{}, err
	}
	if cfg.Metrics.Enabled, err = envBool(key("METRICS_ENABLED"), cfg.Metrics.Enabled); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envValue(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func envBool(key string, def bool) (bool, error) {
	v, ok := envValue(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := envValue(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt64(key string, def int64) (int64, error) {
	v, ok := envValue(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
