// Package config loads the daemon configuration: built-in defaults, merged
// with an optional YAML file, then WHAL_* environment overrides, then
// validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wifi-control/whal/internal/wifi"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "5s" or "200ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the daemon configuration tree.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	API   APIConfig   `yaml:"api"`
	Auth  AuthConfig  `yaml:"auth"`
	Radio RadioConfig `yaml:"radio"`
	Audit AuditConfig `yaml:"audit"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// APIConfig controls the HTTP control API.
type APIConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// AuthConfig controls API authentication. An empty secret disables auth
// (development mode).
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// RadioConfig carries the HAL timing knobs.
type RadioConfig struct {
	GateWait           Duration `yaml:"gate_wait"`
	ScanIntervalSec    uint32   `yaml:"scan_interval_sec"`
	ScanWindow         Duration `yaml:"scan_window"`
	ScanHidden         bool     `yaml:"scan_hidden"`
	StopTimeout        Duration `yaml:"stop_timeout"`
	APIPAcquireTimeout Duration `yaml:"ap_ip_acquire_timeout"`
	APIPPollInterval   Duration `yaml:"ap_ip_poll_interval"`
	MaxScanResults     int      `yaml:"max_scan_results"`
}

// AuditConfig controls the JSONL action log and its rotation.
type AuditConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the built-in configuration baseline.
func Default() *Config {
	w := wifi.DefaultConfig()
	return &Config{
		Log: LogConfig{Level: "info"},
		API: APIConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Radio: RadioConfig{
			GateWait:           Duration(w.GateWait),
			ScanIntervalSec:    w.ScanIntervalSec,
			ScanWindow:         Duration(w.ScanWindow),
			ScanHidden:         w.ScanHidden,
			StopTimeout:        Duration(w.StopTimeout),
			APIPAcquireTimeout: Duration(w.APIPAcquireTimeout),
			APIPPollInterval:   Duration(w.APIPPollInterval),
			MaxScanResults:     20,
		},
		Audit: AuditConfig{
			Path:       "logs/audit.jsonl",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load builds the configuration from defaults, the optional file at path
// (skipped when path is empty or missing), and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults plus env are a complete configuration.
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal config: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies WHAL_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("WHAL_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("WHAL_API_HOST"); val != "" {
		cfg.API.Host = val
	}
	if val := os.Getenv("WHAL_API_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.API.Port = port
		}
	}
	if val := os.Getenv("WHAL_AUTH_SECRET"); val != "" {
		cfg.Auth.Secret = val
	}
	if val := os.Getenv("WHAL_GATE_WAIT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Radio.GateWait = Duration(d)
		}
	}
	if val := os.Getenv("WHAL_SCAN_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Radio.ScanWindow = Duration(d)
		}
	}
	if val := os.Getenv("WHAL_AP_IP_ACQUIRE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Radio.APIPAcquireTimeout = Duration(d)
		}
	}
	if val := os.Getenv("WHAL_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
}

// validate rejects configurations the daemon cannot run with.
func (c *Config) validate() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}
	if c.Radio.GateWait <= 0 {
		return fmt.Errorf("gate wait must be positive")
	}
	if c.Radio.ScanIntervalSec < 10 {
		return fmt.Errorf("scan interval below firmware minimum of 10s")
	}
	if c.Radio.ScanWindow <= 0 {
		return fmt.Errorf("scan window must be positive")
	}
	if c.Radio.APIPAcquireTimeout <= 0 {
		return fmt.Errorf("ap ip acquire timeout must be positive")
	}
	if c.Radio.APIPPollInterval <= 0 {
		return fmt.Errorf("ap ip poll interval must be positive")
	}
	if c.Radio.MaxScanResults < 0 {
		return fmt.Errorf("max scan results must not be negative")
	}
	return nil
}

// WifiConfig projects the radio section onto the HAL's config type.
func (c *Config) WifiConfig() wifi.Config {
	return wifi.Config{
		GateWait:           c.Radio.GateWait.Std(),
		ScanIntervalSec:    c.Radio.ScanIntervalSec,
		ScanWindow:         c.Radio.ScanWindow.Std(),
		ScanHidden:         c.Radio.ScanHidden,
		StopTimeout:        c.Radio.StopTimeout.Std(),
		APIPAcquireTimeout: c.Radio.APIPAcquireTimeout.Std(),
		APIPPollInterval:   c.Radio.APIPPollInterval.Std(),
	}
}
