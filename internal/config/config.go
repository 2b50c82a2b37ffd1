// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kroksys/restbatch/response"
	"github.com/kroksys/restbatch/spec"
	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Protocol  ProtocolConfig  `yaml:"protocol"`
	Errors    ErrorsConfig    `yaml:"errors"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	BaseURI         string `yaml:"base_uri"` // enables item locations when set
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// WebSocketConfig holds JSON-RPC over websocket settings.
type WebSocketConfig struct {
	Path          string `yaml:"path"`
	PingPeriodSec int    `yaml:"ping_period_sec"`
}

// ProtocolConfig holds protocol version negotiation settings.
type ProtocolConfig struct {
	MaxVersion string `yaml:"max_version"`
}

// ErrorsConfig selects the error body format.
type ErrorsConfig struct {
	Format string `yaml:"format"` // full, message_and_servicecode, message_only, minimal
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML bytes, expanding ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3333"
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.WebSocket.Path == "" {
		c.WebSocket.Path = "/ws"
	}
	if c.WebSocket.PingPeriodSec <= 0 {
		c.WebSocket.PingPeriodSec = 30
	}
	if c.Protocol.MaxVersion == "" {
		c.Protocol.MaxVersion = spec.LatestProtocolVersion.String()
	}
	if c.Errors.Format == "" {
		c.Errors.Format = "full"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !strings.Contains(c.HTTP.Addr, ":") {
		return fmt.Errorf("http.addr must be host:port, got %q", c.HTTP.Addr)
	}
	if !strings.HasPrefix(c.WebSocket.Path, "/") {
		return fmt.Errorf("websocket.path must start with '/', got %q", c.WebSocket.Path)
	}
	if _, err := c.MaxProtocolVersion(); err != nil {
		return fmt.Errorf("protocol.max_version: %w", err)
	}
	if _, err := c.ErrorFormat(); err != nil {
		return fmt.Errorf("errors.format: %w", err)
	}
	return nil
}

// MaxProtocolVersion returns the parsed protocol.max_version.
func (c *Config) MaxProtocolVersion() (spec.ProtocolVersion, error) {
	return spec.ParseProtocolVersion(c.Protocol.MaxVersion)
}

// ErrorFormat returns the parsed errors.format.
func (c *Config) ErrorFormat() (response.ErrorFormat, error) {
	return response.ParseErrorFormat(c.Errors.Format)
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
