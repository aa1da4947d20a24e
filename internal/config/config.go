package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/storage"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "navshell.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultShutdownTimeout is the default graceful shutdown budget.
	DefaultShutdownTimeout = "10s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "navshell"
)

// Config represents the complete navshell.json configuration.
type Config struct {
	// Server contains HTTP and WebSocket listener configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Storage selects the persistence backend.
	Storage storage.Config `json:"storage,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string `json:"address,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g. "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins lists origins allowed to open the WebSocket.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs an SDK tracer provider for dispatch spans.
	Enabled bool `json:"enabled"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         DefaultAddress,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: storage.Config{
			Backend: storage.BackendMemory,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for navshell.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns the defaults when the directory has
// no navshell.json.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, errors.CodeConfigNotFound) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No navshell.json found in " + filepath.Dir(path)).
				WithSuggestion("Create navshell.json or pass --config")
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse navshell.json: " + err.Error()).
			WithSuggestion("Check that navshell.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendMemory
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.shutdownTimeout %q is not a duration", c.Server.ShutdownTimeout)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail(err.Error()).
			WithSuggestion(`Use one of "debug", "info", "warn" or "error"`)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format %q must be \"text\" or \"json\"", c.Log.Format)
	}
	if err := c.Storage.Validate(); err != nil {
		return errors.New(errors.CodeConfigInvalid).WithDetail(err.Error())
	}
	return nil
}

// ShutdownDuration returns the parsed shutdown timeout, falling back to the
// default on a malformed value.
func (c *Config) ShutdownDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("failed to load %s", path).
				Wrap(err)
		}
	}
	return nil
}
