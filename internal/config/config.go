// Package config loads the sourcing API configuration from per-environment
// YAML files with ${VAR} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sourcing API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	AdminTokens []string `yaml:"admin_tokens"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ExtractorConfig holds extraction model settings.
type ExtractorConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// WeightsConfig holds the relevance scoring weight table.
type WeightsConfig struct {
	Keywords     float64 `yaml:"keywords"`
	ColorPalette float64 `yaml:"color_palette"`
	Application  float64 `yaml:"application"`
	Performance  float64 `yaml:"performance"`
}

// SearchConfig holds ranking tunables.
type SearchConfig struct {
	Weights    *WeightsConfig `yaml:"weights"`
	MinScore   float64        `yaml:"min_score"`
	MaxResults int            `yaml:"max_results"`
}

// StorageConfig holds key prefixing and transient upload settings.
type StorageConfig struct {
	KeyPrefix     string `yaml:"key_prefix"`
	UploadTTLSec  int    `yaml:"upload_ttl_sec"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// WebhookConfig holds the marketing webhook settings. An empty URL disables
// notifications.
type WebhookConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// The search pipeline waits on the extraction model, so the write
		// timeout must exceed the extractor timeout.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Extractor.Model == "" {
		c.Extractor.Model = "gpt-4o"
	}
	if c.Extractor.TimeoutSec <= 0 {
		c.Extractor.TimeoutSec = 30
	}
	if c.Search.Weights == nil {
		c.Search.Weights = &WeightsConfig{
			Keywords:     0.35,
			ColorPalette: 0.35,
			Application:  0.20,
			Performance:  0.10,
		}
	}
	if c.Search.MinScore <= 0 {
		c.Search.MinScore = 0.1
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 100
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "sourcing:"
	}
	if c.Storage.UploadTTLSec <= 0 {
		c.Storage.UploadTTLSec = 900
	}
	if c.Webhook.TimeoutSec <= 0 {
		c.Webhook.TimeoutSec = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Extractor.APIKey == "" {
		return fmt.Errorf("extractor.api_key is required")
	}
	w := c.Search.Weights
	for name, v := range map[string]float64{
		"keywords":      w.Keywords,
		"color_palette": w.ColorPalette,
		"application":   w.Application,
		"performance":   w.Performance,
	} {
		if v < 0 {
			return fmt.Errorf("search.weights.%s must be non-negative, got %v", name, v)
		}
	}
	if sum := w.Keywords + w.ColorPalette + w.Application + w.Performance; sum > 1.0+1e-9 {
		return fmt.Errorf("search.weights must sum to at most 1.0, got %v", sum)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore >= 1 {
		return fmt.Errorf("search.min_score must be in [0,1), got %v", c.Search.MinScore)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
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
