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

// Config holds the labassist configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Search  SearchConfig  `yaml:"search"`
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
	Excerpt ExcerptConfig `yaml:"excerpt"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int      `yaml:"port"`
	ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
	ShutdownSec        int      `yaml:"shutdown_timeout_sec"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// SearchConfig holds the search index coordinates.
type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Index      string `yaml:"index"`
	APIVersion string `yaml:"api_version"`
	TimeoutSec int    `yaml:"timeout_sec"` // 0 = HTTP client default (no timeout)
}

// Enabled reports whether every required search coordinate is present.
func (c SearchConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Index != ""
}

// LLMConfig holds the Azure OpenAI coordinates.
type LLMConfig struct {
	Endpoint          string `yaml:"endpoint"`
	APIKey            string `yaml:"api_key"`
	Deployment        string `yaml:"deployment"`
	APIVersion        string `yaml:"api_version"`
	RequestsPerMinute int    `yaml:"requests_per_minute"` // 0 = unlimited
	TimeoutSec        int    `yaml:"timeout_sec"`         // 0 = HTTP client default (no timeout)
}

// Enabled reports whether every required LLM coordinate is present.
func (c LLMConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != "" && c.APIVersion != ""
}

// StorageConfig holds chat and suggestion storage settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	SeedSuggestions  *bool    `yaml:"seed_suggestions"` // default: true
}

// ShouldSeed reports whether default suggested questions are seeded on startup.
func (c StorageConfig) ShouldSeed() bool {
	return c.SeedSuggestions == nil || *c.SeedSuggestions
}

// ExcerptConfig holds the excerpt selector thresholds (characters).
// Zero values take the built-in defaults.
type ExcerptConfig struct {
	MinBodyLength          int `yaml:"min_body_length"`
	BackwardScan           int `yaml:"backward_scan"`
	StartMarkerMaxDistance int `yaml:"start_marker_max_distance"`
	LeadIn                 int `yaml:"lead_in"`
	ForwardScan            int `yaml:"forward_scan"`
	EndMarkerMaxDistance   int `yaml:"end_marker_max_distance"`
	MarkedSectionLength    int `yaml:"marked_section_length"`
	UnmarkedSectionLength  int `yaml:"unmarked_section_length"`
	MaxExcerptLength       int `yaml:"max_excerpt_length"`
	DefaultPrefixLength    int `yaml:"default_prefix_length"`
	WindowSize             int `yaml:"window_size"`
	WindowStride           int `yaml:"window_stride"`
	PhraseBonus            int `yaml:"phrase_bonus"`
	PageScanRadius         int `yaml:"page_scan_radius"`
}

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
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
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.APIVersion == "" {
		c.Search.APIVersion = "2025-08-01-preview"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "labassist:"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case "memory":
	case "redis", "valkey":
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver must be \"memory\", \"redis\" or \"valkey\", got %q", c.Storage.Driver)
	}
	if n := c.Excerpt.MaxExcerptLength; n < 0 || n > 5000 {
		return fmt.Errorf("excerpt.max_excerpt_length must be between 1 and 5000, got %d", n)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm.requests_per_minute must not be negative, got %d", c.LLM.RequestsPerMinute)
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
