// Package config loads the coldreach YAML configuration.
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

// Config holds the coldreach service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Sender    SenderConfig    `yaml:"sender"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds cache store settings. With no addrs configured the
// service falls back to the in-process memory store.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLMConfig holds the chat-completion provider settings.
type LLMConfig struct {
	APIKey             string  `yaml:"api_key"`
	BaseURL            string  `yaml:"base_url"`
	Model              string  `yaml:"model"`
	MaxTokens          int     `yaml:"max_tokens"`
	ExtractTemperature float32 `yaml:"extract_temperature"`
	ComposeTemperature float32 `yaml:"compose_temperature"`
}

// EmbeddingConfig holds the embedding provider settings. APIKey and BaseURL
// default to the LLM provider's when empty.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// CatalogConfig holds the portfolio catalog settings.
type CatalogConfig struct {
	Path string `yaml:"path"` // .yaml, .yml or .csv
	TopK int    `yaml:"top_k"`
}

// SenderConfig describes who the generated emails are written as.
type SenderConfig struct {
	Name    string `yaml:"name"`
	Company string `yaml:"company"`
	Pitch   string `yaml:"pitch"`
}

// FetchConfig holds page fetcher settings.
type FetchConfig struct {
	TimeoutSec  int    `yaml:"timeout_sec"`
	UserAgent   string `yaml:"user_agent"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	Workers int `yaml:"workers"` // parallel per-posting composition; 1 = sequential
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
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Two LLM round trips per posting; give responses room to finish.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.ComposeTemperature <= 0 {
		c.LLM.ComposeTemperature = 0.7
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.LLM.APIKey
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.LLM.BaseURL
	}
	if c.Catalog.TopK <= 0 {
		c.Catalog.TopK = 2
	}
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 30
	}
	if c.Fetch.CacheTTLSec <= 0 {
		c.Fetch.CacheTTLSec = 3600
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Sender.Name == "" || c.Sender.Company == "" {
		return fmt.Errorf("sender.name and sender.company are required")
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
