package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultAPIURL is the pricing backend the dashboard talks to when nothing else is configured
	DefaultAPIURL = "http://localhost:3000"

	// DefaultPageSize matches the page size of the web dashboard
	DefaultPageSize = 10

	// DefaultDebounce sits in the 300-500ms window used to throttle filter edits
	DefaultDebounce = 400 * time.Millisecond

	envAPIURL    = "PRICENEXUS_API_URL"
	envOpenAIKey = "OPENAI_API_KEY"
)

// Config holds every tunable of the CLI
type Config struct {
	APIURL    string        `yaml:"api_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RetryMax  int           `yaml:"retry_max"`
	PageSize  int           `yaml:"page_size"`
	Debounce  time.Duration `yaml:"debounce"`
	VaultPath string        `yaml:"vault_path"`
	LogLevel  string        `yaml:"log_level"`
	AWS       AWSConfig     `yaml:"aws"`
	AI        AIConfig      `yaml:"ai"`
}

// AWSConfig configures the AWS provider
type AWSConfig struct {
	Region string `yaml:"region"`
	// IMDS enables the EC2 instance metadata lookup while loading credentials
	IMDS bool `yaml:"imds"`
}

// AIConfig selects where AI recommendations come from
type AIConfig struct {
	Provider string `yaml:"provider"` // "backend" or "openai"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		Timeout:   30 * time.Second,
		RetryMax:  2,
		PageSize:  DefaultPageSize,
		Debounce:  DefaultDebounce,
		VaultPath: filepath.Join(defaultDir(), "vault.json"),
		LogLevel:  "warn",
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		AI: AIConfig{
			Provider: "backend",
			Model:    "gpt-4o-mini",
		},
	}
}

// DefaultPath returns the location of the optional config file
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pricenexus"
	}
	return filepath.Join(dir, "pricenexus")
}

// Load reads the YAML file at path on top of the defaults and applies environment overrides.
// A missing file is not an error unless the path was given explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file, defaults apply
	default:
		return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(envAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(envOpenAIKey); v != "" && c.AI.APIKey == "" {
		c.AI.APIKey = v
	}
}

// Validate checks the values that would otherwise fail far from where they were set
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", c.RetryMax)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	switch c.AI.Provider {
	case "backend", "openai":
	default:
		return fmt.Errorf("unknown ai.provider %q (valid: backend, openai)", c.AI.Provider)
	}
	return nil
}
