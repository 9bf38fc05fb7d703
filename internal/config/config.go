package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "sift.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Planner PlannerConfig `yaml:"planner,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Logging LoggingConfig `yaml:"logging"`

	path string
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	Path string `yaml:"path"`
	// MaintenanceSchedule is a 5 or 6 field cron expression. Empty disables maintenance.
	MaintenanceSchedule string `yaml:"maintenance_schedule,omitempty"`
	// RetentionDays prunes older evaluations during maintenance. Zero keeps everything.
	RetentionDays int `yaml:"retention_days,omitempty"`
}

// SearchEngineConfig configures a single search engine.
type SearchEngineConfig struct {
	Name     string                 `yaml:"name"`
	Type     string                 `yaml:"type"`
	APIKey   string                 `yaml:"api_key,omitempty"`
	BaseURL  string                 `yaml:"base_url,omitempty"`
	Enabled  bool                   `yaml:"enabled"`
	Priority int                    `yaml:"priority"`
	Options  map[string]interface{} `yaml:"options,omitempty"`
}

type SearchConfig struct {
	PrimaryEngine     string               `yaml:"primary_engine"`
	MaxResults        int                  `yaml:"max_results"`
	MaxCharsPerResult int                  `yaml:"max_chars_per_result"`
	RateLimit         float64              `yaml:"rate_limit,omitempty"` // requests per second, 0 = unlimited
	RateBurst         int                  `yaml:"rate_burst,omitempty"`
	Engines           []SearchEngineConfig `yaml:"engines"`
}

// PlannerConfig selects the model used to expand agentic objectives into queries.
type PlannerConfig struct {
	Provider   string `yaml:"provider,omitempty"` // "openai" or "anthropic"
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Model      string `yaml:"model,omitempty"`
	MaxQueries int    `yaml:"max_queries,omitempty"`
}

type UIConfig struct {
	// APIBaseURL is the backend the pages talk to. Empty means this process.
	APIBaseURL string `yaml:"api_base_url,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Storage: StorageConfig{
			Path:                "data/sift.db",
			MaintenanceSchedule: "0 3 * * *",
		},
		Search: SearchConfig{
			PrimaryEngine:     "parallel",
			MaxResults:        10,
			MaxCharsPerResult: 10000,
			RateLimit:         2,
			RateBurst:         5,
			Engines: []SearchEngineConfig{
				{
					Name:     "parallel",
					Type:     "parallel",
					Enabled:  true,
					Priority: 1,
				},
				{
					Name:     "tavily",
					Type:     "tavily",
					Enabled:  true,
					Priority: 2,
				},
			},
		},
		Planner: PlannerConfig{
			MaxQueries: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config at DefaultPath.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath)
}

// LoadFromPath reads a YAML config over the defaults. A missing file yields
// the defaults. Environment overrides are applied last.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SIFT_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("SIFT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	c.setEngineKey("parallel", os.Getenv("PARALLEL_API_KEY"))
	c.setEngineKey("tavily", os.Getenv("TAVILY_API_KEY"))

	if c.Planner.APIKey == "" {
		switch strings.ToLower(c.Planner.Provider) {
		case "openai":
			c.Planner.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			c.Planner.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

// setEngineKey fills the API key of every engine of the given type that has none.
func (c *Config) setEngineKey(engineType, key string) {
	if key == "" {
		return
	}
	for i := range c.Search.Engines {
		if c.Search.Engines[i].Type == engineType && c.Search.Engines[i].APIKey == "" {
			c.Search.Engines[i].APIKey = key
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive")
	}
	switch strings.ToLower(c.Planner.Provider) {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown planner provider %q", c.Planner.Provider)
	}
	return nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath
	}
	return c.path
}

func (c *Config) Save() error {
	path := c.Path()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
