// Package config loads and persists repolens configuration from
// .repolens/config.json in the explored project.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// WorkDirName is the dotdir repolens keeps its state in
const WorkDirName = ".repolens"

// Config is the complete repolens configuration (v2 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Fetch    FetchConfig    `json:"fetch" mapstructure:"fetch"`
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Cache    CacheConfig    `json:"cache" mapstructure:"cache"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// FetchConfig configures remote content fetching
type FetchConfig struct {
	GithubAPIBase  string `json:"githubApiBase" mapstructure:"githubApiBase"`
	GithubTokenEnv string `json:"githubTokenEnv" mapstructure:"githubTokenEnv"`
	TimeoutMs      int    `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// AnalysisConfig configures the code analysis service
type AnalysisConfig struct {
	// Provider is "openai" or "local" (tree-sitter, no network)
	Provider  string `json:"provider" mapstructure:"provider"`
	Model     string `json:"model" mapstructure:"model"`
	BaseURL   string `json:"baseUrl" mapstructure:"baseUrl"`
	APIKeyEnv string `json:"apiKeyEnv" mapstructure:"apiKeyEnv"`
}

// CacheConfig configures cache TTLs; zero means no expiry
type CacheConfig struct {
	AnalysisTTLSeconds  int `json:"analysisTtlSeconds" mapstructure:"analysisTtlSeconds"`
	RelevanceTTLSeconds int `json:"relevanceTtlSeconds" mapstructure:"relevanceTtlSeconds"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 2,
		Fetch: FetchConfig{
			GithubAPIBase:  "https://api.github.com",
			GithubTokenEnv: "GITHUB_TOKEN",
			TimeoutMs:      30000,
		},
		Analysis: AnalysisConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Cache: CacheConfig{
			AnalysisTTLSeconds:  0, // content-addressed, safe to keep forever
			RelevanceTTLSeconds: 3600,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from <root>/.repolens/config.json, falling back
// to defaults when the file does not exist.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 2)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, WorkDirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <root>/.repolens/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, WorkDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Version != 2 {
		return &Error{Field: "version", Message: "unsupported config version"}
	}
	switch c.Analysis.Provider {
	case "openai", "local":
	default:
		return &Error{Field: "analysis.provider", Message: "must be openai or local"}
	}
	return nil
}

// Error represents a configuration error
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
