package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix shared by every environment variable the exporter reads
const EnvPrefix = "TWEETEXPORT_"

// Credential sources understood by the auth package
const (
	SourceFile      = "file"
	SourceEncrypted = "encrypted"
	SourceKeyring   = "keyring"
	SourceEnv       = "env"
)

// Config holds all configuration options for the exporter
type Config struct {
	// Twitter API client settings
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Where the four OAuth secrets come from
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Search defaults
	Search SearchConfig `yaml:"search" json:"search"`

	// Output file settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter API client configuration
type TwitterConfig struct {
	APIBaseURL      string        `yaml:"api_base_url" json:"api_base_url"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries      int           `yaml:"max_retries" json:"max_retries"`
	PageSize        int           `yaml:"page_size" json:"page_size"`
	RequireVerified bool          `yaml:"require_verified" json:"require_verified"`
}

// CredentialsConfig selects the credential store
type CredentialsConfig struct {
	Source        string `yaml:"source" json:"source"`
	File          string `yaml:"file" json:"file"`
	EncryptedFile string `yaml:"encrypted_file" json:"encrypted_file"`
	Account       string `yaml:"account" json:"account"`
}

// SearchConfig holds the defaults for a search run
type SearchConfig struct {
	Language        string `yaml:"language" json:"language"`
	Number          int    `yaml:"number" json:"number"`
	IncludeRetweets bool   `yaml:"include_retweets" json:"include_retweets"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	File       string `yaml:"file" json:"file"`
	TimeFormat string `yaml:"time_format" json:"time_format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			APIBaseURL:      "https://api.twitter.com/1.1/",
			Timeout:         30 * time.Second,
			MaxRetries:      0,
			PageSize:        100,
			RequireVerified: false,
		},
		Credentials: CredentialsConfig{
			Source:        SourceFile,
			File:          "credentials.json",
			EncryptedFile: "",
			Account:       "default",
		},
		Search: SearchConfig{
			Language:        "en",
			Number:          10,
			IncludeRetweets: false,
		},
		Output: OutputConfig{
			File:       "tweets.csv",
			TimeFormat: "2006-01-02 15:04:05",
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "API_BASE_URL"); v != "" {
		c.Twitter.APIBaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Twitter.Timeout = d
		}
	}
	if v := os.Getenv(EnvPrefix + "MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sMAX_RETRIES: %w", EnvPrefix, err))
		} else {
			c.Twitter.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvPrefix + "REQUIRE_VERIFIED"); v != "" {
		c.Twitter.RequireVerified = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(EnvPrefix + "CREDENTIAL_SOURCE"); v != "" {
		c.Credentials.Source = v
	}
	if v := os.Getenv(EnvPrefix + "CREDENTIALS_FILE"); v != "" {
		c.Credentials.File = v
	}
	if v := os.Getenv(EnvPrefix + "ACCOUNT"); v != "" {
		c.Credentials.Account = v
	}

	if v := os.Getenv(EnvPrefix + "LANGUAGE"); v != "" {
		c.Search.Language = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in the standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"tweetexport.yaml",
		".tweetexport.yaml",
		".tweetexport.yml",
		filepath.Join(home, ".config", "tweetexport", "config.yaml"),
		filepath.Join(home, ".tweetexport.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.APIBaseURL == "" {
		errs = append(errs, errors.New("twitter API base URL is required"))
	}
	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("twitter timeout must be positive"))
	}
	if c.Twitter.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Twitter.PageSize < 1 || c.Twitter.PageSize > 100 {
		errs = append(errs, errors.New("page size must be between 1 and 100"))
	}

	switch strings.ToLower(c.Credentials.Source) {
	case SourceFile:
		if c.Credentials.File == "" {
			errs = append(errs, errors.New("credentials file is required for the file source"))
		}
	case SourceEncrypted, SourceKeyring, SourceEnv:
	default:
		errs = append(errs, fmt.Errorf("invalid credential source %q", c.Credentials.Source))
	}

	if c.Search.Number < 0 {
		errs = append(errs, errors.New("number of tweets cannot be negative"))
	}
	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
	}
	if c.Output.TimeFormat == "" {
		errs = append(errs, errors.New("time format is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges explicitly set command line flags into the configuration.
// Keys follow the long flag names of the CLI.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output_file"].(string); ok && v != "" {
		c.Output.File = v
	}
	if v, ok := flags["language"].(string); ok && v != "" {
		c.Search.Language = v
	}
	if v, ok := flags["number"].(int); ok {
		c.Search.Number = v
	}
	if v, ok := flags["retweets"].(bool); ok {
		c.Search.IncludeRetweets = v
	}
	if v, ok := flags["credentials"].(string); ok && v != "" {
		c.Credentials.File = v
	}
	if v, ok := flags["credential-source"].(string); ok && v != "" {
		c.Credentials.Source = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Credentials.Account = v
	}
	if v, ok := flags["strict-auth"].(bool); ok {
		c.Twitter.RequireVerified = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetexport.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
