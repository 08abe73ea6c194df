package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tweetexport/pkg/config"
	"tweetexport/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tweetexport configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (TWEETEXPORT_*)
  - .env files (./.env and $HOME/.tweetexport.env)
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'tweetexport.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources.

Credentials are not part of the configuration and are never shown here;
use 'tweetexport auth status' for a masked view.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - The credential source`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# tweetexport configuration file
#
# Every option can also be set with an environment variable prefixed with
# TWEETEXPORT_, for example TWEETEXPORT_OUTPUT_FILE or TWEETEXPORT_LOG_LEVEL.

# Twitter API client
twitter:
  api_base_url: "https://api.twitter.com/1.1/"

  # Timeout of a single HTTP request
  timeout: 30s

  # Extra attempts on network faults and 5xx responses (rate limits are never retried)
  max_retries: 0

  # Tweets requested per search page, 1-100
  page_size: 100

  # Abort instead of warning when the credentials cannot be verified
  require_verified: false

# Where the four OAuth secrets are read from
credentials:
  # file, encrypted, keyring or env
  source: "file"

  # JSON file used by the file source
  file: "credentials.json"

  # Encrypted file used by the encrypted source
  # Leave empty for the per-user config directory
  encrypted_file: ""

  # Entry name in the keyring and encrypted sources
  account: "default"

# Search defaults
search:
  language: "en"
  number: 10
  include_retweets: false

# Output file
output:
  # Rows are appended, the file is never truncated
  file: "tweets.csv"

  # Go time layout of the timestamp column, always UTC
  time_format: "2006-01-02 15:04:05"

# Logging configuration
logging:
  # Log level: debug, info, warn, error, disabled
  level: "warn"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "tweetexport.yaml"
	}

	w := ui.Writer()
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(w, "\nTo overwrite, first remove the existing file:")
		fmt.Fprintf(w, "  rm %s\n", configPath)
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "1. Edit the configuration file")
	fmt.Fprintln(w, "2. Run 'tweetexport config validate' to check it")
	fmt.Fprintln(w, "3. Store your keys with 'tweetexport auth login'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	w := ui.Writer()
	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(w)
	fmt.Fprint(w, string(data))

	fmt.Fprintln(w, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(w, "1. Command line flags")
	fmt.Fprintln(w, "2. Environment variables (TWEETEXPORT_*)")
	fmt.Fprintln(w, "3. .env files")
	if path := configPathInUse(); path != "" {
		fmt.Fprintf(w, "4. Configuration file: %s\n", path)
	} else {
		fmt.Fprintln(w, "4. Configuration file: (none found)")
	}
	fmt.Fprintln(w, "5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPathInUse()
	if path == "" {
		return fmt.Errorf("no configuration file found, specify one with --config")
	}

	ui.PrintInfo("Validating configuration", path)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Credentials.Source == config.SourceFile {
		if _, err := os.Stat(cfg.Credentials.File); err != nil {
			ui.PrintWarning("Credentials file not found", cfg.Credentials.File)
		}
	}
	if cfg.Twitter.MaxRetries > 0 {
		ui.PrintWarning(fmt.Sprintf("max_retries is %d, failed requests will be repeated", cfg.Twitter.MaxRetries))
	}

	ui.PrintSuccess("Configuration is valid")

	w := ui.Writer()
	fmt.Fprintln(w, "\nConfiguration summary:")
	fmt.Fprintf(w, "  Credential source: %s\n", cfg.Credentials.Source)
	fmt.Fprintf(w, "  Output file: %s\n", cfg.Output.File)
	fmt.Fprintf(w, "  Language: %s\n", cfg.Search.Language)
	fmt.Fprintf(w, "  Timeout: %s\n", cfg.Twitter.Timeout)
	fmt.Fprintf(w, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// configPathInUse returns the --config path or the file config.Load would pick up
func configPathInUse() string {
	if configFile != "" {
		return configFile
	}
	return config.FindConfigFile()
}
