package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tweetexport/pkg/config"
	"tweetexport/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile       string
	logLevel         string
	noColor          bool
	quiet            bool
	verbose          bool
	credentialsPath  string
	credentialSource string
	accountName      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tweetexport",
	Short: "Export tweets matching a search query to a CSV file",
	Long: `tweetexport searches Twitter for posts matching a query and appends one
CSV row per post to an output file.

Running it with flags and no command is the same as 'tweetexport search':

  tweetexport -q golang -n 50 -o golang.csv

Credentials are read from credentials.json in the working directory unless
another source is configured. See 'tweetexport auth --help'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor || os.Getenv("NO_COLOR") != "")
		ui.SetQuiet(quiet)
	},
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tweetexport %s\n", rootCmd.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default is ./tweetexport.yaml or $HOME/.tweetexport.yaml)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&quiet, "quiet", false, "suppress all output except warnings and errors")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log debug information to stderr")
	pf.StringVar(&credentialsPath, "credentials", "credentials.json", "path of the JSON credentials file")
	pf.StringVar(&credentialSource, "credential-source", config.SourceFile, "credential store: file, encrypted, keyring or env")
	pf.StringVar(&accountName, "account", "default", "account name in the keyring and encrypted stores")

	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`tweetexport {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// changedFlags collects the flags set explicitly on the command line,
// keyed by flag name, for config.MergeCommandLineFlags
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "bool":
			v, _ := strconv.ParseBool(f.Value.String())
			flags[f.Name] = v
		case "int":
			v, _ := strconv.Atoi(f.Value.String())
			flags[f.Name] = v
		default:
			flags[f.Name] = f.Value.String()
		}
	})

	if _, ok := flags["log-level"]; !ok {
		switch {
		case verbose:
			flags["log-level"] = "debug"
		case quiet:
			flags["log-level"] = "error"
		}
	}
	return flags
}

// loadConfig loads the configuration with the command's explicit flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
