package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tweetexport/pkg/auth"
	"tweetexport/pkg/logger"
	"tweetexport/pkg/twitter"
	"tweetexport/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Twitter API credentials",
	Long: `Manage the four OAuth 1.0a secrets used to sign API requests.

Credentials are read from one source, selected with --credential-source or
credentials.source in the config file:
  - file       plain JSON file (default: credentials.json)
  - encrypted  AES-GCM encrypted file with PBKDF2 key derivation
  - keyring    system keychain
  - env        TWEETEXPORT_CONSUMER_KEY and friends

Never share your credentials or commit them to version control!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store Twitter API credentials",
	Long: `Prompt for the consumer key/secret and access token/secret of your
Twitter app and store them in the configured credential source.

Secrets are not echoed while you type.`,
	Example: `  # Write credentials.json in the current directory
  tweetexport auth login

  # Store them in the system keychain instead
  tweetexport auth login --credential-source keyring`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credentials, masked",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// verifyCmd represents the auth verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the credentials against Twitter",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(verifyCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := auth.NewStore(&cfg.Credentials)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	auth.ShowKeysGuide(ui.Writer())

	reader := bufio.NewReader(os.Stdin)
	if existing, _ := store.Load(cfg.Credentials.Account); existing != nil {
		fmt.Printf("⚠️  Credentials already exist in %s. Replace them? (y/N): ", store.Name())
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("\n🔐 Enter your keys (they will be hidden as you type):")
	fmt.Println()

	creds := &auth.Credentials{}
	prompts := []struct {
		label  string
		target *string
	}{
		{"API key (consumer_key)", &creds.ConsumerKey},
		{"API key secret (consumer_secret)", &creds.ConsumerSecret},
		{"Access token (access_token)", &creds.AccessToken},
		{"Access token secret (access_token_secret)", &creds.AccessTokenSecret},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		value, err := readSecret(reader)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p.label, err)
		}
		*p.target = value
	}

	if err := store.Save(cfg.Credentials.Account, creds); err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			return fmt.Errorf("%s is read-only, choose another --credential-source: %w", store.Name(), err)
		}
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	w := ui.Writer()
	fmt.Fprintln(w, "\n📋 Summary:")
	printMasked(auth.Sanitize(creds))
	ui.PrintSuccess("\nCredentials stored in " + store.Name())
	fmt.Fprintln(w, "\nCheck them with:")
	fmt.Fprintln(w, "  $ tweetexport auth verify")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := auth.NewStore(&cfg.Credentials)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	if err := store.Delete(cfg.Credentials.Account); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	ui.PrintSuccess("Credentials removed from " + store.Name())
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := auth.NewStore(&cfg.Credentials)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	ui.PrintInfo("Source", store.Name())
	creds, err := auth.Load(store, cfg.Credentials.Account)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No credentials stored")
			ui.PrintInfo("To add them, run", "tweetexport auth login")
			return nil
		}
		return err
	}

	printMasked(auth.Sanitize(creds))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	creds, _, err := loadCredentials(cfg)
	if err != nil {
		return err
	}

	session, err := twitter.Authenticate(cmd.Context(), creds, clientOptions(cfg, logger.GetLogger()))
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if !session.Verified {
		ui.PrintWarning(notAuthenticatedWarning)
		return session.Require()
	}

	ui.PrintSuccess("Authenticated as " + session.Identity.Name)
	ui.PrintInfo("Screen name", "@"+session.Identity.ScreenName)
	ui.PrintInfo("User ID", session.Identity.ID)
	return nil
}

func printMasked(c *auth.Credentials) {
	ui.PrintInfo("   Consumer key", c.ConsumerKey)
	ui.PrintInfo("   Consumer secret", c.ConsumerSecret)
	ui.PrintInfo("   Access token", c.AccessToken)
	ui.PrintInfo("   Access token secret", c.AccessTokenSecret)
}

// readSecret reads a line from stdin without echoing when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
