package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"tweetexport/pkg/config"
)

// Credentials holds the four OAuth 1.0a secrets of a Twitter app/user pair
type Credentials struct {
	ConsumerKey       string `json:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

// Validate reports which of the four required fields are missing
func (c *Credentials) Validate() error {
	if c == nil {
		return ErrIncompleteCredentials
	}

	var missing []string
	if c.ConsumerKey == "" {
		missing = append(missing, "consumer_key")
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, "consumer_secret")
	}
	if c.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if c.AccessTokenSecret == "" {
		missing = append(missing, "access_token_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Store is the interface for loading and saving credentials.
// account selects an entry in stores that hold more than one set; single-set
// stores ignore it.
type Store interface {
	// Name describes the store for user-facing messages
	Name() string

	// Load returns the credentials or an error wrapping ErrCredentialsNotFound
	Load(account string) (*Credentials, error)

	// Save persists the credentials
	Save(account string, creds *Credentials) error

	// Delete removes the credentials
	Delete(account string) error
}

// Load reads credentials from store and checks that all four fields are present.
// There is no fallback to other stores: a missing entry is reported as is.
func Load(store Store, account string) (*Credentials, error) {
	creds, err := store.Load(account)
	if err != nil {
		return nil, err
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", store.Name(), err)
	}
	return creds, nil
}

// NewStore builds the store selected by the configuration
func NewStore(cfg *config.CredentialsConfig) (Store, error) {
	switch strings.ToLower(cfg.Source) {
	case config.SourceFile, "":
		return NewFileStore(cfg.File), nil
	case config.SourceEncrypted:
		path := cfg.EncryptedFile
		if path == "" {
			dir, err := getConfigDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get config directory: %w", err)
			}
			path = filepath.Join(dir, "credentials.enc")
		}
		return NewEncryptedFileStore(path)
	case config.SourceKeyring:
		return NewKeyringStore(), nil
	case config.SourceEnv:
		return NewEnvironmentStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential source %q", cfg.Source)
	}
}

// getConfigDir returns the per-user configuration directory
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "tweetexport")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "tweetexport")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "tweetexport")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "tweetexport")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize returns a copy of the credentials with every secret masked
func Sanitize(c *Credentials) *Credentials {
	if c == nil {
		return nil
	}

	return &Credentials{
		ConsumerKey:       maskString(c.ConsumerKey),
		ConsumerSecret:    maskString(c.ConsumerSecret),
		AccessToken:       maskString(c.AccessToken),
		AccessTokenSecret: maskString(c.AccessTokenSecret),
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound   = errors.New("credentials not found")
	ErrIncompleteCredentials = errors.New("incomplete credentials")
	ErrStoreUnavailable      = errors.New("credential store unavailable")
)
