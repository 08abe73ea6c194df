package auth

import (
	"os"
)

// Environment variables read by EnvironmentStore
const (
	EnvConsumerKey       = "TWEETEXPORT_CONSUMER_KEY"
	EnvConsumerSecret    = "TWEETEXPORT_CONSUMER_SECRET"
	EnvAccessToken       = "TWEETEXPORT_ACCESS_TOKEN"
	EnvAccessTokenSecret = "TWEETEXPORT_ACCESS_TOKEN_SECRET"
)

// EnvironmentStore implements Store using environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string {
	return "environment"
}

// Load reads the four TWEETEXPORT_* variables. When none is set the
// credentials are reported as not found; a partial set is returned as is so
// Load can name the missing fields.
func (e *EnvironmentStore) Load(string) (*Credentials, error) {
	creds := &Credentials{
		ConsumerKey:       os.Getenv(EnvConsumerKey),
		ConsumerSecret:    os.Getenv(EnvConsumerSecret),
		AccessToken:       os.Getenv(EnvAccessToken),
		AccessTokenSecret: os.Getenv(EnvAccessTokenSecret),
	}

	if *creds == (Credentials{}) {
		return nil, ErrCredentialsNotFound
	}
	return creds, nil
}

// Save is not supported for environment variables
func (e *EnvironmentStore) Save(string, *Credentials) error {
	return ErrStoreUnavailable
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(string) error {
	return ErrStoreUnavailable
}
