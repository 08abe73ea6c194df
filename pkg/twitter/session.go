package twitter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tweetexport/pkg/auth"
	"tweetexport/pkg/logger"
)

// ErrNotAuthenticated is returned by Session.Require when the credentials
// could not be verified
var ErrNotAuthenticated = errors.New("not authenticated by Twitter")

// Identity is the account the credentials act for
type Identity struct {
	ID         string
	Name       string
	ScreenName string
}

// Session is an authenticated client plus the outcome of the identity check.
// An unverified session is still usable; later calls fail on their own if
// the credentials are really bad.
type Session struct {
	Client    *Client
	Identity  *Identity
	Verified  bool
	VerifyErr error
}

// Authenticate builds a signed client and checks the credentials against
// verify_credentials. Only unusable input is returned as an error;
// a failed check is recorded on the session.
func Authenticate(ctx context.Context, creds *auth.Credentials, opts ClientOptions) (*Session, error) {
	client, err := NewClient(creds, opts)
	if err != nil {
		return nil, err
	}

	session := &Session{Client: client}
	identity, err := client.VerifyCredentials(ctx)
	if err != nil {
		session.VerifyErr = err
		logger.LogAuthentication(client.logger, "", err)
		return session, nil
	}

	session.Identity = identity
	session.Verified = true
	logger.LogAuthentication(client.logger, identity.ScreenName, nil)
	return session, nil
}

// Require returns ErrNotAuthenticated unless the identity check succeeded
func (s *Session) Require() error {
	if s.Verified {
		return nil
	}
	if s.VerifyErr != nil {
		return fmt.Errorf("%w: %w", ErrNotAuthenticated, s.VerifyErr)
	}
	return ErrNotAuthenticated
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
