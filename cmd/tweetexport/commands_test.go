package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetexport/pkg/auth"
	"tweetexport/pkg/twitter"
)

// resetFlags puts every flag of cmd and its children back to its default so
// consecutive executions of rootCmd do not see each other's values
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// cliDir runs the test from an empty working directory and home so no
// config, .env or credentials file of the machine is picked up
func cliDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	return dir
}

func executeCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	rootCmd.SetArgs(rewriteArgs(rootCmd, args))
	return rootCmd.ExecuteContext(context.Background())
}

func TestSearchCommandLine(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		verifyStatus int
		wantQuery    string
		wantLang     string
		wantRows     int
		wantErr      error
		wantErrText  string
		wantRequests int32
	}{
		{
			name:      "legacy -rt False excludes retweets",
			args:      []string{"-q", "golang", "-n", "2", "-rt", "False", "-l", "de"},
			wantQuery: "golang -filter:retweets",
			wantLang:  "de",
			wantRows:  2,
		},
		{
			name:      "legacy -rt=true includes retweets",
			args:      []string{"-q", "golang", "-n", "3", "-rt=true"},
			wantQuery: "golang",
			wantLang:  "en",
			wantRows:  3,
		},
		{
			name:      "explicit search command",
			args:      []string{"search", "--query", "golang", "--number", "1", "--retweets", "--language", "fr"},
			wantQuery: "golang",
			wantLang:  "fr",
			wantRows:  1,
		},
		{
			name:        "unparseable -rt value",
			args:        []string{"-q", "golang", "-n", "2", "-rt", "maybe"},
			wantErrText: `invalid argument "maybe"`,
		},
		{
			name:        "missing number",
			args:        []string{"-q", "golang"},
			wantErrText: `required flag(s) "number" not set`,
		},
		{
			name:         "strict auth aborts after the identity check",
			args:         []string{"-q", "golang", "-n", "2", "--strict-auth"},
			verifyStatus: http.StatusUnauthorized,
			wantErr:      twitter.ErrNotAuthenticated,
			wantRequests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := cliDir(t)
			captureUI(t)

			api := &fakeAPI{verifyStatus: tt.verifyStatus, statuses: 5}
			server := httptest.NewServer(api.handler())
			defer server.Close()
			t.Setenv("TWEETEXPORT_API_BASE_URL", server.URL+"/1.1/")

			creds := filepath.Join(dir, "keys.json")
			out := filepath.Join(dir, "out.csv")
			writeCredentials(t, creds)

			args := append(tt.args, "-o", out, "--credentials", creds, "--log-level", "disabled")
			err := executeCLI(t, args...)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantQuery, api.lastQuery)
				assert.Equal(t, tt.wantLang, api.lastLang)
				assert.Len(t, readRows(t, out), tt.wantRows)
				return
			}

			assert.Equal(t, tt.wantRequests, atomic.LoadInt32(&api.requests))
			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "no output file on failure")
		})
	}
}

func TestAuthVerifyCommand(t *testing.T) {
	tests := []struct {
		name         string
		verifyStatus int
		wantErr      error
		wantStdout   string
		wantStderr   string
	}{
		{
			name:       "verified",
			wantStdout: "Authenticated as Test User",
		},
		{
			name:         "rejected",
			verifyStatus: http.StatusUnauthorized,
			wantErr:      twitter.ErrNotAuthenticated,
			wantStderr:   notAuthenticatedWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := cliDir(t)
			stdout, stderr := captureUI(t)

			api := &fakeAPI{verifyStatus: tt.verifyStatus}
			server := httptest.NewServer(api.handler())
			defer server.Close()
			t.Setenv("TWEETEXPORT_API_BASE_URL", server.URL+"/1.1/")

			creds := filepath.Join(dir, "keys.json")
			writeCredentials(t, creds)

			err := executeCLI(t, "auth", "verify", "--credentials", creds, "--log-level", "disabled")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantStdout != "" {
				assert.Contains(t, stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
			assert.Equal(t, int32(1), atomic.LoadInt32(&api.requests))
		})
	}
}

func TestAuthLoginCommand(t *testing.T) {
	dir := cliDir(t)
	stdout, _ := captureUI(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = stdin
		r.Close()
	})
	_, err = w.WriteString("consumerkey-1234567\nconsumersecret-7654321\naccesstoken-1111111\naccesssecret-2222222\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	creds := filepath.Join(dir, "keys.json")
	require.NoError(t, executeCLI(t, "auth", "login", "--credentials", creds))

	saved, err := auth.NewFileStore(creds).Load("")
	require.NoError(t, err)
	assert.Equal(t, "accesssecret-2222222", saved.AccessTokenSecret)

	assert.Contains(t, stdout.String(), "TWITTER API KEYS GUIDE")
	assert.Contains(t, stdout.String(), "Summary:")
	assert.Contains(t, stdout.String(), "cons...4567")
	assert.Contains(t, stdout.String(), "tweetexport auth verify")
	assert.NotContains(t, stdout.String(), "consumerkey-1234567")
}

func TestAuthStatusAndLogout(t *testing.T) {
	dir := cliDir(t)
	stdout, stderr := captureUI(t)

	creds := filepath.Join(dir, "keys.json")
	require.NoError(t, auth.NewFileStore(creds).Save("", &auth.Credentials{
		ConsumerKey:       "consumerkey-1234567",
		ConsumerSecret:    "consumersecret-7654321",
		AccessToken:       "accesstoken-1111111",
		AccessTokenSecret: "accesssecret-2222222",
	}))

	require.NoError(t, executeCLI(t, "auth", "status", "--credentials", creds))
	assert.Contains(t, stdout.String(), "cons...4567")
	assert.NotContains(t, stdout.String(), "consumerkey-1234567")
	assert.Contains(t, stdout.String(), creds)

	require.NoError(t, executeCLI(t, "auth", "logout", "--credentials", creds))
	assert.Contains(t, stdout.String(), "Credentials removed")
	_, err := os.Stat(creds)
	assert.True(t, os.IsNotExist(err))

	err = executeCLI(t, "auth", "logout", "--credentials", creds)
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	require.NoError(t, executeCLI(t, "auth", "status", "--credentials", creds))
	assert.Contains(t, stderr.String(), "No credentials stored")
}

func TestConfigValidateCommand(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		noFile      bool
		wantErrText string
	}{
		{
			name:    "valid file",
			content: "output:\n  file: golang.csv\nsearch:\n  language: de\n",
		},
		{
			name:        "page size out of range",
			content:     "twitter:\n  page_size: 500\n",
			wantErrText: "page size must be between 1 and 100",
		},
		{
			name:        "unknown credential source",
			content:     "credentials:\n  source: vault\n",
			wantErrText: `invalid credential source "vault"`,
		},
		{
			name:        "broken yaml",
			content:     "twitter: [\n",
			wantErrText: "failed to parse config file",
		},
		{
			name:        "no file",
			noFile:      true,
			wantErrText: "no configuration file found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := cliDir(t)
			stdout, _ := captureUI(t)

			args := []string{"config", "validate"}
			if !tt.noFile {
				path := filepath.Join(dir, "custom.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
				args = append(args, "--config", path)
			}

			err := executeCLI(t, args...)
			if tt.wantErrText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "Configuration is valid")
			assert.Contains(t, stdout.String(), "Output file: golang.csv")
			assert.Contains(t, stdout.String(), "Language: de")
		})
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := cliDir(t)
	stdout, _ := captureUI(t)
	path := filepath.Join(dir, "tweetexport.yaml")

	require.NoError(t, executeCLI(t, "config", "init", "--config", path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, exampleConfig, string(data))

	err = executeCLI(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, executeCLI(t, "config", "validate", "--config", path))

	stdout.Reset()
	require.NoError(t, executeCLI(t, "config", "show", "--config", path, "--log-level", "debug"))
	assert.Contains(t, stdout.String(), "level: debug")
	assert.Contains(t, stdout.String(), "Configuration file: "+path)
}
