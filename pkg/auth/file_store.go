package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore reads credentials from a plain JSON file such as credentials.json:
//
//	{
//	  "consumer_key": "...",
//	  "consumer_secret": "...",
//	  "access_token": "...",
//	  "access_token_secret": "..."
//	}
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Name() string {
	return "file " + f.path
}

// Path returns the location of the credentials file
func (f *FileStore) Path() string {
	return f.path
}

// Load parses the credentials file; account is ignored
func (f *FileStore) Load(string) (*Credentials, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, f.path)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", f.path, err)
	}
	return &creds, nil
}

// Save writes the credentials file with owner-only permissions
func (f *FileStore) Save(_ string, creds *Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return os.Rename(tempFile, f.path)
}

// Delete removes the credentials file
func (f *FileStore) Delete(string) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, f.path)
	}
	return err
}
