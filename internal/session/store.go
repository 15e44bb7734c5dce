package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CredentialStore persists the opaque session token across process restarts.
// The Manager is the only component that reads or writes it.
type CredentialStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)
	// Save persists the token, replacing any previous value.
	Save(token string) error
	// Clear removes the persisted token. Clearing an empty store is not an error.
	Clear() error
}

// credentialFile is the on-disk TOML shape.
type credentialFile struct {
	Token string `toml:"token"`
}

// FileStore keeps the credential in a TOML file under the user's state
// directory, created with owner-only permissions.
type FileStore struct {
	path string
}

// DefaultCredentialPath returns the standard session file location,
// ~/.local/state/gdpr-tool/session.toml, creating the directory if needed.
func DefaultCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "gdpr-tool")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.toml"), nil
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	var f credentialFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading credential file: %w", err)
	}
	return f.Token, nil
}

func (s *FileStore) Save(token string) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(credentialFile{Token: token})
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}
