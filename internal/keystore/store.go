// Package keystore caches entered credentials between setup runs.
//
// The cache lives in the user config directory, sealed with a locally
// generated passphrase. It only pre-fills prompts on later runs — the
// plaintext secrets file in the project stays the single source the
// application reads.
package keystore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"quizsetup/internal/fsutil"
	"quizsetup/internal/logging"
)

const (
	credentialsFile = "credentials.enc"
	passphraseFile  = "passphrase"
)

// Store is an encrypted name→value credential cache
type Store struct {
	dir    string
	key    [KeySize]byte
	logger *logging.Logger
}

// Open opens (or initializes) the credential cache in dir
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	passphrase, err := loadOrGeneratePassphrase(filepath.Join(dir, passphraseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load passphrase: %w", err)
	}

	return &Store{
		dir:    dir,
		key:    DeriveKey(passphrase),
		logger: logger,
	}, nil
}

// Remember stores a credential under name
func (s *Store) Remember(name, value string) error {
	creds, err := s.load()
	if err != nil {
		return err
	}

	creds[name] = value
	if err := s.save(creds); err != nil {
		return err
	}

	s.logger.Info("keystore.stored", "Credential remembered", map[string]interface{}{
		"name": name,
	})
	return nil
}

// Recall retrieves a previously remembered credential
func (s *Store) Recall(name string) (string, bool, error) {
	creds, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := creds[name]
	return value, ok, nil
}

// Forget removes a credential. Removing an unknown name is not an error.
func (s *Store) Forget(name string) error {
	creds, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := creds[name]; !ok {
		return nil
	}

	delete(creds, name)
	return s.save(creds)
}

func (s *Store) credentialsPath() string {
	return filepath.Join(s.dir, credentialsFile)
}

func (s *Store) load() (map[string]string, error) {
	encrypted, err := os.ReadFile(s.credentialsPath()) // #nosec G304 -- path is inside the controlled keystore dir
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	plaintext, err := Decrypt(encrypted, &s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential cache: %w", err)
	}

	var creds map[string]string
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

func (s *Store) save(creds map[string]string) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	encrypted, err := Encrypt(plaintext, &s.key)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	return fsutil.AtomicWriteFile(s.credentialsPath(), encrypted, 0o600, s.logger)
}

// loadOrGeneratePassphrase loads passphrase from file or generates a new one
func loadOrGeneratePassphrase(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is inside the controlled keystore dir
	if err == nil {
		return string(data), nil
	}

	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}

	passphrase, err := generatePassphrase()
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}

	if err := os.WriteFile(path, []byte(passphrase), 0o600); err != nil {
		return "", fmt.Errorf("failed to write passphrase: %w", err)
	}

	return passphrase, nil
}

// generatePassphrase generates a random hex passphrase
func generatePassphrase() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", bytes), nil
}
