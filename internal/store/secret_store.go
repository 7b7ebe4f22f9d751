package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"pbsms/internal/crypto"
	"pbsms/internal/domain"
)

// SettingsFile is the name of the encrypted key file inside the store directory.
const SettingsFile = "settings.dat"

// SecretFileStore persists the encrypted API key to disk.
type SecretFileStore struct {
	dir    string
	cipher domain.SecretCipher
	mu     sync.Mutex
}

// NewSecretFileStore returns a SecretFileStore rooted at dir.
func NewSecretFileStore(dir string, cipher domain.SecretCipher) *SecretFileStore {
	return &SecretFileStore{dir: dir, cipher: cipher}
}

// Path returns the location of the encrypted key file.
func (s *SecretFileStore) Path() string {
	return filepath.Join(s.dir, SettingsFile)
}

// Save encrypts key and writes it, replacing any previous value.
func (s *SecretFileStore) Save(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := []byte(key)
	defer crypto.Wipe(raw)

	blob, err := s.cipher.Seal(raw)
	if err != nil {
		return &domain.StorageError{Op: "encrypt", Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return &domain.StorageError{Op: "create directory", Err: err}
	}
	if err := writeFile(s.Path(), blob, 0o600); err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}
	return nil
}

// Load reads and decrypts the stored key.
func (s *SecretFileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := readFile(s.Path())
	if err != nil {
		return "", &domain.StorageError{Op: "read", Err: err}
	}
	if !ok {
		return "", domain.ErrNotConfigured
	}
	raw, err := s.cipher.Open(blob)
	if err != nil {
		return "", &domain.StorageError{Op: "decrypt", Err: err}
	}
	defer crypto.Wipe(raw)
	return string(raw), nil
}

// Delete removes the stored key and reports whether one existed. An empty
// store directory is removed afterwards on a best-effort basis.
func (s *SecretFileStore) Delete() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "delete", Err: err}
	}
	removeIfEmpty(s.dir)
	return true, nil
}

// Compile-time assertion that SecretFileStore implements domain.SecretStore.
var _ domain.SecretStore = (*SecretFileStore)(nil)
