package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/chacha20poly1305"

	"pbsms/internal/domain"
)

// KeyringService is the keyring service name the master key is filed under.
const KeyringService = "pbsms"

var (
	errNoMasterKey = errors.New("no master key in OS keyring (key was stored by another user or machine)")
	errShortBlob   = errors.New("encrypted blob too short")
)

// KeyringCipher seals secrets with a master key held in the OS keyring.
type KeyringCipher struct {
	service string
	account string
}

// NewKeyringCipher returns a cipher scoped to the current OS user.
func NewKeyringCipher() *KeyringCipher {
	return &KeyringCipher{service: KeyringService, account: currentUsername()}
}

// Seal encrypts plaintext, creating the master key on first use.
func (c *KeyringCipher) Seal(plaintext []byte) ([]byte, error) {
	key, err := c.masterKey(true)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func (c *KeyringCipher) Open(blob []byte) ([]byte, error) {
	key, err := c.masterKey(false)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, errShortBlob
	}
	nonce, ct := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, errWrongKey
	}
	return pt, nil
}

// masterKey fetches the key from the keyring, generating it when create is set.
func (c *KeyringCipher) masterKey(create bool) ([]byte, error) {
	enc, err := keyring.Get(c.service, c.account)
	switch {
	case err == nil:
		key, err := base64.StdEncoding.DecodeString(enc)
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("master key in OS keyring is malformed")
		}
		return key, nil
	case errors.Is(err, keyring.ErrNotFound) && !create:
		return nil, errNoMasterKey
	case errors.Is(err, keyring.ErrNotFound):
	default:
		return nil, fmt.Errorf("reading OS keyring: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := keyring.Set(c.service, c.account, base64.StdEncoding.EncodeToString(key)); err != nil {
		Wipe(key)
		return nil, fmt.Errorf("writing OS keyring: %w", err)
	}
	return key, nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// Compile-time assertion that KeyringCipher implements domain.SecretCipher.
var _ domain.SecretCipher = (*KeyringCipher)(nil)
