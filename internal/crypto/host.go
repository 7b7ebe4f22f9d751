package crypto

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"pbsms/internal/domain"
)

const saltSize = 16

var (
	// Returned when the blob was sealed under another identity or has been modified.
	errWrongKey = errors.New("stored key was sealed for another user or machine")
)

// machineIDPaths are tried in order; the hostname is used when none exist.
var machineIDPaths = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

// HostIdentity is the user/machine pair a HostCipher key is bound to.
type HostIdentity struct {
	MachineID string
	User      string
}

// CurrentHost returns the identity of the running user on this machine.
func CurrentHost() (HostIdentity, error) {
	id := HostIdentity{User: currentUsername()}
	for _, p := range machineIDPaths {
		if b, err := os.ReadFile(p); err == nil && len(bytes.TrimSpace(b)) > 0 {
			id.MachineID = string(bytes.TrimSpace(b))
			return id, nil
		}
	}
	host, err := os.Hostname()
	if err != nil {
		return HostIdentity{}, err
	}
	id.MachineID = host
	return id, nil
}

// HostCipher seals secrets under a key derived from a HostIdentity.
//
// The identity is public (machine id and user name), so the blob resists
// casual reading only. Confidentiality rests on the 0600 mode of the file it
// is written to; a copy of the file can be opened by anyone who knows both
// values.
type HostCipher struct {
	secret []byte
}

// NewHostCipher returns a cipher bound to id.
func NewHostCipher(id HostIdentity) *HostCipher {
	return &HostCipher{secret: []byte("pbsms\x00" + id.MachineID + "\x00" + id.User)}
}

// Seal derives a salt-bound key and seals plaintext. The blob is salt || ciphertext.
func (c *HostCipher) Seal(plaintext []byte) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	aead, err := c.aead(salt[:])
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key guarantees uniqueness
	return aead.Seal(salt[:], nonce[:], plaintext, salt[:]), nil
}

// Open reverses Seal.
func (c *HostCipher) Open(blob []byte) ([]byte, error) {
	if len(blob) < saltSize+chacha20poly1305.Overhead {
		return nil, errShortBlob
	}
	salt, ct := blob[:saltSize], blob[saltSize:]
	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], ct, salt)
	if err != nil {
		return nil, errWrongKey
	}
	return pt, nil
}

func (c *HostCipher) aead(salt []byte) (cipher.AEAD, error) {
	N, r, p := scryptParamsDefault()
	key, err := scrypt.Key(c.secret, salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)
	return chacha20poly1305.New(key)
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// Compile-time assertion that HostCipher implements domain.SecretCipher.
var _ domain.SecretCipher = (*HostCipher)(nil)
